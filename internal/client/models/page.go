package models

import "strconv"

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Page is the backend's paginated list envelope.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// HasNext reports whether another page follows.
func (p Page[T]) HasNext() bool { return p.Next != nil && *p.Next != "" }

// PageQuery selects a page. Zero values mean the defaults (1, 10).
type PageQuery struct {
	Page     int
	PageSize int
}

// Params renders the query as the page/page_size pair, applying defaults.
func (q PageQuery) Params() map[string]string {
	page, size := q.Page, q.PageSize
	if page < 1 {
		page = DefaultPage
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return map[string]string{
		"page":      strconv.Itoa(page),
		"page_size": strconv.Itoa(size),
	}
}
