package api

import (
	"context"
	"net/http"
)

type health struct {
	Status string `json:"status"`
}

// CheckHealth returns the backend status string ("ok" when healthy).
func (c *Client) CheckHealth(ctx context.Context) (string, error) {
	var out health
	if err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/api/v1/health/"}, &out); err != nil {
		return "", err
	}
	return out.Status, nil
}

// Ping reports whether the backend answered the health check.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.CheckHealth(ctx)
	return err
}
