package api

import (
	"context"
	"net/http"
	"time"

	"github.com/medml/medcli/internal/client/models"
)

// DateLayout is the calendar date format the backend expects.
const DateLayout = "2006-01-02"

// ReportSummary fetches the aggregated report for [from, to].
func (c *Client) ReportSummary(ctx context.Context, from, to time.Time) (*models.ReportSummary, error) {
	var out models.ReportSummary
	req := Request{
		Method: http.MethodGet,
		Path:   "/api/v1/reports/summary/",
		Query: map[string]string{
			"start_date": from.Format(DateLayout),
			"end_date":   to.Format(DateLayout),
		},
	}
	if err := c.Do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
