package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/medml/medcli/internal/client/models"
)

// Daily series bounds as enforced by the backend.
const (
	DefaultDailyDays = 14
	MaxDailyDays     = 60
)

func (c *Client) MetricsSummary(ctx context.Context) (*models.MetricsSummary, error) {
	var out models.MetricsSummary
	if err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/api/v1/metrics/summary/"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MetricsDaily returns per-day prediction counts for the last days days.
// Values outside 1..MaxDailyDays are clamped; 0 means DefaultDailyDays.
func (c *Client) MetricsDaily(ctx context.Context, days int) (*models.DailySeries, error) {
	switch {
	case days == 0:
		days = DefaultDailyDays
	case days < 1:
		days = 1
	case days > MaxDailyDays:
		days = MaxDailyDays
	}
	var out models.DailySeries
	req := Request{Method: http.MethodGet, Path: "/api/v1/metrics/daily/", Query: map[string]string{"days": strconv.Itoa(days)}}
	if err := c.Do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DiagnosisDistribution(ctx context.Context) (*models.DiagnosisDistribution, error) {
	var out models.DiagnosisDistribution
	if err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/api/v1/metrics/diagnosis-distribution/"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
