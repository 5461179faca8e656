package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/medml/medcli/internal/client/models"
)

// MetricsBackend is the subset of the API client the dashboard reads.
type MetricsBackend interface {
	MetricsSummary(ctx context.Context) (*models.MetricsSummary, error)
	MetricsDaily(ctx context.Context, days int) (*models.DailySeries, error)
	DiagnosisDistribution(ctx context.Context) (*models.DiagnosisDistribution, error)
}

// Dashboard aggregates the three metrics endpoints.
type Dashboard struct {
	Summary      *models.MetricsSummary
	Daily        *models.DailySeries
	Distribution *models.DiagnosisDistribution
}

// DashboardService loads the dashboard.
type DashboardService struct {
	backend MetricsBackend
	days    int
}

// NewDashboardService returns a service loading the last days days of the
// daily series; 0 leaves the choice to the backend default.
func NewDashboardService(backend MetricsBackend, days int) *DashboardService {
	return &DashboardService{backend: backend, days: days}
}

// Load fetches the three metrics concurrently. The first failure cancels the
// other requests and is returned.
func (s *DashboardService) Load(ctx context.Context) (*Dashboard, error) {
	var d Dashboard
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		v, err := s.backend.MetricsSummary(ctx)
		if err != nil {
			return fmt.Errorf("metrics summary: %w", err)
		}
		d.Summary = v
		return nil
	})
	g.Go(func() error {
		v, err := s.backend.MetricsDaily(ctx, s.days)
		if err != nil {
			return fmt.Errorf("daily metrics: %w", err)
		}
		d.Daily = v
		return nil
	})
	g.Go(func() error {
		v, err := s.backend.DiagnosisDistribution(ctx)
		if err != nil {
			return fmt.Errorf("diagnosis distribution: %w", err)
		}
		d.Distribution = v
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}
