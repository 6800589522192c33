package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lexledger/lexledger-api/internal/models"
	appErrors "github.com/lexledger/lexledger-api/pkg/errors"
)

const (
	dashboardRecentLimit   = 5
	DefaultDashboardPeriod = "30d"
)

// dashboardPeriods maps the accepted reporting windows to their lengths.
var dashboardPeriods = map[string]time.Duration{
	"7d":  7 * 24 * time.Hour,
	"30d": 30 * 24 * time.Hour,
	"90d": 90 * 24 * time.Hour,
	"1y":  365 * 24 * time.Hour,
}

type dashboardServiceRepository interface {
	StatusCounts(ctx context.Context) (models.StatusBreakdown, error)
	CategoryCounts(ctx context.Context) ([]models.CategoryCount, error)
	Recent(ctx context.Context, limit int) ([]models.Service, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)
}

type dashboardBundleRepository interface {
	StatusCounts(ctx context.Context) (models.StatusBreakdown, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)
}

// DashboardService aggregates catalog statistics for the admin dashboard.
type DashboardService struct {
	services dashboardServiceRepository
	bundles  dashboardBundleRepository
	logger   *zap.Logger
}

// NewDashboardService constructs a DashboardService instance.
func NewDashboardService(services dashboardServiceRepository, bundles dashboardBundleRepository, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{services: services, bundles: bundles, logger: logger}
}

// Stats collects the dashboard summary. The period selects the creation
// window for the new-record counts and accepts 7d, 30d, 90d or 1y; an empty
// period falls back to the default.
func (s *DashboardService) Stats(ctx context.Context, period string) (*models.DashboardStats, error) {
	if period == "" {
		period = DefaultDashboardPeriod
	}
	window, ok := dashboardPeriods[period]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown period %q", period))
	}

	serviceCounts, err := s.services.StatusCounts(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count services")
	}

	bundleCounts, err := s.bundles.StatusCounts(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count bundles")
	}

	categories, err := s.services.CategoryCounts(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load category counts")
	}

	recent, err := s.services.Recent(ctx, dashboardRecentLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load recent services")
	}

	now := time.Now().UTC()
	since := now.Add(-window)
	newServices, err := s.services.CountCreatedSince(ctx, since)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count new services")
	}
	newBundles, err := s.bundles.CountCreatedSince(ctx, since)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count new bundles")
	}

	return &models.DashboardStats{
		Services:       serviceCounts,
		Bundles:        bundleCounts,
		Categories:     categories,
		RecentServices: recent,
		Window: models.PeriodStats{
			Period:      period,
			Since:       since,
			NewServices: newServices,
			NewBundles:  newBundles,
		},
		GeneratedAt: now,
	}, nil
}
