package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/lexledger/lexledger-api/internal/models"
	appErrors "github.com/lexledger/lexledger-api/pkg/errors"
)

type bundleRepository interface {
	List(ctx context.Context, filter models.BundleFilter) ([]models.Bundle, int, error)
	FindByID(ctx context.Context, id string) (*models.Bundle, error)
	Create(ctx context.Context, bundle *models.Bundle) error
	Update(ctx context.Context, bundle *models.Bundle) error
	Delete(ctx context.Context, id string) error
}

// BundleListResult pairs a page of bundles with its pagination metadata.
type BundleListResult struct {
	Bundles    []models.Bundle   `json:"bundles"`
	Pagination models.Pagination `json:"pagination"`
}

// BundleService manages service bundles.
type BundleService struct {
	repo      bundleRepository
	cache     cacheStore
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	config    CatalogConfig
}

// NewBundleService constructs a BundleService instance. The cache is
// optional.
func NewBundleService(repo bundleRepository, cache cacheStore, validate *validator.Validate, logger *zap.Logger, config CatalogConfig) *BundleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &BundleService{repo: repo, cache: cache, validator: validate, logger: logger, config: config}
}

// WithMetrics attaches Prometheus instrumentation and returns the service.
func (s *BundleService) WithMetrics(metrics *MetricsService) *BundleService {
	s.metrics = metrics
	return s
}

func (s *BundleService) cacheEnabled() bool {
	return s.cache != nil && s.config.CacheEnabled
}

func (s *BundleService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, catalogCachePattern); err != nil {
		s.logger.Warn("failed to invalidate catalog cache", zap.Error(err))
	}
}

// List returns bundles matching the filter.
func (s *BundleService) List(ctx context.Context, filter models.BundleFilter) (*BundleListResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	if filter.Status != "" && filter.Status != string(models.StatusActive) && filter.Status != string(models.StatusInactive) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", filter.Status))
	}

	popular := ""
	if filter.Popular != nil {
		popular = fmt.Sprintf("%t", *filter.Popular)
	}
	cacheKey := fmt.Sprintf("catalog:bundles:list:%s:%s:%s:%d:%d:%s:%s",
		filter.Status, filter.Search, popular, filter.Page, filter.PageSize, filter.SortBy, filter.SortOrder)
	if s.cacheEnabled() {
		var cached BundleListResult
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			if s.metrics != nil {
				s.metrics.ObserveCacheHit()
			}
			return &cached, nil
		} else if errors.Is(err, appErrors.ErrCacheMiss) {
			if s.metrics != nil {
				s.metrics.ObserveCacheMiss()
			}
		} else {
			s.logger.Warn("catalog cache read failed", zap.Error(err))
		}
	}

	bundles, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list bundles")
	}

	result := &BundleListResult{
		Bundles: bundles,
		Pagination: models.Pagination{
			Page:       filter.Page,
			PageSize:   filter.PageSize,
			TotalCount: total,
		},
	}
	if s.cacheEnabled() {
		if err := s.cache.Set(ctx, cacheKey, result, s.config.CacheTTL); err != nil {
			s.logger.Warn("catalog cache write failed", zap.Error(err))
		}
	}
	return result, nil
}

// Get returns a single bundle.
func (s *BundleService) Get(ctx context.Context, id string) (*models.Bundle, error) {
	bundle, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "bundle not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load bundle")
	}
	return bundle, nil
}

// GetForm returns the text projection of a bundle for the admin edit form.
func (s *BundleService) GetForm(ctx context.Context, id string) (*models.BundleForm, error) {
	bundle, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	form := bundle.Form()
	return &form, nil
}

// Create validates and stores a new bundle.
func (s *BundleService) Create(ctx context.Context, req models.BundleCreateRequest) (*models.Bundle, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bundle payload")
	}

	status := req.Status
	if status == "" {
		status = models.StatusActive
	}

	bundle := &models.Bundle{
		Name:            req.Name,
		Description:     req.Description,
		LongDescription: req.LongDescription,
		Price:           req.Price,
		OriginalPrice:   req.OriginalPrice,
		Savings:         req.Savings,
		Duration:        req.Duration,
		Popular:         req.Popular,
		Icon:            req.Icon,
		Color:           req.Color,
		Features:        req.Features,
		Includes:        req.Includes,
		Process:         req.Process,
		Benefits:        req.Benefits,
		Status:          status,
	}
	if err := s.repo.Create(ctx, bundle); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create bundle")
	}

	s.invalidateCache(ctx)
	s.logger.Info("bundle created", zap.String("bundle_id", bundle.ID))
	return bundle, nil
}

// Update applies a partial update to an existing bundle.
func (s *BundleService) Update(ctx context.Context, id string, req models.BundleUpdateRequest) (*models.Bundle, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bundle payload")
	}

	bundle, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		bundle.Name = *req.Name
	}
	if req.Description != nil {
		bundle.Description = *req.Description
	}
	if req.LongDescription != nil {
		bundle.LongDescription = *req.LongDescription
	}
	if req.Price != nil {
		bundle.Price = *req.Price
	}
	if req.OriginalPrice != nil {
		bundle.OriginalPrice = *req.OriginalPrice
	}
	if req.Savings != nil {
		bundle.Savings = *req.Savings
	}
	if req.Duration != nil {
		bundle.Duration = *req.Duration
	}
	if req.Popular != nil {
		bundle.Popular = *req.Popular
	}
	if req.Icon != nil {
		bundle.Icon = *req.Icon
	}
	if req.Color != nil {
		bundle.Color = *req.Color
	}
	if req.Features != nil {
		if len(*req.Features) == 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "features cannot be empty")
		}
		bundle.Features = *req.Features
	}
	if req.Includes != nil {
		bundle.Includes = *req.Includes
	}
	if req.Process != nil {
		bundle.Process = *req.Process
	}
	if req.Benefits != nil {
		bundle.Benefits = *req.Benefits
	}
	if req.Status != nil {
		bundle.Status = *req.Status
	}

	if err := s.repo.Update(ctx, bundle); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "bundle not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update bundle")
	}

	s.invalidateCache(ctx)
	return bundle, nil
}

// Delete removes a bundle permanently.
func (s *BundleService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "bundle not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete bundle")
	}
	s.invalidateCache(ctx)
	return nil
}
