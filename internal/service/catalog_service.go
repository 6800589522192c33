package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/lexledger/lexledger-api/internal/models"
	appErrors "github.com/lexledger/lexledger-api/pkg/errors"
)

const catalogCachePattern = "catalog:*"

type serviceRepository interface {
	List(ctx context.Context, filter models.ServiceFilter) ([]models.Service, int, error)
	FindByID(ctx context.Context, id string) (*models.Service, error)
	Create(ctx context.Context, service *models.Service) error
	Update(ctx context.Context, service *models.Service) error
	Delete(ctx context.Context, id string) error
	BulkSetStatus(ctx context.Context, ids []string, status models.ServiceStatus) (int64, error)
	BulkDelete(ctx context.Context, ids []string) (int64, error)
	CategoryCounts(ctx context.Context) ([]models.CategoryCount, error)
}

type cacheStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CatalogConfig controls catalog response caching.
type CatalogConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// ServiceListResult pairs a page of services with its pagination metadata.
type ServiceListResult struct {
	Services   []models.Service  `json:"services"`
	Pagination models.Pagination `json:"pagination"`
}

// CatalogService manages the service catalog.
type CatalogService struct {
	repo      serviceRepository
	cache     cacheStore
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	config    CatalogConfig
}

// NewCatalogService constructs a CatalogService instance. The cache is
// optional.
func NewCatalogService(repo serviceRepository, cache cacheStore, validate *validator.Validate, logger *zap.Logger, config CatalogConfig) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CatalogService{repo: repo, cache: cache, validator: validate, logger: logger, config: config}
}

// WithMetrics attaches Prometheus instrumentation and returns the service.
func (s *CatalogService) WithMetrics(metrics *MetricsService) *CatalogService {
	s.metrics = metrics
	return s
}

func (s *CatalogService) cacheEnabled() bool {
	return s.cache != nil && s.config.CacheEnabled
}

func (s *CatalogService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, catalogCachePattern); err != nil {
		s.logger.Warn("failed to invalidate catalog cache", zap.Error(err))
	}
}

// List returns services matching the filter. Results are cached per filter
// when caching is enabled.
func (s *CatalogService) List(ctx context.Context, filter models.ServiceFilter) (*ServiceListResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	if filter.Status != "" && filter.Status != string(models.StatusActive) && filter.Status != string(models.StatusInactive) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", filter.Status))
	}
	if filter.Category != "" && !models.IsValidCategory(filter.Category) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown category %q", filter.Category))
	}

	cacheKey := fmt.Sprintf("catalog:services:list:%s:%s:%s:%d:%d:%s:%s",
		filter.Category, filter.Status, filter.Search, filter.Page, filter.PageSize, filter.SortBy, filter.SortOrder)
	if s.cacheEnabled() {
		var cached ServiceListResult
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

	services, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list services")
	}

	result := &ServiceListResult{
		Services: services,
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

// Get returns a single service.
func (s *CatalogService) Get(ctx context.Context, id string) (*models.Service, error) {
	service, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "service not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load service")
	}
	return service, nil
}

// GetForm returns the text projection of a service for the admin edit form.
func (s *CatalogService) GetForm(ctx context.Context, id string) (*models.ServiceForm, error) {
	service, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	form := service.Form()
	return &form, nil
}

// Create validates and stores a new service.
func (s *CatalogService) Create(ctx context.Context, req models.ServiceCreateRequest) (*models.Service, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid service payload")
	}
	if !models.IsValidCategory(req.Category) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown category %q", req.Category))
	}

	status := req.Status
	if status == "" {
		status = models.StatusActive
	}

	service := &models.Service{
		Name:         req.Name,
		Description:  req.Description,
		Category:     req.Category,
		Price:        req.Price,
		Duration:     req.Duration,
		Features:     req.Features,
		Requirements: req.Requirements,
		FAQ:          req.FAQ,
		Status:       status,
	}
	if err := s.repo.Create(ctx, service); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create service")
	}

	s.invalidateCache(ctx)
	s.logger.Info("service created", zap.String("service_id", service.ID), zap.String("category", service.Category))
	return service, nil
}

// Update applies a partial update to an existing service.
func (s *CatalogService) Update(ctx context.Context, id string, req models.ServiceUpdateRequest) (*models.Service, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid service payload")
	}

	service, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		service.Name = *req.Name
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.Category != nil {
		if !models.IsValidCategory(*req.Category) {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown category %q", *req.Category))
		}
		service.Category = *req.Category
	}
	if req.Price != nil {
		service.Price = *req.Price
	}
	if req.Duration != nil {
		service.Duration = *req.Duration
	}
	if req.Features != nil {
		if len(*req.Features) == 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "features cannot be empty")
		}
		service.Features = *req.Features
	}
	if req.Requirements != nil {
		if len(*req.Requirements) == 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "requirements cannot be empty")
		}
		service.Requirements = *req.Requirements
	}
	if req.FAQ != nil {
		service.FAQ = *req.FAQ
	}
	if req.Status != nil {
		service.Status = *req.Status
	}

	if err := s.repo.Update(ctx, service); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "service not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update service")
	}

	s.invalidateCache(ctx)
	return service, nil
}

// Delete removes a service permanently.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "service not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete service")
	}
	s.invalidateCache(ctx)
	return nil
}

// Bulk applies an activate, deactivate or delete action to multiple services.
func (s *CatalogService) Bulk(ctx context.Context, req models.BulkServiceRequest) (*models.BulkResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bulk payload")
	}

	var (
		affected int64
		err      error
	)
	switch req.Action {
	case "activate":
		affected, err = s.repo.BulkSetStatus(ctx, req.IDs, models.StatusActive)
	case "deactivate":
		affected, err = s.repo.BulkSetStatus(ctx, req.IDs, models.StatusInactive)
	case "delete":
		affected, err = s.repo.BulkDelete(ctx, req.IDs)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown bulk action %q", req.Action))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "bulk service action failed")
	}

	s.invalidateCache(ctx)
	s.logger.Info("bulk service action applied",
		zap.String("action", req.Action),
		zap.Int("requested", len(req.IDs)),
		zap.Int64("affected", affected))
	return &models.BulkResult{Action: req.Action, Affected: affected}, nil
}

// Categories returns the category enumeration with per-category counts.
func (s *CatalogService) Categories(ctx context.Context) ([]models.CategoryCount, error) {
	cacheKey := "catalog:services:categories"
	if s.cacheEnabled() {
		var cached []models.CategoryCount
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			if s.metrics != nil {
				s.metrics.ObserveCacheHit()
			}
			return cached, nil
		} else if errors.Is(err, appErrors.ErrCacheMiss) {
			if s.metrics != nil {
				s.metrics.ObserveCacheMiss()
			}
		} else {
			s.logger.Warn("catalog cache read failed", zap.Error(err))
		}
	}

	counts, err := s.repo.CategoryCounts(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load categories")
	}

	// Categories with no services yet still appear with zero counts.
	present := make(map[string]bool, len(counts))
	for _, c := range counts {
		present[c.Category] = true
	}
	for _, name := range models.ServiceCategories {
		if !present[name] {
			counts = append(counts, models.CategoryCount{Category: name})
		}
	}

	if s.cacheEnabled() {
		if err := s.cache.Set(ctx, cacheKey, counts, s.config.CacheTTL); err != nil {
			s.logger.Warn("catalog cache write failed", zap.Error(err))
		}
	}
	return counts, nil
}
