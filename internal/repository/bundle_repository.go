package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/lexledger/lexledger-api/internal/models"
)

const bundleColumns = `id, name, description, long_description, price, original_price, savings, duration, popular, icon, color, features, includes, process, benefits, status, created_at, updated_at`

var bundleSortColumns = map[string]string{
	"name":       "name",
	"popular":    "popular",
	"status":     "status",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// BundleRepository provides database access to service bundles.
type BundleRepository struct {
	db *sqlx.DB
}

// NewBundleRepository creates a new repository instance.
func NewBundleRepository(db *sqlx.DB) *BundleRepository {
	return &BundleRepository{db: db}
}

// List returns bundles matching the filter plus the total match count.
func (r *BundleRepository) List(ctx context.Context, filter models.BundleFilter) ([]models.Bundle, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Popular != nil {
		args = append(args, *filter.Popular)
		conditions = append(conditions, fmt.Sprintf("popular = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}
	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM bundles WHERE %s`, where)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count bundles: %w", err)
	}

	sortBy, ok := bundleSortColumns[filter.SortBy]
	if !ok {
		sortBy = "created_at"
	}
	order := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		order = "ASC"
	}

	limitArg := len(args) + 1
	offsetArg := len(args) + 2
	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)

	query := fmt.Sprintf(`SELECT %s FROM bundles WHERE %s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		bundleColumns, where, sortBy, order, limitArg, offsetArg)

	bundles := []models.Bundle{}
	if err := r.db.SelectContext(ctx, &bundles, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list bundles: %w", err)
	}
	return bundles, total, nil
}

// FindByID returns a single bundle by identifier.
func (r *BundleRepository) FindByID(ctx context.Context, id string) (*models.Bundle, error) {
	query := fmt.Sprintf(`SELECT %s FROM bundles WHERE id = $1 LIMIT 1`, bundleColumns)
	var bundle models.Bundle
	if err := r.db.GetContext(ctx, &bundle, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find bundle by id: %w", err)
	}
	return &bundle, nil
}

// Create inserts a new bundle.
func (r *BundleRepository) Create(ctx context.Context, bundle *models.Bundle) error {
	if bundle.ID == "" {
		bundle.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	bundle.CreatedAt = now
	bundle.UpdatedAt = now

	query := `INSERT INTO bundles (id, name, description, long_description, price, original_price, savings, duration, popular, icon, color, features, includes, process, benefits, status, created_at, updated_at)
		VALUES (:id, :name, :description, :long_description, :price, :original_price, :savings, :duration, :popular, :icon, :color, :features, :includes, :process, :benefits, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, bundle); err != nil {
		return fmt.Errorf("create bundle: %w", err)
	}
	return nil
}

// Update rewrites the full bundle row.
func (r *BundleRepository) Update(ctx context.Context, bundle *models.Bundle) error {
	bundle.UpdatedAt = time.Now().UTC()

	query := `UPDATE bundles SET name = :name, description = :description, long_description = :long_description,
		price = :price, original_price = :original_price, savings = :savings, duration = :duration,
		popular = :popular, icon = :icon, color = :color, features = :features, includes = :includes,
		process = :process, benefits = :benefits, status = :status, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, bundle)
	if err != nil {
		return fmt.Errorf("update bundle: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a bundle permanently.
func (r *BundleRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM bundles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete bundle: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// StatusCounts returns total and active bundle counts for the dashboard.
func (r *BundleRepository) StatusCounts(ctx context.Context) (models.StatusBreakdown, error) {
	var breakdown models.StatusBreakdown
	query := `SELECT COUNT(*) AS total, COUNT(*) FILTER (WHERE status = 'active') AS active,
		COUNT(*) FILTER (WHERE status = 'inactive') AS inactive FROM bundles`
	if err := r.db.GetContext(ctx, &breakdown, query); err != nil {
		return breakdown, fmt.Errorf("count bundles by status: %w", err)
	}
	return breakdown, nil
}

// CountCreatedSince counts bundles created at or after the cutoff.
func (r *BundleRepository) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM bundles WHERE created_at >= $1`
	if err := r.db.GetContext(ctx, &count, query, since); err != nil {
		return 0, fmt.Errorf("count bundles created since %s: %w", since.Format(time.RFC3339), err)
	}
	return count, nil
}
