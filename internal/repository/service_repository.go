package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/lexledger/lexledger-api/internal/models"
)

const serviceColumns = `id, name, description, category, price, duration, features, requirements, faq, status, created_at, updated_at`

var serviceSortColumns = map[string]string{
	"name":       "name",
	"category":   "category",
	"status":     "status",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// ServiceRepository provides database access to the service catalog.
type ServiceRepository struct {
	db *sqlx.DB
}

// NewServiceRepository creates a new repository instance.
func NewServiceRepository(db *sqlx.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

// List returns services matching the filter plus the total match count.
func (r *ServiceRepository) List(ctx context.Context, filter models.ServiceFilter) ([]models.Service, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}
	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM services WHERE %s`, where)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count services: %w", err)
	}

	sortBy, ok := serviceSortColumns[filter.SortBy]
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

	query := fmt.Sprintf(`SELECT %s FROM services WHERE %s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		serviceColumns, where, sortBy, order, limitArg, offsetArg)

	services := []models.Service{}
	if err := r.db.SelectContext(ctx, &services, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list services: %w", err)
	}
	return services, total, nil
}

// FindByID returns a single service by identifier.
func (r *ServiceRepository) FindByID(ctx context.Context, id string) (*models.Service, error) {
	query := fmt.Sprintf(`SELECT %s FROM services WHERE id = $1 LIMIT 1`, serviceColumns)
	var service models.Service
	if err := r.db.GetContext(ctx, &service, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find service by id: %w", err)
	}
	return &service, nil
}

// Create inserts a new service.
func (r *ServiceRepository) Create(ctx context.Context, service *models.Service) error {
	if service.ID == "" {
		service.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	service.CreatedAt = now
	service.UpdatedAt = now

	query := `INSERT INTO services (id, name, description, category, price, duration, features, requirements, faq, status, created_at, updated_at)
		VALUES (:id, :name, :description, :category, :price, :duration, :features, :requirements, :faq, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, service); err != nil {
		return fmt.Errorf("create service: %w", err)
	}
	return nil
}

// Update rewrites the full service row.
func (r *ServiceRepository) Update(ctx context.Context, service *models.Service) error {
	service.UpdatedAt = time.Now().UTC()

	query := `UPDATE services SET name = :name, description = :description, category = :category, price = :price,
		duration = :duration, features = :features, requirements = :requirements, faq = :faq, status = :status,
		updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, service)
	if err != nil {
		return fmt.Errorf("update service: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a service permanently.
func (r *ServiceRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// BulkSetStatus applies a status to the given ids, returning how many rows
// actually changed.
func (r *ServiceRepository) BulkSetStatus(ctx context.Context, ids []string, status models.ServiceStatus) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE services SET status = $1, updated_at = $2 WHERE id = ANY($3)`,
		status, time.Now().UTC(), pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("bulk set service status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("bulk set service status: %w", err)
	}
	return rows, nil
}

// BulkDelete removes the given ids, returning how many rows were deleted.
func (r *ServiceRepository) BulkDelete(ctx context.Context, ids []string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM services WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("bulk delete services: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("bulk delete services: %w", err)
	}
	return rows, nil
}

// CategoryCounts aggregates services per category with active counts.
func (r *ServiceRepository) CategoryCounts(ctx context.Context) ([]models.CategoryCount, error) {
	query := `SELECT category, COUNT(*) AS total, COUNT(*) FILTER (WHERE status = 'active') AS active
		FROM services GROUP BY category ORDER BY category`
	counts := []models.CategoryCount{}
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("count service categories: %w", err)
	}
	return counts, nil
}

// StatusCounts returns total and active service counts for the dashboard.
func (r *ServiceRepository) StatusCounts(ctx context.Context) (models.StatusBreakdown, error) {
	var breakdown models.StatusBreakdown
	query := `SELECT COUNT(*) AS total, COUNT(*) FILTER (WHERE status = 'active') AS active,
		COUNT(*) FILTER (WHERE status = 'inactive') AS inactive FROM services`
	if err := r.db.GetContext(ctx, &breakdown, query); err != nil {
		return breakdown, fmt.Errorf("count services by status: %w", err)
	}
	return breakdown, nil
}

// CountCreatedSince counts services created at or after the cutoff.
func (r *ServiceRepository) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM services WHERE created_at >= $1`
	if err := r.db.GetContext(ctx, &count, query, since); err != nil {
		return 0, fmt.Errorf("count services created since %s: %w", since.Format(time.RFC3339), err)
	}
	return count, nil
}

// Recent returns the most recently updated services for the dashboard.
func (r *ServiceRepository) Recent(ctx context.Context, limit int) ([]models.Service, error) {
	query := fmt.Sprintf(`SELECT %s FROM services ORDER BY updated_at DESC LIMIT $1`, serviceColumns)
	services := []models.Service{}
	if err := r.db.SelectContext(ctx, &services, query, limit); err != nil {
		return nil, fmt.Errorf("list recent services: %w", err)
	}
	return services, nil
}
