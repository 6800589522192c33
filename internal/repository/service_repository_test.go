package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/lexledger/lexledger-api/internal/models"
)

func newServiceRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func serviceRows(id, name string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "name", "description", "category", "price", "duration", "features", "requirements", "faq", "status", "created_at", "updated_at"}).
		AddRow(id, name, "Private limited company registration", "Company Formation", "₹15,000", "7-10 days",
			[]byte(`["Name approval","DIN for directors"]`), []byte(`["PAN card","Address proof"]`),
			[]byte(`[{"question":"How long does it take?","answer":"7-10 working days."}]`),
			"active", now, now)
}

func TestServiceRepositoryListWithFilters(t *testing.T) {
	db, mock, cleanup := newServiceRepoMock(t)
	defer cleanup()

	repo := NewServiceRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM services")).
		WithArgs("Company Formation", "active", "%registration%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, description, category")).
		WithArgs("Company Formation", "active", "%registration%", 20, 0).
		WillReturnRows(serviceRows("svc-1", "Company Registration"))

	services, total, err := repo.List(context.Background(), models.ServiceFilter{
		Category: "Company Formation",
		Status:   "active",
		Search:   "registration",
		Page:     1,
		PageSize: 20,
	})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, services, 1)
	require.Equal(t, models.StringList{"Name approval", "DIN for directors"}, services[0].Features)
	require.Equal(t, "How long does it take?", services[0].FAQ[0].Question)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceRepositoryListRejectsUnknownSort(t *testing.T) {
	db, mock, cleanup := newServiceRepoMock(t)
	defer cleanup()

	repo := NewServiceRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM services")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC")).
		WithArgs(10, 0).
		WillReturnRows(serviceRows("svc-1", "Company Registration"))

	_, _, err := repo.List(context.Background(), models.ServiceFilter{
		Page:     1,
		PageSize: 10,
		SortBy:   "price; DROP TABLE services",
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceRepositoryCreateAndFind(t *testing.T) {
	db, mock, cleanup := newServiceRepoMock(t)
	defer cleanup()

	repo := NewServiceRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO services")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	service := &models.Service{
		Name:        "Company Registration",
		Description: "Private limited company registration",
		Category:    "Company Formation",
		Price:       "₹15,000",
		Duration:    "7-10 days",
		Features:    models.StringList{"Name approval"},
		Status:      models.StatusActive,
	}
	require.NoError(t, repo.Create(context.Background(), service))
	require.NotEmpty(t, service.ID)

	mock.ExpectQuery(regexp.QuoteMeta("FROM services WHERE id = $1")).
		WithArgs(service.ID).
		WillReturnRows(serviceRows(service.ID, service.Name))

	found, err := repo.FindByID(context.Background(), service.ID)
	require.NoError(t, err)
	require.Equal(t, service.ID, found.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceRepositoryUpdateMissingRow(t *testing.T) {
	db, mock, cleanup := newServiceRepoMock(t)
	defer cleanup()

	repo := NewServiceRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE services SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Service{ID: "missing"})
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestServiceRepositoryBulkOperations(t *testing.T) {
	db, mock, cleanup := newServiceRepoMock(t)
	defer cleanup()

	repo := NewServiceRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE services SET status = $1")).
		WillReturnResult(sqlmock.NewResult(0, 2))

	affected, err := repo.BulkSetStatus(context.Background(), []string{"svc-1", "svc-2"}, models.StatusInactive)
	require.NoError(t, err)
	require.Equal(t, int64(2), affected)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM services WHERE id = ANY($1)")).
		WillReturnResult(sqlmock.NewResult(0, 2))

	deleted, err := repo.BulkDelete(context.Background(), []string{"svc-1", "svc-2"})
	require.NoError(t, err)
	require.Equal(t, int64(2), deleted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceRepositoryCountCreatedSince(t *testing.T) {
	db, mock, cleanup := newServiceRepoMock(t)
	defer cleanup()

	repo := NewServiceRepository(db)
	since := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM services WHERE created_at >= $1")).
		WithArgs(since).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := repo.CountCreatedSince(context.Background(), since)
	require.NoError(t, err)
	require.Equal(t, 4, count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceRepositoryCategoryCounts(t *testing.T) {
	db, mock, cleanup := newServiceRepoMock(t)
	defer cleanup()

	repo := NewServiceRepository(db)
	rows := sqlmock.NewRows([]string{"category", "total", "active"}).
		AddRow("Company Formation", 3, 2).
		AddRow("Tax Services", 1, 1)
	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY category")).WillReturnRows(rows)

	counts, err := repo.CategoryCounts(context.Background())
	require.NoError(t, err)
	require.Len(t, counts, 2)
	require.Equal(t, 2, counts[0].Active)
	require.NoError(t, mock.ExpectationsWereMet())
}
