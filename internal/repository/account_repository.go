package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/lexledger/lexledger-api/internal/models"
)

const accountColumns = `id, username, email, password_hash, first_name, last_name, phone, role, active, login_attempts, lock_until, last_login, created_at, updated_at`

// AccountRepository provides database access to the two credential stores.
// Regular users and admins live in separate tables with identical shapes.
type AccountRepository struct {
	db *sqlx.DB
}

// NewAccountRepository creates a new repository instance.
func NewAccountRepository(db *sqlx.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func accountTable(kind models.AccountKind) string {
	if kind == models.KindAdmin {
		return "admins"
	}
	return "users"
}

// FindByUsername returns the account of the given kind by exact username.
func (r *AccountRepository) FindByUsername(ctx context.Context, kind models.AccountKind, username string) (*models.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE username = $1 LIMIT 1`, accountColumns, accountTable(kind))
	var account models.Account
	if err := r.db.GetContext(ctx, &account, query, username); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find %s by username: %w", kind, err)
	}
	return &account, nil
}

// FindByID returns the account of the given kind by identifier.
func (r *AccountRepository) FindByID(ctx context.Context, kind models.AccountKind, id string) (*models.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1 LIMIT 1`, accountColumns, accountTable(kind))
	var account models.Account
	if err := r.db.GetContext(ctx, &account, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find %s by id: %w", kind, err)
	}
	return &account, nil
}

// ExistsByUsernameOrEmail checks signup uniqueness for the given kind.
func (r *AccountRepository) ExistsByUsernameOrEmail(ctx context.Context, kind models.AccountKind, username, email string) (bool, error) {
	query := fmt.Sprintf(`SELECT 1 FROM %s WHERE username = $1 OR email = $2 LIMIT 1`, accountTable(kind))
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, username, email); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check %s exists: %w", kind, err)
	}
	return true, nil
}

// Create inserts a new account of the given kind.
func (r *AccountRepository) Create(ctx context.Context, kind models.AccountKind, account *models.Account) error {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now

	query := fmt.Sprintf(`INSERT INTO %s (id, username, email, password_hash, first_name, last_name, phone, role, active, login_attempts, created_at, updated_at) VALUES (:id, :username, :email, :password_hash, :first_name, :last_name, :phone, :role, :active, :login_attempts, :created_at, :updated_at)`, accountTable(kind))
	if _, err := r.db.NamedExecContext(ctx, query, account); err != nil {
		return fmt.Errorf("create %s: %w", kind, err)
	}
	return nil
}

// IncrementLoginAttempts bumps the failure counter after a bad password,
// optionally stamping the lock timestamp when the threshold was reached.
func (r *AccountRepository) IncrementLoginAttempts(ctx context.Context, kind models.AccountKind, id string, lockUntil *time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET login_attempts = login_attempts + 1, lock_until = COALESCE($2, lock_until), updated_at = $3 WHERE id = $1`, accountTable(kind))
	if _, err := r.db.ExecContext(ctx, query, id, lockUntil, time.Now().UTC()); err != nil {
		return fmt.Errorf("increment login attempts: %w", err)
	}
	return nil
}

// ResetLoginAttempts clears the failure counter and lock after a successful
// login and stamps the last-login time.
func (r *AccountRepository) ResetLoginAttempts(ctx context.Context, kind models.AccountKind, id string, lastLogin time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET login_attempts = 0, lock_until = NULL, last_login = $2, updated_at = $2 WHERE id = $1`, accountTable(kind))
	if _, err := r.db.ExecContext(ctx, query, id, lastLogin); err != nil {
		return fmt.Errorf("reset login attempts: %w", err)
	}
	return nil
}
