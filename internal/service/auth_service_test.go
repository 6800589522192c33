package service

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"database/sql"

	"github.com/lexledger/lexledger-api/internal/models"
	appErrors "github.com/lexledger/lexledger-api/pkg/errors"
)

type mockAccountRepo struct {
	accounts      map[models.AccountKind]map[string]*models.Account
	lastKind      models.AccountKind
	increments    int
	lockSet       *time.Time
	resets        int
	created       *models.Account
	createdKind   models.AccountKind
	existsResult  bool
	incrementErr  error
	createErr     error
}

func newMockAccountRepo() *mockAccountRepo {
	return &mockAccountRepo{accounts: map[models.AccountKind]map[string]*models.Account{
		models.KindUser:  {},
		models.KindAdmin: {},
	}}
}

func (m *mockAccountRepo) add(kind models.AccountKind, account *models.Account) {
	m.accounts[kind][account.Username] = account
}

func (m *mockAccountRepo) FindByUsername(ctx context.Context, kind models.AccountKind, username string) (*models.Account, error) {
	m.lastKind = kind
	account, ok := m.accounts[kind][username]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *account
	return &copied, nil
}

func (m *mockAccountRepo) FindByID(ctx context.Context, kind models.AccountKind, id string) (*models.Account, error) {
	for _, account := range m.accounts[kind] {
		if account.ID == id {
			copied := *account
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockAccountRepo) ExistsByUsernameOrEmail(ctx context.Context, kind models.AccountKind, username, email string) (bool, error) {
	return m.existsResult, nil
}

func (m *mockAccountRepo) Create(ctx context.Context, kind models.AccountKind, account *models.Account) error {
	if m.createErr != nil {
		return m.createErr
	}
	account.ID = "generated-id"
	m.created = account
	m.createdKind = kind
	return nil
}

func (m *mockAccountRepo) IncrementLoginAttempts(ctx context.Context, kind models.AccountKind, id string, lockUntil *time.Time) error {
	if m.incrementErr != nil {
		return m.incrementErr
	}
	m.increments++
	m.lockSet = lockUntil
	return nil
}

func (m *mockAccountRepo) ResetLoginAttempts(ctx context.Context, kind models.AccountKind, id string, lastLogin time.Time) error {
	m.resets++
	return nil
}

func testAuthConfig() AuthConfig {
	return AuthConfig{
		TokenSecret:      "test-secret",
		TokenExpiry:      time.Hour,
		Issuer:           "lexledger-test",
		MaxLoginAttempts: 5,
		LockDuration:     2 * time.Hour,
	}
}

func hashPassword(t *testing.T, password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	repo := newMockAccountRepo()
	repo.add(models.KindUser, &models.Account{
		ID:           "user-1",
		Username:     "jane",
		Email:        "jane@example.com",
		PasswordHash: hashPassword(t, "correct horse"),
		Role:         "user",
		Active:       true,
	})

	svc := NewAuthService(repo, nil, nil, testAuthConfig())
	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "jane", Password: "correct horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, "user-1", resp.User.ID)
	assert.Equal(t, models.KindUser, resp.User.UserType)
	assert.Equal(t, 1, repo.resets)
	assert.Equal(t, models.KindUser, repo.lastKind)

	claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.AccountID)
	assert.Equal(t, models.KindUser, claims.Kind)
}

func TestAuthServiceLoginDefaultsToUserKind(t *testing.T) {
	repo := newMockAccountRepo()
	repo.add(models.KindAdmin, &models.Account{
		ID:           "admin-1",
		Username:     "root",
		PasswordHash: hashPassword(t, "secret123"),
		Role:         "admin",
		Active:       true,
	})

	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	// Without a userType the admin store is never consulted.
	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "root", Password: "secret123"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
	assert.Equal(t, models.KindUser, repo.lastKind)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "root", Password: "secret123", UserType: models.KindAdmin})
	require.NoError(t, err)
	assert.Equal(t, models.KindAdmin, resp.User.UserType)
}

func TestAuthServiceLoginUnknownUser(t *testing.T) {
	repo := newMockAccountRepo()
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "ghost", Password: "whatever"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
	assert.Equal(t, 0, repo.increments)
}

func TestAuthServiceLoginWrongPasswordCountsAttempts(t *testing.T) {
	repo := newMockAccountRepo()
	repo.add(models.KindUser, &models.Account{
		ID:            "user-1",
		Username:      "jane",
		PasswordHash:  hashPassword(t, "correct horse"),
		Active:        true,
		LoginAttempts: 2,
	})

	svc := NewAuthService(repo, nil, nil, testAuthConfig())
	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "jane", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
	assert.Equal(t, 1, repo.increments)
	assert.Nil(t, repo.lockSet, "third failure of five must not lock")
}

func TestAuthServiceLoginLocksAtThreshold(t *testing.T) {
	repo := newMockAccountRepo()
	repo.add(models.KindUser, &models.Account{
		ID:            "user-1",
		Username:      "jane",
		PasswordHash:  hashPassword(t, "correct horse"),
		Active:        true,
		LoginAttempts: 4,
	})

	svc := NewAuthService(repo, nil, nil, testAuthConfig())
	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "jane", Password: "wrong"})
	require.Error(t, err)
	require.NotNil(t, repo.lockSet)
	assert.WithinDuration(t, time.Now().UTC().Add(2*time.Hour), *repo.lockSet, time.Minute)
}

func TestAuthServiceLoginLockoutDisabled(t *testing.T) {
	repo := newMockAccountRepo()
	repo.add(models.KindUser, &models.Account{
		ID:            "user-1",
		Username:      "jane",
		PasswordHash:  hashPassword(t, "correct horse"),
		Active:        true,
		LoginAttempts: 99,
	})

	cfg := testAuthConfig()
	cfg.MaxLoginAttempts = 0
	svc := NewAuthService(repo, nil, nil, cfg)
	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "jane", Password: "wrong"})
	require.Error(t, err)
	assert.Nil(t, repo.lockSet)
}

func TestAuthServiceLoginLockedAccount(t *testing.T) {
	lockUntil := time.Now().UTC().Add(time.Hour)
	repo := newMockAccountRepo()
	repo.add(models.KindUser, &models.Account{
		ID:           "user-1",
		Username:     "jane",
		PasswordHash: hashPassword(t, "correct horse"),
		Active:       true,
		LockUntil:    &lockUntil,
	})

	svc := NewAuthService(repo, nil, nil, testAuthConfig())
	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "jane", Password: "correct horse"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrAccountLocked.Code, appErrors.FromError(err).Code)
	assert.Equal(t, 0, repo.resets)
}

func TestAuthServiceLoginExpiredLockAdmitsCorrectPassword(t *testing.T) {
	lockUntil := time.Now().UTC().Add(-time.Minute)
	repo := newMockAccountRepo()
	repo.add(models.KindUser, &models.Account{
		ID:            "user-1",
		Username:      "jane",
		PasswordHash:  hashPassword(t, "correct horse"),
		Active:        true,
		LoginAttempts: 5,
		LockUntil:     &lockUntil,
	})

	svc := NewAuthService(repo, nil, nil, testAuthConfig())
	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "jane", Password: "correct horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, 1, repo.resets)
}

func TestAuthServiceLoginInactiveAccount(t *testing.T) {
	repo := newMockAccountRepo()
	repo.add(models.KindUser, &models.Account{
		ID:           "user-1",
		Username:     "jane",
		PasswordHash: hashPassword(t, "correct horse"),
		Active:       false,
	})

	svc := NewAuthService(repo, nil, nil, testAuthConfig())
	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "jane", Password: "correct horse"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginInactiveBeatsLock(t *testing.T) {
	lockUntil := time.Now().UTC().Add(time.Hour)
	repo := newMockAccountRepo()
	repo.add(models.KindUser, &models.Account{
		ID:           "user-1",
		Username:     "jane",
		PasswordHash: hashPassword(t, "correct horse"),
		Active:       false,
		LockUntil:    &lockUntil,
	})

	// Deactivation wins over an open lock window.
	svc := NewAuthService(repo, nil, nil, testAuthConfig())
	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "jane", Password: "correct horse"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginFailureCounter(t *testing.T) {
	repo := newMockAccountRepo()
	repo.add(models.KindUser, &models.Account{
		ID:           "user-1",
		Username:     "jane",
		PasswordHash: hashPassword(t, "correct horse"),
		Active:       true,
	})

	metrics := NewMetricsService()
	svc := NewAuthService(repo, nil, nil, testAuthConfig()).WithMetrics(metrics)
	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "jane", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.loginFailures.WithLabelValues(string(models.KindUser))))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.loginFailures.WithLabelValues(string(models.KindAdmin))))
}

func TestAuthServiceLoginRejectsUnknownKind(t *testing.T) {
	svc := NewAuthService(newMockAccountRepo(), nil, nil, testAuthConfig())
	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "jane", Password: "pw", UserType: "superuser"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceRegister(t *testing.T) {
	repo := newMockAccountRepo()
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	info, err := svc.Register(context.Background(), models.RegisterRequest{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Username:  "jane",
		Password:  "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, "generated-id", info.ID)
	assert.Equal(t, models.KindUser, info.UserType)
	assert.Equal(t, "user", info.Role)
	assert.Equal(t, models.KindUser, repo.createdKind)

	require.NotNil(t, repo.created)
	assert.NotEqual(t, "secret123", repo.created.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.created.PasswordHash), []byte("secret123")))
	assert.True(t, repo.created.Active)
}

func TestAuthServiceRegisterConflict(t *testing.T) {
	repo := newMockAccountRepo()
	repo.existsResult = true
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Username:  "jane",
		Password:  "secret123",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceRegisterValidation(t *testing.T) {
	svc := NewAuthService(newMockAccountRepo(), nil, nil, testAuthConfig())

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "not-an-email",
		Username:  "jane",
		Password:  "secret123",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Register(context.Background(), models.RegisterRequest{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Username:  "jane",
		Password:  "short",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceValidateTokenRejectsTampered(t *testing.T) {
	repo := newMockAccountRepo()
	repo.add(models.KindUser, &models.Account{
		ID:           "user-1",
		Username:     "jane",
		PasswordHash: hashPassword(t, "correct horse"),
		Active:       true,
	})

	svc := NewAuthService(repo, nil, nil, testAuthConfig())
	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "jane", Password: "correct horse"})
	require.NoError(t, err)

	other := testAuthConfig()
	other.TokenSecret = "different-secret"
	otherSvc := NewAuthService(repo, nil, nil, other)
	_, err = otherSvc.ValidateToken(resp.Token)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
