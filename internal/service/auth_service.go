package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/lexledger/lexledger-api/internal/models"
	appErrors "github.com/lexledger/lexledger-api/pkg/errors"
)

type authAccountRepository interface {
	FindByUsername(ctx context.Context, kind models.AccountKind, username string) (*models.Account, error)
	FindByID(ctx context.Context, kind models.AccountKind, id string) (*models.Account, error)
	ExistsByUsernameOrEmail(ctx context.Context, kind models.AccountKind, username, email string) (bool, error)
	Create(ctx context.Context, kind models.AccountKind, account *models.Account) error
	IncrementLoginAttempts(ctx context.Context, kind models.AccountKind, id string, lockUntil *time.Time) error
	ResetLoginAttempts(ctx context.Context, kind models.AccountKind, id string, lastLogin time.Time) error
}

// AuthConfig defines configuration for authentication flows. A zero
// MaxLoginAttempts disables lockout entirely.
type AuthConfig struct {
	TokenSecret      string
	TokenExpiry      time.Duration
	Issuer           string
	MaxLoginAttempts int
	LockDuration     time.Duration
}

// AuthService provides login, signup and token validation for both account
// kinds.
type AuthService struct {
	repo      authAccountRepository
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo authAccountRepository, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{repo: repo, validator: validate, logger: logger, config: config}
}

// WithMetrics attaches Prometheus instrumentation and returns the service.
func (s *AuthService) WithMetrics(metrics *MetricsService) *AuthService {
	s.metrics = metrics
	return s
}

// Login authenticates an account and returns an issued token. The userType
// field selects the credential store and defaults to regular users.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	kind := req.UserType
	if kind == "" {
		kind = models.KindUser
	}
	if !kind.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown user type %q", req.UserType))
	}

	account, err := s.repo.FindByUsername(ctx, kind, req.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid username or password")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch account")
	}

	// A deactivated account reads as inactive even while a lock window is
	// still open.
	now := time.Now().UTC()
	if !account.Active {
		return nil, appErrors.Clone(appErrors.ErrInactiveAccount, "account is inactive")
	}

	if account.Locked(now) {
		return nil, appErrors.Clone(appErrors.ErrAccountLocked, "account temporarily locked due to repeated failed logins")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		s.recordFailedAttempt(ctx, kind, account, now)
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid username or password")
	}

	if err := s.repo.ResetLoginAttempts(ctx, kind, account.ID, now); err != nil {
		s.logger.Warn("failed to reset login attempts", zap.Error(err))
	}

	token, issuedAt, err := s.generateAccessToken(account, kind)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	return &models.LoginResponse{
		Token:     token,
		ExpiresIn: int64(s.config.TokenExpiry.Seconds()),
		IssuedAt:  issuedAt,
		User:      account.Info(kind),
	}, nil
}

// recordFailedAttempt bumps the counter and stamps the lock time once the
// configured threshold is reached.
func (s *AuthService) recordFailedAttempt(ctx context.Context, kind models.AccountKind, account *models.Account, now time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveLoginFailure(string(kind))
	}

	var lockUntil *time.Time
	if s.config.MaxLoginAttempts > 0 && account.LoginAttempts+1 >= s.config.MaxLoginAttempts {
		t := now.Add(s.config.LockDuration)
		lockUntil = &t
		s.logger.Warn("account locked after repeated failed logins",
			zap.String("account_id", account.ID),
			zap.String("kind", string(kind)),
			zap.Time("lock_until", t))
	}
	if err := s.repo.IncrementLoginAttempts(ctx, kind, account.ID, lockUntil); err != nil {
		s.logger.Warn("failed to record login attempt", zap.Error(err))
	}
}

// Register creates a new regular user account.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.AccountInfo, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}

	exists, err := s.repo.ExistsByUsernameOrEmail(ctx, models.KindUser, req.Username, req.Email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing accounts")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "username or email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	role := req.Role
	if role == "" {
		role = "user"
	}

	account := &models.Account{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Role:         role,
		Active:       true,
	}
	if err := s.repo.Create(ctx, models.KindUser, account); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create account")
	}

	info := account.Info(models.KindUser)
	return &info, nil
}

// Me returns the public profile of the authenticated account.
func (s *AuthService) Me(ctx context.Context, kind models.AccountKind, id string) (*models.AccountInfo, error) {
	account, err := s.repo.FindByID(ctx, kind, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "account not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load account")
	}
	info := account.Info(kind)
	return &info, nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.TokenSecret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}

func (s *AuthService) generateAccessToken(account *models.Account, kind models.AccountKind) (string, time.Time, error) {
	issuedAt := time.Now().UTC()
	expiresAt := issuedAt.Add(s.config.TokenExpiry)
	claims := &models.JWTClaims{
		AccountID: account.ID,
		Kind:      kind,
		Username:  account.Username,
		Role:      account.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   account.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.TokenSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, issuedAt, nil
}
