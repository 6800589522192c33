package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating an account. UserType
// defaults to the regular user store when omitted.
type LoginRequest struct {
	Username string      `json:"username" validate:"required"`
	Password string      `json:"password" validate:"required"`
	UserType AccountKind `json:"userType"`
}

// LoginResponse returns the issued token and account info.
type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresIn int64       `json:"expires_in"`
	IssuedAt  time.Time   `json:"issued_at"`
	User      AccountInfo `json:"user"`
}

// RegisterRequest captures the public signup payload. Registration always
// creates a regular user account.
type RegisterRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone"`
	Username  string `json:"username" validate:"required,min=3"`
	Password  string `json:"password" validate:"required,min=6"`
	Role      string `json:"role"`
}

// JWTClaims represents the signed token payload.
type JWTClaims struct {
	AccountID string      `json:"account_id"`
	Kind      AccountKind `json:"user_type"`
	Username  string      `json:"username"`
	Role      string      `json:"role"`
	jwt.RegisteredClaims
}
