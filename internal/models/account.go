package models

import "time"

// AccountKind selects which credential store a login targets.
type AccountKind string

const (
	KindUser  AccountKind = "user"
	KindAdmin AccountKind = "admin"
)

// Valid reports whether the kind names a known credential store.
func (k AccountKind) Valid() bool {
	return k == KindUser || k == KindAdmin
}

// Account is a credential record from either the users or admins table.
// Both kinds share the same shape, including the lockout fields.
type Account struct {
	ID            string     `db:"id" json:"id"`
	Username      string     `db:"username" json:"username"`
	Email         string     `db:"email" json:"email"`
	PasswordHash  string     `db:"password_hash" json:"-"`
	FirstName     string     `db:"first_name" json:"first_name,omitempty"`
	LastName      string     `db:"last_name" json:"last_name,omitempty"`
	Phone         string     `db:"phone" json:"phone,omitempty"`
	Role          string     `db:"role" json:"role"`
	Active        bool       `db:"active" json:"active"`
	LoginAttempts int        `db:"login_attempts" json:"-"`
	LockUntil     *time.Time `db:"lock_until" json:"-"`
	LastLogin     *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// Locked reports whether the account is locked at the given instant.
func (a *Account) Locked(now time.Time) bool {
	return a.LockUntil != nil && a.LockUntil.After(now)
}

// Info returns the public projection of the account. The password hash is
// never part of it.
func (a *Account) Info(kind AccountKind) AccountInfo {
	return AccountInfo{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Role:      a.Role,
		UserType:  kind,
		LastLogin: a.LastLogin,
	}
}

// AccountInfo describes an account in API responses.
type AccountInfo struct {
	ID        string      `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	FirstName string      `json:"first_name,omitempty"`
	LastName  string      `json:"last_name,omitempty"`
	Role      string      `json:"role"`
	UserType  AccountKind `json:"user_type"`
	LastLogin *time.Time  `json:"last_login,omitempty"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
