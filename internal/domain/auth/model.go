// Package auth provides authentication domain logic.
package auth

import (
	"context"
	"strings"
	"time"

	"faturah/internal/core/apperror"
	appctx "faturah/internal/core/context"
	"faturah/internal/core/id"
)

// User represents a tenant account. Every user IS a tenant: the
// account type decides which ownership column the user's data lives
// under, and the user's ID is the tenant ID.
type User struct {
	ID                  id.ID             `db:"id" json:"id"`
	Email               string            `db:"email" json:"email"`
	PasswordHash        string            `db:"password_hash" json:"-"`
	Name                string            `db:"name" json:"name,omitempty"`
	AccountType         appctx.AccountType `db:"account_type" json:"accountType"`
	IsActive            bool              `db:"is_active" json:"isActive"`
	LastLoginAt         *time.Time        `db:"last_login_at" json:"lastLoginAt,omitempty"`
	FailedLoginAttempts int               `db:"failed_login_attempts" json:"-"`
	LockedUntil         *time.Time        `db:"locked_until" json:"-"`
	CreatedAt           time.Time         `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time         `db:"updated_at" json:"updatedAt"`
	Version             int               `db:"version" json:"version"`
}

// NewUser creates a new active user.
func NewUser(email, passwordHash string, accountType appctx.AccountType) *User {
	now := time.Now().UTC()
	return &User{
		ID:           id.New(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: passwordHash,
		AccountType:  accountType,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
		Version:      1,
	}
}

// Validate validates user data.
func (u *User) Validate(ctx context.Context) error {
	if u.Email == "" {
		return apperror.NewFieldValidation("email", "email is required")
	}
	switch u.AccountType {
	case appctx.AccountOrganization, appctx.AccountIndividual:
	default:
		return apperror.NewFieldValidation("accountType", "account type must be organization or individual")
	}
	return nil
}

// IsLocked returns true if the account is locked.
func (u *User) IsLocked() bool {
	return u.LockedUntil != nil && time.Now().Before(*u.LockedUntil)
}

// CanLogin checks whether the user may authenticate.
func (u *User) CanLogin() error {
	if !u.IsActive {
		return apperror.NewForbidden("account is disabled")
	}
	if u.IsLocked() {
		return apperror.NewForbidden("account is temporarily locked")
	}
	return nil
}

// RecordFailedLogin increments the failed login counter and locks the
// account once the limit is reached.
func (u *User) RecordFailedLogin(maxAttempts int, lockDuration time.Duration) {
	u.FailedLoginAttempts++
	if u.FailedLoginAttempts >= maxAttempts {
		lockUntil := time.Now().Add(lockDuration)
		u.LockedUntil = &lockUntil
	}
}

// RecordSuccessfulLogin resets the failed login counter.
func (u *User) RecordSuccessfulLogin() {
	u.FailedLoginAttempts = 0
	u.LockedUntil = nil
	now := time.Now()
	u.LastLoginAt = &now
}

// RefreshToken is a stored, hashed refresh token.
type RefreshToken struct {
	ID        id.ID      `db:"id" json:"id"`
	UserID    id.ID      `db:"user_id" json:"userId"`
	TokenHash string     `db:"token_hash" json:"-"`
	ExpiresAt time.Time  `db:"expires_at" json:"expiresAt"`
	RevokedAt *time.Time `db:"revoked_at" json:"-"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
}

// IsValid reports whether the token can still be redeemed.
func (t *RefreshToken) IsValid() bool {
	return t.RevokedAt == nil && time.Now().Before(t.ExpiresAt)
}

// Credentials for login.
type Credentials struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest for account creation.
type RegisterRequest struct {
	Email       string             `json:"email" binding:"required"`
	Password    string             `json:"password" binding:"required"`
	Name        string             `json:"name"`
	AccountType appctx.AccountType `json:"accountType" binding:"required"`
}

// TokenPair is the login/refresh response.
type TokenPair struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
	TokenType    string    `json:"tokenType"`
}
