// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// AccountType distinguishes the two kinds of tenant accounts.
type AccountType string

const (
	AccountOrganization AccountType = "organization"
	AccountIndividual   AccountType = "individual"
)

// UserContext contains authenticated user information.
// It is the session the tenant scope resolver consumes.
type UserContext struct {
	UserID      string
	Email       string
	AccountType AccountType
	SessionID   string
}

// IsOrganization reports whether the session belongs to an organization account.
func (u *UserContext) IsOrganization() bool {
	return u.AccountType == AccountOrganization
}

type userContextKey struct{}

// WithUser adds UserContext to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns UserContext from context.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetUserID returns user ID from context or empty string.
func GetUserID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return ""
}
