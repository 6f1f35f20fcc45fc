package tenant

import (
	"context"
	"errors"
)

type ctxKey int

const scopeKey ctxKey = iota

// ErrNoScopeInContext is returned when a scope was never resolved for
// the request. Callers treat this as unauthenticated, never as a
// fallback to some default tenant.
var ErrNoScopeInContext = errors.New("tenant scope not found in context")

// WithScope stores the resolved scope in context.
func WithScope(ctx context.Context, scope Scope) context.Context {
	return context.WithValue(ctx, scopeKey, scope)
}

// GetScope retrieves the resolved scope from context.
func GetScope(ctx context.Context) (Scope, error) {
	scope, ok := ctx.Value(scopeKey).(Scope)
	if !ok || scope.IsZero() {
		return Scope{}, ErrNoScopeInContext
	}
	return scope, nil
}

// MustGetScope retrieves the scope or panics.
// Use only where a missing scope is a programming error (the scope
// middleware must have run before any repository call).
func MustGetScope(ctx context.Context) Scope {
	scope, err := GetScope(ctx)
	if err != nil {
		panic("tenant scope not in context: " + err.Error())
	}
	return scope
}
