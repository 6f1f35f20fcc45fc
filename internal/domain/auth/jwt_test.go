package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "faturah/internal/core/context"
	"faturah/internal/core/tenant"
)

func TestJWTRoundTrip(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("test-secret"))

	user := NewUser("owner@example.com", "hash", appctx.AccountOrganization)

	token, expiresAt, err := svc.GenerateAccessToken(user, "session-1")
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	session, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), session.UserID)
	assert.Equal(t, user.Email, session.Email)
	assert.Equal(t, appctx.AccountOrganization, session.AccountType)
	assert.Equal(t, "session-1", session.SessionID)

	// The session must resolve into a tenant scope.
	scope, err := tenant.Resolve(session)
	require.NoError(t, err)
	assert.True(t, scope.IsOrganization)
	assert.Equal(t, user.ID, scope.TenantID)
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	issuer := NewJWTService(DefaultJWTConfig("secret-a"))
	verifier := NewJWTService(DefaultJWTConfig("secret-b"))

	user := NewUser("owner@example.com", "hash", appctx.AccountIndividual)
	token, _, err := issuer.GenerateAccessToken(user, "")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTRejectsExpired(t *testing.T) {
	cfg := DefaultJWTConfig("test-secret")
	cfg.AccessTokenTTL = -time.Minute
	svc := NewJWTService(cfg)

	user := NewUser("owner@example.com", "hash", appctx.AccountIndividual)
	token, _, err := svc.GenerateAccessToken(user, "")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestUserLockout(t *testing.T) {
	user := NewUser("owner@example.com", "hash", appctx.AccountIndividual)

	for i := 0; i < 4; i++ {
		user.RecordFailedLogin(5, 15*time.Minute)
	}
	require.NoError(t, user.CanLogin())

	user.RecordFailedLogin(5, 15*time.Minute)
	assert.Error(t, user.CanLogin())

	user.RecordSuccessfulLogin()
	assert.NoError(t, user.CanLogin())
}
