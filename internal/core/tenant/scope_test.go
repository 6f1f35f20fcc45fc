package tenant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faturah/internal/core/apperror"
	appctx "faturah/internal/core/context"
	"faturah/internal/core/id"
)

func TestResolve(t *testing.T) {
	orgID := id.New()
	indID := id.New()

	tests := []struct {
		name    string
		session *appctx.UserContext
		want    Scope
		wantErr bool
	}{
		{
			name:    "organization session",
			session: &appctx.UserContext{UserID: orgID.String(), AccountType: appctx.AccountOrganization},
			want:    Scope{TenantID: orgID, IsOrganization: true},
		},
		{
			name:    "individual session",
			session: &appctx.UserContext{UserID: indID.String(), AccountType: appctx.AccountIndividual},
			want:    Scope{TenantID: indID, IsOrganization: false},
		},
		{
			name:    "nil session",
			session: nil,
			wantErr: true,
		},
		{
			name:    "empty user id",
			session: &appctx.UserContext{AccountType: appctx.AccountIndividual},
			wantErr: true,
		},
		{
			name:    "unknown account type",
			session: &appctx.UserContext{UserID: orgID.String(), AccountType: "service"},
			wantErr: true,
		},
		{
			name:    "malformed user id",
			session: &appctx.UserContext{UserID: "not-a-uuid", AccountType: appctx.AccountOrganization},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.session)
			if tt.wantErr {
				require.Error(t, err)
				appErr, ok := apperror.AsAppError(err)
				require.True(t, ok, "resolver failures must be AppErrors")
				assert.Equal(t, apperror.CodeUnauthenticated, appErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScopeColumns(t *testing.T) {
	org := Scope{TenantID: id.New(), IsOrganization: true}
	ind := Scope{TenantID: id.New(), IsOrganization: false}

	assert.Equal(t, ColumnCompanyUser, org.OwnerColumn())
	assert.Equal(t, ColumnIndividualUser, org.OtherColumn())
	assert.Equal(t, ColumnIndividualUser, ind.OwnerColumn())
	assert.Equal(t, ColumnCompanyUser, ind.OtherColumn())
}

func TestScopeStamp(t *testing.T) {
	scope := Scope{TenantID: id.New(), IsOrganization: true}

	cols := map[string]any{"reference_id": "QUO00001"}
	scope.Stamp(cols)

	assert.Equal(t, scope.TenantID, cols[ColumnCompanyUser])
	val, present := cols[ColumnIndividualUser]
	assert.True(t, present, "inactive owner column must be written as explicit NULL")
	assert.Nil(t, val)
}

func TestScopeContext(t *testing.T) {
	ctx := context.Background()

	_, err := GetScope(ctx)
	assert.ErrorIs(t, err, ErrNoScopeInContext)

	scope := Scope{TenantID: id.New(), IsOrganization: false}
	ctx = WithScope(ctx, scope)

	got, err := GetScope(ctx)
	require.NoError(t, err)
	assert.Equal(t, scope, got)
	assert.Equal(t, scope, MustGetScope(ctx))
}

func TestScopeKeyIsolation(t *testing.T) {
	// Two accounts with the same numeric identity but different account
	// types must never share cache or sequence keys.
	sameID := id.New()
	org := Scope{TenantID: sameID, IsOrganization: true}
	ind := Scope{TenantID: sameID, IsOrganization: false}

	assert.NotEqual(t, org.Key(), ind.Key())
}
