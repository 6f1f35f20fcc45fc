// Package tenant provides tenant scoping for the shared-database
// multi-tenant model. A document or master-data row is owned by exactly
// one of two mutually exclusive columns: company_user_id (organization
// accounts) or individual_user_id (individual accounts). Every read and
// write is filtered by the resolved scope; a query that crosses scopes
// is a data-isolation defect.
package tenant

import (
	"faturah/internal/core/apperror"
	appctx "faturah/internal/core/context"
	"faturah/internal/core/id"
)

// Ownership column names. The pair is the externally visible contract of
// the scoping model: exactly one is set on every owned row, never both,
// never neither.
const (
	ColumnCompanyUser    = "company_user_id"
	ColumnIndividualUser = "individual_user_id"
)

// Scope identifies the ownership boundary of a request.
// It is resolved once per request from the authenticated session and
// passed down to every repository call.
type Scope struct {
	TenantID       id.ID
	IsOrganization bool
}

// Resolve derives the tenant scope from an authenticated session.
// Missing or unidentifiable sessions are fatal for the request:
// no default tenant is ever assumed.
func Resolve(session *appctx.UserContext) (Scope, error) {
	if session == nil || session.UserID == "" {
		return Scope{}, apperror.NewUnauthenticated("no active session")
	}

	userID, err := id.Parse(session.UserID)
	if err != nil {
		return Scope{}, apperror.NewUnauthenticated("invalid session subject").
			WithDetail("user_id", session.UserID)
	}

	switch session.AccountType {
	case appctx.AccountOrganization:
		return Scope{TenantID: userID, IsOrganization: true}, nil
	case appctx.AccountIndividual:
		return Scope{TenantID: userID, IsOrganization: false}, nil
	default:
		return Scope{}, apperror.NewUnauthenticated("unknown account type").
			WithDetail("account_type", string(session.AccountType))
	}
}

// OwnerColumn returns the ownership column this scope writes to.
func (s Scope) OwnerColumn() string {
	if s.IsOrganization {
		return ColumnCompanyUser
	}
	return ColumnIndividualUser
}

// OtherColumn returns the ownership column that must stay NULL for rows
// belonging to this scope.
func (s Scope) OtherColumn() string {
	if s.IsOrganization {
		return ColumnIndividualUser
	}
	return ColumnCompanyUser
}

// Stamp writes the ownership columns into an insert column map:
// the active column gets the tenant ID, the other one an explicit NULL.
func (s Scope) Stamp(cols map[string]any) {
	cols[s.OwnerColumn()] = s.TenantID
	cols[s.OtherColumn()] = nil
}

// Key returns a stable string key for caches and sequence tables.
func (s Scope) Key() string {
	prefix := "ind"
	if s.IsOrganization {
		prefix = "org"
	}
	return prefix + ":" + s.TenantID.String()
}

// IsZero reports whether the scope was never resolved.
func (s Scope) IsZero() bool {
	return id.IsNil(s.TenantID)
}
