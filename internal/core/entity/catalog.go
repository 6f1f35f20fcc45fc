package entity

import (
	"context"

	"faturah/internal/core/apperror"
	"faturah/internal/core/id"
	"faturah/internal/core/tenant"
)

// Catalog is the base type for tenant-scoped master data
// (Customers, Products, Units).
type Catalog struct {
	BaseEntity

	// Name is the display name
	Name string `db:"name" json:"name"`

	// Ownership: exactly one of the two is set, never both, never neither.
	CompanyUserID    *id.ID `db:"company_user_id" json:"companyUserId,omitempty"`
	IndividualUserID *id.ID `db:"individual_user_id" json:"individualUserId,omitempty"`
}

// NewCatalog creates a new Catalog owned by the given scope.
func NewCatalog(scope tenant.Scope, name string) Catalog {
	c := Catalog{
		BaseEntity: NewBaseEntity(),
		Name:       name,
	}
	c.SetOwner(scope)
	return c
}

// SetOwner stamps the ownership columns from the resolved scope.
func (c *Catalog) SetOwner(scope tenant.Scope) {
	tid := scope.TenantID
	if scope.IsOrganization {
		c.CompanyUserID = &tid
		c.IndividualUserID = nil
	} else {
		c.IndividualUserID = &tid
		c.CompanyUserID = nil
	}
}

// Validate implements Validatable interface.
func (c *Catalog) Validate(ctx context.Context) error {
	if c.Name == "" {
		return apperror.NewFieldValidation("name", "name is required")
	}

	if (c.CompanyUserID == nil) == (c.IndividualUserID == nil) {
		return apperror.NewBusinessRule(
			apperror.CodeBusinessRule,
			"entity must have exactly one owner",
		).WithDetail("id", c.ID.String())
	}

	return nil
}
