// Package customer provides the customer catalog.
package customer

import (
	"context"
	"strings"

	"faturah/internal/core/apperror"
	"faturah/internal/core/entity"
	"faturah/internal/core/tenant"
)

// Customer is a party documents are issued to.
type Customer struct {
	entity.Catalog

	Email string `db:"email" json:"email,omitempty"`
	Phone string `db:"phone" json:"phone,omitempty"`

	// VATNumber is the customer's tax registration number, printed on
	// invoices when present.
	VATNumber string `db:"vat_number" json:"vatNumber,omitempty"`

	Address string `db:"address" json:"address,omitempty"`
}

// New creates a customer owned by the given scope.
func New(scope tenant.Scope, name string) *Customer {
	return &Customer{Catalog: entity.NewCatalog(scope, name)}
}

// Validate implements entity.Validatable.
func (c *Customer) Validate(ctx context.Context) error {
	c.Name = strings.TrimSpace(c.Name)
	if err := c.Catalog.Validate(ctx); err != nil {
		return err
	}

	if c.Email != "" && !strings.Contains(c.Email, "@") {
		return apperror.NewFieldValidation("email", "invalid email address")
	}

	return nil
}
