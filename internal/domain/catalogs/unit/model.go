// Package unit provides the unit-of-measure catalog.
package unit

import (
	"context"
	"strings"

	"faturah/internal/core/entity"
	"faturah/internal/core/tenant"
)

// Unit is a unit of measure (piece, hour, kilogram).
type Unit struct {
	entity.Catalog

	// Symbol is the short display form, e.g. "pcs"
	Symbol string `db:"symbol" json:"symbol,omitempty"`
}

// New creates a unit owned by the given scope.
func New(scope tenant.Scope, name, symbol string) *Unit {
	return &Unit{
		Catalog: entity.NewCatalog(scope, name),
		Symbol:  symbol,
	}
}

// Validate implements entity.Validatable.
func (u *Unit) Validate(ctx context.Context) error {
	u.Name = strings.TrimSpace(u.Name)
	u.Symbol = strings.TrimSpace(u.Symbol)
	return u.Catalog.Validate(ctx)
}
