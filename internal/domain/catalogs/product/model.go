// Package product provides the product catalog.
package product

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"faturah/internal/core/apperror"
	"faturah/internal/core/entity"
	"faturah/internal/core/id"
	"faturah/internal/core/tenant"
	"faturah/internal/core/types"
)

// Product is a sellable item. SalePrice and VATPercent seed new
// document lines; the line keeps its own copy afterwards, so later
// price changes never touch existing documents.
type Product struct {
	entity.Catalog

	SKU         string `db:"sku" json:"sku,omitempty"`
	Description string `db:"description" json:"description,omitempty"`

	SalePrice  types.Money     `db:"sale_price" json:"salePrice"`
	VATPercent decimal.Decimal `db:"vat_percent" json:"vatPercent"`

	// UnitID references the unit catalog
	UnitID *id.ID `db:"unit_id" json:"unitId,omitempty"`
}

// New creates a product owned by the given scope with the default VAT rate.
func New(scope tenant.Scope, name string) *Product {
	return &Product{
		Catalog:    entity.NewCatalog(scope, name),
		VATPercent: decimal.NewFromInt(15),
	}
}

// Validate implements entity.Validatable.
func (p *Product) Validate(ctx context.Context) error {
	p.Name = strings.TrimSpace(p.Name)
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}

	if p.SalePrice.IsNegative() {
		return apperror.NewFieldValidation("salePrice", "sale price must not be negative")
	}
	if p.VATPercent.IsNegative() || p.VATPercent.GreaterThan(decimal.NewFromInt(100)) {
		return apperror.NewFieldValidation("vatPercent", "vat percent must be between 0 and 100")
	}

	return nil
}
