package dto

import (
	"github.com/shopspring/decimal"

	"faturah/internal/core/id"
	"faturah/internal/core/tenant"
	"faturah/internal/domain/catalogs/customer"
	"faturah/internal/domain/catalogs/product"
	"faturah/internal/domain/catalogs/unit"
)

// --- Customers ---

// CustomerResponse contains customer fields.
type CustomerResponse struct {
	ID        string `json:"id"`
	Version   int    `json:"version"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	VATNumber string `json:"vatNumber,omitempty"`
	Address   string `json:"address,omitempty"`
}

// FromCustomer creates CustomerResponse from the domain entity.
func FromCustomer(c *customer.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID.String(),
		Version:   c.Version,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		VATNumber: c.VATNumber,
		Address:   c.Address,
	}
}

// CreateCustomerRequest for creating customers.
type CreateCustomerRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	VATNumber string `json:"vatNumber"`
	Address   string `json:"address"`
}

// ToEntity maps the request to a domain entity owned by scope.
func (r CreateCustomerRequest) ToEntity(scope tenant.Scope) *customer.Customer {
	c := customer.New(scope, r.Name)
	c.Email = r.Email
	c.Phone = r.Phone
	c.VATNumber = r.VATNumber
	c.Address = r.Address
	return c
}

// UpdateCustomerRequest for updating customers.
type UpdateCustomerRequest struct {
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	VATNumber *string `json:"vatNumber"`
	Address   *string `json:"address"`
	Version   int     `json:"version" binding:"required,min=1"`
}

// ApplyTo applies the partial update onto the existing entity.
func (r UpdateCustomerRequest) ApplyTo(c *customer.Customer) {
	if r.Name != nil {
		c.Name = *r.Name
	}
	if r.Email != nil {
		c.Email = *r.Email
	}
	if r.Phone != nil {
		c.Phone = *r.Phone
	}
	if r.VATNumber != nil {
		c.VATNumber = *r.VATNumber
	}
	if r.Address != nil {
		c.Address = *r.Address
	}
	c.Version = r.Version
}

// --- Products ---

// ProductResponse contains product fields.
type ProductResponse struct {
	ID          string          `json:"id"`
	Version     int             `json:"version"`
	Name        string          `json:"name"`
	SKU         string          `json:"sku,omitempty"`
	Description string          `json:"description,omitempty"`
	SalePrice   decimal.Decimal `json:"salePrice"`
	VATPercent  decimal.Decimal `json:"vatPercent"`
	UnitID      *string         `json:"unitId,omitempty"`
}

// FromProduct creates ProductResponse from the domain entity.
func FromProduct(p *product.Product) ProductResponse {
	resp := ProductResponse{
		ID:          p.ID.String(),
		Version:     p.Version,
		Name:        p.Name,
		SKU:         p.SKU,
		Description: p.Description,
		SalePrice:   p.SalePrice,
		VATPercent:  p.VATPercent,
	}
	if p.UnitID != nil {
		s := p.UnitID.String()
		resp.UnitID = &s
	}
	return resp
}

// CreateProductRequest for creating products.
type CreateProductRequest struct {
	Name        string           `json:"name" binding:"required"`
	SKU         string           `json:"sku"`
	Description string           `json:"description"`
	SalePrice   decimal.Decimal  `json:"salePrice"`
	VATPercent  *decimal.Decimal `json:"vatPercent"`
	UnitID      *string          `json:"unitId"`
}

// ToEntity maps the request to a domain entity owned by scope.
// An absent VAT percentage keeps the catalog default.
func (r CreateProductRequest) ToEntity(scope tenant.Scope) (*product.Product, error) {
	p := product.New(scope, r.Name)
	p.SKU = r.SKU
	p.Description = r.Description
	p.SalePrice = r.SalePrice
	if r.VATPercent != nil {
		p.VATPercent = *r.VATPercent
	}
	if r.UnitID != nil {
		unitID, err := id.Parse(*r.UnitID)
		if err != nil {
			return nil, err
		}
		p.UnitID = &unitID
	}
	return p, nil
}

// UpdateProductRequest for updating products.
type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	SKU         *string          `json:"sku"`
	Description *string          `json:"description"`
	SalePrice   *decimal.Decimal `json:"salePrice"`
	VATPercent  *decimal.Decimal `json:"vatPercent"`
	UnitID      *string          `json:"unitId"`
	Version     int              `json:"version" binding:"required,min=1"`
}

// ApplyTo applies the partial update onto the existing entity.
func (r UpdateProductRequest) ApplyTo(p *product.Product) error {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.SKU != nil {
		p.SKU = *r.SKU
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
	if r.SalePrice != nil {
		p.SalePrice = *r.SalePrice
	}
	if r.VATPercent != nil {
		p.VATPercent = *r.VATPercent
	}
	if r.UnitID != nil {
		unitID, err := id.Parse(*r.UnitID)
		if err != nil {
			return err
		}
		p.UnitID = &unitID
	}
	p.Version = r.Version
	return nil
}

// --- Units ---

// UnitResponse contains unit fields.
type UnitResponse struct {
	ID      string `json:"id"`
	Version int    `json:"version"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol,omitempty"`
}

// FromUnit creates UnitResponse from the domain entity.
func FromUnit(u *unit.Unit) UnitResponse {
	return UnitResponse{
		ID:      u.ID.String(),
		Version: u.Version,
		Name:    u.Name,
		Symbol:  u.Symbol,
	}
}

// CreateUnitRequest for creating units.
type CreateUnitRequest struct {
	Name   string `json:"name" binding:"required"`
	Symbol string `json:"symbol"`
}

// ToEntity maps the request to a domain entity owned by scope.
func (r CreateUnitRequest) ToEntity(scope tenant.Scope) *unit.Unit {
	return unit.New(scope, r.Name, r.Symbol)
}

// UpdateUnitRequest for updating units.
type UpdateUnitRequest struct {
	Name    *string `json:"name"`
	Symbol  *string `json:"symbol"`
	Version int     `json:"version" binding:"required,min=1"`
}

// ApplyTo applies the partial update onto the existing entity.
func (r UpdateUnitRequest) ApplyTo(u *unit.Unit) {
	if r.Name != nil {
		u.Name = *r.Name
	}
	if r.Symbol != nil {
		u.Symbol = *r.Symbol
	}
	u.Version = r.Version
}
