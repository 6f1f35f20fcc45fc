package handlers

import (
	"faturah/internal/core/tenant"
	"faturah/internal/domain"
	"faturah/internal/domain/catalogs/product"
	"faturah/internal/infrastructure/http/v1/dto"
)

// ProductHTTPHandler is the configured generic handler for products.
type ProductHTTPHandler = CatalogHandler[
	*product.Product,
	dto.CreateProductRequest,
	dto.UpdateProductRequest,
]

// NewProductHandler wires the generic catalog handler to the product catalog.
func NewProductHandler(
	base *BaseHandler,
	service *domain.CatalogService[*product.Product],
) *ProductHTTPHandler {
	config := CatalogHandlerConfig[
		*product.Product,
		dto.CreateProductRequest,
		dto.UpdateProductRequest,
	]{
		Service:    service,
		EntityName: "product",

		MapCreateDTO: func(scope tenant.Scope, req dto.CreateProductRequest) (*product.Product, error) {
			return req.ToEntity(scope)
		},

		MapUpdateDTO: func(req dto.UpdateProductRequest, existing *product.Product) (*product.Product, error) {
			if err := req.ApplyTo(existing); err != nil {
				return nil, err
			}
			return existing, nil
		},

		MapToDTO: func(p *product.Product) any {
			return dto.FromProduct(p)
		},
	}

	return NewCatalogHandler(base, config)
}
