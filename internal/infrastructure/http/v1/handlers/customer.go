package handlers

import (
	"faturah/internal/core/tenant"
	"faturah/internal/domain"
	"faturah/internal/domain/catalogs/customer"
	"faturah/internal/infrastructure/http/v1/dto"
)

// CustomerHTTPHandler is the configured generic handler for customers.
type CustomerHTTPHandler = CatalogHandler[
	*customer.Customer,
	dto.CreateCustomerRequest,
	dto.UpdateCustomerRequest,
]

// NewCustomerHandler wires the generic catalog handler to the customer catalog.
func NewCustomerHandler(
	base *BaseHandler,
	service *domain.CatalogService[*customer.Customer],
) *CustomerHTTPHandler {
	config := CatalogHandlerConfig[
		*customer.Customer,
		dto.CreateCustomerRequest,
		dto.UpdateCustomerRequest,
	]{
		Service:    service,
		EntityName: "customer",

		MapCreateDTO: func(scope tenant.Scope, req dto.CreateCustomerRequest) (*customer.Customer, error) {
			return req.ToEntity(scope), nil
		},

		MapUpdateDTO: func(req dto.UpdateCustomerRequest, existing *customer.Customer) (*customer.Customer, error) {
			req.ApplyTo(existing)
			return existing, nil
		},

		MapToDTO: func(cust *customer.Customer) any {
			return dto.FromCustomer(cust)
		},
	}

	return NewCatalogHandler(base, config)
}
