package handlers

import (
	"faturah/internal/core/tenant"
	"faturah/internal/domain"
	"faturah/internal/domain/catalogs/unit"
	"faturah/internal/infrastructure/http/v1/dto"
)

// UnitHTTPHandler is the configured generic handler for units.
type UnitHTTPHandler = CatalogHandler[
	*unit.Unit,
	dto.CreateUnitRequest,
	dto.UpdateUnitRequest,
]

// NewUnitHandler wires the generic catalog handler to the unit catalog.
func NewUnitHandler(
	base *BaseHandler,
	service *domain.CatalogService[*unit.Unit],
) *UnitHTTPHandler {
	config := CatalogHandlerConfig[
		*unit.Unit,
		dto.CreateUnitRequest,
		dto.UpdateUnitRequest,
	]{
		Service:    service,
		EntityName: "unit",

		MapCreateDTO: func(scope tenant.Scope, req dto.CreateUnitRequest) (*unit.Unit, error) {
			return req.ToEntity(scope), nil
		},

		MapUpdateDTO: func(req dto.UpdateUnitRequest, existing *unit.Unit) (*unit.Unit, error) {
			req.ApplyTo(existing)
			return existing, nil
		},

		MapToDTO: func(u *unit.Unit) any {
			return dto.FromUnit(u)
		},
	}

	return NewCatalogHandler(base, config)
}
