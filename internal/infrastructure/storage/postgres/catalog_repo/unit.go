package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"faturah/internal/core/apperror"
	"faturah/internal/core/tenant"
	"faturah/internal/domain/catalogs/unit"
	"faturah/internal/infrastructure/storage/postgres"
)

const unitTable = "cat_units"

// UnitRepo provides storage for the unit catalog.
type UnitRepo struct {
	*BaseCatalogRepo[*unit.Unit]
}

// NewUnitRepo creates a new unit repository.
func NewUnitRepo(txManager *postgres.TxManager) *UnitRepo {
	return &UnitRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			unitTable,
			postgres.ExtractDBColumns[unit.Unit](),
			[]string{"name", "symbol"},
			func() *unit.Unit { return &unit.Unit{} },
		),
	}
}

// FindBySymbol retrieves a unit by symbol within the scope.
func (r *UnitRepo) FindBySymbol(ctx context.Context, symbol string) (*unit.Unit, error) {
	scope, err := tenant.GetScope(ctx)
	if err != nil {
		return nil, err
	}

	sql, args, err := r.baseSelect(scope).
		Where(squirrel.Eq{"symbol": symbol}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var u unit.Unit
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &u, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("unit", symbol)
		}
		return nil, fmt.Errorf("find by symbol: %w", err)
	}

	return &u, nil
}
