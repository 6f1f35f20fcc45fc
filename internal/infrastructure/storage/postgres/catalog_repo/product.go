package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"faturah/internal/core/apperror"
	"faturah/internal/core/tenant"
	"faturah/internal/domain/catalogs/product"
	"faturah/internal/infrastructure/storage/postgres"
)

const productTable = "cat_products"

// ProductRepo provides storage for the product catalog.
type ProductRepo struct {
	*BaseCatalogRepo[*product.Product]
}

// NewProductRepo creates a new product repository.
func NewProductRepo(txManager *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			productTable,
			postgres.ExtractDBColumns[product.Product](),
			[]string{"name", "sku", "description"},
			func() *product.Product { return &product.Product{} },
		),
	}
}

// FindBySKU retrieves a product by SKU within the scope.
func (r *ProductRepo) FindBySKU(ctx context.Context, sku string) (*product.Product, error) {
	scope, err := tenant.GetScope(ctx)
	if err != nil {
		return nil, err
	}

	sql, args, err := r.baseSelect(scope).
		Where(squirrel.Eq{"sku": sku}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p product.Product
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("product", sku)
		}
		return nil, fmt.Errorf("find by sku: %w", err)
	}

	return &p, nil
}
