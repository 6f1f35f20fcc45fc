package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"faturah/internal/core/apperror"
	"faturah/internal/core/tenant"
	"faturah/internal/domain/catalogs/customer"
	"faturah/internal/infrastructure/storage/postgres"
)

const customerTable = "cat_customers"

// CustomerRepo provides storage for the customer catalog.
type CustomerRepo struct {
	*BaseCatalogRepo[*customer.Customer]
}

// NewCustomerRepo creates a new customer repository.
func NewCustomerRepo(txManager *postgres.TxManager) *CustomerRepo {
	return &CustomerRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			customerTable,
			postgres.ExtractDBColumns[customer.Customer](),
			[]string{"name", "email", "vat_number"},
			func() *customer.Customer { return &customer.Customer{} },
		),
	}
}

// FindByVATNumber retrieves a customer by tax registration number.
func (r *CustomerRepo) FindByVATNumber(ctx context.Context, vatNumber string) (*customer.Customer, error) {
	scope, err := tenant.GetScope(ctx)
	if err != nil {
		return nil, err
	}

	sql, args, err := r.baseSelect(scope).
		Where(squirrel.Eq{"vat_number": vatNumber}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var c customer.Customer
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &c, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("customer", vatNumber)
		}
		return nil, fmt.Errorf("find by vat number: %w", err)
	}

	return &c, nil
}
