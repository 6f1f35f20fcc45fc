// Package catalog_repo provides PostgreSQL implementations for catalog
// repositories. All tenants share tables; every query carries the
// ownership predicate for the scope resolved from the request context.
package catalog_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"faturah/internal/core/apperror"
	"faturah/internal/core/id"
	"faturah/internal/core/tenant"
	"faturah/internal/domain"
	"faturah/internal/domain/filter"
	"faturah/internal/infrastructure/storage/postgres"
)

// BaseCatalogRepo provides common CRUD operations for catalog entities.
// Embed this in specific catalog repositories.
type BaseCatalogRepo[T any] struct {
	txManager  *postgres.TxManager
	tableName  string
	selectCols []string
	searchCols []string
	newFn      func() T
}

// NewBaseCatalogRepo creates a new base catalog repository.
// searchCols are the columns substring search runs against.
func NewBaseCatalogRepo[T any](
	txManager *postgres.TxManager,
	tableName string,
	selectCols []string,
	searchCols []string,
	newFn func() T,
) *BaseCatalogRepo[T] {
	return &BaseCatalogRepo[T]{
		txManager:  txManager,
		tableName:  tableName,
		selectCols: selectCols,
		searchCols: searchCols,
		newFn:      newFn,
	}
}

// Builder returns a squirrel builder with PostgreSQL placeholders.
func (r *BaseCatalogRepo[T]) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// scopeWhere is the ownership predicate: the scope's column equals the
// tenant ID and the other column is NULL. Applied to every statement.
func scopeWhere(scope tenant.Scope) squirrel.And {
	return squirrel.And{
		squirrel.Eq{scope.OwnerColumn(): scope.TenantID},
		squirrel.Eq{scope.OtherColumn(): nil},
	}
}

// Create inserts a new entity using its "db" tags. The ownership
// columns are stamped from the scope, overriding whatever the entity
// carried.
func (r *BaseCatalogRepo[T]) Create(ctx context.Context, e T) error {
	scope, err := tenant.GetScope(ctx)
	if err != nil {
		return err
	}

	data := postgres.StructToMap(e)
	if len(data) == 0 {
		return fmt.Errorf("no db tags found in entity")
	}

	cols := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if val, ok := data[col]; ok {
			cols[col] = val
		}
	}
	scope.Stamp(cols)

	sql, args, err := r.Builder().
		Insert(r.tableName).
		SetMap(cols).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return translateError(err, r.tableName)
	}

	return nil
}

// Update modifies an existing entity with optimistic locking.
// Only rows inside the scope are reachable; ownership columns and ID
// never change.
func (r *BaseCatalogRepo[T]) Update(ctx context.Context, e T) error {
	scope, err := tenant.GetScope(ctx)
	if err != nil {
		return err
	}

	data := postgres.StructToMap(e)
	entityID, ok := data["id"]
	if !ok {
		return fmt.Errorf("entity has no 'id' field with db tag")
	}
	version, ok := data["version"].(int)
	if !ok {
		return fmt.Errorf("entity has no 'version' field or it is not an int")
	}

	cols := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		switch col {
		case "id", "version", tenant.ColumnCompanyUser, tenant.ColumnIndividualUser:
			continue
		}
		if val, ok := data[col]; ok {
			cols[col] = val
		}
	}

	sql, args, err := r.Builder().
		Update(r.tableName).
		SetMap(cols).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": entityID}).
		Where(squirrel.Eq{"version": version}).
		Where(scopeWhere(scope)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return translateError(err, r.tableName)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConflict("entity was modified concurrently or does not exist").
			WithDetail("entity", r.tableName).
			WithDetail("id", entityID)
	}

	return nil
}

func (r *BaseCatalogRepo[T]) baseSelect(scope tenant.Scope) squirrel.SelectBuilder {
	return r.Builder().
		Select(r.selectCols...).
		From(r.tableName).
		Where(scopeWhere(scope))
}

// GetByID retrieves an entity by ID within the scope.
func (r *BaseCatalogRepo[T]) GetByID(ctx context.Context, entityID id.ID) (T, error) {
	e := r.newFn()

	scope, err := tenant.GetScope(ctx)
	if err != nil {
		return e, err
	}

	sql, args, err := r.baseSelect(scope).
		Where(squirrel.Eq{"id": entityID}).
		Limit(1).
		ToSql()
	if err != nil {
		return e, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), e, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return e, apperror.NewNotFound(r.tableName, entityID.String())
		}
		return e, fmt.Errorf("get by id: %w", err)
	}

	return e, nil
}

// List retrieves entities with filtering and pagination.
func (r *BaseCatalogRepo[T]) List(ctx context.Context, f domain.ListFilter) (domain.ListResult[T], error) {
	result := domain.ListResult[T]{
		Limit:  f.Limit,
		Offset: f.Offset,
	}

	scope, err := tenant.GetScope(ctx)
	if err != nil {
		return result, err
	}

	q := r.baseSelect(scope)

	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		or := make(squirrel.Or, 0, len(r.searchCols))
		for _, col := range r.searchCols {
			or = append(or, squirrel.ILike{col: pattern})
		}
		if len(or) > 0 {
			q = q.Where(or)
		}
	}

	if len(f.IDs) > 0 {
		q = q.Where(squirrel.Eq{"id": f.IDs})
	}

	q, err = r.applyAdvancedFilters(q, f.AdvancedFilters)
	if err != nil {
		return result, err
	}

	countSQL, countArgs, err := r.Builder().
		Select("COUNT(*)").
		FromSelect(q, "sub").
		ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderBy, err := r.parseOrderBy(f.OrderBy)
	if err != nil {
		return result, err
	}
	q = q.OrderBy(orderBy)

	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list: %w", err)
	}

	return result, nil
}

// applyAdvancedFilters translates filter items into predicates.
// Columns are whitelisted against the select list.
func (r *BaseCatalogRepo[T]) applyAdvancedFilters(q squirrel.SelectBuilder, filters []filter.Item) (squirrel.SelectBuilder, error) {
	validCols := make(map[string]bool, len(r.selectCols))
	for _, col := range r.selectCols {
		validCols[col] = true
	}

	for _, item := range filters {
		if !validCols[item.Field] {
			return q, apperror.NewFieldValidation("filter", fmt.Sprintf("invalid filter column: %s", item.Field))
		}

		switch item.Operator {
		case filter.Equal:
			q = q.Where(squirrel.Eq{item.Field: item.Value})
		case filter.NotEqual:
			q = q.Where(squirrel.NotEq{item.Field: item.Value})
		case filter.LessOrEqual:
			q = q.Where(squirrel.LtOrEq{item.Field: item.Value})
		case filter.GreaterOrEqual:
			q = q.Where(squirrel.GtOrEq{item.Field: item.Value})
		case filter.Less:
			q = q.Where(squirrel.Lt{item.Field: item.Value})
		case filter.Greater:
			q = q.Where(squirrel.Gt{item.Field: item.Value})
		case filter.InList:
			q = q.Where(squirrel.Eq{item.Field: item.Value})
		case filter.Contains:
			q = q.Where(squirrel.ILike{item.Field: fmt.Sprintf("%%%v%%", item.Value)})
		case filter.IsNull:
			q = q.Where(squirrel.Eq{item.Field: nil})
		case filter.IsNotNull:
			q = q.Where(squirrel.NotEq{item.Field: nil})
		default:
			return q, apperror.NewFieldValidation("filter", fmt.Sprintf("unsupported operator: %s", item.Operator))
		}
	}

	return q, nil
}

// parseOrderBy validates the order clause against the column whitelist.
// A leading '-' means descending.
func (r *BaseCatalogRepo[T]) parseOrderBy(orderBy string) (string, error) {
	if orderBy == "" {
		orderBy = "name"
	}

	col := orderBy
	dir := "ASC"
	if col[0] == '-' {
		col = col[1:]
		dir = "DESC"
	}

	for _, valid := range r.selectCols {
		if valid == col {
			return col + " " + dir, nil
		}
	}
	return "", apperror.NewFieldValidation("orderBy", fmt.Sprintf("invalid order column: %s", col))
}

// Exists checks whether the entity exists within the scope.
func (r *BaseCatalogRepo[T]) Exists(ctx context.Context, entityID id.ID) (bool, error) {
	scope, err := tenant.GetScope(ctx)
	if err != nil {
		return false, err
	}

	sql, args, err := r.Builder().
		Select("1").
		From(r.tableName).
		Where(squirrel.Eq{"id": entityID}).
		Where(scopeWhere(scope)).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	err = r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists: %w", err)
	}

	return true, nil
}

// Delete performs physical removal from the database.
func (r *BaseCatalogRepo[T]) Delete(ctx context.Context, entityID id.ID) error {
	scope, err := tenant.GetScope(ctx)
	if err != nil {
		return err
	}

	sql, args, err := r.Builder().
		Delete(r.tableName).
		Where(squirrel.Eq{"id": entityID}).
		Where(scopeWhere(scope)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return translateError(err, r.tableName)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.tableName, entityID.String())
	}

	return nil
}

// translateError maps PostgreSQL errors onto AppError codes.
func translateError(err error, table string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return apperror.NewDuplicate(table, pgErr.ConstraintName, pgErr.Detail).WithCause(err)
		case "23503": // foreign_key_violation
			return apperror.NewBusinessRule(apperror.CodeBusinessRule, "referenced entity does not exist").
				WithDetail("constraint", pgErr.ConstraintName).WithCause(err)
		}
	}
	return fmt.Errorf("%s: %w", table, err)
}
