// Package document_repo provides the PostgreSQL implementation of the
// sales document repository. All three document kinds share one pair of
// tables with a kind discriminator; the unique reference constraint is
// (kind, owner, reference_id), matching the per-tenant numbering series.
package document_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"faturah/internal/core/apperror"
	"faturah/internal/core/id"
	"faturah/internal/core/tenant"
	"faturah/internal/domain"
	"faturah/internal/domain/documents"
	"faturah/internal/infrastructure/storage/postgres"
)

const (
	documentsTable     = "documents"
	documentLinesTable = "document_lines"
)

var _ documents.Repository = (*DocumentRepo)(nil)

// DocumentRepo implements documents.Repository.
type DocumentRepo struct {
	txManager  *postgres.TxManager
	selectCols []string
}

// NewDocumentRepo creates a new document repository.
func NewDocumentRepo(txManager *postgres.TxManager) *DocumentRepo {
	return &DocumentRepo{
		txManager:  txManager,
		selectCols: postgres.ExtractDBColumns[documents.Document](),
	}
}

// Builder returns a squirrel builder with PostgreSQL placeholders.
func (r *DocumentRepo) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func scopeWhere(scope tenant.Scope) squirrel.And {
	return squirrel.And{
		squirrel.Eq{scope.OwnerColumn(): scope.TenantID},
		squirrel.Eq{scope.OtherColumn(): nil},
	}
}

// Create inserts the document header. Ownership columns are stamped
// from the request scope.
func (r *DocumentRepo) Create(ctx context.Context, doc *documents.Document) error {
	scope, err := tenant.GetScope(ctx)
	if err != nil {
		return err
	}

	data := postgres.StructToMap(doc)
	cols := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if val, ok := data[col]; ok {
			cols[col] = val
		}
	}
	scope.Stamp(cols)

	sql, args, err := r.Builder().
		Insert(documentsTable).
		SetMap(cols).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return translateError(err)
	}

	return nil
}

func (r *DocumentRepo) baseSelect(scope tenant.Scope) squirrel.SelectBuilder {
	return r.Builder().
		Select(r.selectCols...).
		From(documentsTable).
		Where(scopeWhere(scope))
}

// GetByID retrieves a document header by ID within the scope.
func (r *DocumentRepo) GetByID(ctx context.Context, docID id.ID) (*documents.Document, error) {
	scope, err := tenant.GetScope(ctx)
	if err != nil {
		return nil, err
	}

	sql, args, err := r.baseSelect(scope).
		Where(squirrel.Eq{"id": docID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var doc documents.Document
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &doc, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("document", docID.String())
		}
		return nil, fmt.Errorf("get by id: %w", err)
	}

	return &doc, nil
}

// GetByReference retrieves a document by its human-readable reference.
func (r *DocumentRepo) GetByReference(ctx context.Context, kind documents.Kind, reference string) (*documents.Document, error) {
	scope, err := tenant.GetScope(ctx)
	if err != nil {
		return nil, err
	}

	sql, args, err := r.baseSelect(scope).
		Where(squirrel.Eq{"kind": kind, "reference_id": reference}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var doc documents.Document
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &doc, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("document", reference)
		}
		return nil, fmt.Errorf("get by reference: %w", err)
	}

	return &doc, nil
}

// Update updates the document header with optimistic locking.
// The reference, kind and ownership never change here.
func (r *DocumentRepo) Update(ctx context.Context, doc *documents.Document) error {
	scope, err := tenant.GetScope(ctx)
	if err != nil {
		return err
	}

	data := postgres.StructToMap(doc)
	version, ok := data["version"].(int)
	if !ok {
		return fmt.Errorf("document has no 'version' field")
	}

	cols := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		switch col {
		case "id", "version", "created_at", "created_by", "updated_at",
			"kind", "reference_id",
			tenant.ColumnCompanyUser, tenant.ColumnIndividualUser:
			continue
		}
		if val, ok := data[col]; ok {
			cols[col] = val
		}
	}

	sql, args, err := r.Builder().
		Update(documentsTable).
		SetMap(cols).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": doc.ID}).
		Where(squirrel.Eq{"version": version}).
		Where(scopeWhere(scope)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return translateError(err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConflict("document was modified concurrently or does not exist").
			WithDetail("id", doc.ID.String())
	}

	doc.SetVersion(version + 1)
	return nil
}

// Delete removes the document and its lines. Hard delete; lines go via
// ON DELETE CASCADE on the line table's document_id.
func (r *DocumentRepo) Delete(ctx context.Context, docID id.ID) error {
	scope, err := tenant.GetScope(ctx)
	if err != nil {
		return err
	}

	sql, args, err := r.Builder().
		Delete(documentsTable).
		Where(squirrel.Eq{"id": docID}).
		Where(scopeWhere(scope)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return translateError(err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("document", docID.String())
	}

	return nil
}

// GetLines retrieves lines for a document ordered by line number.
func (r *DocumentRepo) GetLines(ctx context.Context, docID id.ID) ([]documents.LineItem, error) {
	sql, args, err := r.Builder().
		Select(
			"line_id", "line_no", "product_id", "description",
			"quantity", "unit_price", "discount_percent", "vat_percent",
			"vat_value", "amount",
		).
		From(documentLinesTable).
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("line_no").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []documents.LineItem
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	return lines, nil
}

// SaveLines replaces the document's lines (delete existing + insert).
func (r *DocumentRepo) SaveLines(ctx context.Context, docID id.ID, lines []documents.LineItem) error {
	querier := r.txManager.GetQuerier(ctx)

	deleteSQL := "DELETE FROM " + documentLinesTable + " WHERE document_id = $1"
	if _, err := querier.Exec(ctx, deleteSQL, docID); err != nil {
		return fmt.Errorf("delete existing lines: %w", err)
	}

	if len(lines) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(documentLinesTable).
		Columns(
			"line_id", "document_id", "line_no", "product_id", "description",
			"quantity", "unit_price", "discount_percent", "vat_percent",
			"vat_value", "amount",
		)

	for _, line := range lines {
		q = q.Values(
			line.LineID, docID, line.LineNo, line.ProductID, line.Description,
			line.Quantity, line.UnitPrice, line.DiscountPercent, line.VATPercent,
			line.VATValue, line.Amount,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return translateError(err)
	}

	return nil
}

// List retrieves documents with filtering and pagination.
func (r *DocumentRepo) List(ctx context.Context, f documents.ListFilter) (domain.ListResult[*documents.Document], error) {
	result := domain.ListResult[*documents.Document]{
		Limit:  f.Limit,
		Offset: f.Offset,
	}

	scope, err := tenant.GetScope(ctx)
	if err != nil {
		return result, err
	}

	q := r.baseSelect(scope)

	if f.Kind != "" {
		q = q.Where(squirrel.Eq{"kind": f.Kind})
	}
	if f.CustomerID != nil {
		q = q.Where(squirrel.Eq{"customer_id": *f.CustomerID})
	}
	if f.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *f.DateFrom})
	}
	if f.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *f.DateTo})
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"reference_id": pattern},
			squirrel.ILike{"comment": pattern},
		})
	}

	countSQL, countArgs, err := r.Builder().
		Select("COUNT(*)").
		FromSelect(q, "sub").
		ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderBy := "date DESC, reference_id DESC"
	if f.OrderBy != "" {
		orderBy, err = r.parseOrderBy(f.OrderBy)
		if err != nil {
			return result, err
		}
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

// parseOrderBy validates the order clause against the select columns.
// A leading '-' means descending. Anything outside the whitelist is
// rejected before it can reach the query builder.
func (r *DocumentRepo) parseOrderBy(orderBy string) (string, error) {
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

// ListReferences returns every reference of the kind within the scope.
// Feeds the sequence backfill; no pagination on purpose, a tenant's
// series is small.
func (r *DocumentRepo) ListReferences(ctx context.Context, scope tenant.Scope, kind documents.Kind) ([]string, error) {
	sql, args, err := r.Builder().
		Select("reference_id").
		From(documentsTable).
		Where(scopeWhere(scope)).
		Where(squirrel.Eq{"kind": kind}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var refs []string
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &refs, sql, args...); err != nil {
		return nil, fmt.Errorf("list references: %w", err)
	}

	return refs, nil
}

// translateError maps PostgreSQL errors onto AppError codes. The
// unique violation mapping is what drives the reference retry loop.
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return apperror.NewDuplicate("document", pgErr.ConstraintName, pgErr.Detail).WithCause(err)
		case "23503": // foreign_key_violation
			return apperror.NewBusinessRule(apperror.CodeBusinessRule, "referenced entity does not exist").
				WithDetail("constraint", pgErr.ConstraintName).WithCause(err)
		}
	}
	return err
}
