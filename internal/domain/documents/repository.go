package documents

import (
	"context"
	"time"

	"faturah/internal/core/id"
	"faturah/internal/core/tenant"
	"faturah/internal/domain"
)

// Repository defines storage operations for sales documents.
// Every method is tenant-scoped: implementations filter by the scope in
// the request context and never return rows from another scope.
type Repository interface {
	// CRUD operations
	Create(ctx context.Context, doc *Document) error
	GetByID(ctx context.Context, docID id.ID) (*Document, error)
	GetByReference(ctx context.Context, kind Kind, reference string) (*Document, error)
	Update(ctx context.Context, doc *Document) error
	// Delete removes the document and its lines. Hard delete.
	Delete(ctx context.Context, docID id.ID) error

	// Line operations
	GetLines(ctx context.Context, docID id.ID) ([]LineItem, error)
	SaveLines(ctx context.Context, docID id.ID, lines []LineItem) error

	// List operations
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Document], error)

	// ListReferences returns every reference of the kind within the
	// scope. Used by the scan-based backfill that seeds the sequence
	// counter from legacy data.
	ListReferences(ctx context.Context, scope tenant.Scope, kind Kind) ([]string, error)
}

// ListFilter for filtering documents.
type ListFilter struct {
	domain.ListFilter

	// Document-specific filters
	Kind       Kind
	CustomerID *id.ID
	DateFrom   *time.Time
	DateTo     *time.Time
}
