package documents

import (
	"context"
	"fmt"
	"time"

	"faturah/internal/core/apperror"
	"faturah/internal/core/entity"
	"faturah/internal/core/id"
	"faturah/internal/core/numerator"
	"faturah/internal/core/tenant"
	"faturah/internal/core/tx"
	"faturah/internal/domain"
	"faturah/pkg/logger"
)

// maxReferenceAttempts bounds the allocate-insert retry loop. A
// collision means another request won the same number despite the
// counter (e.g. legacy rows written before the counter was backfilled);
// after the bound we surface a retryable conflict instead of looping.
const maxReferenceAttempts = 3

// AuditTrail records document mutations. The hard-delete lifecycle
// makes the audit row the only trace of removed documents.
type AuditTrail interface {
	Record(ctx context.Context, action string, doc *Document) error
}

// ListCache caches list query results per tenant+kind. Writes to a
// scope+kind must invalidate synchronously: a stale list read feeding a
// scan-based backfill would directly cause duplicate references.
type ListCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
	InvalidatePrefix(prefix string)
}

// Service provides business operations for sales documents.
type Service struct {
	repo        Repository
	numerator   numerator.Generator
	txManager   tx.Manager
	audit       AuditTrail // optional
	cache       ListCache  // optional
	seqSettings SequenceSettings
	hooks       *domain.HookRegistry[*Document]
}

// NewService creates a new document service.
// audit and cache may be nil.
func NewService(
	repo Repository,
	gen numerator.Generator,
	txManager tx.Manager,
	audit AuditTrail,
	cache ListCache,
	seqSettings SequenceSettings,
) *Service {
	return &Service{
		repo:        repo,
		numerator:   gen,
		txManager:   txManager,
		audit:       audit,
		cache:       cache,
		seqSettings: seqSettings,
		hooks:       domain.NewHookRegistry[*Document](),
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*Document] {
	return s.hooks
}

// Create validates the document, derives all monetary fields, assigns
// the next tenant-scoped reference and persists document and lines
// atomically. The reference is assigned here and never again.
func (s *Service) Create(ctx context.Context, doc *Document) error {
	scope, err := tenant.GetScope(ctx)
	if err != nil {
		return apperror.NewUnauthenticated("tenant scope is required").WithCause(err)
	}
	doc.SetOwner(scope)

	// Fresh drafts get their identity and lifecycle defaults here so
	// callers mapping from transport DTOs do not have to.
	if id.IsNil(doc.ID) {
		doc.ID = id.New()
	}
	if doc.Date.IsZero() {
		doc.Date = time.Now().UTC()
	}
	if doc.Status == "" {
		doc.Status = entity.StatusDraft
	}
	if doc.CreatedAt.IsZero() {
		now := time.Now().UTC()
		doc.CreatedAt = now
		doc.UpdatedAt = now
	}

	if err := s.hooks.Run(ctx, domain.BeforeCreate, doc); err != nil {
		return err
	}

	// Derived fields are recomputed from inputs; whatever the caller
	// sent in them is discarded.
	doc.Recalculate()

	if err := doc.Validate(ctx); err != nil {
		return err
	}

	cfg := doc.Kind.SequenceConfig(s.seqSettings)
	opts := &numerator.Options{Strategy: doc.Kind.NumberingStrategy()}

	var lastErr error
	for attempt := 1; attempt <= maxReferenceAttempts; attempt++ {
		reference, err := s.numerator.NextReference(ctx, scope, cfg, opts)
		if err != nil {
			return fmt.Errorf("allocate reference: %w", err)
		}
		doc.ReferenceID = reference

		err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
			if err := s.repo.Create(ctx, doc); err != nil {
				return fmt.Errorf("create document: %w", err)
			}
			if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
				return fmt.Errorf("save lines: %w", err)
			}
			return nil
		})
		if err == nil {
			lastErr = nil
			break
		}

		lastErr = err
		if !isDuplicateReference(err) {
			return err
		}
		logger.Warn(ctx, "reference collision, retrying",
			"kind", doc.Kind,
			"reference", reference,
			"attempt", attempt)
		doc.ReferenceID = ""
	}
	if lastErr != nil {
		return apperror.NewReferenceConflict(string(doc.Kind)).WithCause(lastErr)
	}

	s.invalidateLists(scope, doc.Kind)
	s.recordAudit(ctx, "create", doc)

	if err := s.hooks.Run(ctx, domain.AfterCreate, doc); err != nil {
		logger.Warn(ctx, "after-create hook failed", "error", err)
	}

	logger.Info(ctx, "document created",
		"id", doc.ID,
		"kind", doc.Kind,
		"reference", doc.ReferenceID,
		"total", doc.TotalAmount)

	return nil
}

// GetByID retrieves a document with its lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Document, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	doc.Lines = lines

	return doc, nil
}

// Update re-derives monetary fields and persists the document.
// The reference and ownership set at creation are immutable; whatever
// the caller sent in those fields is overwritten from the stored row.
func (s *Service) Update(ctx context.Context, doc *Document) error {
	scope, err := tenant.GetScope(ctx)
	if err != nil {
		return apperror.NewUnauthenticated("tenant scope is required").WithCause(err)
	}

	existing, err := s.repo.GetByID(ctx, doc.ID)
	if err != nil {
		return err
	}
	doc.ReferenceID = existing.ReferenceID
	doc.Kind = existing.Kind
	doc.CreatedAt = existing.CreatedAt
	doc.CreatedBy = existing.CreatedBy
	doc.SetOwner(scope)

	if err := s.hooks.Run(ctx, domain.BeforeUpdate, doc); err != nil {
		return err
	}

	doc.Recalculate()

	if err := doc.Validate(ctx); err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update document: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateLists(scope, doc.Kind)
	s.recordAudit(ctx, "update", doc)

	if err := s.hooks.Run(ctx, domain.AfterUpdate, doc); err != nil {
		logger.Warn(ctx, "after-update hook failed", "error", err)
	}

	return nil
}

// Delete removes a document and its lines. Hard delete, no soft-delete
// or versioning; the audit trail keeps the last snapshot.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	scope, err := tenant.GetScope(ctx)
	if err != nil {
		return apperror.NewUnauthenticated("tenant scope is required").WithCause(err)
	}

	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return err
	}

	if err := s.hooks.Run(ctx, domain.BeforeDelete, doc); err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, docID)
	})
	if err != nil {
		return err
	}

	s.invalidateLists(scope, doc.Kind)
	s.recordAudit(ctx, "delete", doc)

	logger.Info(ctx, "document deleted",
		"id", doc.ID,
		"kind", doc.Kind,
		"reference", doc.ReferenceID)

	return nil
}

// List retrieves documents with filtering, through the list cache when
// one is configured.
func (s *Service) List(ctx context.Context, f ListFilter) (domain.ListResult[*Document], error) {
	scope, err := tenant.GetScope(ctx)
	if err != nil {
		return domain.ListResult[*Document]{}, apperror.NewUnauthenticated("tenant scope is required").WithCause(err)
	}

	key := listCacheKey(scope, f)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			if result, ok := cached.(domain.ListResult[*Document]); ok {
				return result, nil
			}
		}
	}

	result, err := s.repo.List(ctx, f)
	if err != nil {
		return result, err
	}

	if s.cache != nil {
		s.cache.Set(key, result)
	}
	return result, nil
}

// BackfillSequence seeds the reference counter for one tenant+kind from
// the highest parsable suffix among existing references. Malformed
// references are skipped. This is the migration path for data created
// before the counter table existed; the counter is the primary
// mechanism afterwards.
func (s *Service) BackfillSequence(ctx context.Context, scope tenant.Scope, kind Kind) error {
	refs, err := s.repo.ListReferences(ctx, scope, kind)
	if err != nil {
		return fmt.Errorf("list references: %w", err)
	}

	cfg := kind.SequenceConfig(s.seqSettings)
	max := cfg.MaxNumber(refs)

	next := max + 1
	if next < cfg.StartAt {
		next = cfg.StartAt
	}

	if err := s.numerator.SetNextReference(ctx, scope, cfg, next); err != nil {
		return fmt.Errorf("seed sequence: %w", err)
	}

	logger.Info(ctx, "sequence backfilled",
		"kind", kind,
		"scanned", len(refs),
		"next", cfg.Format(next))
	return nil
}

// SetNextReference moves the sequence pointer for one tenant+kind so
// the next allocation returns exactly the given number. Lowering the
// pointer below issued references will surface as reference conflicts
// on subsequent creates.
func (s *Service) SetNextReference(ctx context.Context, scope tenant.Scope, kind Kind, next int64) error {
	cfg := kind.SequenceConfig(s.seqSettings)
	if err := s.numerator.SetNextReference(ctx, scope, cfg, next); err != nil {
		return fmt.Errorf("set next reference: %w", err)
	}

	logger.Info(ctx, "sequence pointer moved",
		"kind", kind,
		"next", cfg.Format(next))
	return nil
}

func (s *Service) invalidateLists(scope tenant.Scope, kind Kind) {
	if s.cache != nil {
		s.cache.InvalidatePrefix(listCachePrefix(scope, kind))
	}
}

func (s *Service) recordAudit(ctx context.Context, action string, doc *Document) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, action, doc); err != nil {
		logger.Warn(ctx, "audit record failed", "action", action, "id", doc.ID, "error", err)
	}
}

func listCachePrefix(scope tenant.Scope, kind Kind) string {
	return scope.Key() + ":" + string(kind) + ":"
}

func listCacheKey(scope tenant.Scope, f ListFilter) string {
	return fmt.Sprintf("%s%s|%d|%d", listCachePrefix(scope, f.Kind), f.Search, f.Limit, f.Offset)
}

// isDuplicateReference reports whether err is a unique-constraint
// violation on the (scope, kind, reference) key.
func isDuplicateReference(err error) bool {
	appErr, ok := apperror.AsAppError(err)
	return ok && appErr.Code == apperror.CodeDuplicate
}
