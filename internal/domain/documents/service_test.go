package documents

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faturah/internal/core/apperror"
	"faturah/internal/core/id"
	"faturah/internal/core/numerator"
	"faturah/internal/core/tenant"
	"faturah/internal/domain"
)

// noopTxManager runs the callback directly. Unit tests exercise the
// service logic, not transaction semantics.
type noopTxManager struct{}

func (noopTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// memRepo is an in-memory Repository with a unique index on
// (owner, kind, reference), mirroring the database constraint.
type memRepo struct {
	mu          sync.Mutex
	docs        map[id.ID]*Document
	lines       map[id.ID][]LineItem
	refs        map[string]id.ID
	failCreates int // next N creates fail with a duplicate error
}

func newMemRepo() *memRepo {
	return &memRepo{
		docs:  make(map[id.ID]*Document),
		lines: make(map[id.ID][]LineItem),
		refs:  make(map[string]id.ID),
	}
}

func (r *memRepo) refKey(doc *Document) string {
	owner := "?"
	if doc.CompanyUserID != nil {
		owner = "org:" + doc.CompanyUserID.String()
	} else if doc.IndividualUserID != nil {
		owner = "ind:" + doc.IndividualUserID.String()
	}
	return owner + "|" + string(doc.Kind) + "|" + doc.ReferenceID
}

func (r *memRepo) Create(ctx context.Context, doc *Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreates > 0 {
		r.failCreates--
		return apperror.NewDuplicate("document", "reference_id", doc.ReferenceID)
	}
	key := r.refKey(doc)
	if _, taken := r.refs[key]; taken {
		return apperror.NewDuplicate("document", "reference_id", doc.ReferenceID)
	}
	copied := *doc
	r.docs[doc.ID] = &copied
	r.refs[key] = doc.ID
	return nil
}

func (r *memRepo) GetByID(ctx context.Context, docID id.ID) (*Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("document", docID)
	}
	copied := *doc
	return &copied, nil
}

func (r *memRepo) GetByReference(ctx context.Context, kind Kind, reference string) (*Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, doc := range r.docs {
		if doc.Kind == kind && doc.ReferenceID == reference {
			copied := *doc
			return &copied, nil
		}
	}
	return nil, apperror.NewNotFound("document", reference)
}

func (r *memRepo) Update(ctx context.Context, doc *Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[doc.ID]; !ok {
		return apperror.NewNotFound("document", doc.ID)
	}
	copied := *doc
	r.docs[doc.ID] = &copied
	return nil
}

func (r *memRepo) Delete(ctx context.Context, docID id.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[docID]
	if !ok {
		return apperror.NewNotFound("document", docID)
	}
	delete(r.refs, r.refKey(doc))
	delete(r.docs, docID)
	delete(r.lines, docID)
	return nil
}

func (r *memRepo) GetLines(ctx context.Context, docID id.ID) ([]LineItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]LineItem(nil), r.lines[docID]...), nil
}

func (r *memRepo) SaveLines(ctx context.Context, docID id.ID, lines []LineItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines[docID] = append([]LineItem(nil), lines...)
	return nil
}

func (r *memRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Document], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []*Document
	for _, doc := range r.docs {
		if filter.Kind != "" && doc.Kind != filter.Kind {
			continue
		}
		copied := *doc
		items = append(items, &copied)
	}
	return domain.ListResult[*Document]{Items: items, TotalCount: int64(len(items))}, nil
}

func (r *memRepo) ListReferences(ctx context.Context, scope tenant.Scope, kind Kind) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var refs []string
	for _, doc := range r.docs {
		if doc.Kind != kind {
			continue
		}
		if scope.IsOrganization {
			if doc.CompanyUserID == nil || *doc.CompanyUserID != scope.TenantID {
				continue
			}
		} else {
			if doc.IndividualUserID == nil || *doc.IndividualUserID != scope.TenantID {
				continue
			}
		}
		refs = append(refs, doc.ReferenceID)
	}
	return refs, nil
}

var _ Repository = (*memRepo)(nil)

type recordingAudit struct {
	mu      sync.Mutex
	actions []string
}

func (a *recordingAudit) Record(ctx context.Context, action string, doc *Document) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.actions = append(a.actions, action+":"+doc.ReferenceID)
	return nil
}

type recordingCache struct {
	mu          sync.Mutex
	store       map[string]any
	invalidated []string
}

func (c *recordingCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.store[key]
	return v, ok
}

func (c *recordingCache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = make(map[string]any)
	}
	c.store[key] = value
}

func (c *recordingCache) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, prefix)
	for key := range c.store {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(c.store, key)
		}
	}
}

func newTestService(repo *memRepo) (*Service, tenant.Scope, context.Context) {
	scope := tenant.Scope{TenantID: id.New(), IsOrganization: true}
	ctx := tenant.WithScope(context.Background(), scope)
	svc := NewService(repo, &numerator.MockGenerator{}, noopTxManager{}, nil, nil, DefaultSequenceSettings())
	return svc, scope, ctx
}

func testLine(qty, price, discount, vat string) LineItem {
	return LineItem{
		Description:     "item",
		Quantity:        decimal.RequireFromString(qty),
		UnitPrice:       decimal.RequireFromString(price),
		DiscountPercent: decimal.RequireFromString(discount),
		VATPercent:      decimal.RequireFromString(vat),
	}
}

func TestServiceCreateAssignsReferenceAndTotals(t *testing.T) {
	repo := newMemRepo()
	svc, _, ctx := newTestService(repo)

	doc := &Document{Kind: KindQuotation}
	doc.ID = id.New()
	doc.Lines = []LineItem{
		testLine("2", "150.00", "0", "15"),
		testLine("1", "613.00", "0", "15"),
	}

	require.NoError(t, svc.Create(ctx, doc))

	assert.Equal(t, "QUO00001", doc.ReferenceID)
	assert.Equal(t, "913.00", doc.Subtotal.StringFixed(2))
	assert.Equal(t, "136.95", doc.VATAmount.StringFixed(2))
	assert.Equal(t, "1049.95", doc.TotalAmount.StringFixed(2))

	require.NotNil(t, doc.CompanyUserID)
	assert.Nil(t, doc.IndividualUserID)

	stored, err := svc.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "QUO00001", stored.ReferenceID)
	assert.Len(t, stored.Lines, 2)
}

func TestServiceCreateRejectsEmptyLines(t *testing.T) {
	repo := newMemRepo()
	svc, _, ctx := newTestService(repo)

	doc := &Document{Kind: KindQuotation}
	doc.ID = id.New()

	err := svc.Create(ctx, doc)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)

	// The rejected create must not have consumed a number.
	next := &Document{Kind: KindQuotation}
	next.ID = id.New()
	next.Lines = []LineItem{testLine("1", "10.00", "0", "15")}
	require.NoError(t, svc.Create(ctx, next))
	assert.Equal(t, "QUO00001", next.ReferenceID)
}

func TestServiceCreateRequiresScope(t *testing.T) {
	repo := newMemRepo()
	svc, _, _ := newTestService(repo)

	doc := &Document{Kind: KindQuotation}
	doc.ID = id.New()
	doc.Lines = []LineItem{testLine("1", "10.00", "0", "15")}

	err := svc.Create(context.Background(), doc)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthenticated, appErr.Code)
}

func TestServiceCreateRetriesOnDuplicate(t *testing.T) {
	repo := newMemRepo()
	repo.failCreates = 2
	svc, _, ctx := newTestService(repo)

	doc := &Document{Kind: KindQuotation}
	doc.ID = id.New()
	doc.Lines = []LineItem{testLine("1", "10.00", "0", "15")}

	require.NoError(t, svc.Create(ctx, doc))
	// Two collisions burned QUO00001 and QUO00002.
	assert.Equal(t, "QUO00003", doc.ReferenceID)
}

func TestServiceCreateConflictAfterRetriesExhausted(t *testing.T) {
	repo := newMemRepo()
	repo.failCreates = 3
	svc, _, ctx := newTestService(repo)

	doc := &Document{Kind: KindQuotation}
	doc.ID = id.New()
	doc.Lines = []LineItem{testLine("1", "10.00", "0", "15")}

	err := svc.Create(ctx, doc)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeReferenceConflict, appErr.Code)
}

func TestServiceCreateScopeIsolation(t *testing.T) {
	repo := newMemRepo()
	gen := &numerator.MockGenerator{}
	svc := NewService(repo, gen, noopTxManager{}, nil, nil, DefaultSequenceSettings())

	orgCtx := tenant.WithScope(context.Background(), tenant.Scope{TenantID: id.New(), IsOrganization: true})
	indCtx := tenant.WithScope(context.Background(), tenant.Scope{TenantID: id.New()})

	for _, ctx := range []context.Context{orgCtx, indCtx} {
		doc := &Document{Kind: KindInvoice}
		doc.ID = id.New()
		doc.Lines = []LineItem{testLine("1", "10.00", "0", "15")}
		require.NoError(t, svc.Create(ctx, doc))
		// Each tenant starts its own series at INV001.
		assert.Equal(t, "INV001", doc.ReferenceID)
	}
}

func TestServiceCreateConcurrentDistinctReferences(t *testing.T) {
	repo := newMemRepo()
	svc, _, ctx := newTestService(repo)

	const n = 20
	refs := make([]string, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			doc := &Document{Kind: KindQuotation}
			doc.ID = id.New()
			doc.Lines = []LineItem{testLine("1", "10.00", "0", "15")}
			errs[i] = svc.Create(ctx, doc)
			refs[i] = doc.ReferenceID
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.False(t, seen[refs[i]], "duplicate reference %s", refs[i])
		seen[refs[i]] = true
	}
}

func TestServiceUpdatePreservesReference(t *testing.T) {
	repo := newMemRepo()
	svc, _, ctx := newTestService(repo)

	doc := &Document{Kind: KindQuotation}
	doc.ID = id.New()
	doc.Lines = []LineItem{testLine("1", "100.00", "0", "15")}
	require.NoError(t, svc.Create(ctx, doc))
	original := doc.ReferenceID

	doc.ReferenceID = "QUO99999"
	doc.Lines = []LineItem{testLine("2", "100.00", "0", "15")}
	require.NoError(t, svc.Update(ctx, doc))

	assert.Equal(t, original, doc.ReferenceID)
	assert.Equal(t, "200.00", doc.Subtotal.StringFixed(2))

	stored, err := svc.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, original, stored.ReferenceID)
}

func TestServiceDeleteRemovesDocument(t *testing.T) {
	repo := newMemRepo()
	audit := &recordingAudit{}
	scope := tenant.Scope{TenantID: id.New(), IsOrganization: true}
	ctx := tenant.WithScope(context.Background(), scope)
	svc := NewService(repo, &numerator.MockGenerator{}, noopTxManager{}, audit, nil, DefaultSequenceSettings())

	doc := &Document{Kind: KindInvoice}
	doc.ID = id.New()
	doc.Lines = []LineItem{testLine("1", "10.00", "0", "15")}
	require.NoError(t, svc.Create(ctx, doc))

	require.NoError(t, svc.Delete(ctx, doc.ID))

	_, err := svc.GetByID(ctx, doc.ID)
	assert.True(t, apperror.IsNotFound(err))
	assert.Equal(t, []string{"create:INV001", "delete:INV001"}, audit.actions)
}

func TestServiceListUsesCacheAndWritesInvalidate(t *testing.T) {
	repo := newMemRepo()
	cache := &recordingCache{}
	scope := tenant.Scope{TenantID: id.New(), IsOrganization: true}
	ctx := tenant.WithScope(context.Background(), scope)
	svc := NewService(repo, &numerator.MockGenerator{}, noopTxManager{}, nil, cache, DefaultSequenceSettings())

	doc := &Document{Kind: KindQuotation}
	doc.ID = id.New()
	doc.Lines = []LineItem{testLine("1", "10.00", "0", "15")}
	require.NoError(t, svc.Create(ctx, doc))
	require.Len(t, cache.invalidated, 1)

	filter := ListFilter{Kind: KindQuotation}
	first, err := svc.List(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.TotalCount)

	// Second read must come from cache even after a direct repo write.
	bypass := &Document{Kind: KindQuotation}
	bypass.ID = id.New()
	bypass.ReferenceID = "QUO90000"
	owner := scope.TenantID
	bypass.CompanyUserID = &owner
	require.NoError(t, repo.Create(ctx, bypass))

	second, err := svc.List(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), second.TotalCount)

	// A service write invalidates, so the next read sees fresh data.
	another := &Document{Kind: KindQuotation}
	another.ID = id.New()
	another.Lines = []LineItem{testLine("1", "10.00", "0", "15")}
	require.NoError(t, svc.Create(ctx, another))

	third, err := svc.List(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(3), third.TotalCount)
}

func TestServiceBackfillSequence(t *testing.T) {
	repo := newMemRepo()
	svc, scope, ctx := newTestService(repo)

	owner := scope.TenantID
	for _, ref := range []string{"QUO00001", "QUO00003", "QUOxx"} {
		doc := &Document{Kind: KindQuotation}
		doc.ID = id.New()
		doc.ReferenceID = ref
		doc.CompanyUserID = &owner
		require.NoError(t, repo.Create(ctx, doc))
	}

	require.NoError(t, svc.BackfillSequence(ctx, scope, KindQuotation))

	// The malformed reference is skipped; the counter resumes after 3.
	doc := &Document{Kind: KindQuotation}
	doc.ID = id.New()
	doc.Lines = []LineItem{testLine("1", "10.00", "0", "15")}
	require.NoError(t, svc.Create(ctx, doc))
	assert.Equal(t, "QUO00004", doc.ReferenceID)
}

func TestServiceHooksRunAroundCreate(t *testing.T) {
	repo := newMemRepo()
	svc, _, ctx := newTestService(repo)

	var calls []string
	svc.Hooks().On(domain.BeforeCreate, func(ctx context.Context, d *Document) error {
		calls = append(calls, "before")
		return nil
	})
	svc.Hooks().On(domain.AfterCreate, func(ctx context.Context, d *Document) error {
		calls = append(calls, fmt.Sprintf("after:%s", d.ReferenceID))
		return nil
	})

	doc := &Document{Kind: KindQuotation}
	doc.ID = id.New()
	doc.Lines = []LineItem{testLine("1", "10.00", "0", "15")}
	require.NoError(t, svc.Create(ctx, doc))

	assert.Equal(t, []string{"before", "after:QUO00001"}, calls)
}
