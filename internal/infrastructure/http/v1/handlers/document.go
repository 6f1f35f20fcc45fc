package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"faturah/internal/core/apperror"
	"faturah/internal/core/id"
	"faturah/internal/domain"
	"faturah/internal/domain/catalogs/customer"
	"faturah/internal/domain/documents"
	"faturah/internal/infrastructure/http/v1/dto"
	"faturah/internal/infrastructure/pdf"
)

// DocumentHandler serves one document kind. The same implementation is
// mounted three times, once per kind; the kind never comes from the
// client.
type DocumentHandler struct {
	*BaseHandler
	service   *documents.Service
	customers *domain.CatalogService[*customer.Customer]
	renderer  *pdf.Renderer
	kind      documents.Kind
}

// NewDocumentHandler creates a handler bound to one document kind.
func NewDocumentHandler(
	base *BaseHandler,
	service *documents.Service,
	customers *domain.CatalogService[*customer.Customer],
	renderer *pdf.Renderer,
	kind documents.Kind,
) *DocumentHandler {
	return &DocumentHandler{
		BaseHandler: base,
		service:     service,
		customers:   customers,
		renderer:    renderer,
		kind:        kind,
	}
}

// List handles GET /{kind} - list with filtering and pagination.
func (h *DocumentHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := documents.ListFilter{
		ListFilter: domain.DefaultListFilter(),
		Kind:       h.kind,
	}
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.Query("orderBy")

	if customerID := c.Query("customerId"); customerID != "" {
		parsed, err := id.Parse(customerID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid customerId format"))
			return
		}
		filter.CustomerID = &parsed
	}

	from, ok := h.parseDateQuery(c, "dateFrom")
	if !ok {
		return
	}
	filter.DateFrom = from

	to, ok := h.parseDateQuery(c, "dateTo")
	if !ok {
		return
	}
	filter.DateTo = to

	result, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(result.Items))
	for i, doc := range result.Items {
		items[i] = dto.FromDocument(doc)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Create handles POST /{kind} - create a document and assign its reference.
func (h *DocumentHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	scope, ok := h.Scope(c)
	if !ok {
		return
	}

	var req dto.CreateDocumentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := req.ToEntity(scope, h.kind)
	if err != nil {
		h.Error(c, apperror.NewValidation(err.Error()))
		return
	}

	if err := h.service.Create(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromDocument(doc))
}

// Get handles GET /{kind}/:id - get single document with lines.
func (h *DocumentHandler) Get(c *gin.Context) {
	doc, ok := h.getOwnKind(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.FromDocument(doc))
}

// Update handles PUT /{kind}/:id - update a document. Reference and
// kind are immutable and survive any update.
func (h *DocumentHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	doc, ok := h.getOwnKind(c)
	if !ok {
		return
	}

	var req dto.UpdateDocumentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := req.ApplyTo(doc); err != nil {
		h.Error(c, apperror.NewValidation(err.Error()))
		return
	}

	if err := h.service.Update(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromDocument(doc))
}

// Delete handles DELETE /{kind}/:id - hard delete, reference not reused.
func (h *DocumentHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	doc, ok := h.getOwnKind(c)
	if !ok {
		return
	}

	if err := h.service.Delete(ctx, doc.ID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// Pdf handles GET /{kind}/:id/pdf - render the document as PDF.
func (h *DocumentHandler) Pdf(c *gin.Context) {
	ctx := c.Request.Context()

	doc, ok := h.getOwnKind(c)
	if !ok {
		return
	}

	var cust *customer.Customer
	if doc.CustomerID != nil {
		found, err := h.customers.GetByID(ctx, *doc.CustomerID)
		if err == nil {
			cust = found
		}
	}

	out, err := h.renderer.Render(doc, cust)
	if err != nil {
		h.Error(c, apperror.NewInternal(err))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+doc.ReferenceID+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", out)
}

// SetNextReference handles POST /{kind}/sequence - move the sequence pointer.
func (h *DocumentHandler) SetNextReference(c *gin.Context) {
	ctx := c.Request.Context()

	scope, ok := h.Scope(c)
	if !ok {
		return
	}

	var req dto.SetNextReferenceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.SetNextReference(ctx, scope, h.kind, req.Next); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "sequence pointer updated")
}

// BackfillSequence handles POST /{kind}/sequence/backfill - seed the
// counter from existing references.
func (h *DocumentHandler) BackfillSequence(c *gin.Context) {
	ctx := c.Request.Context()

	scope, ok := h.Scope(c)
	if !ok {
		return
	}

	if err := h.service.BackfillSequence(ctx, scope, h.kind); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "sequence backfilled")
}

// getOwnKind loads the document by path ID and verifies it belongs to
// this handler's kind. Cross-kind reads are answered with 404 so the
// URL space stays strictly per-kind.
func (h *DocumentHandler) getOwnKind(c *gin.Context) (*documents.Document, bool) {
	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return nil, false
	}

	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return nil, false
	}

	if doc.Kind != h.kind {
		h.Error(c, apperror.NewNotFound(string(h.kind), docID.String()))
		return nil, false
	}

	return doc, true
}

func (h *DocumentHandler) parseDateQuery(c *gin.Context, key string) (*time.Time, bool) {
	val := c.Query(key)
	if val == "" {
		return nil, true
	}
	parsed, err := time.Parse(time.RFC3339, val)
	if err != nil {
		// Date-only form is accepted too.
		parsed, err = time.Parse("2006-01-02", val)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid "+key+" format"))
			return nil, false
		}
	}
	return &parsed, true
}
