package postgres

import (
	"context"

	"faturah/internal/domain/documents"
)

// DocumentAuditTrail adapts AuditService to the document service's
// audit contract. The full document including lines is snapshotted.
type DocumentAuditTrail struct {
	audit *AuditService
}

var _ documents.AuditTrail = (*DocumentAuditTrail)(nil)

// NewDocumentAuditTrail creates the adapter.
func NewDocumentAuditTrail(audit *AuditService) *DocumentAuditTrail {
	return &DocumentAuditTrail{audit: audit}
}

// Record implements documents.AuditTrail.
func (t *DocumentAuditTrail) Record(ctx context.Context, action string, doc *documents.Document) error {
	return t.audit.LogSnapshot(ctx, "document:"+string(doc.Kind), doc.ID, AuditAction(action), doc)
}
