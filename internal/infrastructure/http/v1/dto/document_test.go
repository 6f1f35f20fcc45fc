package dto

import (
	"testing"

	"github.com/shopspring/decimal"

	"faturah/internal/core/entity"
	"faturah/internal/core/id"
	"faturah/internal/core/tenant"
	"faturah/internal/domain/documents"
)

func testUpdateRequest() UpdateDocumentRequest {
	return UpdateDocumentRequest{
		Lines: []LineRequest{
			{Description: "Consulting", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(100)},
		},
		Version: 1,
	}
}

func TestUpdateDocumentRequestApplyToStatus(t *testing.T) {
	scope := tenant.Scope{TenantID: id.New(), IsOrganization: true}

	issued := "issued"
	req := testUpdateRequest()
	req.Status = &issued

	doc := documents.New(scope, documents.KindQuotation)
	if err := req.ApplyTo(doc); err != nil {
		t.Fatalf("ApplyTo failed: %v", err)
	}
	if doc.Status != entity.StatusIssued {
		t.Errorf("want status issued, got %q", doc.Status)
	}
}

func TestUpdateDocumentRequestRejectsUnknownStatus(t *testing.T) {
	scope := tenant.Scope{TenantID: id.New(), IsOrganization: true}

	bogus := "archived"
	req := testUpdateRequest()
	req.Status = &bogus

	doc := documents.New(scope, documents.KindQuotation)
	if err := req.ApplyTo(doc); err == nil {
		t.Fatal("expected error for unknown status")
	}
	if doc.Status != entity.StatusDraft {
		t.Errorf("status must stay unchanged, got %q", doc.Status)
	}
}
