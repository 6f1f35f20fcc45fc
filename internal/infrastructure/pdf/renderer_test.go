package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"faturah/internal/core/id"
	"faturah/internal/core/tenant"
	"faturah/internal/domain/catalogs/customer"
	"faturah/internal/domain/documents"
)

func TestRenderProducesPDF(t *testing.T) {
	scope := tenant.Scope{TenantID: id.New(), IsOrganization: true}
	doc := documents.New(scope, documents.KindInvoice)
	doc.ReferenceID = "INV042"
	doc.Date = time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	doc.AddLine(documents.LineItem{
		Description: "Consulting services",
		Quantity:    decimal.NewFromInt(10),
		UnitPrice:   decimal.RequireFromString("150.00"),
		VATPercent:  decimal.NewFromInt(15),
	})

	cust := customer.New(scope, "Acme Trading LLC")
	cust.VATNumber = "310123456700003"

	out, err := NewRenderer("Faturah Demo Co").Render(doc, cust)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("output is not a PDF, starts with %q", out[:8])
	}
}

func TestRenderRejectsUnknownKind(t *testing.T) {
	scope := tenant.Scope{TenantID: id.New(), IsOrganization: false}
	doc := documents.New(scope, documents.Kind("receipt"))
	if _, err := NewRenderer("").Render(doc, nil); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}
