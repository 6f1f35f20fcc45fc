package documents

import (
	"context"

	"github.com/shopspring/decimal"

	"faturah/internal/core/apperror"
	"faturah/internal/core/entity"
	"faturah/internal/core/id"
	"faturah/internal/core/tenant"
	"faturah/internal/core/types"
	"faturah/internal/domain/pricing"
)

// DefaultVATPercent is the jurisdiction default VAT rate applied to new
// lines when no rate is supplied.
var DefaultVATPercent = decimal.NewFromInt(15)

// LineItem is one priced row of a document. Line order is
// display-relevant only; totals do not depend on it.
//
// VATValue and Amount are derived, never authoritative: they are
// recomputed from the four inputs whenever any input changes, and a
// line whose derived fields are stale must not be persisted.
type LineItem struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	// ProductID is an optional reference into the product catalog
	ProductID *id.ID `db:"product_id" json:"productId,omitempty"`

	// Description is the display text of the row
	Description string `db:"description" json:"description"`

	Quantity        decimal.Decimal `db:"quantity" json:"quantity"`
	UnitPrice       decimal.Decimal `db:"unit_price" json:"unitPrice"`
	DiscountPercent decimal.Decimal `db:"discount_percent" json:"discountPercent"`
	VATPercent      decimal.Decimal `db:"vat_percent" json:"vatPercent"`

	// Derived fields
	VATValue types.Money `db:"vat_value" json:"vatValue"`
	Amount   types.Money `db:"amount" json:"amount"`
}

// pricingInput converts the line to the calculator's input form.
func (l *LineItem) pricingInput() pricing.LineInput {
	return pricing.LineInput{
		Quantity:        l.Quantity,
		UnitPrice:       l.UnitPrice,
		DiscountPercent: l.DiscountPercent,
		VATPercent:      l.VATPercent,
	}
}

// Document is a sales document: a quotation, proforma invoice or tax
// invoice, distinguished by Kind.
type Document struct {
	entity.Document

	Kind Kind `db:"kind" json:"kind"`

	// CustomerID references the customer catalog
	CustomerID *id.ID `db:"customer_id" json:"customerId,omitempty"`

	// Document-level discount and VAT percentages. Optional; their
	// effect on totals depends on the kind's aggregation mode. On
	// invoices the VAT field is advisory display data only.
	DiscountPercent *decimal.Decimal `db:"discount_percent" json:"discountPercent,omitempty"`
	VATPercent      *decimal.Decimal `db:"vat_percent" json:"vatPercent,omitempty"`

	// Derived aggregates. Always equal to the aggregator's output for
	// the current line set; never edited independently.
	Subtotal    types.Money `db:"subtotal" json:"subtotal"`
	Discount    types.Money `db:"discount" json:"discount"`
	VATAmount   types.Money `db:"vat_amount" json:"vatAmount"`
	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`

	// Table part
	Lines []LineItem `db:"-" json:"lines"`
}

// New creates a new draft document of the given kind owned by scope.
func New(scope tenant.Scope, kind Kind) *Document {
	return &Document{
		Document: entity.NewDocument(scope),
		Kind:     kind,
		Lines:    make([]LineItem, 0),
	}
}

// AddLine appends a line, defaulting the VAT rate, and recalculates.
func (d *Document) AddLine(line LineItem) {
	if id.IsNil(line.LineID) {
		line.LineID = id.New()
	}
	line.LineNo = len(d.Lines) + 1
	d.Lines = append(d.Lines, line)
	d.Recalculate()
}

// Recalculate re-derives every line's VAT value and amount and the
// document aggregates from current inputs. Must run before any
// persist; consumers never save stale derived fields.
func (d *Document) Recalculate() {
	inputs := make([]pricing.LineInput, len(d.Lines))
	for i := range d.Lines {
		res := pricing.ComputeLine(d.Lines[i].pricingInput())
		d.Lines[i].VATValue = res.VATValue
		d.Lines[i].Amount = res.Amount
		d.Lines[i].LineNo = i + 1
		inputs[i] = d.Lines[i].pricingInput()
	}

	totals := pricing.Aggregate(inputs, d.DiscountPercent, d.VATPercent, d.Kind.Mode())
	d.Subtotal = totals.Subtotal
	d.Discount = totals.Discount
	d.VATAmount = totals.VATAmount
	d.TotalAmount = totals.TotalAmount
}

// Validate implements entity.Validatable.
// Range violations that clamping cannot repair (negative quantity or
// price) are rejected here, at the boundary, with field-level detail.
func (d *Document) Validate(ctx context.Context) error {
	if err := d.Document.Validate(ctx); err != nil {
		return err
	}

	if !d.Kind.Valid() {
		return apperror.NewFieldValidation("kind", "unknown document kind")
	}

	if len(d.Lines) == 0 {
		return apperror.NewFieldValidation("lines", "at least one line is required")
	}

	for i, line := range d.Lines {
		if line.Quantity.IsNegative() {
			return apperror.NewFieldValidation("lines", "quantity must not be negative").
				WithDetail("lineNo", i+1)
		}
		if line.UnitPrice.IsNegative() {
			return apperror.NewFieldValidation("lines", "unit price must not be negative").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}

// ReferenceAssigned reports whether the document already carries its
// immutable reference.
func (d *Document) ReferenceAssigned() bool {
	return d.ReferenceID != ""
}
