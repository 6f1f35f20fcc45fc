// Package pdf renders sales documents to printable A4 PDFs.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"faturah/internal/domain/catalogs/customer"
	"faturah/internal/domain/documents"
)

// kindTitles maps a document kind to its printed heading.
var kindTitles = map[documents.Kind]string{
	documents.KindQuotation:       "Quotation",
	documents.KindProformaInvoice: "Proforma Invoice",
	documents.KindInvoice:         "Tax Invoice",
}

// Renderer produces PDF output for documents. The rendered totals come
// straight from the stored aggregates; nothing is recomputed here.
type Renderer struct {
	companyName string
	footerNote  string
}

func NewRenderer(companyName string) *Renderer {
	return &Renderer{
		companyName: companyName,
		footerNote:  "This document was generated electronically and is valid without a signature.",
	}
}

// Render produces the document as a PDF. The customer is optional; a
// nil customer renders the document without a recipient block.
func (r *Renderer) Render(doc *documents.Document, cust *customer.Customer) ([]byte, error) {
	title, ok := kindTitles[doc.Kind]
	if !ok {
		return nil, fmt.Errorf("pdf: unknown document kind %q", doc.Kind)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("%s %s", title, doc.ReferenceID), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, title)
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("No. %s dated %s", doc.ReferenceID, doc.Date.Format("02.01.2006")))
	pdf.Ln(6)

	if r.companyName != "" {
		pdf.Cell(0, 6, fmt.Sprintf("Issued by: %s", r.companyName))
		pdf.Ln(6)
	}

	if cust != nil {
		pdf.Cell(0, 6, fmt.Sprintf("Customer: %s", cust.Name))
		pdf.Ln(6)
		if cust.VATNumber != "" {
			pdf.Cell(0, 6, fmt.Sprintf("VAT No.: %s", cust.VATNumber))
			pdf.Ln(6)
		}
		if cust.Address != "" {
			pdf.Cell(0, 6, cust.Address)
			pdf.Ln(6)
		}
	}

	r.renderLineTable(pdf, doc)
	r.renderTotals(pdf, doc)

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 8)
	pdf.Cell(0, 5, r.footerNote)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: output: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) renderLineTable(pdf *gofpdf.Fpdf, doc *documents.Document) {
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Cell(10, 7, "#")
	pdf.Cell(70, 7, "Description")
	pdf.Cell(20, 7, "Qty")
	pdf.Cell(25, 7, "Price")
	pdf.Cell(18, 7, "Disc %")
	pdf.Cell(22, 7, "VAT")
	pdf.Cell(25, 7, "Amount")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 9)
	for _, line := range doc.Lines {
		pdf.Cell(10, 6, fmt.Sprintf("%d", line.LineNo))
		pdf.Cell(70, 6, trim(line.Description, 42))
		pdf.Cell(20, 6, line.Quantity.String())
		pdf.Cell(25, 6, line.UnitPrice.StringFixed(2))
		pdf.Cell(18, 6, line.DiscountPercent.String())
		pdf.Cell(22, 6, line.VATValue.StringFixed(2))
		pdf.Cell(25, 6, line.Amount.StringFixed(2))
		pdf.Ln(6)
	}
}

func (r *Renderer) renderTotals(pdf *gofpdf.Fpdf, doc *documents.Document) {
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 10)
	r.totalRow(pdf, "Subtotal", doc.Subtotal.StringFixed(2), false)
	if !doc.Discount.IsZero() {
		r.totalRow(pdf, "Discount", doc.Discount.StringFixed(2), false)
	}
	r.totalRow(pdf, "VAT", doc.VATAmount.StringFixed(2), false)
	r.totalRow(pdf, "Total", doc.TotalAmount.StringFixed(2), true)
}

func (r *Renderer) totalRow(pdf *gofpdf.Fpdf, label, value string, bold bool) {
	if bold {
		pdf.SetFont("Helvetica", "B", 11)
	}
	pdf.Cell(145, 6, "")
	pdf.Cell(20, 6, label)
	pdf.CellFormat(25, 6, value, "", 0, "R", false, 0, "")
	pdf.Ln(6)
}

func trim(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
