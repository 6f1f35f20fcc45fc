package pricing

import (
	"github.com/shopspring/decimal"

	"faturah/internal/core/types"
)

// Mode selects the totals-aggregation formula for a document kind.
type Mode int

const (
	// ModeLineVAT (invoices): VAT is computed per line only. A
	// document-level discount is applied to the gross subtotal when
	// explicitly supplied; the document-level VAT field is advisory.
	ModeLineVAT Mode = iota

	// ModeBlended (quotations, proforma invoices): per-line discounts
	// plus an optional global discount layered on the gross subtotal,
	// additive, not compounding. A document-level VAT %, when supplied,
	// replaces the per-line VAT sum and is applied to the gross
	// subtotal; in that case VATAmount is no longer the sum of the
	// per-line VAT values.
	ModeBlended
)

// Totals is the aggregated monetary state of a document.
// The invariant TotalAmount == Subtotal - Discount + VATAmount holds in
// both modes.
type Totals struct {
	Subtotal    types.Money
	Discount    types.Money
	VATAmount   types.Money
	TotalAmount types.Money
}

// Aggregate folds a document's lines into subtotal, total discount,
// total VAT and grand total. documentDiscountPercent and
// documentVATPercent are optional (nil means not supplied).
//
// An empty line set yields all-zero totals; rejecting zero-line
// documents is the caller's validation concern, not the aggregator's.
// The function is idempotent: re-running it on an unchanged line set
// reproduces bit-identical totals.
func Aggregate(lines []LineInput, documentDiscountPercent, documentVATPercent *decimal.Decimal, mode Mode) Totals {
	subtotal := decimal.Zero
	lineDiscounts := decimal.Zero
	lineVAT := decimal.Zero

	for _, line := range lines {
		res := ComputeLine(line)
		subtotal = subtotal.Add(res.Subtotal)
		lineDiscounts = lineDiscounts.Add(res.DiscountAmount)
		lineVAT = lineVAT.Add(res.VATValue)
	}

	documentDiscount := decimal.Zero
	if documentDiscountPercent != nil {
		pct := types.ClampPercent(*documentDiscountPercent)
		documentDiscount = types.RoundMoney(subtotal.Mul(types.Fraction(pct)))
	}

	var discount, vatAmount decimal.Decimal
	switch mode {
	case ModeBlended:
		discount = lineDiscounts.Add(documentDiscount)
		if documentVATPercent != nil {
			pct := types.ClampPercent(*documentVATPercent)
			vatAmount = types.RoundMoney(subtotal.Mul(types.Fraction(pct)))
		} else {
			vatAmount = lineVAT
		}
	default: // ModeLineVAT
		discount = documentDiscount
		vatAmount = lineVAT
	}

	return Totals{
		Subtotal:    types.RoundMoney(subtotal),
		Discount:    types.RoundMoney(discount),
		VATAmount:   types.RoundMoney(vatAmount),
		TotalAmount: types.RoundMoney(subtotal.Sub(discount).Add(vatAmount)),
	}
}
