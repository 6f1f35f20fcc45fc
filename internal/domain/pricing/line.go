// Package pricing implements the financial document computation engine:
// per-line VAT/amount math and the document-level rollup shared by
// quotations, proforma invoices and invoices. All functions are pure and
// safe to call from any number of concurrent request handlers.
package pricing

import (
	"github.com/shopspring/decimal"

	"faturah/internal/core/types"
)

// LineInput is one priced row of a document before derivation.
type LineInput struct {
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	VATPercent      decimal.Decimal
}

// LineResult carries every derived value of a line, each rounded to
// 2 decimals. VATValue and Amount are the authoritative outputs;
// Subtotal and DiscountAmount feed the document rollup.
type LineResult struct {
	Subtotal       types.Money
	DiscountAmount types.Money
	VATValue       types.Money
	Amount         types.Money
}

// ComputeLine derives a line's VAT value and total amount from quantity,
// unit price, line discount % and line VAT %.
//
// Out-of-range inputs are clamped to the nearest bound rather than
// rejected: the system favors silent correction over hard failure for
// form-entry robustness. Each derived field is rounded half-up to
// 2 decimals before the next step, so the result is deterministic and
// free of accumulated drift.
func ComputeLine(in LineInput) LineResult {
	quantity := types.ClampNonNegative(in.Quantity)
	unitPrice := types.ClampNonNegative(in.UnitPrice)
	discountPct := types.ClampPercent(in.DiscountPercent)
	vatPct := types.ClampPercent(in.VATPercent)

	subtotal := types.RoundMoney(quantity.Mul(unitPrice))
	discountAmount := types.RoundMoney(subtotal.Mul(types.Fraction(discountPct)))
	afterDiscount := subtotal.Sub(discountAmount)
	vatValue := types.RoundMoney(afterDiscount.Mul(types.Fraction(vatPct)))
	amount := types.RoundMoney(afterDiscount.Add(vatValue))

	return LineResult{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		VATValue:       vatValue,
		Amount:         amount,
	}
}
