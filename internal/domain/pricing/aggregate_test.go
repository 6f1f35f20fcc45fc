package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pct(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func assertTotals(t *testing.T, got Totals, subtotal, discount, vat, total string) {
	t.Helper()
	assert.True(t, got.Subtotal.Equal(dec(subtotal)), "subtotal: want %s got %s", subtotal, got.Subtotal)
	assert.True(t, got.Discount.Equal(dec(discount)), "discount: want %s got %s", discount, got.Discount)
	assert.True(t, got.VATAmount.Equal(dec(vat)), "vat: want %s got %s", vat, got.VATAmount)
	assert.True(t, got.TotalAmount.Equal(dec(total)), "total: want %s got %s", total, got.TotalAmount)
}

func TestAggregateSingleLineInvoice(t *testing.T) {
	lines := []LineInput{line("10", "91.30", "0", "15")}

	got := Aggregate(lines, nil, nil, ModeLineVAT)
	assertTotals(t, got, "913.00", "0.00", "136.95", "1049.95")
}

func TestAggregateBlendedTwoLines(t *testing.T) {
	lines := []LineInput{
		line("2", "100", "10", "15"),
		line("1", "50", "0", "15"),
	}

	got := Aggregate(lines, nil, nil, ModeBlended)
	assertTotals(t, got, "250.00", "20.00", "34.50", "264.50")
}

func TestAggregateEmptyLines(t *testing.T) {
	got := Aggregate(nil, nil, nil, ModeBlended)
	assertTotals(t, got, "0.00", "0.00", "0.00", "0.00")

	got = Aggregate([]LineInput{}, pct("10"), pct("15"), ModeLineVAT)
	assertTotals(t, got, "0.00", "0.00", "0.00", "0.00")
}

func TestAggregateDocumentDiscount(t *testing.T) {
	lines := []LineInput{
		line("2", "100", "10", "15"),
		line("1", "50", "0", "15"),
	}

	// Blended mode: line discounts and the global discount are additive,
	// both taken from the gross subtotal, not compounding.
	got := Aggregate(lines, pct("10"), nil, ModeBlended)
	assertTotals(t, got, "250.00", "45.00", "34.50", "239.50")

	// Line-VAT mode: only the explicitly supplied document discount counts.
	got = Aggregate(lines, pct("10"), nil, ModeLineVAT)
	assertTotals(t, got, "250.00", "25.00", "34.50", "259.50")
}

func TestAggregateLineVATModeIgnoresDocumentVAT(t *testing.T) {
	lines := []LineInput{line("1", "100", "0", "15")}

	// In the invoice flow the document-level VAT field is advisory only.
	got := Aggregate(lines, nil, pct("5"), ModeLineVAT)
	assertTotals(t, got, "100.00", "0.00", "15.00", "115.00")
}

func TestAggregateBlendedDocumentVATReplacesLineVAT(t *testing.T) {
	lines := []LineInput{
		line("1", "100", "0", "15"),
		line("1", "100", "0", "15"),
	}

	// A supplied document VAT % applies to the gross subtotal instead of
	// the per-line values.
	got := Aggregate(lines, nil, pct("5"), ModeBlended)
	assertTotals(t, got, "200.00", "0.00", "10.00", "210.00")
}

func TestAggregateIdempotent(t *testing.T) {
	lines := []LineInput{
		line("3", "33.33", "7", "15"),
		line("11", "0.07", "0", "15"),
		line("2", "199.95", "50", "5"),
	}

	first := Aggregate(lines, pct("2.5"), nil, ModeBlended)
	for i := 0; i < 50; i++ {
		again := Aggregate(lines, pct("2.5"), nil, ModeBlended)
		require.True(t, first.Subtotal.Equal(again.Subtotal))
		require.True(t, first.Discount.Equal(again.Discount))
		require.True(t, first.VATAmount.Equal(again.VATAmount))
		require.True(t, first.TotalAmount.Equal(again.TotalAmount))
	}
}

func TestAggregateInvariantHolds(t *testing.T) {
	cases := []struct {
		lines    []LineInput
		docDisc  *decimal.Decimal
		docVAT   *decimal.Decimal
		mode     Mode
	}{
		{[]LineInput{line("1", "9.99", "3", "15")}, nil, nil, ModeLineVAT},
		{[]LineInput{line("4", "25", "0", "15"), line("1", "0.01", "0", "15")}, pct("7"), nil, ModeBlended},
		{[]LineInput{line("9", "14.30", "12", "5")}, pct("100"), pct("15"), ModeBlended},
		{nil, nil, nil, ModeLineVAT},
	}

	for _, tc := range cases {
		got := Aggregate(tc.lines, tc.docDisc, tc.docVAT, tc.mode)
		want := got.Subtotal.Sub(got.Discount).Add(got.VATAmount)
		assert.True(t, got.TotalAmount.Equal(want),
			"totalAmount %s != subtotal - discount + vat %s", got.TotalAmount, want)
	}
}
