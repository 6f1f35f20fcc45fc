package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"faturah/internal/core/types"
)

func dec(s string) decimal.Decimal {
	return types.MustMoney(s)
}

func line(qty, price, discount, vat string) LineInput {
	return LineInput{
		Quantity:        dec(qty),
		UnitPrice:       dec(price),
		DiscountPercent: dec(discount),
		VATPercent:      dec(vat),
	}
}

func TestComputeLine(t *testing.T) {
	tests := []struct {
		name     string
		in       LineInput
		subtotal string
		discount string
		vat      string
		amount   string
	}{
		{
			name:     "standard VAT no discount",
			in:       line("10", "91.30", "0", "15"),
			subtotal: "913.00",
			discount: "0.00",
			vat:      "136.95",
			amount:   "1049.95",
		},
		{
			name:     "discount and VAT",
			in:       line("2", "100", "10", "15"),
			subtotal: "200.00",
			discount: "20.00",
			vat:      "27.00",
			amount:   "207.00",
		},
		{
			name:     "fractional VAT rounding",
			in:       line("1", "50", "0", "15"),
			subtotal: "50.00",
			discount: "0.00",
			vat:      "7.50",
			amount:   "57.50",
		},
		{
			name:     "zero rates pass through",
			in:       line("3", "19.99", "0", "0"),
			subtotal: "59.97",
			discount: "0.00",
			vat:      "0.00",
			amount:   "59.97",
		},
		{
			name:     "half-up rounding of VAT",
			in:       line("1", "0.03", "0", "15"),
			subtotal: "0.03",
			discount: "0.00",
			vat:      "0.00", // 0.0045 rounds down at 2 decimals
			amount:   "0.03",
		},
		{
			name:     "empty line",
			in:       line("0", "0", "0", "15"),
			subtotal: "0.00",
			discount: "0.00",
			vat:      "0.00",
			amount:   "0.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeLine(tt.in)
			assert.True(t, got.Subtotal.Equal(dec(tt.subtotal)), "subtotal: want %s got %s", tt.subtotal, got.Subtotal)
			assert.True(t, got.DiscountAmount.Equal(dec(tt.discount)), "discount: want %s got %s", tt.discount, got.DiscountAmount)
			assert.True(t, got.VATValue.Equal(dec(tt.vat)), "vat: want %s got %s", tt.vat, got.VATValue)
			assert.True(t, got.Amount.Equal(dec(tt.amount)), "amount: want %s got %s", tt.amount, got.Amount)
		})
	}
}

func TestComputeLineClampsOutOfRangeInputs(t *testing.T) {
	// Negative quantity clamps to zero.
	res := ComputeLine(line("-5", "100", "0", "15"))
	assert.True(t, res.Amount.IsZero())

	// Discount above 100 clamps to 100 (full discount, nothing to tax).
	res = ComputeLine(line("1", "100", "150", "15"))
	assert.True(t, res.DiscountAmount.Equal(dec("100.00")))
	assert.True(t, res.Amount.IsZero())

	// Negative VAT clamps to zero.
	res = ComputeLine(line("1", "100", "0", "-3"))
	assert.True(t, res.VATValue.IsZero())
	assert.True(t, res.Amount.Equal(dec("100.00")))
}

func TestComputeLineDeterministic(t *testing.T) {
	in := line("7", "13.37", "12.5", "15")
	first := ComputeLine(in)
	for i := 0; i < 100; i++ {
		again := ComputeLine(in)
		assert.True(t, first.Amount.Equal(again.Amount))
		assert.True(t, first.VATValue.Equal(again.VATValue))
	}
}

func TestComputeLineZeroRatesIdentity(t *testing.T) {
	// With discountPercent=0 and vatPercent=0, amount == quantity*unitPrice.
	cases := []LineInput{
		line("1", "1", "0", "0"),
		line("12", "34.56", "0", "0"),
		line("0.5", "99.99", "0", "0"),
	}
	for _, in := range cases {
		res := ComputeLine(in)
		want := types.RoundMoney(in.Quantity.Mul(in.UnitPrice))
		assert.True(t, res.Amount.Equal(want), "want %s got %s", want, res.Amount)
	}
}
