// Package types provides common type aliases and monetary arithmetic
// helpers shared across domains.
package types

import "github.com/shopspring/decimal"

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// moneyScale is the number of fractional digits kept on every derived
// monetary value. Matches Postgres NUMERIC(15,2) column semantics.
const moneyScale = 2

var oneHundred = decimal.NewFromInt(100)

// NewMoneyFromString creates a Money value from a string.
// This is the preferred method for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// RoundMoney rounds to the monetary scale, half away from zero.
// Every derived value is rounded independently at the step that
// produces it; later steps consume the rounded result.
func RoundMoney(v decimal.Decimal) Money {
	return v.Round(moneyScale)
}

// ClampPercent forces a percentage into the [0, 100] range.
func ClampPercent(p decimal.Decimal) decimal.Decimal {
	if p.IsNegative() {
		return decimal.Zero
	}
	if p.GreaterThan(oneHundred) {
		return oneHundred
	}
	return p
}

// ClampNonNegative replaces negative values with zero.
func ClampNonNegative(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}

// Fraction converts a percentage to its multiplier form (15 -> 0.15).
func Fraction(percent decimal.Decimal) decimal.Decimal {
	return percent.Div(oneHundred)
}
