// Package types provides common type aliases and utilities.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors: repeated recomputation
// of document totals must never drift, so intermediate sums are kept exact
// and only display output is rounded.
type Money = decimal.Decimal

// NewMoney creates a Money value from a float.
// WARNING: Use NewMoneyFromString for precise values.
func NewMoney(f float64) Money {
	return decimal.NewFromFloat(f)
}

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

// One returns Money value of 1 (the default dimension multiplier).
func One() Money {
	return decimal.NewFromInt(1)
}

// FormatMoney renders a Money value with 2 decimal places for display.
// Internal storage keeps full precision; rounding happens only here.
func FormatMoney(m Money) string {
	return m.StringFixed(2)
}
