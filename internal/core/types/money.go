// Package types provides shared value types for the domain layer.
package types

import "github.com/shopspring/decimal"

// Money represents a monetary amount with exact decimal arithmetic.
// Stored as NUMERIC(12,2) in the database. Never use float64 for money.
type Money = decimal.Decimal

// TotalTolerance is the maximum accepted difference between a
// client-computed order total and the server-computed one. One cent:
// absorbs client-side display rounding, nothing more.
var TotalTolerance = decimal.New(1, -2)

// NewMoney creates Money from a float (for literals in tests and seeds only).
func NewMoney(f float64) Money {
	return decimal.NewFromFloat(f)
}

// NewMoneyFromString parses Money from a decimal string.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney parses Money from string, panicking on error. Test helper.
func MustMoney(s string) Money {
	return decimal.RequireFromString(s)
}

// ZeroMoney returns 0.00.
func ZeroMoney() Money {
	return decimal.Zero
}

// WithinTolerance reports whether |a - b| <= TotalTolerance.
func WithinTolerance(a, b Money) bool {
	return a.Sub(b).Abs().LessThanOrEqual(TotalTolerance)
}
