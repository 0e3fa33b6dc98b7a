package domain

import "github.com/shopspring/decimal"

// AmountScale is the number of fraction digits kept for every stored amount.
const AmountScale = 2

// DefaultTolerance is the largest drift treated as rounding noise.
var DefaultTolerance = decimal.New(1, -AmountScale)

// Normalize maps a raw, user-facing amount to the signed amount used for
// aggregation. Asset amounts are kept as entered; liability amounts are negated.
func Normalize(nature Nature, raw decimal.Decimal) decimal.Decimal {
	if nature == NatureLiability {
		return raw.Neg()
	}
	return raw
}

// RoundAmount rounds to the stored precision.
func RoundAmount(d decimal.Decimal) decimal.Decimal {
	return d.Round(AmountScale)
}

// WithinTolerance reports whether a and b differ by at most tolerance.
func WithinTolerance(a, b, tolerance decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tolerance)
}
