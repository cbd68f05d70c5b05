package quant

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultPricePlaces matches the venue's minimum tick granularity.
// Prices rounded to this precision collapse binary floating-point noise
// into a single level key. Configurable per deployment; see infra.Config.
const DefaultPricePlaces int32 = 5

// Normalize rounds a price to the given decimal precision. Normalized
// prices are the dedup/merge key for book levels. Idempotent:
// Normalize(Normalize(p)) == Normalize(p).
func Normalize(p decimal.Decimal, places int32) decimal.Decimal {
	return p.Round(places)
}

// Parse converts a wire-format numeric string to a Decimal.
// The venue sends prices and sizes as strings at the boundary.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return d, nil
}

// Cents renders a probability-style price (0..1) in cents, e.g. "32.5¢".
func Cents(p decimal.Decimal) string {
	return p.Mul(decimal.NewFromInt(100)).Round(2).String() + "¢"
}

// Dollars renders a notional value, e.g. "$128.40".
func Dollars(v decimal.Decimal) string {
	return "$" + v.Round(2).String()
}

// Shares renders a share quantity with cent precision.
func Shares(q decimal.Decimal) string {
	return q.Round(2).String()
}

// Volume renders a large dollar volume compactly ($1.2M / $3.4K / $56).
func Volume(v decimal.Decimal) string {
	million := decimal.NewFromInt(1_000_000)
	thousand := decimal.NewFromInt(1_000)
	switch {
	case v.GreaterThanOrEqual(million):
		return "$" + v.Div(million).Round(1).String() + "M"
	case v.GreaterThanOrEqual(thousand):
		return "$" + v.Div(thousand).Round(1).String() + "K"
	default:
		return "$" + v.Round(0).String()
	}
}
