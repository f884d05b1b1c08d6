// Package money formats amounts for display. Arithmetic stays in float64;
// rounding to cents happens only here.
package money

import "github.com/shopspring/decimal"

// Round returns amount rounded half away from zero to two decimals.
func Round(amount float64) float64 {
	f, _ := decimal.NewFromFloat(amount).Round(2).Float64()
	return f
}

// Format renders amount as dollars with two decimals, e.g. "$38.60".
func Format(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(2)
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}
