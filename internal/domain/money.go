package domain

import "github.com/shopspring/decimal"

// Cents is an amount in minor currency units.
type Cents int64

// FormatCents renders minor units as a major-unit string with two decimals.
func FormatCents(c Cents) string {
	return decimal.New(int64(c), -2).StringFixed(2)
}

// floorDivMod divides a by n rounding toward negative infinity, so the
// remainder always lies in [0, n). n must be positive.
func floorDivMod(a, n Cents) (Cents, Cents) {
	q, r := a/n, a%n
	if r < 0 {
		q--
		r += n
	}
	return q, r
}
