// Package pos implements the point-of-sale billing rules: quantity stepping,
// bag pricing for aggregates, and rendering a cart into a printable bill.
package pos

import "math"

// Quantity stepping for yard-priced aggregates. Staff adjust in quarter-yard
// increments and can never step below a quarter yard.
const (
	QuantityStep = 0.25
	MinQuantity  = 0.25
)

// round2 rounds to two decimal places, the precision quantities and money
// are displayed and stored at.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// StepQuantity applies one stepper click to a yard quantity. delta is the
// number of clicks, positive or negative. The result is clamped to the
// minimum and rounded to two decimals so repeated clicks never drift.
func StepQuantity(current float64, delta int) float64 {
	next := current + float64(delta)*QuantityStep
	if next < MinQuantity {
		next = MinQuantity
	}
	return round2(next)
}

// NormalizeYardQuantity coerces a free-form yard quantity (typed rather than
// stepped) into the valid range.
func NormalizeYardQuantity(qty float64) float64 {
	if qty < MinQuantity {
		qty = MinQuantity
	}
	return round2(qty)
}

// NormalizeBagQuantity coerces a bag quantity to a whole count of bags,
// never fewer than one. Bags are indivisible.
func NormalizeBagQuantity(qty float64) float64 {
	n := math.Round(qty)
	if n < 1 {
		n = 1
	}
	return n
}
