package entries

import "github.com/shopspring/decimal"

// ComputeEarnings returns hours x rate at cent precision, rounded half up.
// It runs at save time only; earnings are stored, not re-derived live.
func ComputeEarnings(hours, rate float64) float64 {
	earned, _ := decimal.NewFromFloat(hours).
		Mul(decimal.NewFromFloat(rate)).
		Round(2).
		Float64()
	return earned
}

// NormalizeHours snaps hours to one-tenth precision.
func NormalizeHours(hours float64) float64 {
	snapped, _ := decimal.NewFromFloat(hours).Round(1).Float64()
	return snapped
}

// NormalizeRate snaps a rate to cent precision.
func NormalizeRate(rate float64) float64 {
	snapped, _ := decimal.NewFromFloat(rate).Round(2).Float64()
	return snapped
}
