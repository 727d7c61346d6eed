package models

import "math"

// ClampHumidity keeps relative humidity within 0..100.
func ClampHumidity(h int) int {
	return min(max(h, 0), 100)
}

// ClampUnit keeps a probability within 0..1; NaN counts as 0.
func ClampUnit(p float64) float64 {
	if math.IsNaN(p) {
		return 0
	}
	return math.Min(math.Max(p, 0), 1)
}

// NonNegative floors a value at 0; NaN counts as 0.
func NonNegative(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}

// NormalizeWindDeg maps a bearing into 0..359. Negative input is floored
// at 0, larger input is reduced modulo 360.
func NormalizeWindDeg(deg int) int {
	if deg < 0 {
		return 0
	}
	return deg % 360
}

// OrderRange returns lo, hi with lo <= hi.
func OrderRange(lo, hi float64) (float64, float64) {
	if lo > hi {
		return hi, lo
	}
	return lo, hi
}
