package calculator

import "math"

// Occurrences turns an expected-occurrences-per-check value into a concrete count.
// The integer part always fires; the fractional part is one more Bernoulli trial
// decided by roll, which must return a value in [0, 1).
func Occurrences(expected float64, roll func() float64) int {
	if expected <= 0 || math.IsNaN(expected) {
		return 0
	}
	whole, frac := math.Modf(expected)
	n := int(whole)
	if frac > 0 && roll() < frac {
		n++
	}
	return n
}

// UniformIn maps a unit roll in [0, 1) onto [lo, hi). An inverted range is swapped.
func UniformIn(lo, hi, roll float64) float64 {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + (hi-lo)*roll
}
