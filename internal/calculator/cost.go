package calculator

import "math"

// CostAt returns the price of the next unit when `owned` units are already held.
// A multiplier of 0 means the price is flat.
func CostAt(base, multiplier float64, owned int) float64 {
	if owned < 0 {
		owned = 0
	}
	if multiplier == 0 {
		return base
	}
	return base * math.Pow(multiplier, float64(owned))
}

// Compound returns factor^count, the stacked effect of `count` identical purchases.
func Compound(factor float64, count int) float64 {
	if count <= 0 {
		return 1
	}
	return math.Pow(factor, float64(count))
}

// NonNegative clamps negative values, including floating-point drift, to zero.
func NonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}

// MaxBalance caps every currency and debt balance so snapshots stay encodable.
const MaxBalance = 1e18

// Bounded clamps v into [0, MaxBalance]. NaN becomes 0 and +Inf becomes MaxBalance.
func Bounded(v float64) float64 {
	v = NonNegative(v)
	if v > MaxBalance {
		return MaxBalance
	}
	return v
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
