package calculator

// PowerEfficiency returns the fraction of raw hashrate that can be powered (0.0~1.0).
// Nothing drawing power is fully efficient; drawing power with no capacity yields 0.
func PowerEfficiency(used, capacity float64) float64 {
	if used <= 0 {
		return 1
	}
	if capacity <= 0 {
		return 0
	}
	eff := capacity / used
	if eff > 1 {
		eff = 1
	}
	return eff
}

// HashPointBonus is the passive production multiplier granted by hash points (1% each).
func HashPointBonus(hashPoints int64) float64 {
	if hashPoints < 0 {
		hashPoints = 0
	}
	return 1 + float64(hashPoints)*0.01
}
