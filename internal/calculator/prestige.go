package calculator

import "math"

// PrestigeGain returns floor(sqrt(totalBTCThisRun / 10)), never negative.
func PrestigeGain(totalBTCThisRun float64) int64 {
	if totalBTCThisRun <= 0 {
		return 0
	}
	return int64(math.Floor(math.Sqrt(totalBTCThisRun / 10)))
}

// VersionPrestigeReward returns max(1, floor(bitcoin * 10)).
func VersionPrestigeReward(bitcoin float64) int64 {
	reward := int64(math.Floor(bitcoin * 10))
	if reward < 1 {
		reward = 1
	}
	return reward
}

// OfflineMoney is the idle bonus: floor(minutes * sqrt(money)).
func OfflineMoney(minutes int64, money float64) float64 {
	if minutes <= 0 || money <= 0 {
		return 0
	}
	return math.Floor(float64(minutes) * math.Sqrt(money))
}
