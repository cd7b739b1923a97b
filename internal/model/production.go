package model

// Production holds the derived production figures for the current state.
type Production struct {
	Hashrate       float64 `json:"hashrate"`     // effective hashes per second, after power efficiency
	RawHashrate    float64 `json:"raw_hashrate"` // before power efficiency
	ClickPower     float64 `json:"click_power"`
	AutoClickRate  float64 `json:"auto_click_rate"` // clicks per second
	PowerUsed      float64 `json:"power_used"`
	PowerCapacity  float64 `json:"power_capacity"`
	Efficiency     float64 `json:"efficiency"` // 0.0 ~ 1.0
	HashesPerBTC   float64 `json:"hashes_per_btc"`
	BTCMultiplier  float64 `json:"btc_multiplier"`
	BTCPerSecond   float64 `json:"btc_per_second"`
	HashPointBonus float64 `json:"hash_point_bonus"`
}

// Modifiers is the fold of every owned upgrade, purchased research node and active buff.
type Modifiers struct {
	Hashrate          float64
	Click             float64
	Conversion        float64
	PowerUse          float64
	AutoClickRate     float64
	BTC               float64
	Volatility        float64
	PerfectEfficiency bool
	PowerSurge        bool
}

// IdentityModifiers returns modifiers that change nothing.
func IdentityModifiers() Modifiers {
	return Modifiers{Hashrate: 1, Click: 1, Conversion: 1, PowerUse: 1, BTC: 1, Volatility: 1}
}
