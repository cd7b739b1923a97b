package model

import "time"

// EffectKind tags the variant held by an Effect.
type EffectKind string

const (
	EffectHashrateBonus     EffectKind = "hashrate_bonus"
	EffectPowerReduction    EffectKind = "power_reduction"
	EffectPowerIncrease     EffectKind = "power_increase"
	EffectConversionBonus   EffectKind = "conversion_bonus"
	EffectClickMultiplier   EffectKind = "click_multiplier"
	EffectAutoClick         EffectKind = "auto_click"
	EffectUnlockHardware    EffectKind = "unlock_hardware"
	EffectPerfectEfficiency EffectKind = "perfect_efficiency"
)

// EffectKinds lists every known effect kind.
var EffectKinds = []EffectKind{
	EffectHashrateBonus,
	EffectPowerReduction,
	EffectPowerIncrease,
	EffectConversionBonus,
	EffectClickMultiplier,
	EffectAutoClick,
	EffectUnlockHardware,
	EffectPerfectEfficiency,
}

// Effect is one modifier carried by an upgrade or research node.
// Factor is used by the multiplicative kinds and auto_click (clicks per second),
// Target by unlock_hardware.
type Effect struct {
	Kind   EffectKind `yaml:"kind" json:"kind"`
	Factor float64    `yaml:"factor,omitempty" json:"factor,omitempty"`
	Target string     `yaml:"target,omitempty" json:"target,omitempty"`
}

// Requirement gates an item behind cumulative progress. A nil requirement is always met.
type Requirement struct {
	TotalBTC     float64 `yaml:"total_btc,omitempty" json:"total_btc,omitempty"`
	HashPoints   int64   `yaml:"hash_points,omitempty" json:"hash_points,omitempty"`
	ResearchNode string  `yaml:"research_node,omitempty" json:"research_node,omitempty"`
}

// HardwareSpec describes a purchasable miner.
type HardwareSpec struct {
	ID             string       `yaml:"id"`
	Name           string       `yaml:"name"`
	Description    string       `yaml:"description"`
	Subcategory    string       `yaml:"subcategory"`
	BaseCost       float64      `yaml:"base_cost"`
	CostMultiplier float64      `yaml:"cost_multiplier"`
	BaseHashrate   float64      `yaml:"base_hashrate"`
	BasePower      float64      `yaml:"base_power"`
	Unlocked       bool         `yaml:"unlocked"`
	Requirement    *Requirement `yaml:"requirement,omitempty"`
}

// GeneratorSpec describes a purchasable power source.
type GeneratorSpec struct {
	ID             string       `yaml:"id"`
	Name           string       `yaml:"name"`
	Description    string       `yaml:"description"`
	Subcategory    string       `yaml:"subcategory"`
	BaseCost       float64      `yaml:"base_cost"`
	CostMultiplier float64      `yaml:"cost_multiplier"`
	BaseCapacity   float64      `yaml:"base_capacity"`
	Unlocked       bool         `yaml:"unlocked"`
	Requirement    *Requirement `yaml:"requirement,omitempty"`
}

// UpgradeSpec describes a purchasable upgrade. CostMultiplier 0 means a flat cost,
// MaxPurchases 0 means unlimited.
type UpgradeSpec struct {
	ID             string       `yaml:"id"`
	Name           string       `yaml:"name"`
	Description    string       `yaml:"description"`
	Subcategory    string       `yaml:"subcategory"`
	Cost           float64      `yaml:"cost"`
	CostMultiplier float64      `yaml:"cost_multiplier,omitempty"`
	MaxPurchases   int          `yaml:"max_purchases,omitempty"`
	Effects        []Effect     `yaml:"effects"`
	Unlocked       bool         `yaml:"unlocked"`
	Requirement    *Requirement `yaml:"requirement,omitempty"`
}

// ResearchNode is a permanent upgrade bought with hash points.
type ResearchNode struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Cost        int64    `yaml:"cost"`
	Tier        int      `yaml:"tier"`
	Effects     []Effect `yaml:"effects"`
	Requires    []string `yaml:"requires"`
}

// MarketAction names the one-shot behaviour of a black market item.
type MarketAction string

const (
	ActionBuff          MarketAction = "buff"
	ActionQuantumGamble MarketAction = "quantum_gamble"
	ActionMysteryBox    MarketAction = "mystery_box"
	ActionTimeWarp      MarketAction = "time_warp"
)

// BuffSpec is the template of a buff granted by a black market item.
type BuffSpec struct {
	ID       string        `yaml:"id"`
	Name     string        `yaml:"name"`
	Target   BuffTarget    `yaml:"target"`
	Factor   float64       `yaml:"factor"`
	Duration time.Duration `yaml:"duration"`
}

// MarketItemSpec is an entry of the rotating black market.
type MarketItemSpec struct {
	ID          string       `yaml:"id"`
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Cost        float64      `yaml:"cost"`
	Action      MarketAction `yaml:"action"`
	Buff        *BuffSpec    `yaml:"buff,omitempty"`
}
