package model

import "time"

// Trend is the direction the market random walk is biased towards.
type Trend string

const (
	TrendUp      Trend = "up"
	TrendDown    Trend = "down"
	TrendNeutral Trend = "neutral"
)

// Trends lists every market trend in a fixed order.
var Trends = []Trend{TrendUp, TrendDown, TrendNeutral}

// Stats holds lifetime counters shown on the status screen.
type Stats struct {
	TotalClicks       int64   `json:"total_clicks"`
	TotalHashesSolved float64 `json:"total_hashes_solved"`
	TotalBTCEarned    float64 `json:"total_btc_earned"`
	TotalMoneyEarned  float64 `json:"total_money_earned"`
	Playtime          float64 `json:"playtime"` // seconds
	EventsTriggered   int64   `json:"events_triggered"`
}

// EconomyState is the single mutable aggregate of a game.
type EconomyState struct {
	Bitcoin       float64 `json:"bitcoin"`
	Money         float64 `json:"money"`
	PendingHashes float64 `json:"pending_hashes"`
	HashPoints    int64   `json:"hash_points"`

	TotalBTCThisRun float64 `json:"total_btc_this_run"`
	TotalBTCAllTime float64 `json:"total_btc_all_time"`
	TotalPrestiges  int     `json:"total_prestiges"`

	Hardware   map[string]int `json:"hardware"`
	Generators map[string]int `json:"generators"`
	Upgrades   map[string]int `json:"upgrades"`

	UnlockedHardware   []string `json:"unlocked_hardware"`
	UnlockedGenerators []string `json:"unlocked_generators"`
	UnlockedUpgrades   []string `json:"unlocked_upgrades"`
	ResearchPurchased  []string `json:"research_purchased"`

	MarketPrice        float64 `json:"market_price"`
	MarketTrend        Trend   `json:"market_trend"`
	MarketTrendElapsed float64 `json:"market_trend_elapsed"` // seconds since last trend roll

	ActiveBuffs []Buff `json:"active_buffs"`

	Loans             []Loan  `json:"loans"`
	AutopayEnabled    bool    `json:"autopay_enabled"`
	AutopayPercentage float64 `json:"autopay_percentage"`

	BlackMarketShop []string  `json:"black_market_shop"`
	ShopRotatedAt   time.Time `json:"shop_rotated_at"`

	Stats Stats `json:"stats"`

	LastUpdate           time.Time `json:"last_update"`
	Version              string    `json:"version"`
	LastPrestigedVersion string    `json:"last_prestiged_version"`
}

// Clone returns a deep copy of the state.
func (s *EconomyState) Clone() EconomyState {
	c := *s
	c.Hardware = cloneCounts(s.Hardware)
	c.Generators = cloneCounts(s.Generators)
	c.Upgrades = cloneCounts(s.Upgrades)
	c.UnlockedHardware = cloneStrings(s.UnlockedHardware)
	c.UnlockedGenerators = cloneStrings(s.UnlockedGenerators)
	c.UnlockedUpgrades = cloneStrings(s.UnlockedUpgrades)
	c.ResearchPurchased = cloneStrings(s.ResearchPurchased)
	c.BlackMarketShop = cloneStrings(s.BlackMarketShop)
	if s.ActiveBuffs != nil {
		c.ActiveBuffs = append([]Buff{}, s.ActiveBuffs...)
	}
	if s.Loans != nil {
		c.Loans = append([]Loan{}, s.Loans...)
	}
	return c
}

// HasResearch reports whether the research node has been purchased.
func (s *EconomyState) HasResearch(id string) bool {
	return contains(s.ResearchPurchased, id)
}

func cloneCounts(m map[string]int) map[string]int {
	if m == nil {
		return nil
	}
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string{}, s...)
}

func contains(list []string, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}
