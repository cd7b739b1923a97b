package market

import (
	"math"
	"time"

	"BitcoinClicker/internal/calculator"
	"BitcoinClicker/internal/config"
	"BitcoinClicker/internal/model"
)

// Simulator drives the bitcoin price: a trend state machine plus a bounded random walk.
type Simulator struct {
	low, high     float64
	volatility    float64
	trendDuration time.Duration
	rng           Rand
}

// NewSimulator builds a simulator from the market section of the config.
func NewSimulator(cfg *config.Config, rng Rand) *Simulator {
	if rng == nil {
		rng = DefaultRand()
	}
	return &Simulator{
		low:           cfg.Market.LowPrice,
		high:          cfg.Market.MaxPrice,
		volatility:    cfg.Market.Volatility,
		trendDuration: cfg.Market.TrendDuration,
		rng:           rng,
	}
}

// Bounds returns the configured price range.
func (s *Simulator) Bounds() (low, high float64) {
	return s.low, s.high
}

// ClampPrice bounds a price to the configured range.
func (s *Simulator) ClampPrice(p float64) float64 {
	if math.IsNaN(p) {
		return s.low
	}
	return calculator.Clamp(p, s.low, s.high)
}

// Step advances the trend timer by dt, re-rolls the trend when it expires and
// applies one random price change. volFactor scales volatility (1 = unchanged).
func (s *Simulator) Step(st *model.EconomyState, dt time.Duration, volFactor float64) {
	if dt < 0 {
		dt = 0
	}
	st.MarketTrendElapsed += dt.Seconds()
	if period := s.trendDuration.Seconds(); period > 0 && st.MarketTrendElapsed >= period {
		st.MarketTrend = model.Trends[s.rng.IntN(len(model.Trends))]
		st.MarketTrendElapsed = math.Mod(st.MarketTrendElapsed, period)
	}

	if volFactor <= 0 {
		volFactor = 1
	}
	vol := s.volatility * volFactor

	var lo, hi float64
	switch st.MarketTrend {
	case model.TrendUp:
		lo, hi = 0, vol
	case model.TrendDown:
		lo, hi = -vol, 0
	default:
		lo, hi = -vol/2, vol/2
	}
	change := calculator.UniformIn(lo, hi, s.rng.Float64())
	st.MarketPrice = s.ClampPrice(st.MarketPrice * (1 + change))
}

// Shock multiplies the price by factor and, when trend is set, forces the trend
// and restarts its timer.
func (s *Simulator) Shock(st *model.EconomyState, factor float64, trend model.Trend) {
	st.MarketPrice = s.ClampPrice(st.MarketPrice * factor)
	if trend != "" {
		st.MarketTrend = trend
		st.MarketTrendElapsed = 0
	}
}

// Roll returns a uniform value in [0, 1) from the simulator's source.
func (s *Simulator) Roll() float64 {
	return s.rng.Float64()
}

// Pick returns a uniform index in [0, n).
func (s *Simulator) Pick(n int) int {
	return s.rng.IntN(n)
}
