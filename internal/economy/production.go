package economy

import (
	"fmt"
	"time"

	"BitcoinClicker/internal/model"
)

// Tick advances the economy to the clock's current time. Within one tick the
// order is fixed: hash generation, auto-click, conversion, market step.
// A clock that has not moved, or moved backwards, produces nothing.
func (m *Manager) Tick() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tick(m.clock.Now())
}

func (m *Manager) tick(now time.Time) {
	st := m.state
	dt := now.Sub(st.LastUpdate)
	if dt < 0 {
		dt = 0
	}
	st.LastUpdate = now
	secs := dt.Seconds()
	st.Stats.Playtime += secs

	p := m.production(st, now)
	generate(st, p, secs)
	autoClick(st, p, secs)
	convert(st, p)
	m.sim.Step(st, dt, ActiveMultiplier(st.ActiveBuffs, model.BuffVolatility, now))
	clampState(st)
}

// generate adds hashrate * secs to the pending buffer.
func generate(st *model.EconomyState, p model.Production, secs float64) {
	if secs <= 0 || p.Hashrate <= 0 {
		return
	}
	hashes := p.Hashrate * secs
	st.PendingHashes += hashes
	st.Stats.TotalHashesSolved += hashes
}

func autoClick(st *model.EconomyState, p model.Production, secs float64) {
	if secs <= 0 || p.AutoClickRate <= 0 {
		return
	}
	st.PendingHashes += p.ClickPower * p.AutoClickRate * secs
}

// convert turns every pending hash into bitcoin.
func convert(st *model.EconomyState, p model.Production) float64 {
	if st.PendingHashes <= 0 || p.HashesPerBTC <= 0 {
		return 0
	}
	btc := st.PendingHashes / p.HashesPerBTC * p.BTCMultiplier
	if btc <= 0 {
		return 0
	}
	st.Bitcoin += btc
	st.TotalBTCThisRun += btc
	st.TotalBTCAllTime += btc
	st.Stats.TotalBTCEarned += btc
	st.PendingHashes = 0
	return btc
}

// Click credits one manual click when gate passes and returns the hashes added.
// The gate is consulted before the state is locked.
func (m *Manager) Click(gate HumanGate) (float64, error) {
	if gate == nil || !gate.Passed() {
		return 0, ErrVerificationFailed
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	st := m.state
	p := m.production(st, m.clock.Now())
	st.PendingHashes += p.ClickPower
	st.Stats.TotalClicks++
	convert(st, p)
	clampState(st)
	m.checkUnlocks()
	return p.ClickPower, nil
}

// SellBitcoin converts all bitcoin to money at the market price.
func (m *Manager) SellBitcoin() (btc, usd float64, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := m.state
	if st.Bitcoin <= 0 {
		return 0, 0, ErrNothingToSell
	}
	btc = st.Bitcoin
	usd = btc * st.MarketPrice
	st.Money += usd
	st.Stats.TotalMoneyEarned += usd
	st.Bitcoin = 0
	clampState(st)
	m.notify("Converted!", fmt.Sprintf("Converted %.8f BTC to $%.2f", btc, usd), model.SeveritySuccess)
	m.checkUnlocks()
	return btc, usd, nil
}
