package economy

import (
	"fmt"
	"sort"
	"time"

	"BitcoinClicker/internal/calculator"
	"BitcoinClicker/internal/model"
	"BitcoinClicker/internal/recorder"
)

// Random event names, as configured under events.chances.
const (
	EventMarketCrash         = "market_crash"
	EventMarketBoom          = "market_boom"
	EventHalvening           = "halvening"
	EventPowerSurge          = "power_surge"
	EventHardwareMalfunction = "hardware_malfunction"
	EventLuckyFind           = "lucky_find"
)

// CheckEvents rolls every configured event once per check and returns the names
// of the events that fired. A chance above 1 fires its integer part for sure
// and the fraction as one more trial. Nothing rolls before 1 BTC was mined this run.
func (m *Manager) CheckEvents() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := m.state
	if st.TotalBTCThisRun < 1 {
		return nil
	}

	names := make([]string, 0, len(m.cfg.Events.Chances))
	for name := range m.cfg.Events.Chances {
		names = append(names, name)
	}
	sort.Strings(names)

	now := m.clock.Now()
	var fired []string
	for _, name := range names {
		n := calculator.Occurrences(m.cfg.Events.Chances[name], m.rng.Float64)
		for i := 0; i < n; i++ {
			if m.triggerEvent(name, now) {
				fired = append(fired, name)
			}
		}
	}
	clampState(st)
	return fired
}

// triggerEvent applies one event's one-shot effect.
func (m *Manager) triggerEvent(name string, now time.Time) bool {
	st := m.state
	switch name {
	case EventMarketCrash:
		m.sim.Shock(st, 0.8, model.TrendDown)
		m.notify("Market Crash!", "Bitcoin price dropped 20%!", model.SeverityWarning)
	case EventMarketBoom:
		m.sim.Shock(st, 1.3, model.TrendUp)
		m.notify("Market Boom!", "Bitcoin price surged 30%!", model.SeveritySuccess)
	case EventHalvening:
		bonus := m.production(st, now).ClickPower * 100
		st.PendingHashes += bonus
		m.notify("Halvening Event!", fmt.Sprintf("Bonus %.0f hashes!", bonus), model.SeverityEvent)
	case EventPowerSurge:
		bonus := st.TotalBTCThisRun * 0.05
		st.Bitcoin += bonus
		m.notify("Power Surge!", fmt.Sprintf("+%.8f BTC from efficient mining!", bonus), model.SeveritySuccess)
	case EventHardwareMalfunction:
		lost := st.PendingHashes * 0.1
		st.PendingHashes -= lost
		m.notify("Hardware Malfunction", fmt.Sprintf("Lost %.0f pending hashes", lost), model.SeverityWarning)
	case EventLuckyFind:
		found := calculator.UniformIn(0, 0.1, m.rng.Float64())
		st.Bitcoin += found
		m.notify("Lucky Find!", fmt.Sprintf("Found %.8f BTC in an old wallet!", found), model.SeverityEvent)
	default:
		m.unknown("event", name)
		return false
	}

	st.Stats.EventsTriggered++
	m.recordErr("event", m.rec.RecordEvent(&recorder.RandomEvent{
		At: now, Name: name, MarketPrice: st.MarketPrice, Bitcoin: st.Bitcoin, PendingHashes: st.PendingHashes,
	}))
	return true
}
