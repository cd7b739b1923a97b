package economy

import (
	"fmt"

	"BitcoinClicker/internal/calculator"
	"BitcoinClicker/internal/model"
	"BitcoinClicker/internal/recorder"
)

// PrestigePreview returns the hash points a prestige would grant now, and
// whether prestige is currently allowed.
func (m *Manager) PrestigePreview() (int64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	gain := calculator.PrestigeGain(m.state.TotalBTCThisRun)
	return gain, m.state.TotalBTCThisRun >= 1 && gain > 0
}

// Prestige converts this run's bitcoin into hash points and resets run-scoped
// progress. Hash points, prestige count, all-time BTC, research, loans, buffs
// and the market carry over.
func (m *Manager) Prestige() (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := m.state
	gain := calculator.PrestigeGain(st.TotalBTCThisRun)
	if st.TotalBTCThisRun < 1 || gain <= 0 {
		return 0, ErrNoPrestigeGain
	}

	runBTC, bitcoin := st.TotalBTCThisRun, st.Bitcoin
	st.HashPoints += gain
	st.TotalPrestiges++

	st.Bitcoin = 0
	st.Money = 0
	st.PendingHashes = 0
	st.TotalBTCThisRun = 0
	st.Hardware = map[string]int{}
	st.Generators = map[string]int{}
	st.Upgrades = map[string]int{}
	st.UnlockedHardware, st.UnlockedGenerators, st.UnlockedUpgrades = m.baseUnlocks(st)

	m.recordErr("prestige", m.rec.RecordPrestige(&recorder.PrestigeEvent{
		At: m.clock.Now(), Kind: "standard", Gain: gain, TotalBTCThisRun: runBTC,
		BitcoinBefore: bitcoin, HashPointsAfter: st.HashPoints, Version: m.cfg.Game.Version,
	}))
	m.notify("Prestige!", fmt.Sprintf("Gained %d Hash Points! Total: %d", gain, st.HashPoints), model.SeveritySuccess)
	m.checkUnlocks()
	return gain, nil
}

// VersionPrestigeAvailable reports whether the one-time reward for the running
// game version has not been claimed yet.
func (m *Manager) VersionPrestigeAvailable() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.LastPrestigedVersion != m.cfg.Game.Version
}

// VersionPrestige grants max(1, floor(bitcoin*10)) hash points once per game
// version, then resets everything except hash points and the version marker.
func (m *Manager) VersionPrestige() (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	version := m.cfg.Game.Version
	if m.state.LastPrestigedVersion == version {
		return 0, ErrAlreadyPrestiged
	}

	now := m.clock.Now()
	bitcoin := m.state.Bitcoin
	reward := calculator.VersionPrestigeReward(bitcoin)
	fresh := NewState(m.cfg, m.cat, now)
	fresh.HashPoints = m.state.HashPoints + reward
	fresh.LastPrestigedVersion = version
	m.state = fresh
	m.rotateShop(now)

	m.recordErr("prestige", m.rec.RecordPrestige(&recorder.PrestigeEvent{
		At: now, Kind: "version", Gain: reward, BitcoinBefore: bitcoin,
		HashPointsAfter: fresh.HashPoints, Version: version,
	}))
	m.notify("Prestige Complete!", fmt.Sprintf("You prestiged for v%s and earned %d Hash Points!", version, reward), model.SeveritySuccess)
	m.checkUnlocks()
	return reward, nil
}

// HardReset replaces the state with a new game.
func (m *Manager) HardReset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	m.state = NewState(m.cfg, m.cat, now)
	m.rotateShop(now)
	m.notify("Progress Reset", "All progress has been reset.", model.SeverityDanger)
	m.checkUnlocks()
}
