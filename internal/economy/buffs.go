package economy

import (
	"fmt"
	"time"

	"BitcoinClicker/internal/model"
)

// ActiveMultiplier multiplies the factors of every buff targeting target that
// is active at now. With none active it returns 1.
func ActiveMultiplier(buffs []model.Buff, target model.BuffTarget, now time.Time) float64 {
	mult := 1.0
	for _, b := range buffs {
		if b.Target == target && b.ActiveAt(now) {
			mult *= b.Factor
		}
	}
	return mult
}

func hasActive(buffs []model.Buff, target model.BuffTarget, now time.Time) bool {
	for _, b := range buffs {
		if b.Target == target && b.ActiveAt(now) {
			return true
		}
	}
	return false
}

// ApplyBuff starts a buff from spec at the current time. Buffs with the same
// id stack.
func (m *Manager) ApplyBuff(spec model.BuffSpec) model.Buff {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.applyBuff(spec, m.clock.Now())
}

func (m *Manager) applyBuff(spec model.BuffSpec, now time.Time) model.Buff {
	b := model.Buff{
		ID:        spec.ID,
		Name:      spec.Name,
		Target:    spec.Target,
		Factor:    spec.Factor,
		StartTime: now,
		Duration:  spec.Duration,
	}
	m.state.ActiveBuffs = append(m.state.ActiveBuffs, b)
	return b
}

// ActiveMultiplier is the current multiplier for target.
func (m *Manager) ActiveMultiplier(target model.BuffTarget) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return ActiveMultiplier(m.state.ActiveBuffs, target, m.clock.Now())
}

// HasPowerSurge reports whether a power surge currently lifts power limits.
func (m *Manager) HasPowerSurge() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return hasActive(m.state.ActiveBuffs, model.BuffPowerSurge, m.clock.Now())
}

// ActiveBuffs returns the buffs active now.
func (m *Manager) ActiveBuffs() []model.Buff {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.clock.Now()
	var out []model.Buff
	for _, b := range m.state.ActiveBuffs {
		if b.ActiveAt(now) {
			out = append(out, b)
		}
	}
	return out
}

// SweepBuffs drops expired buffs, announces each and returns how many were removed.
func (m *Manager) SweepBuffs() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	kept := m.state.ActiveBuffs[:0]
	var expired []model.Buff
	for _, b := range m.state.ActiveBuffs {
		if !now.Before(b.StartTime) && now.Sub(b.StartTime) >= b.Duration {
			expired = append(expired, b)
			continue
		}
		kept = append(kept, b)
	}
	m.state.ActiveBuffs = kept
	for _, b := range expired {
		m.notify("Buff Expired", fmt.Sprintf("%s has worn off.", b.Name), model.SeverityInfo)
	}
	return len(expired)
}
