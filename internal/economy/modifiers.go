package economy

import (
	"fmt"
	"log"
	"math"
	"time"

	"BitcoinClicker/internal/calculator"
	"BitcoinClicker/internal/model"
)

// modifiers folds owned upgrades, purchased research and buffs active at now.
// Upgrades are visited in catalog order so the fold is deterministic.
func (m *Manager) modifiers(st *model.EconomyState, now time.Time) model.Modifiers {
	mod := model.IdentityModifiers()
	for _, u := range m.cat.Upgrades {
		n := st.Upgrades[u.ID]
		if n <= 0 {
			continue
		}
		for _, e := range u.Effects {
			applyEffect(&mod, e, n)
		}
	}
	for _, id := range st.ResearchPurchased {
		node, ok := m.cat.ResearchByID(id)
		if !ok {
			m.unknown("research", id)
			continue
		}
		for _, e := range node.Effects {
			applyEffect(&mod, e, 1)
		}
	}

	mod.Hashrate *= ActiveMultiplier(st.ActiveBuffs, model.BuffHashrate, now)
	mod.Click *= ActiveMultiplier(st.ActiveBuffs, model.BuffClick, now)
	mod.BTC *= ActiveMultiplier(st.ActiveBuffs, model.BuffBTC, now)
	mod.Volatility *= ActiveMultiplier(st.ActiveBuffs, model.BuffVolatility, now)
	mod.PowerSurge = hasActive(st.ActiveBuffs, model.BuffPowerSurge, now)
	return mod
}

// applyEffect folds count identical copies of e into mod.
func applyEffect(mod *model.Modifiers, e model.Effect, count int) {
	switch e.Kind {
	case model.EffectHashrateBonus:
		mod.Hashrate *= calculator.Compound(e.Factor, count)
	case model.EffectPowerReduction, model.EffectPowerIncrease:
		mod.PowerUse *= calculator.Compound(e.Factor, count)
	case model.EffectConversionBonus:
		mod.Conversion *= calculator.Compound(e.Factor, count)
	case model.EffectClickMultiplier:
		mod.Click *= calculator.Compound(e.Factor, count)
	case model.EffectAutoClick:
		mod.AutoClickRate += e.Factor * float64(count)
	case model.EffectPerfectEfficiency:
		mod.PerfectEfficiency = true
	case model.EffectUnlockHardware:
		// applied once, at purchase time
	default:
		msg := fmt.Sprintf("unhandled effect kind %q", e.Kind)
		if devAssertions {
			panic(msg)
		}
		log.Printf("[WARN] %s", msg)
	}
}

// production derives every rate from the state at now.
func (m *Manager) production(st *model.EconomyState, now time.Time) model.Production {
	mod := m.modifiers(st, now)
	hpBonus := calculator.HashPointBonus(st.HashPoints)

	var raw, used, capacity float64
	for _, h := range m.cat.Hardware {
		if n := st.Hardware[h.ID]; n > 0 {
			raw += h.BaseHashrate * float64(n)
			used += h.BasePower * float64(n)
		}
	}
	for _, g := range m.cat.Generators {
		if n := st.Generators[g.ID]; n > 0 {
			capacity += g.BaseCapacity * float64(n)
		}
	}
	raw *= mod.Hashrate * hpBonus
	used *= mod.PowerUse

	eff := calculator.PowerEfficiency(used, capacity)
	if mod.PerfectEfficiency || mod.PowerSurge {
		eff = 1
	}

	hashesPerBTC := m.cfg.Game.HashesPerBTC * mod.Conversion
	if hashesPerBTC <= 0 || math.IsNaN(hashesPerBTC) {
		hashesPerBTC = m.cfg.Game.HashesPerBTC
	}

	p := model.Production{
		Hashrate:       raw * eff,
		RawHashrate:    raw,
		ClickPower:     math.Floor(mod.Click * hpBonus),
		AutoClickRate:  mod.AutoClickRate,
		PowerUsed:      used,
		PowerCapacity:  capacity,
		Efficiency:     eff,
		HashesPerBTC:   hashesPerBTC,
		BTCMultiplier:  mod.BTC,
		HashPointBonus: hpBonus,
	}
	p.BTCPerSecond = (p.Hashrate + p.ClickPower*p.AutoClickRate) / hashesPerBTC * mod.BTC
	return p
}
