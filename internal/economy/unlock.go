package economy

import (
	"fmt"

	"BitcoinClicker/internal/model"
)

// MeetsRequirement checks cumulative progress against req. A nil requirement is always met.
func MeetsRequirement(req *model.Requirement, st *model.EconomyState) bool {
	if req == nil {
		return true
	}
	if st.TotalBTCAllTime < req.TotalBTC {
		return false
	}
	if st.HashPoints < req.HashPoints {
		return false
	}
	if req.ResearchNode != "" && !st.HasResearch(req.ResearchNode) {
		return false
	}
	return true
}

// CheckUnlocks appends every newly eligible item to its unlock list and
// returns how many were added. Calling it again without progress adds nothing.
func (m *Manager) CheckUnlocks() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.checkUnlocks()
}

func (m *Manager) checkUnlocks() int {
	st := m.state
	added := 0
	for _, h := range m.cat.Hardware {
		if contains(st.UnlockedHardware, h.ID) {
			continue
		}
		if h.Unlocked || MeetsRequirement(h.Requirement, st) {
			st.UnlockedHardware = append(st.UnlockedHardware, h.ID)
			m.notify("New Hardware!", fmt.Sprintf("%s is now available!", h.Name), model.SeveritySuccess)
			added++
		}
	}
	for _, g := range m.cat.Generators {
		if contains(st.UnlockedGenerators, g.ID) {
			continue
		}
		if g.Unlocked || MeetsRequirement(g.Requirement, st) {
			st.UnlockedGenerators = append(st.UnlockedGenerators, g.ID)
			m.notify("New Generator!", fmt.Sprintf("%s is now available!", g.Name), model.SeveritySuccess)
			added++
		}
	}
	for _, u := range m.cat.Upgrades {
		if contains(st.UnlockedUpgrades, u.ID) {
			continue
		}
		if u.Unlocked || MeetsRequirement(u.Requirement, st) {
			st.UnlockedUpgrades = append(st.UnlockedUpgrades, u.ID)
			m.notify("New Upgrade!", fmt.Sprintf("%s is now available!", u.Name), model.SeveritySuccess)
			added++
		}
	}
	return added
}

// baseUnlocks is the unlock set a run starts from: catalog items flagged as
// unlocked plus hardware granted by research still owned.
func (m *Manager) baseUnlocks(st *model.EconomyState) (hw, gen, up []string) {
	hw, gen, up = m.cat.BaseUnlocks()
	for _, id := range st.ResearchPurchased {
		node, ok := m.cat.ResearchByID(id)
		if !ok {
			continue
		}
		for _, e := range node.Effects {
			if e.Kind == model.EffectUnlockHardware {
				appendUnique(&hw, e.Target)
			}
		}
	}
	return hw, gen, up
}
