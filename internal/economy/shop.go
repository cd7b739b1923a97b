package economy

import (
	"fmt"

	"BitcoinClicker/internal/calculator"
	"BitcoinClicker/internal/model"
	"BitcoinClicker/internal/recorder"
)

// Item categories used in offers and purchase records.
const (
	KindHardware    = "hardware"
	KindGenerator   = "generator"
	KindUpgrade     = "upgrade"
	KindResearch    = "research"
	KindBlackMarket = "black_market"
)

// Offer is one purchasable line of the shop.
type Offer struct {
	Kind        string  `json:"kind"`
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Cost        float64 `json:"cost"`
	Currency    string  `json:"currency"` // "money" or "hash_points"
	Owned       int     `json:"owned"`
	Max         int     `json:"max,omitempty"`
	Affordable  bool    `json:"affordable"`
}

// BuyHardware buys one unit of an unlocked miner.
func (m *Manager) BuyHardware(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := m.state
	spec, ok := m.cat.HardwareByID(id)
	if !ok {
		m.unknown(KindHardware, id)
		return ErrUnknownItem
	}
	if !contains(st.UnlockedHardware, id) {
		return ErrLocked
	}
	owned := st.Hardware[id]
	cost := calculator.CostAt(spec.BaseCost, spec.CostMultiplier, owned)
	if st.Money < cost {
		return ErrInsufficientFunds
	}
	st.Money = calculator.NonNegative(st.Money - cost)
	st.Hardware[id] = owned + 1
	m.purchased(KindHardware, id, spec.Name, cost, owned+1)
	return nil
}

// BuyGenerator buys one unit of an unlocked power source.
func (m *Manager) BuyGenerator(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := m.state
	spec, ok := m.cat.GeneratorByID(id)
	if !ok {
		m.unknown(KindGenerator, id)
		return ErrUnknownItem
	}
	if !contains(st.UnlockedGenerators, id) {
		return ErrLocked
	}
	owned := st.Generators[id]
	cost := calculator.CostAt(spec.BaseCost, spec.CostMultiplier, owned)
	if st.Money < cost {
		return ErrInsufficientFunds
	}
	st.Money = calculator.NonNegative(st.Money - cost)
	st.Generators[id] = owned + 1
	m.purchased(KindGenerator, id, spec.Name, cost, owned+1)
	return nil
}

// BuyUpgrade buys one level of an unlocked upgrade, up to its purchase cap.
func (m *Manager) BuyUpgrade(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := m.state
	spec, ok := m.cat.UpgradeByID(id)
	if !ok {
		m.unknown(KindUpgrade, id)
		return ErrUnknownItem
	}
	if !contains(st.UnlockedUpgrades, id) {
		return ErrLocked
	}
	owned := st.Upgrades[id]
	if spec.MaxPurchases > 0 && owned >= spec.MaxPurchases {
		return ErrMaxPurchases
	}
	cost := calculator.CostAt(spec.Cost, spec.CostMultiplier, owned)
	if st.Money < cost {
		return ErrInsufficientFunds
	}
	st.Money = calculator.NonNegative(st.Money - cost)
	st.Upgrades[id] = owned + 1
	m.purchased(KindUpgrade, id, spec.Name, cost, owned+1)
	return nil
}

// BuyResearch spends hash points on a research node whose prerequisites are owned.
func (m *Manager) BuyResearch(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := m.state
	node, ok := m.cat.ResearchByID(id)
	if !ok {
		m.unknown(KindResearch, id)
		return ErrUnknownItem
	}
	if st.HasResearch(id) {
		return ErrAlreadyOwned
	}
	for _, req := range node.Requires {
		if !st.HasResearch(req) {
			return ErrPrerequisites
		}
	}
	if st.HashPoints < node.Cost {
		return ErrInsufficientFunds
	}

	st.HashPoints -= node.Cost
	st.ResearchPurchased = append(st.ResearchPurchased, id)
	for _, e := range node.Effects {
		if e.Kind != model.EffectUnlockHardware {
			continue
		}
		if appendUnique(&st.UnlockedHardware, e.Target) {
			name := e.Target
			if h, ok := m.cat.HardwareByID(e.Target); ok {
				name = h.Name
			}
			m.notify("New Hardware!", fmt.Sprintf("%s is now available!", name), model.SeveritySuccess)
		}
	}

	now := m.clock.Now()
	m.recordErr("purchase", m.rec.RecordPurchase(&recorder.PurchaseEvent{
		At: now, Category: KindResearch, ItemID: id, Cost: float64(node.Cost), Currency: "hash_points", CountAfter: 1,
	}))
	m.notify("Research Complete!", fmt.Sprintf("%s researched for %d HP", node.Name, node.Cost), model.SeveritySuccess)
	m.checkUnlocks()
	return nil
}

// purchased records, announces and re-resolves unlocks after a money purchase.
func (m *Manager) purchased(kind, id, name string, cost float64, owned int) {
	now := m.clock.Now()
	m.recordErr("purchase", m.rec.RecordPurchase(&recorder.PurchaseEvent{
		At: now, Category: kind, ItemID: id, Cost: cost, Currency: "money", CountAfter: owned,
	}))
	m.notify("Purchased", fmt.Sprintf("%s for $%.2f (owned: %d)", name, cost, owned), model.SeverityInfo)
	m.checkUnlocks()
}

// Offers lists what can currently be bought: unlocked hardware, generators and
// upgrades below their cap, and research whose prerequisites are owned.
func (m *Manager) Offers() []Offer {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.offers(m.state)
}

func (m *Manager) offers(st *model.EconomyState) []Offer {
	var out []Offer
	for _, id := range st.UnlockedHardware {
		h, ok := m.cat.HardwareByID(id)
		if !ok {
			continue
		}
		cost := calculator.CostAt(h.BaseCost, h.CostMultiplier, st.Hardware[id])
		out = append(out, Offer{
			Kind: KindHardware, ID: id, Name: h.Name, Description: h.Description,
			Cost: cost, Currency: "money", Owned: st.Hardware[id], Affordable: st.Money >= cost,
		})
	}
	for _, id := range st.UnlockedGenerators {
		g, ok := m.cat.GeneratorByID(id)
		if !ok {
			continue
		}
		cost := calculator.CostAt(g.BaseCost, g.CostMultiplier, st.Generators[id])
		out = append(out, Offer{
			Kind: KindGenerator, ID: id, Name: g.Name, Description: g.Description,
			Cost: cost, Currency: "money", Owned: st.Generators[id], Affordable: st.Money >= cost,
		})
	}
	for _, id := range st.UnlockedUpgrades {
		u, ok := m.cat.UpgradeByID(id)
		if !ok {
			continue
		}
		owned := st.Upgrades[id]
		if u.MaxPurchases > 0 && owned >= u.MaxPurchases {
			continue
		}
		cost := calculator.CostAt(u.Cost, u.CostMultiplier, owned)
		out = append(out, Offer{
			Kind: KindUpgrade, ID: id, Name: u.Name, Description: u.Description,
			Cost: cost, Currency: "money", Owned: owned, Max: u.MaxPurchases, Affordable: st.Money >= cost,
		})
	}
	for _, r := range m.cat.Research {
		if st.HasResearch(r.ID) || !prerequisitesMet(st, r.Requires) {
			continue
		}
		out = append(out, Offer{
			Kind: KindResearch, ID: r.ID, Name: r.Name, Description: r.Description,
			Cost: float64(r.Cost), Currency: "hash_points", Max: 1, Affordable: st.HashPoints >= r.Cost,
		})
	}
	return out
}

func prerequisitesMet(st *model.EconomyState, requires []string) bool {
	for _, req := range requires {
		if !st.HasResearch(req) {
			return false
		}
	}
	return true
}
