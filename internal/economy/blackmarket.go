package economy

import (
	"fmt"
	"time"

	"BitcoinClicker/internal/calculator"
	"BitcoinClicker/internal/model"
	"BitcoinClicker/internal/recorder"
)

const (
	minShopSize   = 4
	shopSizeRange = 3 // 4 to 6 items
	timeWarp      = 10 * time.Minute
)

// RotateShop restocks the black market with 4 to 6 random items from the pool.
func (m *Manager) RotateShop() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rotateShop(m.clock.Now())
	return append([]string{}, m.state.BlackMarketShop...)
}

func (m *Manager) rotateShop(now time.Time) {
	pool := make([]string, len(m.cat.BlackMarket))
	for i, item := range m.cat.BlackMarket {
		pool[i] = item.ID
	}
	for i := len(pool) - 1; i > 0; i-- {
		j := m.rng.IntN(i + 1)
		pool[i], pool[j] = pool[j], pool[i]
	}
	size := minShopSize + m.rng.IntN(shopSizeRange)
	if size > len(pool) {
		size = len(pool)
	}
	m.state.BlackMarketShop = pool[:size]
	m.state.ShopRotatedAt = now
	if size > 0 {
		m.notify("Black Market Restocked!", "New items available.", model.SeverityInfo)
	}
}

// Shop returns the items currently on offer.
func (m *Manager) Shop() []model.MarketItemSpec {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.MarketItemSpec, 0, len(m.state.BlackMarketShop))
	for _, id := range m.state.BlackMarketShop {
		if item, ok := m.cat.MarketItemByID(id); ok {
			out = append(out, item)
		}
	}
	return out
}

// BuyMarketItem buys an item from the current offer, applies it and removes it
// from the offer until the next rotation. It returns a description of the outcome.
func (m *Manager) BuyMarketItem(id string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := m.state
	item, ok := m.cat.MarketItemByID(id)
	if !ok {
		m.unknown(KindBlackMarket, id)
		return "", ErrUnknownItem
	}
	if !contains(st.BlackMarketShop, id) {
		return "", ErrNotInShop
	}
	if st.Money < item.Cost {
		return "", ErrInsufficientFunds
	}

	now := m.clock.Now()
	st.Money = calculator.NonNegative(st.Money - item.Cost)
	outcome, sev := m.applyMarketItem(item, now)
	clampState(st)

	shop := st.BlackMarketShop[:0]
	for _, v := range st.BlackMarketShop {
		if v != id {
			shop = append(shop, v)
		}
	}
	st.BlackMarketShop = shop

	m.recordErr("purchase", m.rec.RecordPurchase(&recorder.PurchaseEvent{
		At: now, Category: KindBlackMarket, ItemID: id, Cost: item.Cost, Currency: "money", CountAfter: 1,
	}))
	m.notify(item.Name, outcome, sev)
	m.checkUnlocks()
	return outcome, nil
}

func (m *Manager) applyMarketItem(item model.MarketItemSpec, now time.Time) (string, model.Severity) {
	st := m.state
	switch item.Action {
	case model.ActionBuff:
		b := m.applyBuff(*item.Buff, now)
		return fmt.Sprintf("%s active: x%g %s for %s", b.Name, b.Factor, b.Target, b.Duration), model.SeveritySuccess
	case model.ActionQuantumGamble:
		if m.rng.Float64() < 0.6 {
			st.Money *= 3
			return "The wave collapsed in your favor! Money tripled!", model.SeveritySuccess
		}
		st.Money = 0
		return "Your money evaporated into the void...", model.SeverityDanger
	case model.ActionMysteryBox:
		roll := m.rng.Float64()
		switch {
		case roll < 0.5:
			bonus := st.Bitcoin * 0.5
			st.Bitcoin += bonus
			return fmt.Sprintf("Found %.8f BTC inside!", bonus), model.SeveritySuccess
		case roll < 0.8:
			st.Money *= 0.7
			return "Just a note saying \"GOTCHA\" and 30% of your money is gone.", model.SeverityWarning
		default:
			jackpot := st.Bitcoin * 2
			st.Bitcoin += jackpot
			return fmt.Sprintf("JACKPOT! +%.8f BTC!", jackpot), model.SeveritySuccess
		}
	case model.ActionTimeWarp:
		rep := m.catchUp(timeWarp, now)
		return fmt.Sprintf("Skipped %s into the future: +%.8f BTC, +$%.0f", timeWarp, rep.BTCEarned, rep.MoneyBonus), model.SeveritySuccess
	default:
		m.unknown("black market action", string(item.Action))
		return "Nothing happened.", model.SeverityInfo
	}
}
