package economy

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"BitcoinClicker/internal/calculator"
	"BitcoinClicker/internal/catalog"
	"BitcoinClicker/internal/config"
	"BitcoinClicker/internal/market"
	"BitcoinClicker/internal/model"
	"BitcoinClicker/internal/recorder"
)

// Rejections. Each leaves the state untouched.
var (
	ErrUnknownItem        = errors.New("unknown item")
	ErrLocked             = errors.New("item is not unlocked yet")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrMaxPurchases       = errors.New("max purchases reached")
	ErrAlreadyOwned       = errors.New("already purchased")
	ErrPrerequisites      = errors.New("research prerequisites not met")
	ErrNoPrestigeGain     = errors.New("mine at least 1 BTC this run to gain hash points")
	ErrAlreadyPrestiged   = errors.New("already prestiged for this version")
	ErrVerificationFailed = errors.New("wrong answer, try again")
	ErrNothingToSell      = errors.New("no bitcoin to sell")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrLoanTooLarge       = errors.New("loan exceeds the maximum amount")
	ErrUnknownLoan        = errors.New("unknown loan")
	ErrNotInShop          = errors.New("item is not in the current black market offer")
)

// Clock reads wall time.
type Clock interface {
	Now() time.Time
}

// RealClock is the system clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// HumanGate is the external yes/no verification a manual click must pass.
type HumanGate interface {
	Passed() bool
}

// GateFunc adapts a function to HumanGate.
type GateFunc func() bool

func (f GateFunc) Passed() bool { return f() }

// Notifier receives fire-and-forget notifications. Implementations must not block.
type Notifier interface {
	Notify(n model.Notification)
}

type nopNotifier struct{}

func (nopNotifier) Notify(model.Notification) {}

// Manager owns one EconomyState. Every exported method holds the mutex for its
// whole body, so operations are atomic and never interleave.
type Manager struct {
	mu       sync.Mutex
	cfg      *config.Config
	cat      *catalog.Catalog
	state    *model.EconomyState
	clock    Clock
	rng      market.Rand
	sim      *market.Simulator
	notifier Notifier
	rec      recorder.Recorder
}

// NewManager wires a Manager around state. A nil state starts a new game; nil
// collaborators fall back to the real clock, the global random source, no
// notifications and no history.
func NewManager(cfg *config.Config, cat *catalog.Catalog, state *model.EconomyState,
	clock Clock, rng market.Rand, n Notifier, rec recorder.Recorder) *Manager {
	if clock == nil {
		clock = RealClock{}
	}
	if rng == nil {
		rng = market.DefaultRand()
	}
	if n == nil {
		n = nopNotifier{}
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	m := &Manager{
		cfg:      cfg,
		cat:      cat,
		clock:    clock,
		rng:      rng,
		sim:      market.NewSimulator(cfg, rng),
		notifier: n,
		rec:      rec,
	}

	now := clock.Now()
	if state == nil {
		state = NewState(cfg, cat, now)
	}
	m.state = state
	m.normalize(now)
	if len(m.state.BlackMarketShop) == 0 {
		m.rotateShop(now)
	}
	m.checkUnlocks()
	return m
}

// NewState returns the state of a brand new game.
func NewState(cfg *config.Config, cat *catalog.Catalog, now time.Time) *model.EconomyState {
	hw, gen, up := cat.BaseUnlocks()
	return &model.EconomyState{
		Hardware:           map[string]int{},
		Generators:         map[string]int{},
		Upgrades:           map[string]int{},
		UnlockedHardware:   hw,
		UnlockedGenerators: gen,
		UnlockedUpgrades:   up,
		ResearchPurchased:  []string{},
		MarketPrice:        calculator.Clamp(cfg.Market.BasePrice, cfg.Market.LowPrice, cfg.Market.MaxPrice),
		MarketTrend:        model.TrendNeutral,
		ActiveBuffs:        []model.Buff{},
		Loans:              []model.Loan{},
		AutopayPercentage:  50,
		BlackMarketShop:    []string{},
		ShopRotatedAt:      now,
		LastUpdate:         now,
		Version:            cfg.Game.Version,
	}
}

// normalize repairs a hydrated snapshot: nil maps, negative counts, duplicate
// unlocks, out-of-range prices and autopay settings.
func (m *Manager) normalize(now time.Time) {
	st := m.state
	if st.Hardware == nil {
		st.Hardware = map[string]int{}
	}
	if st.Generators == nil {
		st.Generators = map[string]int{}
	}
	if st.Upgrades == nil {
		st.Upgrades = map[string]int{}
	}
	for _, counts := range []map[string]int{st.Hardware, st.Generators, st.Upgrades} {
		for id, n := range counts {
			if n < 0 {
				counts[id] = 0
			}
		}
	}
	st.UnlockedHardware = dedupe(st.UnlockedHardware)
	st.UnlockedGenerators = dedupe(st.UnlockedGenerators)
	st.UnlockedUpgrades = dedupe(st.UnlockedUpgrades)
	st.ResearchPurchased = dedupe(st.ResearchPurchased)
	if st.ActiveBuffs == nil {
		st.ActiveBuffs = []model.Buff{}
	}
	if st.Loans == nil {
		st.Loans = []model.Loan{}
	}
	if st.BlackMarketShop == nil {
		st.BlackMarketShop = []string{}
	}
	switch st.MarketTrend {
	case model.TrendUp, model.TrendDown, model.TrendNeutral:
	default:
		st.MarketTrend = model.TrendNeutral
	}
	if st.MarketPrice == 0 {
		st.MarketPrice = m.cfg.Market.BasePrice
	}
	st.MarketPrice = m.sim.ClampPrice(st.MarketPrice)
	st.AutopayPercentage = calculator.Clamp(st.AutopayPercentage, 10, 100)
	if st.LastUpdate.IsZero() {
		st.LastUpdate = now
	}
	if st.Version == "" {
		st.Version = m.cfg.Game.Version
	}
	clampState(st)
}

// State returns a deep copy of the current state.
func (m *Manager) State() model.EconomyState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone()
}

// Production returns the derived production figures at the current time.
func (m *Manager) Production() model.Production {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.production(m.state, m.clock.Now())
}

// Version is the game version the manager runs.
func (m *Manager) Version() string {
	return m.cfg.Game.Version
}

// Now reads the manager's clock.
func (m *Manager) Now() time.Time {
	return m.clock.Now()
}

// Catalog returns the immutable item catalog.
func (m *Manager) Catalog() *catalog.Catalog {
	return m.cat
}

func (m *Manager) notify(title, message string, sev model.Severity) {
	m.notifier.Notify(model.Notification{
		ID:       uuid.NewString(),
		Title:    title,
		Message:  message,
		Severity: sev,
		At:       m.clock.Now(),
	})
}

// unknown reports a reference to an id the catalog does not know.
func (m *Manager) unknown(kind, id string) {
	msg := fmt.Sprintf("unknown %s id %q", kind, id)
	if devAssertions {
		panic(msg)
	}
	log.Printf("[WARN] %s, skipped", msg)
}

func (m *Manager) recordErr(what string, err error) {
	if err != nil {
		log.Printf("[WARN] record %s: %v", what, err)
	}
}

// clampState pulls floating-point drift below zero back to zero and keeps
// balances under calculator.MaxBalance.
func clampState(st *model.EconomyState) {
	st.Bitcoin = calculator.Bounded(st.Bitcoin)
	st.Money = calculator.Bounded(st.Money)
	st.PendingHashes = calculator.NonNegative(st.PendingHashes)
	st.TotalBTCThisRun = calculator.Bounded(st.TotalBTCThisRun)
	st.TotalBTCAllTime = calculator.Bounded(st.TotalBTCAllTime)
	st.Stats.TotalBTCEarned = calculator.Bounded(st.Stats.TotalBTCEarned)
	st.Stats.TotalMoneyEarned = calculator.Bounded(st.Stats.TotalMoneyEarned)
	for i := range st.Loans {
		st.Loans[i].Remaining = calculator.Bounded(st.Loans[i].Remaining)
	}
	if st.HashPoints < 0 {
		st.HashPoints = 0
	}
}

func contains(list []string, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}

// appendUnique appends id unless present and reports whether it was added.
func appendUnique(list *[]string, id string) bool {
	if contains(*list, id) {
		return false
	}
	*list = append(*list, id)
	return true
}

func dedupe(list []string) []string {
	out := make([]string, 0, len(list))
	for _, id := range list {
		appendUnique(&out, id)
	}
	return out
}
