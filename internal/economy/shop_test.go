package economy

import (
	"errors"
	"reflect"
	"testing"
)

func TestBuyUpgrade_MaxPurchasesIsNoOp(t *testing.T) {
	m, _, _, _ := newTestManager(t)
	m.state.Money = 100

	if err := m.BuyUpgrade("click_power0"); err != nil {
		t.Fatalf("first purchase: %v", err)
	}
	if got := m.State().Money; got != 99 {
		t.Fatalf("expected money 99 after first purchase, got %v", got)
	}
	if err := m.BuyUpgrade("click_power0"); !errors.Is(err, ErrMaxPurchases) {
		t.Fatalf("expected ErrMaxPurchases, got %v", err)
	}
	st := m.State()
	if st.Money != 99 || st.Upgrades["click_power0"] != 1 {
		t.Errorf("second purchase must not mutate: money %v count %d", st.Money, st.Upgrades["click_power0"])
	}
}

func TestBuyUpgrade_CostCurve(t *testing.T) {
	m, _, _, _ := newTestManager(t)
	m.state.Money = 10000

	for _, want := range []float64{200, 400, 800} {
		before := m.State().Money
		if err := m.BuyUpgrade("hash_efficiency"); err != nil {
			t.Fatal(err)
		}
		if paid := before - m.State().Money; paid != want {
			t.Errorf("expected to pay %v, paid %v", want, paid)
		}
	}
}

func TestBuyHardware(t *testing.T) {
	m, _, _, n := newTestManager(t)
	m.state.Money = 22

	if err := m.BuyHardware("cpu"); err != nil {
		t.Fatal(err)
	}
	if err := m.BuyHardware("cpu"); err != nil {
		t.Fatal(err)
	}
	st := m.State()
	if st.Hardware["cpu"] != 2 {
		t.Errorf("expected 2 cpus, got %d", st.Hardware["cpu"])
	}
	if !approx(st.Money, 0.8) {
		t.Errorf("expected 10 + 11.2 spent, money left %v", st.Money)
	}
	if len(n.got) != 2 || n.got[0].Title != "Purchased" {
		t.Errorf("expected two purchase notifications, got %v", n.titles())
	}
}

func TestBuy_RejectionsLeaveStateUntouched(t *testing.T) {
	m, _, _, _ := newTestManager(t)
	m.state.Money = 5
	before := m.State()

	tests := []struct {
		name string
		buy  func() error
		want error
	}{
		{"unknown hardware", func() error { return m.BuyHardware("quantum_toaster") }, ErrUnknownItem},
		{"locked hardware", func() error { return m.BuyHardware("fpga") }, ErrLocked},
		{"unaffordable hardware", func() error { return m.BuyHardware("gpu") }, ErrInsufficientFunds},
		{"unknown generator", func() error { return m.BuyGenerator("hamster") }, ErrUnknownItem},
		{"locked generator", func() error { return m.BuyGenerator("hydro") }, ErrLocked},
		{"unaffordable generator", func() error { return m.BuyGenerator("city") }, ErrInsufficientFunds},
		{"unknown upgrade", func() error { return m.BuyUpgrade("nope") }, ErrUnknownItem},
		{"locked upgrade", func() error { return m.BuyUpgrade("auto_clicker") }, ErrLocked},
		{"unaffordable upgrade", func() error { return m.BuyUpgrade("click_power1") }, ErrInsufficientFunds},
		{"unknown research", func() error { return m.BuyResearch("time_travel") }, ErrUnknownItem},
	}
	for _, tt := range tests {
		if err := tt.buy(); !errors.Is(err, tt.want) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, err)
		}
	}
	if after := m.State(); !reflect.DeepEqual(before, after) {
		t.Errorf("rejected purchases mutated state")
	}
}

func TestCheckUnlocks_IdempotentAndOrdered(t *testing.T) {
	m, _, _, n := newTestManager(t)
	m.state.TotalBTCAllTime = 5

	if added := m.CheckUnlocks(); added != 3 {
		t.Fatalf("expected gpu_rig, hydro and power_efficiency unlocked, got %d", added)
	}
	st := m.State()
	if st.UnlockedHardware[len(st.UnlockedHardware)-1] != "gpu_rig" {
		t.Errorf("expected gpu_rig appended last, got %v", st.UnlockedHardware)
	}
	if st.UnlockedGenerators[len(st.UnlockedGenerators)-1] != "hydro" {
		t.Errorf("expected hydro appended last, got %v", st.UnlockedGenerators)
	}
	if len(n.got) != 3 {
		t.Errorf("expected one notification per unlock, got %v", n.titles())
	}

	if added := m.CheckUnlocks(); added != 0 {
		t.Errorf("expected second check to add nothing, got %d", added)
	}
	if len(n.got) != 3 {
		t.Errorf("expected no repeat notifications, got %v", n.titles())
	}
}

func TestMeetsRequirement(t *testing.T) {
	m, _, _, _ := newTestManager(t)
	st := m.state
	st.TotalBTCAllTime = 600
	st.HashPoints = 10

	fusion, _ := m.cat.GeneratorByID("fusion")
	if MeetsRequirement(fusion.Requirement, st) {
		t.Error("fusion needs 25 hash points")
	}
	st.HashPoints = 25
	if !MeetsRequirement(fusion.Requirement, st) {
		t.Error("fusion requirement should be met")
	}
	if !MeetsRequirement(nil, st) {
		t.Error("nil requirement is always met")
	}
	fpga, _ := m.cat.HardwareByID("fpga")
	if MeetsRequirement(fpga.Requirement, st) {
		t.Error("fpga needs research")
	}
}

func TestBuyResearch(t *testing.T) {
	m, _, _, _ := newTestManager(t)
	m.state.HashPoints = 20

	if err := m.BuyResearch("advanced_mining"); !errors.Is(err, ErrPrerequisites) {
		t.Fatalf("expected ErrPrerequisites, got %v", err)
	}
	if err := m.BuyResearch("efficient_mining"); err != nil {
		t.Fatal(err)
	}
	if err := m.BuyResearch("efficient_mining"); !errors.Is(err, ErrAlreadyOwned) {
		t.Fatalf("expected ErrAlreadyOwned, got %v", err)
	}
	if err := m.BuyResearch("power_savings"); err != nil {
		t.Fatal(err)
	}
	if err := m.BuyResearch("unlock_fpga"); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds with 10 HP, got %v", err)
	}

	m.state.HashPoints = 12
	if err := m.BuyResearch("unlock_fpga"); err != nil {
		t.Fatal(err)
	}
	st := m.State()
	if st.HashPoints != 0 {
		t.Errorf("expected hash points spent, got %d", st.HashPoints)
	}
	if countOf(st.UnlockedHardware, "fpga") != 1 {
		t.Errorf("expected fpga unlocked exactly once, got %v", st.UnlockedHardware)
	}
	if p := m.Production(); p.HashPointBonus != 1 {
		t.Errorf("expected no hash point bonus at 0 HP, got %v", p.HashPointBonus)
	}
}

func TestOffers(t *testing.T) {
	m, _, _, _ := newTestManager(t)
	m.state.Money = 40
	m.state.Upgrades["click_power0"] = 1

	offers := m.Offers()
	byID := map[string]Offer{}
	for _, o := range offers {
		byID[o.ID] = o
	}
	if _, ok := byID["click_power0"]; ok {
		t.Error("maxed upgrade should not be offered")
	}
	if o := byID["city"]; !o.Affordable || o.Cost != 35 {
		t.Errorf("unexpected city offer: %+v", o)
	}
	if o := byID["solar"]; o.Affordable {
		t.Errorf("solar should not be affordable: %+v", o)
	}
	if o, ok := byID["efficient_mining"]; !ok || o.Currency != "hash_points" {
		t.Errorf("expected tier 1 research offered, got %+v", o)
	}
	if _, ok := byID["advanced_mining"]; ok {
		t.Error("research with unmet prerequisites should not be offered")
	}
}
