package economy

import (
	"errors"
	"reflect"
	"testing"
)

func TestPrestige_Gain(t *testing.T) {
	m, _, _, _ := newTestManager(t)
	st := m.state
	st.TotalBTCThisRun = 999
	st.TotalBTCAllTime = 1500
	st.Bitcoin = 12
	st.Money = 5000
	st.PendingHashes = 42
	st.Hardware["cpu"] = 7
	st.Generators["city"] = 2
	st.Upgrades["click_power0"] = 1
	st.ResearchPurchased = []string{"efficient_mining", "power_savings", "unlock_fpga"}
	st.UnlockedHardware = append(st.UnlockedHardware, "fpga", "gpu_rig")

	gain, err := m.Prestige()
	if err != nil {
		t.Fatalf("prestige: %v", err)
	}
	if gain != 9 {
		t.Fatalf("expected gain 9, got %d", gain)
	}

	got := m.State()
	if got.HashPoints != 9 || got.TotalPrestiges != 1 {
		t.Errorf("expected 9 HP and 1 prestige, got %d HP %d prestiges", got.HashPoints, got.TotalPrestiges)
	}
	if got.Bitcoin != 0 || got.Money != 0 || got.PendingHashes != 0 || got.TotalBTCThisRun != 0 {
		t.Errorf("expected run currencies reset, got %+v", got)
	}
	if len(got.Hardware) != 0 || len(got.Generators) != 0 || len(got.Upgrades) != 0 {
		t.Errorf("expected owned items cleared")
	}
	if got.TotalBTCAllTime != 1500 {
		t.Errorf("expected all-time BTC preserved, got %v", got.TotalBTCAllTime)
	}
	if len(got.ResearchPurchased) != 3 {
		t.Errorf("expected research preserved, got %v", got.ResearchPurchased)
	}
	if countOf(got.UnlockedHardware, "fpga") != 1 {
		t.Errorf("expected research-granted hardware kept in base unlocks, got %v", got.UnlockedHardware)
	}
	if countOf(got.UnlockedHardware, "gpu_rig") != 1 {
		t.Errorf("expected gpu_rig re-unlocked from all-time BTC, got %v", got.UnlockedHardware)
	}
}

func TestPrestige_RejectedWithoutGain(t *testing.T) {
	m, _, _, _ := newTestManager(t)
	m.state.TotalBTCThisRun = 0.5
	m.state.Bitcoin = 0.5
	before := m.State()

	if _, err := m.Prestige(); !errors.Is(err, ErrNoPrestigeGain) {
		t.Fatalf("expected ErrNoPrestigeGain, got %v", err)
	}
	if after := m.State(); !reflect.DeepEqual(before, after) {
		t.Error("rejected prestige mutated state")
	}

	m.state.TotalBTCThisRun = 5
	if gain, ok := m.PrestigePreview(); ok || gain != 0 {
		t.Errorf("expected no prestige at 5 BTC, got %d %v", gain, ok)
	}
	m.state.TotalBTCThisRun = 40
	if gain, ok := m.PrestigePreview(); !ok || gain != 2 {
		t.Errorf("expected preview of 2, got %d %v", gain, ok)
	}
}

func TestVersionPrestige(t *testing.T) {
	m, _, _, _ := newTestManager(t)
	m.state.HashPoints = 4
	m.state.Bitcoin = 2.57
	m.state.Money = 1e6
	m.state.ResearchPurchased = []string{"efficient_mining"}
	m.state.Hardware["gpu"] = 3

	if !m.VersionPrestigeAvailable() {
		t.Fatal("expected version prestige to be available")
	}
	reward, err := m.VersionPrestige()
	if err != nil {
		t.Fatal(err)
	}
	if reward != 25 {
		t.Errorf("expected reward 25, got %d", reward)
	}
	st := m.State()
	if st.HashPoints != 29 {
		t.Errorf("expected 29 HP, got %d", st.HashPoints)
	}
	if st.LastPrestigedVersion != "1.2.0" {
		t.Errorf("expected marker 1.2.0, got %q", st.LastPrestigedVersion)
	}
	if st.Money != 0 || st.Bitcoin != 0 || len(st.Hardware) != 0 || len(st.ResearchPurchased) != 0 {
		t.Errorf("expected everything else reset, got %+v", st)
	}

	if m.VersionPrestigeAvailable() {
		t.Error("expected version prestige to be consumed")
	}
	if _, err := m.VersionPrestige(); !errors.Is(err, ErrAlreadyPrestiged) {
		t.Errorf("expected ErrAlreadyPrestiged, got %v", err)
	}
}

func TestVersionPrestige_MinimumReward(t *testing.T) {
	m, _, _, _ := newTestManager(t)
	reward, err := m.VersionPrestige()
	if err != nil {
		t.Fatal(err)
	}
	if reward != 1 {
		t.Errorf("expected minimum reward 1, got %d", reward)
	}
}

func TestHardReset(t *testing.T) {
	m, _, _, n := newTestManager(t)
	m.state.HashPoints = 100
	m.state.Money = 50
	m.state.LastPrestigedVersion = "1.2.0"

	m.HardReset()
	st := m.State()
	if st.HashPoints != 0 || st.Money != 0 || st.LastPrestigedVersion != "" {
		t.Errorf("expected a brand new game, got %+v", st)
	}
	found := false
	for _, title := range n.titles() {
		if title == "Progress Reset" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected reset notification, got %v", n.titles())
	}
}
