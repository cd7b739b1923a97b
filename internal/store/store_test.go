package store

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"BitcoinClicker/internal/model"
)

func sampleState() *model.EconomyState {
	at := time.Date(2026, 5, 4, 3, 2, 1, 0, time.UTC)
	return &model.EconomyState{
		Bitcoin:            1.25,
		Money:              4321.5,
		PendingHashes:      12345,
		HashPoints:         9,
		TotalBTCThisRun:    3.5,
		TotalBTCAllTime:    1000.75,
		TotalPrestiges:     2,
		Hardware:           map[string]int{"cpu": 4, "gpu": 1},
		Generators:         map[string]int{"city": 2},
		Upgrades:           map[string]int{"click_power0": 1},
		UnlockedHardware:   []string{"cpu", "gpu", "asic_early", "fpga"},
		UnlockedGenerators: []string{"city", "solar", "diesel"},
		UnlockedUpgrades:   []string{"click_power0", "click_power1", "hash_efficiency"},
		ResearchPurchased:  []string{"efficient_mining"},
		MarketPrice:        123456.78,
		MarketTrend:        model.TrendUp,
		MarketTrendElapsed: 12.5,
		ActiveBuffs: []model.Buff{
			{ID: "overclock", Name: "Overclocked", Target: model.BuffHashrate, Factor: 2, StartTime: at, Duration: 5 * time.Minute},
		},
		Loans: []model.Loan{
			{ID: "8f14e45f-ceea-467f-a0e6-7a4a9c0f1e2b", Principal: 1000, Remaining: 1150, Rate: 0.2, TakenAt: at, LastInterestApplied: at},
		},
		AutopayEnabled:       true,
		AutopayPercentage:    50,
		BlackMarketShop:      []string{"mystery_box", "time_warp"},
		ShopRotatedAt:        at,
		Stats:                model.Stats{TotalClicks: 17, TotalHashesSolved: 9e9, TotalBTCEarned: 1000.75, Playtime: 3600, EventsTriggered: 4},
		LastUpdate:           at,
		Version:              "1.2.0",
		LastPrestigedVersion: "1.1.0",
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	for _, name := range []string{"save.json", "save.json.zst"} {
		path := filepath.Join(t.TempDir(), "nested", name)
		want := sampleState()
		if err := Save(path, want); err != nil {
			t.Fatalf("%s: save: %v", name, err)
		}
		got, found, err := Load(path, &model.EconomyState{})
		if err != nil {
			t.Fatalf("%s: load: %v", name, err)
		}
		if !found {
			t.Fatalf("%s: expected snapshot found", name)
		}
		if !reflect.DeepEqual(want, got) {
			t.Errorf("%s: round trip mismatch\nwant %+v\ngot  %+v", name, want, got)
		}
	}
}

func TestSave_CompressedIsZstd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.json.zst")
	if err := Save(path, sampleState()); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	magic := []byte{0x28, 0xb5, 0x2f, 0xfd}
	if len(data) < 4 || !reflect.DeepEqual(data[:4], magic) {
		t.Errorf("expected zstd magic, got % x", data[:4])
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	defaults := &model.EconomyState{Version: "1.2.0"}
	got, found, err := Load(filepath.Join(t.TempDir(), "absent.json"), defaults)
	if err != nil {
		t.Fatal(err)
	}
	if found || got != defaults {
		t.Errorf("expected defaults returned untouched, found=%v", found)
	}
}

func TestLoad_MergesOntoDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.json")
	old := []byte(`{"bitcoin": 2, "money": 10, "hardware": {"cpu": 3}}`)
	if err := os.WriteFile(path, old, 0644); err != nil {
		t.Fatal(err)
	}
	defaults := &model.EconomyState{
		MarketPrice:       90000,
		MarketTrend:       model.TrendNeutral,
		AutopayPercentage: 50,
		UnlockedHardware:  []string{"cpu", "gpu"},
		Version:           "1.2.0",
	}
	got, _, err := Load(path, defaults)
	if err != nil {
		t.Fatal(err)
	}
	if got.Bitcoin != 2 || got.Money != 10 || got.Hardware["cpu"] != 3 {
		t.Errorf("expected saved fields applied, got %+v", got)
	}
	if got.MarketPrice != 90000 || got.AutopayPercentage != 50 || got.Version != "1.2.0" || len(got.UnlockedHardware) != 2 {
		t.Errorf("expected missing fields to keep defaults, got %+v", got)
	}
}

func TestLoad_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json.zst")
	if err := os.WriteFile(path, []byte("not zstd"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := Load(path, &model.EconomyState{}); err == nil {
		t.Error("expected error for corrupt snapshot")
	}
}
