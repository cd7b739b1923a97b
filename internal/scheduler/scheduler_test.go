package scheduler

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"BitcoinClicker/internal/catalog"
	"BitcoinClicker/internal/config"
	"BitcoinClicker/internal/economy"
	"BitcoinClicker/internal/model"
	"BitcoinClicker/internal/recorder"
	"BitcoinClicker/internal/store"
	"BitcoinClicker/internal/verify"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

// zeroRand makes every challenge 1 + 1.
type zeroRand struct{}

func (zeroRand) Float64() float64 { return 0.5 }
func (zeroRand) IntN(int) int     { return 0 }

type sampleRecorder struct {
	*recorder.NoopRecorder
	samples []recorder.MarketSample
}

func (r *sampleRecorder) RecordMarketSample(s *recorder.MarketSample) error {
	r.samples = append(r.samples, *s)
	return nil
}

func newTestScheduler(t *testing.T) (*Scheduler, *sampleRecorder) {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatal(err)
	}
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	m := economy.NewManager(config.Default(), cat, nil, clock, zeroRand{}, nil, nil)
	ch := verify.NewChallenger(zeroRand{}, rate.Inf, 1, 0)
	rec := &sampleRecorder{NoopRecorder: recorder.NewNoopRecorder()}
	s := NewScheduler(context.Background(), m, ch, rec, filepath.Join(t.TempDir(), "save.json"))
	return s, rec
}

func TestRegisterAll(t *testing.T) {
	s, _ := newTestScheduler(t)
	if err := s.RegisterAll(config.Default().Schedule); err != nil {
		t.Fatalf("register defaults: %v", err)
	}
	if got := len(s.Cron.Entries()); got != 8 {
		t.Errorf("expected 8 jobs, got %d", got)
	}

	bad := config.Default().Schedule
	bad.EventCron = "every five seconds"
	s2, _ := newTestScheduler(t)
	if err := s2.RegisterAll(bad); err == nil || !strings.Contains(err.Error(), "register event task") {
		t.Errorf("expected event registration error, got %v", err)
	}
}

func TestHandleCommand(t *testing.T) {
	s, _ := newTestScheduler(t)
	tests := []struct {
		cmd  string
		want string
	}{
		{"/help", "Available commands"},
		{"/status@MinerBot", "Money: $0.00"},
		{"/sell", "no bitcoin to sell"},
		{"/answer 2", "no open challenge"},
		{"/mine", "Solve: 1 + 1"},
		{"/answer 3", "wrong answer"},
		{"/mine", "Solve: 1 + 1"},
		{"/answer 2", "Hash solved! +1 hashes"},
		{"/sell", "Sold 0.00000000 BTC for $0.00"},
		{"/buy hw cpu", "insufficient funds"},
		{"/buy hw quantum_toaster", "unknown item"},
		{"/buy rocket cpu", "Usage: /buy"},
		{"/loan 100", "received $100.00, owe $115.00"},
		{"/buy hw cpu", "Purchased cpu"},
		{"/buy up click_power0", "Purchased click_power0"},
		{"/buy up click_power0", "click_power0 is maxed out."},
		{"/research efficient_mining", "insufficient funds"},
		{"/prestige", "Mine at least 1 BTC"},
		{"/prestige confirm", "mine at least 1 BTC"},
		{"/version_prestige", "Version 1.2.0 prestige"},
		{"/version_prestige", "already prestiged"},
		{"/autopay on 5", "Autopay enabled at 10%."},
		{"/autopay off", "Autopay disabled."},
		{"/pay nope 10", "unknown loan"},
		{"/loan abc", "Usage: /loan"},
		{"/loan 1.7976931348623157e308", "loan exceeds the maximum amount"},
		{"/loan +Inf", "amount must be positive"},
		{"/save", "Saved."},
		{"/market", "Black Market"},
		{"/market not_an_item", "unknown item"},
		{"/stats", "Purchases: 0"},
	}
	for _, tt := range tests {
		got := s.HandleCommand("42", tt.cmd)
		if !strings.Contains(got, tt.want) {
			t.Errorf("%s: expected reply containing %q, got %q", tt.cmd, tt.want, got)
		}
	}
}

func TestHandleCommand_Loans(t *testing.T) {
	s, _ := newTestScheduler(t)
	s.HandleCommand("42", "/loan 100")
	st := s.Economy.State()
	if len(st.Loans) != 1 {
		t.Fatalf("expected one loan, got %d", len(st.Loans))
	}
	id := st.Loans[0].ID[:8]

	if got := s.HandleCommand("42", "/loans"); !strings.Contains(got, id) {
		t.Errorf("expected loan %s listed, got %q", id, got)
	}
	if got := s.HandleCommand("42", "/pay "+id+" 15"); !strings.Contains(got, "Paid $15.00. Remaining debt $100.00") {
		t.Errorf("unexpected pay reply %q", got)
	}
}

func TestSaveAndSample(t *testing.T) {
	s, rec := newTestScheduler(t)
	if got := s.HandleCommand("42", "/save"); got != "💾 Saved." {
		t.Fatalf("unexpected save reply %q", got)
	}
	st, found, err := store.Load(s.StatePath, &model.EconomyState{})
	if err != nil || !found {
		t.Fatalf("expected saved snapshot: found=%v err=%v", found, err)
	}
	if st.Version != "1.2.0" || len(st.UnlockedHardware) == 0 {
		t.Errorf("unexpected snapshot %+v", st)
	}

	s.marketSample()
	if len(rec.samples) != 1 {
		t.Fatalf("expected one sample, got %d", len(rec.samples))
	}
	if rec.samples[0].Price != s.Economy.State().MarketPrice || rec.samples[0].Trend == "" {
		t.Errorf("unexpected sample %+v", rec.samples[0])
	}
}
