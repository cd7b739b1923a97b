package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"BitcoinClicker/internal/config"
	"BitcoinClicker/internal/economy"
	"BitcoinClicker/internal/recorder"
	"BitcoinClicker/internal/store"
	"BitcoinClicker/internal/verify"
)

// Scheduler drives the economy's timers and serves chat commands.
type Scheduler struct {
	Cron       *cron.Cron
	Economy    *economy.Manager
	Challenger *verify.Challenger
	Recorder   recorder.Recorder
	StatePath  string
	Ctx        context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, m *economy.Manager, ch *verify.Challenger, rec recorder.Recorder, statePath string) *Scheduler {
	logger := cron.VerbosePrintfLogger(log.Default())
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger)),
		),
		Economy:    m,
		Challenger: ch,
		Recorder:   rec,
		StatePath:  statePath,
		Ctx:        ctx,
	}
}

// RegisterAll registers the tick, unlock, event, buff, loan, shop, autosave and
// market sample jobs.
func (s *Scheduler) RegisterAll(sc config.Schedule) error {
	skip := cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger))
	jobs := []struct {
		name string
		spec string
		job  cron.Job
	}{
		{"tick", sc.TickCron, skip.Then(cron.FuncJob(s.Economy.Tick))},
		{"unlock", sc.UnlockCron, cron.FuncJob(s.unlockCheck)},
		{"event", sc.EventCron, cron.FuncJob(s.eventCheck)},
		{"buff", sc.BuffCron, cron.FuncJob(s.buffSweep)},
		{"loan", sc.LoanCron, cron.FuncJob(s.Economy.ProcessLoanInterest)},
		{"shop", sc.ShopCron, cron.FuncJob(s.rotateShop)},
		{"autosave", sc.AutosaveCron, skip.Then(cron.FuncJob(s.autosave))},
		{"sample", sc.SampleCron, cron.FuncJob(s.marketSample)},
	}
	for _, j := range jobs {
		if _, err := s.Cron.AddJob(j.spec, j.job); err != nil {
			return fmt.Errorf("register %s task: %w", j.name, err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

func (s *Scheduler) unlockCheck() {
	if n := s.Economy.CheckUnlocks(); n > 0 {
		log.Printf("[INFO] %d item(s) unlocked", n)
	}
}

func (s *Scheduler) eventCheck() {
	for _, name := range s.Economy.CheckEvents() {
		log.Printf("[INFO] random event: %s", name)
	}
}

func (s *Scheduler) buffSweep() {
	if n := s.Economy.SweepBuffs(); n > 0 {
		log.Printf("[INFO] %d buff(s) expired", n)
	}
}

func (s *Scheduler) rotateShop() {
	offer := s.Economy.RotateShop()
	log.Printf("[INFO] black market restocked with %d item(s)", len(offer))
}

// Save writes the current snapshot to StatePath.
func (s *Scheduler) Save() error {
	st := s.Economy.State()
	if err := store.Save(s.StatePath, &st); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

func (s *Scheduler) autosave() {
	if err := s.Save(); err != nil {
		log.Printf("[ERROR] autosave: %v", err)
	}
}

func (s *Scheduler) marketSample() {
	st := s.Economy.State()
	p := s.Economy.Production()
	if err := s.Recorder.RecordMarketSample(&recorder.MarketSample{
		At:         s.Economy.Now(),
		Price:      st.MarketPrice,
		Trend:      string(st.MarketTrend),
		Bitcoin:    st.Bitcoin,
		Money:      st.Money,
		Hashrate:   p.Hashrate,
		HashPoints: st.HashPoints,
	}); err != nil {
		log.Printf("[ERROR] record market sample: %v", err)
	}
}
