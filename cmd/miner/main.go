package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"BitcoinClicker/internal/api"
	"BitcoinClicker/internal/catalog"
	"BitcoinClicker/internal/config"
	"BitcoinClicker/internal/economy"
	"BitcoinClicker/internal/notifier"
	"BitcoinClicker/internal/recorder"
	"BitcoinClicker/internal/scheduler"
	"BitcoinClicker/internal/store"
	"BitcoinClicker/internal/verify"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] BitcoinClicker starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	cat, err := catalog.Load(cfg.Game.CatalogPath)
	if err != nil {
		log.Fatalf("[FATAL] load catalog: %v", err)
	}

	// Restore the saved game, if any
	defaults := economy.NewState(cfg, cat, time.Now())
	state, found, err := store.Load(cfg.Storage.StateFile, defaults)
	if err != nil {
		log.Fatalf("[FATAL] load state: %v", err)
	}
	if found {
		log.Printf("[INFO] loaded save from %s", cfg.Storage.StateFile)
	} else {
		log.Println("[INFO] no save found, starting a new game")
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			log.Printf("[INFO] recording history as session %s", sr.Session())
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init notifications
	var tg *notifier.TelegramSender
	var sender notifier.Sender = notifier.LogSender{}
	if cfg.Telegram.BotToken != "" {
		tg = notifier.NewTelegramSender(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		sender = tg
	}
	dispatcher := notifier.NewDispatcher(sender, cfg.Notify.QueueSize, cfg.Notify.Retries)
	go dispatcher.Run(ctx)

	m := economy.NewManager(cfg, cat, state, economy.RealClock{}, nil, dispatcher, rec)
	if found {
		if rep, ok := m.ResumeOffline(); ok {
			log.Printf("[INFO] offline catch-up: %s", notifier.FormatOffline(rep))
		}
	}

	challenger := verify.NewChallenger(nil, rate.Limit(cfg.Verify.AttemptsPerSecond), cfg.Verify.AttemptBurst, cfg.Verify.ChallengeTTL)

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, m, challenger, rec, cfg.Storage.StateFile)
	if err := sched.RegisterAll(cfg.Schedule); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()

	// Start Telegram polling
	if tg != nil {
		go tg.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	// Start HTTP API
	var srv *http.Server
	if cfg.API.Addr != "" {
		srv = &http.Server{
			Addr:              cfg.API.Addr,
			Handler:           api.NewServer(m, challenger, rec).Routes(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("[ERROR] http server: %v", err)
			}
		}()
		log.Printf("[INFO] HTTP API listening on %s", cfg.API.Addr)
		if !api.Loopback(cfg.API.Addr) {
			log.Printf("[WARN] HTTP API on %s has no authentication; keep it on 127.0.0.1", cfg.API.Addr)
		}
	}

	log.Println("[INFO] BitcoinClicker is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	sched.Stop()
	if srv != nil {
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] http shutdown: %v", err)
		}
		done()
	}
	if err := sched.Save(); err != nil {
		log.Printf("[ERROR] final save: %v", err)
	}
	cancel()
	log.Println("[INFO] BitcoinClicker stopped")
}
