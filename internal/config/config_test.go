package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Game.HashesPerBTC != 1e11 {
		t.Errorf("expected default hashes per BTC 1e11, got %v", cfg.Game.HashesPerBTC)
	}
	if cfg.Market.TrendDuration != 30*time.Second {
		t.Errorf("expected 30s trend duration, got %v", cfg.Market.TrendDuration)
	}
	if cfg.Events.Chances["lucky_find"] != 1.5 {
		t.Errorf("expected lucky_find chance 1.5, got %v", cfg.Events.Chances["lucky_find"])
	}
	if cfg.API.Addr != "127.0.0.1:8080" {
		t.Errorf("expected loopback api addr, got %q", cfg.API.Addr)
	}
	if cfg.Loans.MaxLoan != 1e9 {
		t.Errorf("expected default max loan 1e9, got %v", cfg.Loans.MaxLoan)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
game:
  version: "2.0.0"
market:
  volatility: 0.01
  trend_duration: 45s
events:
  chances:
    market_crash: 0.1
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SQLITE_PATH", "/tmp/override.db")
	t.Setenv("API_ADDR", ":9999")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Game.Version != "2.0.0" {
		t.Errorf("expected version 2.0.0, got %q", cfg.Game.Version)
	}
	if cfg.Market.Volatility != 0.01 {
		t.Errorf("expected volatility 0.01, got %v", cfg.Market.Volatility)
	}
	if cfg.Market.TrendDuration != 45*time.Second {
		t.Errorf("expected 45s, got %v", cfg.Market.TrendDuration)
	}
	if len(cfg.Events.Chances) != 1 {
		t.Errorf("expected configured chances to replace defaults, got %v", cfg.Events.Chances)
	}
	if cfg.Database.SQLitePath != "/tmp/override.db" {
		t.Errorf("expected env sqlite path, got %q", cfg.Database.SQLitePath)
	}
	if cfg.API.Addr != ":9999" {
		t.Errorf("expected env api addr, got %q", cfg.API.Addr)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero hashes per btc", func(c *Config) { c.Game.HashesPerBTC = -1 }},
		{"inverted price bounds", func(c *Config) { c.Market.MaxPrice = 10 }},
		{"volatility too high", func(c *Config) { c.Market.Volatility = 1.5 }},
		{"negative chance", func(c *Config) { c.Events.Chances["halvening"] = -0.1 }},
		{"token without chat", func(c *Config) { c.Telegram.BotToken = "x" }},
		{"negative max loan", func(c *Config) { c.Loans.MaxLoan = -1 }},
		{"unbounded max loan", func(c *Config) { c.Loans.MaxLoan = 1e300 }},
		{"negative interest rate", func(c *Config) { c.Loans.InterestRate = -0.2 }},
	}
	for _, tt := range tests {
		cfg := Default()
		tt.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}
