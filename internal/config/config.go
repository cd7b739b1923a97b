package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Game struct {
		Version      string  `yaml:"version"`
		CatalogPath  string  `yaml:"catalog_path"` // empty uses the embedded catalog
		HashesPerBTC float64 `yaml:"hashes_per_btc"`
	} `yaml:"game"`
	Market struct {
		BasePrice     float64       `yaml:"base_price"`
		LowPrice      float64       `yaml:"low_price"`
		MaxPrice      float64       `yaml:"max_price"`
		Volatility    float64       `yaml:"volatility"`
		TrendDuration time.Duration `yaml:"trend_duration"`
	} `yaml:"market"`
	Events struct {
		Chances map[string]float64 `yaml:"chances"`
	} `yaml:"events"`
	Loans struct {
		MaxLoan          float64       `yaml:"max_loan"`
		UpfrontFee       float64       `yaml:"upfront_fee"`
		InterestRate     float64       `yaml:"interest_rate"`
		InterestInterval time.Duration `yaml:"interest_interval"`
		OfflineRate      float64       `yaml:"offline_rate"`
		OfflineInterval  time.Duration `yaml:"offline_interval"`
	} `yaml:"loans"`
	Offline struct {
		Threshold     time.Duration `yaml:"threshold"`
		Multiplier    float64       `yaml:"multiplier"`
		MaxIterations int           `yaml:"max_iterations"`
	} `yaml:"offline"`
	Schedule Schedule `yaml:"schedule"`
	Verify   struct {
		AttemptsPerSecond float64       `yaml:"attempts_per_second"`
		AttemptBurst      int           `yaml:"attempt_burst"`
		ChallengeTTL      time.Duration `yaml:"challenge_ttl"`
	} `yaml:"verify"`
	Notify struct {
		QueueSize int `yaml:"queue_size"`
		Retries   int `yaml:"retries"`
	} `yaml:"notify"`
	Storage struct {
		StateFile string `yaml:"state_file"`
	} `yaml:"storage"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	API struct {
		Addr string `yaml:"addr"`
	} `yaml:"api"`
	Proxy string `yaml:"proxy"`
}

// Schedule holds the cron specs of the periodic economy jobs.
type Schedule struct {
	TickCron     string `yaml:"tick_cron"`
	UnlockCron   string `yaml:"unlock_cron"`
	EventCron    string `yaml:"event_cron"`
	BuffCron     string `yaml:"buff_cron"`
	LoanCron     string `yaml:"loan_cron"`
	ShopCron     string `yaml:"shop_cron"`
	AutosaveCron string `yaml:"autosave_cron"`
	SampleCron   string `yaml:"sample_cron"`
}

// DefaultEventChances are the expected occurrences per event check.
func DefaultEventChances() map[string]float64 {
	return map[string]float64{
		"market_crash":         0.5,
		"market_boom":          0.5,
		"halvening":            0.2,
		"power_surge":          1.0,
		"hardware_malfunction": 0.8,
		"lucky_find":           1.5,
	}
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("GAME_VERSION"); v != "" {
		cfg.Game.Version = v
	}
	if v := os.Getenv("CATALOG_PATH"); v != "" {
		cfg.Game.CatalogPath = v
	}
	if v := os.Getenv("STATE_FILE"); v != "" {
		cfg.Storage.StateFile = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("API_ADDR"); v != "" {
		cfg.API.Addr = v
	}

	cfg.applyDefaults()
	return cfg, nil
}

// Default returns a config with every default applied and no file or env input.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Game.Version == "" {
		c.Game.Version = "1.2.0"
	}
	if c.Game.HashesPerBTC == 0 {
		c.Game.HashesPerBTC = 1e11
	}
	if c.Market.BasePrice == 0 {
		c.Market.BasePrice = 50000
	}
	if c.Market.LowPrice == 0 {
		c.Market.LowPrice = 90000
	}
	if c.Market.MaxPrice == 0 {
		c.Market.MaxPrice = 10000000
	}
	if c.Market.Volatility == 0 {
		c.Market.Volatility = 0.005
	}
	if c.Market.TrendDuration == 0 {
		c.Market.TrendDuration = 30 * time.Second
	}
	if c.Events.Chances == nil {
		c.Events.Chances = DefaultEventChances()
	}
	if c.Loans.MaxLoan == 0 {
		c.Loans.MaxLoan = 1e9
	}
	if c.Loans.UpfrontFee == 0 {
		c.Loans.UpfrontFee = 0.15
	}
	if c.Loans.InterestRate == 0 {
		c.Loans.InterestRate = 0.20
	}
	if c.Loans.InterestInterval == 0 {
		c.Loans.InterestInterval = time.Hour
	}
	if c.Loans.OfflineRate == 0 {
		c.Loans.OfflineRate = 0.10
	}
	if c.Loans.OfflineInterval == 0 {
		c.Loans.OfflineInterval = 12 * time.Hour
	}
	if c.Offline.Threshold == 0 {
		c.Offline.Threshold = time.Minute
	}
	if c.Offline.Multiplier == 0 {
		c.Offline.Multiplier = 0.5
	}
	if c.Offline.MaxIterations == 0 {
		c.Offline.MaxIterations = 3600
	}
	if c.Schedule.TickCron == "" {
		c.Schedule.TickCron = "@every 1s"
	}
	if c.Schedule.UnlockCron == "" {
		c.Schedule.UnlockCron = "@every 1s"
	}
	if c.Schedule.EventCron == "" {
		c.Schedule.EventCron = "@every 5s"
	}
	if c.Schedule.BuffCron == "" {
		c.Schedule.BuffCron = "@every 1s"
	}
	if c.Schedule.LoanCron == "" {
		c.Schedule.LoanCron = "@every 1m"
	}
	if c.Schedule.ShopCron == "" {
		c.Schedule.ShopCron = "@every 10m"
	}
	if c.Schedule.AutosaveCron == "" {
		c.Schedule.AutosaveCron = "@every 30s"
	}
	if c.Schedule.SampleCron == "" {
		c.Schedule.SampleCron = "@every 1m"
	}
	if c.Verify.AttemptsPerSecond == 0 {
		c.Verify.AttemptsPerSecond = 1
	}
	if c.Verify.AttemptBurst == 0 {
		c.Verify.AttemptBurst = 3
	}
	if c.Verify.ChallengeTTL == 0 {
		c.Verify.ChallengeTTL = 2 * time.Minute
	}
	if c.Notify.QueueSize == 0 {
		c.Notify.QueueSize = 64
	}
	if c.Storage.StateFile == "" {
		c.Storage.StateFile = "data/save.json"
	}
	if c.API.Addr == "" {
		c.API.Addr = "127.0.0.1:8080"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/bitcoin_clicker.db"
	}
}

// Validate checks that all tuning values are usable.
func (c *Config) Validate() error {
	if c.Game.HashesPerBTC <= 0 {
		return fmt.Errorf("game.hashes_per_btc must be positive")
	}
	if c.Market.LowPrice <= 0 || c.Market.MaxPrice < c.Market.LowPrice {
		return fmt.Errorf("market price bounds must satisfy 0 < low_price <= max_price")
	}
	if c.Market.Volatility < 0 || c.Market.Volatility >= 1 {
		return fmt.Errorf("market.volatility must be in [0, 1)")
	}
	if c.Market.TrendDuration <= 0 {
		return fmt.Errorf("market.trend_duration must be positive")
	}
	for name, p := range c.Events.Chances {
		if p < 0 {
			return fmt.Errorf("events.chances.%s must not be negative", name)
		}
	}
	if c.Loans.MaxLoan <= 0 || c.Loans.MaxLoan > 1e15 {
		return fmt.Errorf("loans.max_loan must be in (0, 1e15]")
	}
	if c.Loans.InterestRate <= 0 {
		return fmt.Errorf("loans.interest_rate must be positive")
	}
	if c.Loans.InterestInterval <= 0 || c.Loans.OfflineInterval <= 0 {
		return fmt.Errorf("loan interest intervals must be positive")
	}
	if c.Offline.MaxIterations <= 0 {
		return fmt.Errorf("offline.max_iterations must be positive")
	}
	if c.Verify.AttemptsPerSecond <= 0 || c.Verify.AttemptBurst <= 0 {
		return fmt.Errorf("verify attempt rate and burst must be positive")
	}
	if c.Telegram.BotToken != "" && c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required when telegram.bot_token is set")
	}
	return nil
}
