package recorder

import "time"

// PurchaseEvent records a shop, research or black market purchase.
type PurchaseEvent struct {
	At         time.Time
	Category   string // "hardware", "generator", "upgrade", "research", "black_market"
	ItemID     string
	Cost       float64
	Currency   string // "money" or "hash_points"
	CountAfter int
}

// PrestigeEvent records a standard or version prestige.
type PrestigeEvent struct {
	At              time.Time
	Kind            string // "standard" or "version"
	Gain            int64
	TotalBTCThisRun float64
	BitcoinBefore   float64
	HashPointsAfter int64
	Version         string
}

// RandomEvent records a fired random event.
type RandomEvent struct {
	At            time.Time
	Name          string
	MarketPrice   float64
	Bitcoin       float64
	PendingHashes float64
}

// LoanEvent records a loan balance change.
type LoanEvent struct {
	At             time.Time
	LoanID         string
	Action         string // "TAKE", "PAY", "AUTOPAY", "INTEREST", "OFFLINE_INTEREST"
	Amount         float64
	RemainingAfter float64
	MoneyAfter     float64
}

// MarketSample is a periodic snapshot of price and balances.
type MarketSample struct {
	At         time.Time
	Price      float64
	Trend      string
	Bitcoin    float64
	Money      float64
	Hashrate   float64
	HashPoints int64
}

// Summary aggregates the recorded history of the current database.
type Summary struct {
	Purchases     int
	Prestiges     int
	Events        int
	LoanEvents    int
	Samples       int
	TotalHPEarned int64
	PeakPrice     float64
}

// Recorder persists historical data for analysis.
type Recorder interface {
	RecordPurchase(evt *PurchaseEvent) error
	RecordPrestige(evt *PrestigeEvent) error
	RecordEvent(evt *RandomEvent) error
	RecordLoan(evt *LoanEvent) error
	RecordMarketSample(s *MarketSample) error
	Summary() (*Summary, error)
	Close() error
}

func stamp(t time.Time) int64 {
	if t.IsZero() {
		t = time.Now()
	}
	return t.Unix()
}
