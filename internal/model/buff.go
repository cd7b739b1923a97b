package model

import "time"

// BuffTarget names the quantity a buff multiplies.
type BuffTarget string

const (
	BuffHashrate   BuffTarget = "hashrate"
	BuffClick      BuffTarget = "click"
	BuffBTC        BuffTarget = "btc"
	BuffPowerSurge BuffTarget = "power_surge" // forces power efficiency to 1
	BuffVolatility BuffTarget = "volatility"
)

// Buff is a time-bounded multiplicative effect.
type Buff struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Target    BuffTarget    `json:"target"`
	Factor    float64       `json:"factor"`
	StartTime time.Time     `json:"start_time"`
	Duration  time.Duration `json:"duration"`
}

// ActiveAt reports whether the buff applies at t: start <= t < start+duration.
func (b Buff) ActiveAt(t time.Time) bool {
	if t.Before(b.StartTime) {
		return false
	}
	return t.Sub(b.StartTime) < b.Duration
}

// Remaining returns how long the buff still lasts at t.
func (b Buff) Remaining(t time.Time) time.Duration {
	left := b.Duration - t.Sub(b.StartTime)
	if left < 0 {
		return 0
	}
	return left
}

// Loan is an outstanding black-market debt.
type Loan struct {
	ID                  string    `json:"id"`
	Principal           float64   `json:"principal"`
	Remaining           float64   `json:"remaining"`
	Rate                float64   `json:"rate"` // configured compounding rate per interest interval
	TakenAt             time.Time `json:"taken_at"`
	LastInterestApplied time.Time `json:"last_interest_applied"`
}
