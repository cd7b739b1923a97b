package economy

import (
	"fmt"
	"math"
	"strings"
	"time"

	"BitcoinClicker/internal/calculator"
	"BitcoinClicker/internal/model"
)

// OfflineReport summarizes a catch-up simulation.
type OfflineReport struct {
	Elapsed       time.Duration `json:"elapsed"`
	Iterations    int           `json:"iterations"`
	BTCEarned     float64       `json:"btc_earned"`
	MoneyBonus    float64       `json:"money_bonus"`
	LoanIntervals int           `json:"loan_intervals"`
}

// ResumeOffline simulates the time since the snapshot's last update when it
// exceeds the offline threshold. The last update moves to now either way, and
// the report is only meaningful when ok is true.
func (m *Manager) ResumeOffline() (rep OfflineReport, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	st := m.state
	elapsed := now.Sub(st.LastUpdate)
	st.LastUpdate = now
	if elapsed <= m.cfg.Offline.Threshold {
		return OfflineReport{}, false
	}

	rep = m.catchUp(elapsed, now)
	var msg []string
	if rep.BTCEarned > 0 {
		msg = append(msg, fmt.Sprintf("You earned %.8f BTC while offline (%s).", rep.BTCEarned, elapsed.Round(time.Second)))
	}
	if rep.MoneyBonus > 0 {
		msg = append(msg, fmt.Sprintf("Offline bonus: $%.0f.", rep.MoneyBonus))
	}
	if len(msg) > 0 {
		m.notify("Welcome Back!", strings.Join(msg, "\n"), model.SeveritySuccess)
	}
	return rep, true
}

// catchUp runs at most Offline.MaxIterations generate+convert steps at the
// offline rate, compounds offline loan interest and grants the idle money bonus.
func (m *Manager) catchUp(elapsed time.Duration, now time.Time) OfflineReport {
	st := m.state
	rep := OfflineReport{Elapsed: elapsed}
	secs := elapsed.Seconds()

	iterations := int(math.Min(math.Floor(secs), float64(m.cfg.Offline.MaxIterations)))
	if iterations > 0 {
		step := secs / float64(iterations) * m.cfg.Offline.Multiplier
		p := m.production(st, now)
		before := st.TotalBTCThisRun
		for i := 0; i < iterations; i++ {
			generate(st, p, step)
			convert(st, p)
		}
		rep.Iterations = iterations
		rep.BTCEarned = st.TotalBTCThisRun - before
	}

	if interval := m.cfg.Loans.OfflineInterval; interval > 0 && len(st.Loans) > 0 {
		n := int(elapsed / interval)
		if n > 0 {
			growth := math.Pow(1+m.cfg.Loans.OfflineRate, float64(n))
			for i := range st.Loans {
				st.Loans[i].Remaining = calculator.Bounded(st.Loans[i].Remaining * growth)
				st.Loans[i].LastInterestApplied = now
				m.recordLoan(now, st.Loans[i].ID, "OFFLINE_INTEREST", 0, st.Loans[i].Remaining)
			}
			rep.LoanIntervals = n
			m.notify("Offline Loan Interest", fmt.Sprintf("Your loans accrued %.0f%% interest every %s offline.",
				m.cfg.Loans.OfflineRate*100, interval), model.SeverityDanger)
		}
	}

	rep.MoneyBonus = calculator.OfflineMoney(int64(secs/60), st.Money)
	st.Money += rep.MoneyBonus
	clampState(st)
	m.checkUnlocks()
	return rep
}
