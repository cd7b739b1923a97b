package economy

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"BitcoinClicker/internal/calculator"
	"BitcoinClicker/internal/model"
	"BitcoinClicker/internal/recorder"
)

// paidOffThreshold is the balance below which a loan counts as repaid.
const paidOffThreshold = 0.01

// TakeLoan credits amount and records a debt of amount plus the upfront fee.
// Loans always compound at the configured interest rate.
func (m *Manager) TakeLoan(amount float64) (model.Loan, error) {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return model.Loan{}, ErrInvalidAmount
	}
	if amount > m.cfg.Loans.MaxLoan {
		return model.Loan{}, fmt.Errorf("%w: limit is $%.0f", ErrLoanTooLarge, m.cfg.Loans.MaxLoan)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	st := m.state
	owed := amount * (1 + m.cfg.Loans.UpfrontFee)
	loan := model.Loan{
		ID:                  uuid.NewString(),
		Principal:           amount,
		Remaining:           owed,
		Rate:                m.cfg.Loans.InterestRate,
		TakenAt:             now,
		LastInterestApplied: now,
	}
	st.Loans = append(st.Loans, loan)
	st.Money += amount
	clampState(st)

	m.recordLoan(now, loan.ID, "TAKE", amount, owed)
	m.notify("Loan Approved", fmt.Sprintf("You received $%.2f but owe $%.2f (%.0f%% fee).",
		amount, owed, m.cfg.Loans.UpfrontFee*100), model.SeverityWarning)
	return loan, nil
}

// PayLoan pays up to amount towards the loan identified by id (or a unique id
// prefix), bounded by money on hand and the balance. It returns the amount paid.
func (m *Manager) PayLoan(id string, amount float64) (float64, error) {
	if amount <= 0 || math.IsNaN(amount) {
		return 0, ErrInvalidAmount
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.findLoan(id)
	if idx < 0 {
		return 0, ErrUnknownLoan
	}
	paid := m.payLoan(idx, amount, "PAY")
	if paid <= 0 {
		return 0, ErrInsufficientFunds
	}
	return paid, nil
}

func (m *Manager) findLoan(id string) int {
	loans := m.state.Loans
	for i, l := range loans {
		if l.ID == id {
			return i
		}
	}
	if len(id) < 4 {
		return -1
	}
	match := -1
	for i, l := range loans {
		if strings.HasPrefix(l.ID, id) {
			if match >= 0 {
				return -1
			}
			match = i
		}
	}
	return match
}

// payLoan moves min(amount, money, remaining) from money to loan idx and
// removes the loan once it is paid off.
func (m *Manager) payLoan(idx int, amount float64, action string) float64 {
	st := m.state
	loan := &st.Loans[idx]
	pay := math.Min(amount, math.Min(st.Money, loan.Remaining))
	if pay <= 0 {
		return 0
	}
	st.Money = calculator.NonNegative(st.Money - pay)
	loan.Remaining -= pay
	id, remaining := loan.ID, loan.Remaining

	if remaining <= paidOffThreshold {
		st.Loans = append(st.Loans[:idx], st.Loans[idx+1:]...)
		remaining = 0
		m.notify("Loan Paid Off!", "One less problem to worry about.", model.SeveritySuccess)
	}
	m.recordLoan(m.clock.Now(), id, action, pay, remaining)
	return pay
}

// ProcessLoanInterest compounds every loan at the configured rate once per
// whole elapsed interest interval, then runs autopay when enabled.
func (m *Manager) ProcessLoanInterest() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	interval, rate := m.cfg.Loans.InterestInterval, m.cfg.Loans.InterestRate
	st := m.state
	for i := range st.Loans {
		loan := &st.Loans[i]
		since := now.Sub(loan.LastInterestApplied)
		if interval <= 0 || since < interval {
			continue
		}
		n := int(since / interval)
		loan.Remaining = calculator.Bounded(loan.Remaining * math.Pow(1+rate, float64(n)))
		loan.Rate = rate
		loan.LastInterestApplied = loan.LastInterestApplied.Add(time.Duration(n) * interval)

		m.recordLoan(now, loan.ID, "INTEREST", 0, loan.Remaining)
		m.notify("Loan Interest Applied", fmt.Sprintf("Your debt compounded by %.0f%% every %s. Now owing $%.0f",
			rate*100, interval, loan.Remaining), model.SeverityDanger)
	}

	if st.AutopayEnabled && len(st.Loans) > 0 {
		m.autopay()
	}
}

// autopay pays AutopayPercentage of each balance from money on hand.
func (m *Manager) autopay() {
	st := m.state
	ids := make([]string, len(st.Loans))
	for i, l := range st.Loans {
		ids[i] = l.ID
	}
	for _, id := range ids {
		idx := m.findLoan(id)
		if idx < 0 {
			continue
		}
		amount := math.Min(st.Loans[idx].Remaining*st.AutopayPercentage/100, st.Money)
		if amount > 0 {
			m.payLoan(idx, amount, "AUTOPAY")
		}
	}
}

// SetAutopay toggles autopay; the percentage is clamped to [10, 100] and returned.
func (m *Manager) SetAutopay(enabled bool, percentage float64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if math.IsNaN(percentage) {
		percentage = m.state.AutopayPercentage
	}
	m.state.AutopayEnabled = enabled
	m.state.AutopayPercentage = calculator.Clamp(percentage, 10, 100)
	return m.state.AutopayPercentage
}

// Debt is the total outstanding balance of all loans.
func (m *Manager) Debt() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total float64
	for _, l := range m.state.Loans {
		total += l.Remaining
	}
	return total
}

func (m *Manager) recordLoan(at time.Time, id, action string, amount, remaining float64) {
	m.recordErr("loan", m.rec.RecordLoan(&recorder.LoanEvent{
		At: at, LoanID: id, Action: action, Amount: amount,
		RemainingAfter: remaining, MoneyAfter: m.state.Money,
	}))
}
