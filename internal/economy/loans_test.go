package economy

import (
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"BitcoinClicker/internal/calculator"
	"BitcoinClicker/internal/model"
	"BitcoinClicker/internal/store"
)

func TestTakeLoan(t *testing.T) {
	m, _, _, _ := newTestManager(t)

	if _, err := m.TakeLoan(0); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	loan, err := m.TakeLoan(1000)
	if err != nil {
		t.Fatal(err)
	}
	if !approx(loan.Remaining, 1150) || loan.Rate != 0.20 || loan.ID == "" {
		t.Errorf("unexpected loan: %+v", loan)
	}
	if st := m.State(); st.Money != 1000 || len(st.Loans) != 1 {
		t.Errorf("expected money credited and loan stored, got money %v loans %d", st.Money, len(st.Loans))
	}
	if got := m.Debt(); !approx(got, 1150) {
		t.Errorf("expected debt 1150, got %v", got)
	}
}

func TestProcessLoanInterest_CompoundsWholeIntervals(t *testing.T) {
	m, clock, _, _ := newTestManager(t)
	loan, _ := m.TakeLoan(1000)

	clock.Advance(59 * time.Minute)
	m.ProcessLoanInterest()
	if got := m.State().Loans[0].Remaining; !approx(got, 1150) {
		t.Fatalf("expected no interest before an hour, got %v", got)
	}

	clock.Advance(91 * time.Minute) // 2h30m since the loan
	m.ProcessLoanInterest()
	got := m.State().Loans[0]
	if !approx(got.Remaining, 1150*1.2*1.2) {
		t.Errorf("expected two compounding periods, got %v", got.Remaining)
	}
	if !got.LastInterestApplied.Equal(loan.TakenAt.Add(2 * time.Hour)) {
		t.Errorf("expected interest clock advanced by whole intervals, got %v", got.LastInterestApplied)
	}

	clock.Advance(30 * time.Minute)
	m.ProcessLoanInterest()
	if got := m.State().Loans[0].Remaining; !approx(got, 1150*1.2*1.2*1.2) {
		t.Errorf("expected the partial interval carried over, got %v", got)
	}
}

func TestPayLoan(t *testing.T) {
	m, _, _, n := newTestManager(t)
	loan, _ := m.TakeLoan(1000)

	if _, err := m.PayLoan("missing", 10); !errors.Is(err, ErrUnknownLoan) {
		t.Fatalf("expected ErrUnknownLoan, got %v", err)
	}
	if _, err := m.PayLoan(loan.ID, -5); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}

	paid, err := m.PayLoan(loan.ID[:8], 5000)
	if err != nil {
		t.Fatal(err)
	}
	if paid != 1000 {
		t.Errorf("expected payment capped by money on hand, paid %v", paid)
	}
	st := m.State()
	if st.Money != 0 || !approx(st.Loans[0].Remaining, 150) {
		t.Errorf("unexpected state after partial payment: money %v remaining %v", st.Money, st.Loans[0].Remaining)
	}

	if _, err := m.PayLoan(loan.ID, 10); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds with no money, got %v", err)
	}

	m.state.Money = 500
	n.got = nil
	paid, err = m.PayLoan(loan.ID, 500)
	if err != nil {
		t.Fatal(err)
	}
	if !approx(paid, 150) {
		t.Errorf("expected payment capped by balance, paid %v", paid)
	}
	if st := m.State(); len(st.Loans) != 0 || !approx(st.Money, 350) {
		t.Errorf("expected loan removed, got %d loans, money %v", len(st.Loans), st.Money)
	}
	if len(n.got) != 1 || n.got[0].Title != "Loan Paid Off!" {
		t.Errorf("expected paid off notification, got %v", n.titles())
	}
}

func TestAutopay(t *testing.T) {
	m, clock, _, _ := newTestManager(t)
	m.TakeLoan(1000)

	if got := m.SetAutopay(true, 5); got != 10 {
		t.Errorf("expected percentage clamped to 10, got %v", got)
	}
	if got := m.SetAutopay(true, 500); got != 100 {
		t.Errorf("expected percentage clamped to 100, got %v", got)
	}
	m.SetAutopay(true, 50)

	clock.Advance(time.Hour)
	m.ProcessLoanInterest()
	st := m.State()
	if len(st.Loans) != 1 || !approx(st.Loans[0].Remaining, 690) {
		t.Fatalf("expected half of 1380 paid, got %+v", st.Loans)
	}
	if !approx(st.Money, 310) {
		t.Errorf("expected 310 money left, got %v", st.Money)
	}
}

func TestTakeLoan_RejectsUnboundedAmounts(t *testing.T) {
	m, _, _, _ := newTestManager(t)

	tests := []struct {
		name   string
		amount float64
		want   error
	}{
		{"max float", math.MaxFloat64, ErrLoanTooLarge},
		{"above limit", 1e9 + 1, ErrLoanTooLarge},
		{"infinite", math.Inf(1), ErrInvalidAmount},
		{"nan", math.NaN(), ErrInvalidAmount},
		{"negative", -5, ErrInvalidAmount},
	}
	for _, tt := range tests {
		if _, err := m.TakeLoan(tt.amount); !errors.Is(err, tt.want) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, err)
		}
	}
	if st := m.State(); st.Money != 0 || len(st.Loans) != 0 {
		t.Errorf("expected rejected loans to leave state untouched, got money %v loans %d", st.Money, len(st.Loans))
	}
}

func TestLargestLoan_StaysEncodable(t *testing.T) {
	m, clock, _, _ := newTestManager(t)
	if _, err := m.TakeLoan(1e9); err != nil {
		t.Fatal(err)
	}

	clock.Advance(10000 * time.Hour)
	m.ProcessLoanInterest()
	st := m.State()
	if got := st.Loans[0].Remaining; got != calculator.MaxBalance {
		t.Fatalf("expected balance capped at %v, got %v", calculator.MaxBalance, got)
	}

	path := filepath.Join(t.TempDir(), "save.json.zst")
	if err := store.Save(path, &st); err != nil {
		t.Fatalf("save after compounding: %v", err)
	}
	loaded, _, err := store.Load(path, &model.EconomyState{})
	if err != nil {
		t.Fatalf("load after compounding: %v", err)
	}
	if loaded.Loans[0].Remaining != calculator.MaxBalance {
		t.Errorf("expected capped balance to round-trip, got %v", loaded.Loans[0].Remaining)
	}
}

func TestProcessLoanInterest_UsesConfiguredRate(t *testing.T) {
	m, clock, _, _ := newTestManager(t)
	if _, err := m.TakeLoan(1000); err != nil {
		t.Fatal(err)
	}
	m.state.Loans[0].Rate = 1e-9

	clock.Advance(10 * time.Hour)
	m.ProcessLoanInterest()
	got := m.State().Loans[0]
	if !approx(got.Remaining, 1150*math.Pow(1.2, 10)) {
		t.Errorf("expected 1150 compounded at 20%% for 10h (~7120.50), got %v", got.Remaining)
	}
	if got.Rate != 0.20 {
		t.Errorf("expected configured rate recorded, got %v", got.Rate)
	}
}
