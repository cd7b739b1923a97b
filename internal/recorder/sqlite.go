package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists historical data to a SQLite database.
// Every row carries the session id of the process that wrote it.
type SQLiteRecorder struct {
	db      *sql.DB
	mu      sync.Mutex
	session string
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while the game writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, session: uuid.NewString()}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s (session %s)", dbPath, r.session)
	return r, nil
}

// Session returns the id stamped on rows written by this recorder.
func (r *SQLiteRecorder) Session() string { return r.session }

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS purchases (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			session     TEXT NOT NULL,
			timestamp   INTEGER NOT NULL,
			category    TEXT,
			item_id     TEXT,
			cost        REAL,
			currency    TEXT,
			count_after INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_purchases_ts ON purchases(timestamp)`,

		`CREATE TABLE IF NOT EXISTS prestiges (
			id                 INTEGER PRIMARY KEY AUTOINCREMENT,
			session            TEXT NOT NULL,
			timestamp          INTEGER NOT NULL,
			kind               TEXT,
			gain               INTEGER,
			total_btc_this_run REAL,
			bitcoin_before     REAL,
			hash_points_after  INTEGER,
			version            TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_prestiges_ts ON prestiges(timestamp)`,

		`CREATE TABLE IF NOT EXISTS random_events (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			session        TEXT NOT NULL,
			timestamp      INTEGER NOT NULL,
			name           TEXT,
			market_price   REAL,
			bitcoin        REAL,
			pending_hashes REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_ts ON random_events(timestamp)`,

		`CREATE TABLE IF NOT EXISTS loan_history (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			session         TEXT NOT NULL,
			timestamp       INTEGER NOT NULL,
			loan_id         TEXT,
			action          TEXT,
			amount          REAL,
			remaining_after REAL,
			money_after     REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_loans_ts ON loan_history(timestamp)`,

		`CREATE TABLE IF NOT EXISTS market_samples (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			session     TEXT NOT NULL,
			timestamp   INTEGER NOT NULL,
			price       REAL,
			trend       TEXT,
			bitcoin     REAL,
			money       REAL,
			hashrate    REAL,
			hash_points INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_samples_ts ON market_samples(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordPurchase(evt *PurchaseEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO purchases
		(session, timestamp, category, item_id, cost, currency, count_after)
		VALUES (?,?,?,?,?,?,?)`,
		r.session, stamp(evt.At), evt.Category, evt.ItemID,
		evt.Cost, evt.Currency, evt.CountAfter,
	)
	return err
}

func (r *SQLiteRecorder) RecordPrestige(evt *PrestigeEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO prestiges
		(session, timestamp, kind, gain, total_btc_this_run, bitcoin_before, hash_points_after, version)
		VALUES (?,?,?,?,?,?,?,?)`,
		r.session, stamp(evt.At), evt.Kind, evt.Gain,
		evt.TotalBTCThisRun, evt.BitcoinBefore, evt.HashPointsAfter, evt.Version,
	)
	return err
}

func (r *SQLiteRecorder) RecordEvent(evt *RandomEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO random_events
		(session, timestamp, name, market_price, bitcoin, pending_hashes)
		VALUES (?,?,?,?,?,?)`,
		r.session, stamp(evt.At), evt.Name,
		evt.MarketPrice, evt.Bitcoin, evt.PendingHashes,
	)
	return err
}

func (r *SQLiteRecorder) RecordLoan(evt *LoanEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO loan_history
		(session, timestamp, loan_id, action, amount, remaining_after, money_after)
		VALUES (?,?,?,?,?,?,?)`,
		r.session, stamp(evt.At), evt.LoanID, evt.Action,
		evt.Amount, evt.RemainingAfter, evt.MoneyAfter,
	)
	return err
}

func (r *SQLiteRecorder) RecordMarketSample(s *MarketSample) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO market_samples
		(session, timestamp, price, trend, bitcoin, money, hashrate, hash_points)
		VALUES (?,?,?,?,?,?,?,?)`,
		r.session, stamp(s.At), s.Price, s.Trend,
		s.Bitcoin, s.Money, s.Hashrate, s.HashPoints,
	)
	return err
}

// Summary counts recorded rows across all sessions.
func (r *SQLiteRecorder) Summary() (*Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := &Summary{}
	counts := []struct {
		table string
		dst   *int
	}{
		{"purchases", &s.Purchases},
		{"prestiges", &s.Prestiges},
		{"random_events", &s.Events},
		{"loan_history", &s.LoanEvents},
		{"market_samples", &s.Samples},
	}
	for _, c := range counts {
		if err := r.db.QueryRow("SELECT COUNT(*) FROM " + c.table).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("count %s: %w", c.table, err)
		}
	}
	if err := r.db.QueryRow(`SELECT COALESCE(SUM(gain), 0) FROM prestiges`).Scan(&s.TotalHPEarned); err != nil {
		return nil, fmt.Errorf("sum prestige gain: %w", err)
	}
	if err := r.db.QueryRow(`SELECT COALESCE(MAX(price), 0) FROM market_samples`).Scan(&s.PeakPrice); err != nil {
		return nil, fmt.Errorf("peak price: %w", err)
	}
	return s, nil
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
