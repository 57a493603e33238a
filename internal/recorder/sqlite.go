package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"DebtSentinel/internal/model"
)

// SQLiteRecorder persists historical data to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logrus.WithField("path", dbPath).Info("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS observations (
			record_date TEXT PRIMARY KEY,
			total_debt  TEXT NOT NULL,
			recorded_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS fetch_log (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp    INTEGER NOT NULL,
			window_days  INTEGER,
			observations INTEGER,
			duration_ms  INTEGER,
			outcome      TEXT,
			detail       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_fetch_ts ON fetch_log(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordSeries upserts every observation. Debt amounts are stored as text
// so fractional cents survive round-trips exactly.
func (r *SQLiteRecorder) RecordSeries(series model.DebtSeries) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO observations (record_date, total_debt, recorded_at)
		VALUES (?,?,?)
		ON CONFLICT(record_date) DO UPDATE SET total_debt=excluded.total_debt, recorded_at=excluded.recorded_at`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, o := range series {
		if _, err := stmt.Exec(o.Date.Format("2006-01-02"), o.TotalDebt.String(), now); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert observation %s: %w", o.Date.Format("2006-01-02"), err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) RecordFetch(evt *FetchEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO fetch_log
		(timestamp, window_days, observations, duration_ms, outcome, detail)
		VALUES (?,?,?,?,?,?)`,
		evt.At.Unix(), evt.WindowDays, evt.Observations,
		evt.Duration.Milliseconds(), evt.Outcome, evt.Detail,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	logrus.Info("closing sqlite recorder")
	return r.db.Close()
}
