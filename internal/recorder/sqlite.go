package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"FibSentinel/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists history to a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *zap.Logger
	now    func() time.Time
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger *zap.Logger) (*SQLiteRecorder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, logger: logger.Named("sqlite"), now: time.Now}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.logger.Info("recorder opened", zap.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analyses (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp       INTEGER NOT NULL,
			ticker          TEXT NOT NULL,
			trend           TEXT,
			swing_high      REAL,
			swing_high_date TEXT,
			swing_low       REAL,
			swing_low_date  TEXT,
			range_size      REAL,
			golden_price    REAL,
			current_price   REAL,
			signal          TEXT,
			reason          TEXT,
			bar_count       INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_ticker_ts ON analyses(ticker, timestamp)`,

		`CREATE TABLE IF NOT EXISTS backtest_runs (
			id         TEXT PRIMARY KEY,
			timestamp  INTEGER NOT NULL,
			ticker     TEXT NOT NULL,
			total_bars INTEGER,
			touches    INTEGER,
			successes  INTEGER,
			failures   INTEGER,
			win_rate   REAL,
			summary    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_backtest_ticker_ts ON backtest_runs(ticker, timestamp)`,

		`CREATE TABLE IF NOT EXISTS backtest_touches (
			id                  INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id              TEXT NOT NULL REFERENCES backtest_runs(id),
			touch_date          TEXT,
			bar_index           INTEGER,
			touch_price         REAL,
			golden_level_price  REAL,
			trend               TEXT,
			price_after_horizon REAL,
			percent_change      REAL,
			outcome             TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_touches_run ON backtest_touches(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordAnalysis(ctx context.Context, res *model.AnalysisResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	golden, _ := res.GoldenZone()
	_, err := r.db.ExecContext(ctx, `INSERT INTO analyses
		(timestamp, ticker, trend, swing_high, swing_high_date, swing_low, swing_low_date,
		 range_size, golden_price, current_price, signal, reason, bar_count)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		r.now().Unix(), res.Ticker, string(res.Trend),
		res.SwingHigh.Price, res.SwingHigh.Date.Format(time.DateOnly),
		res.SwingLow.Price, res.SwingLow.Date.Format(time.DateOnly),
		res.Range, golden.Price, res.CurrentPrice, string(res.Signal), res.Reason, res.BarCount,
	)
	return err
}

func (r *SQLiteRecorder) RecordBacktest(ctx context.Context, res *model.BacktestResult) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	runID := uuid.NewString()
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT INTO backtest_runs
		(id, timestamp, ticker, total_bars, touches, successes, failures, win_rate, summary)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		runID, r.now().Unix(), res.Ticker, res.TotalBars, len(res.Touches),
		res.Successes, res.Failures, res.WinRate, res.Summary,
	); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO backtest_touches
		(run_id, touch_date, bar_index, touch_price, golden_level_price, trend,
		 price_after_horizon, percent_change, outcome)
		VALUES (?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return "", fmt.Errorf("prepare touch insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range res.Touches {
		if _, err := stmt.ExecContext(ctx,
			runID, t.Date.Format(time.DateOnly), t.Index, t.TouchPrice, t.GoldenLevelPrice,
			string(t.Trend), t.PriceAfterHorizon, t.PercentChange, string(t.Outcome),
		); err != nil {
			return "", fmt.Errorf("insert touch: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	r.logger.Debug("backtest recorded",
		zap.String("run_id", runID),
		zap.String("ticker", res.Ticker),
		zap.Int("touches", len(res.Touches)))
	return runID, nil
}

func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}
