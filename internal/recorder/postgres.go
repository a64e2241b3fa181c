package recorder

import (
	"context"
	"fmt"
	"time"

	"FibSentinel/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// PoolConfig tunes the Postgres connection pool.
type PoolConfig struct {
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
}

func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxConns:          4,
		MinConns:          0,
		MaxConnLifetime:   30 * time.Minute,
		MaxConnIdleTime:   5 * time.Minute,
		HealthCheckPeriod: 30 * time.Second,
	}
}

// PostgresRecorder persists history to Postgres.
type PostgresRecorder struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgresRecorder connects to databaseURL and creates the tables it needs.
func NewPostgresRecorder(ctx context.Context, databaseURL string, cfg PoolConfig, logger *zap.Logger) (*PostgresRecorder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	poolCfg.HealthCheckPeriod = cfg.HealthCheckPeriod

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	r := &PostgresRecorder{pool: pool, logger: logger.Named("postgres")}
	if err := r.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	r.logger.Info("recorder opened", zap.String("host", poolCfg.ConnConfig.Host))
	return r, nil
}

func (r *PostgresRecorder) migrate(ctx context.Context) error {
	stmts := []string{
		`create table if not exists analyses (
			id bigserial primary key,
			created_at timestamptz not null default now(),
			ticker text not null,
			trend text not null,
			swing_high double precision not null,
			swing_high_date date not null,
			swing_low double precision not null,
			swing_low_date date not null,
			range_size double precision not null,
			golden_price double precision not null,
			current_price double precision not null,
			signal text not null,
			reason text not null default '',
			bar_count int not null
		);`,
		`create index if not exists idx_analyses_ticker_ts on analyses(ticker, created_at desc);`,
		`create table if not exists backtest_runs (
			id uuid primary key,
			created_at timestamptz not null default now(),
			ticker text not null,
			total_bars int not null,
			touches int not null,
			successes int not null,
			failures int not null,
			win_rate double precision not null,
			summary text not null default ''
		);`,
		`create index if not exists idx_backtest_ticker_ts on backtest_runs(ticker, created_at desc);`,
		`create table if not exists backtest_touches (
			id bigserial primary key,
			run_id uuid not null references backtest_runs(id) on delete cascade,
			touch_date date not null,
			bar_index int not null,
			touch_price double precision not null,
			golden_level_price double precision not null,
			trend text not null,
			price_after_horizon double precision not null,
			percent_change double precision not null,
			outcome text not null
		);`,
		`create index if not exists idx_touches_run on backtest_touches(run_id);`,
	}
	for _, s := range stmts {
		if _, err := r.pool.Exec(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (r *PostgresRecorder) RecordAnalysis(ctx context.Context, res *model.AnalysisResult) error {
	golden, _ := res.GoldenZone()
	_, err := r.pool.Exec(ctx, `
		insert into analyses(
			ticker, trend, swing_high, swing_high_date, swing_low, swing_low_date,
			range_size, golden_price, current_price, signal, reason, bar_count
		) values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		res.Ticker, string(res.Trend),
		res.SwingHigh.Price, res.SwingHigh.Date,
		res.SwingLow.Price, res.SwingLow.Date,
		res.Range, golden.Price, res.CurrentPrice,
		string(res.Signal), res.Reason, res.BarCount,
	)
	return err
}

func (r *PostgresRecorder) RecordBacktest(ctx context.Context, res *model.BacktestResult) (string, error) {
	runID := uuid.NewString()

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			insert into backtest_runs(id, ticker, total_bars, touches, successes, failures, win_rate, summary)
			values ($1,$2,$3,$4,$5,$6,$7,$8)
		`, runID, res.Ticker, res.TotalBars, len(res.Touches), res.Successes, res.Failures, res.WinRate, res.Summary); err != nil {
			return fmt.Errorf("insert run: %w", err)
		}

		batch := &pgx.Batch{}
		for _, t := range res.Touches {
			batch.Queue(`
				insert into backtest_touches(
					run_id, touch_date, bar_index, touch_price, golden_level_price,
					trend, price_after_horizon, percent_change, outcome
				) values ($1,$2,$3,$4,$5,$6,$7,$8,$9)
			`, runID, t.Date, t.Index, t.TouchPrice, t.GoldenLevelPrice,
				string(t.Trend), t.PriceAfterHorizon, t.PercentChange, string(t.Outcome))
		}
		if batch.Len() == 0 {
			return nil
		}
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return "", err
	}
	return runID, nil
}

func (r *PostgresRecorder) Close() error {
	r.pool.Close()
	return nil
}
