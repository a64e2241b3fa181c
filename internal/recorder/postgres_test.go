package recorder

import (
	"context"
	"os"
	"testing"
	"time"

	"FibSentinel/internal/model"
)

// Runs only against a real database: TEST_DATABASE_URL=postgres://... go test ./internal/recorder
func TestPostgresRecorder(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	r, err := NewPostgresRecorder(ctx, url, DefaultPoolConfig(), nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()

	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	res := &model.BacktestResult{
		Ticker:    "TEST",
		TotalBars: 200,
		Touches: []model.Touch{
			{Date: day, Index: 150, TouchPrice: 10, GoldenLevelPrice: 10, Trend: model.Uptrend, PriceAfterHorizon: 11, PercentChange: 10, Outcome: model.OutcomeSuccess},
		},
		Successes: 1,
		WinRate:   100,
	}
	runID, err := r.RecordBacktest(ctx, res)
	if err != nil {
		t.Fatalf("RecordBacktest: %v", err)
	}

	var n int
	if err := r.pool.QueryRow(ctx, `select count(*) from backtest_touches where run_id = $1`, runID).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("touch rows = %d, want 1", n)
	}
}
