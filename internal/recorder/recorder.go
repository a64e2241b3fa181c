package recorder

import (
	"context"

	"FibSentinel/internal/model"
)

// Recorder persists analysis and backtest history.
type Recorder interface {
	RecordAnalysis(ctx context.Context, res *model.AnalysisResult) error
	// RecordBacktest stores a run with its touches and returns the run id.
	RecordBacktest(ctx context.Context, res *model.BacktestResult) (string, error)
	Close() error
}
