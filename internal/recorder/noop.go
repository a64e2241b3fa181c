package recorder

import (
	"context"

	"FibSentinel/internal/model"
)

// NoopRecorder is a no-op implementation used when no database is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordAnalysis(_ context.Context, _ *model.AnalysisResult) error { return nil }
func (n *NoopRecorder) RecordBacktest(_ context.Context, _ *model.BacktestResult) (string, error) {
	return "", nil
}
func (n *NoopRecorder) Close() error { return nil }
