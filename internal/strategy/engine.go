package strategy

import (
	"strings"

	"FibSentinel/internal/calculator"
	"FibSentinel/internal/model"
)

// NormalizeTicker upper-cases a ticker for display.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// Analyze computes the retracement picture for the whole price history and
// classifies currentPrice against it.
func Analyze(ticker string, bars []model.OHLCV, currentPrice float64) (*model.AnalysisResult, error) {
	// Step a: extremes over the full history
	sp, err := calculator.FindSwingPoints(bars)
	if err != nil {
		return nil, err
	}

	// Step b: direction from the order of the extremes
	trend := calculator.ClassifyTrend(sp.High, sp.Low)

	// Step c: priced levels
	levels := calculator.RetracementLevels(sp.High.Price, sp.Low.Price, trend)

	// Step d: signal
	decision, err := Decide(currentPrice, levels, trend)
	if err != nil {
		return nil, err
	}

	return &model.AnalysisResult{
		Ticker:       NormalizeTicker(ticker),
		Trend:        trend,
		SwingHigh:    sp.High,
		SwingLow:     sp.Low,
		Range:        calculator.Round2(sp.Range()),
		Levels:       levels,
		CurrentPrice: currentPrice,
		Signal:       decision.Signal,
		Reason:       decision.Reason,
		BarCount:     len(bars),
	}, nil
}
