package calculator

import "FibSentinel/internal/model"

// ClassifyTrend returns Uptrend when the low happened strictly before the high,
// otherwise Downtrend. Same-day points are a downtrend.
func ClassifyTrend(high, low model.SwingPoint) model.Trend {
	if low.Date.Before(high.Date) {
		return model.Uptrend
	}
	return model.Downtrend
}
