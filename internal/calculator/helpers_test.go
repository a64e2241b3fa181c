package calculator

import (
	"time"

	"FibSentinel/internal/model"
)

var day0 = time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC)

// bar builds a daily bar i days after day0.
func bar(i int, high, low float64) model.OHLCV {
	mid := (high + low) / 2
	return model.OHLCV{
		Time:   day0.AddDate(0, 0, i),
		Open:   mid,
		High:   high,
		Low:    low,
		Close:  mid,
		Volume: 1000,
	}
}

// barsFromHighLow zips highs and lows into consecutive daily bars.
func barsFromHighLow(highs, lows []float64) []model.OHLCV {
	bars := make([]model.OHLCV, len(highs))
	for i := range highs {
		bars[i] = bar(i, highs[i], lows[i])
	}
	return bars
}
