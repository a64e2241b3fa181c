package strategy

import (
	"math"
	"time"

	"FibSentinel/internal/model"
)

var day0 = time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)

// flatBar builds a bar whose open, high, low and close are all p.
func flatBar(i int, p float64) model.OHLCV {
	return model.OHLCV{Time: day0.AddDate(0, 0, i), Open: p, High: p, Low: p, Close: p, Volume: 1000}
}

// risingSeries returns n bars climbing linearly from 100.00 to 200.00.
func risingSeries(n int) []model.OHLCV {
	bars := make([]model.OHLCV, n)
	for i := 0; i < n; i++ {
		bars[i] = flatBar(i, 100+float64(i*100)/float64(n-1))
	}
	return bars
}

// waveSeries is a drifting sine wave with a one-point spread around the close.
func waveSeries(n int, period float64) []model.OHLCV {
	bars := make([]model.OHLCV, n)
	for i := 0; i < n; i++ {
		c := 100 + 20*math.Sin(2*math.Pi*float64(i)/period) + 0.05*float64(i)
		bars[i] = model.OHLCV{
			Time:   day0.AddDate(0, 0, i),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		}
	}
	return bars
}
