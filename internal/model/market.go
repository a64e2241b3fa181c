package model

import (
	"errors"
	"fmt"
	"time"
)

// OHLCV represents a single daily price bar.
type OHLCV struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Day returns the calendar day of the bar in UTC.
func (b OHLCV) Day() time.Time {
	y, m, d := b.Time.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Consistent reports whether the bar has positive prices and low <= open,close <= high.
func (b OHLCV) Consistent() bool {
	if b.Low <= 0 || b.High <= 0 || b.Open <= 0 || b.Close <= 0 {
		return false
	}
	return b.Low <= b.Open && b.Low <= b.Close && b.Open <= b.High && b.Close <= b.High
}

// PriceSeries holds the daily history of one ticker, oldest first.
type PriceSeries struct {
	Symbol    string    `json:"symbol"`
	Bars      []OHLCV   `json:"bars"`
	Source    string    `json:"source"`
	FetchedAt time.Time `json:"fetched_at"`
}

// ErrInvalidSeries is returned by Validate for malformed price history.
var ErrInvalidSeries = errors.New("invalid price series")

// Validate checks that days are strictly increasing and every bar is internally consistent.
func (s *PriceSeries) Validate() error {
	for i, b := range s.Bars {
		if !b.Consistent() {
			return fmt.Errorf("%w: bar %d (%s) has inconsistent prices", ErrInvalidSeries, i, b.Day().Format("2006-01-02"))
		}
		if i > 0 && !s.Bars[i-1].Day().Before(b.Day()) {
			return fmt.Errorf("%w: bar %d (%s) is not after the previous day", ErrInvalidSeries, i, b.Day().Format("2006-01-02"))
		}
	}
	return nil
}

// LastClose returns the close of the most recent bar, or 0 for an empty series.
func (s *PriceSeries) LastClose() float64 {
	if len(s.Bars) == 0 {
		return 0
	}
	return s.Bars[len(s.Bars)-1].Close
}
