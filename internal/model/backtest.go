package model

import "time"

// Outcome classifies a touch after the outcome horizon.
type Outcome string

const (
	OutcomeSuccess Outcome = "SUCCESS"
	OutcomeFail    Outcome = "FAIL"
)

// Touch is one historical visit of the close to the Golden Zone level.
type Touch struct {
	Date              time.Time `json:"date"`
	Index             int       `json:"index"`
	TouchPrice        float64   `json:"touch_price"`
	GoldenLevelPrice  float64   `json:"golden_level_price"`
	Trend             Trend     `json:"trend"`
	PriceAfterHorizon float64   `json:"price_after_horizon"`
	PercentChange     float64   `json:"percent_change"`
	Outcome           Outcome   `json:"outcome"`
}

// BacktestResult aggregates every touch found in a price history.
type BacktestResult struct {
	Ticker    string  `json:"ticker"`
	TotalBars int     `json:"total_bars"`
	Touches   []Touch `json:"touches"`
	Successes int     `json:"successes"`
	Failures  int     `json:"failures"`
	WinRate   float64 `json:"win_rate"`
	Summary   string  `json:"summary"`
}
