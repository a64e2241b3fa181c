package model

import "time"

// Trend is the direction implied by the order of the swing points.
type Trend string

const (
	Uptrend   Trend = "UPTREND"
	Downtrend Trend = "DOWNTREND"
)

// Category is the three-state band shared by retracement levels and signals.
type Category string

const (
	Favorable   Category = "FAVORABLE"
	Caution     Category = "CAUTION"
	Unfavorable Category = "UNFAVORABLE"
)

// SwingPoint is an extreme price tied to the bar that produced it.
// Index is the bar position inside the window the point was detected in.
type SwingPoint struct {
	Price float64   `json:"price"`
	Date  time.Time `json:"date"`
	Index int       `json:"index"`
}

// RetracementLevel is one priced Fibonacci ratio.
type RetracementLevel struct {
	Ratio        float64  `json:"ratio"`
	Price        float64  `json:"price"`
	IsGoldenZone bool     `json:"is_golden_zone"`
	Category     Category `json:"category"`
}

// AnalysisResult is the output of a single-snapshot analysis.
type AnalysisResult struct {
	Ticker       string             `json:"ticker"`
	Trend        Trend              `json:"trend"`
	SwingHigh    SwingPoint         `json:"swing_high"`
	SwingLow     SwingPoint         `json:"swing_low"`
	Range        float64            `json:"range"`
	Levels       []RetracementLevel `json:"levels"`
	CurrentPrice float64            `json:"current_price"`
	Signal       Category           `json:"signal"`
	Reason       string             `json:"reason"`
	BarCount     int                `json:"bar_count"`
}

// GoldenZone returns the 61.8% level, if present.
func (r *AnalysisResult) GoldenZone() (RetracementLevel, bool) {
	for _, l := range r.Levels {
		if l.IsGoldenZone {
			return l, true
		}
	}
	return RetracementLevel{}, false
}
