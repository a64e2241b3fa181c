package strategy

import (
	"errors"
	"fmt"
	"math"

	"FibSentinel/internal/calculator"
	"FibSentinel/internal/model"
)

// Backtest parameters.
const (
	SwingWindow    = 120   // trailing bars used to compute levels
	SwingLookback  = 10    // rolling swing detector lookback
	TouchTolerance = 0.015 // fraction of the range counted as a touch
	OutcomeHorizon = 30    // bars forward to judge the outcome
	CooldownBars   = 10    // minimum gap between two recorded touches
)

// MinBacktestBars is the smallest history Backtest accepts.
const MinBacktestBars = SwingWindow + OutcomeHorizon + 1

// ErrInsufficientData matches any InsufficientDataError under errors.Is.
var ErrInsufficientData = errors.New("insufficient price history")

// InsufficientDataError reports a history too short for the backtest.
type InsufficientDataError struct {
	Have int
	Need int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient price history: have %d bars, need at least %d", e.Have, e.Need)
}

func (e *InsufficientDataError) Is(target error) bool {
	return target == ErrInsufficientData
}

// Backtest slides a SwingWindow-bar window across the history and records every
// close that lands within TouchTolerance of the window's Golden Zone level,
// judging each touch OutcomeHorizon bars later.
func Backtest(ticker string, bars []model.OHLCV) (*model.BacktestResult, error) {
	if len(bars) < MinBacktestBars {
		return nil, &InsufficientDataError{Have: len(bars), Need: MinBacktestBars}
	}

	touches := make([]model.Touch, 0)
	lastTouch := -CooldownBars
	for i := SwingWindow; i < len(bars)-OutcomeHorizon; i++ {
		if i-lastTouch < CooldownBars {
			continue
		}
		touch, ok := detectTouch(bars, i)
		if !ok {
			continue
		}
		touches = append(touches, touch)
		lastTouch = i
	}

	res := &model.BacktestResult{
		Ticker:    NormalizeTicker(ticker),
		TotalBars: len(bars),
		Touches:   touches,
	}
	for _, t := range touches {
		if t.Outcome == model.OutcomeSuccess {
			res.Successes++
		}
	}
	res.Failures = len(touches) - res.Successes
	if len(touches) > 0 {
		res.WinRate = calculator.Round1(float64(res.Successes) / float64(len(touches)) * 100)
	}
	res.Summary = BacktestSummary(res)
	return res, nil
}

// detectTouch evaluates bar i against the levels of the window that ends just before it.
func detectTouch(bars []model.OHLCV, i int) (model.Touch, bool) {
	window := bars[i-SwingWindow : i]
	sp, err := calculator.FindRollingSwingPoints(window, SwingLookback)
	if err != nil {
		return model.Touch{}, false
	}
	rng := sp.Range()
	if rng <= 0 {
		return model.Touch{}, false
	}
	trend := calculator.ClassifyTrend(sp.High, sp.Low)
	golden, ok := calculator.LevelFor(calculator.RetracementLevels(sp.High.Price, sp.Low.Price, trend), calculator.GoldenRatio)
	if !ok {
		return model.Touch{}, false
	}

	closePrice := bars[i].Close
	if math.Abs(closePrice-golden.Price) > rng*TouchTolerance {
		return model.Touch{}, false
	}

	future := bars[i+OutcomeHorizon].Close
	pct := calculator.Round2((future - closePrice) / closePrice * 100)
	outcome := model.OutcomeFail
	if (trend == model.Uptrend && pct > 0) || (trend == model.Downtrend && pct < 0) {
		outcome = model.OutcomeSuccess
	}

	return model.Touch{
		Date:              bars[i].Time,
		Index:             i,
		TouchPrice:        closePrice,
		GoldenLevelPrice:  golden.Price,
		Trend:             trend,
		PriceAfterHorizon: future,
		PercentChange:     pct,
		Outcome:           outcome,
	}, true
}
