package strategy

import (
	"fmt"

	"FibSentinel/internal/calculator"
	"FibSentinel/internal/model"
)

// Decision is the signal for a price plus the rationale for the branch taken.
type Decision struct {
	Signal model.Category `json:"signal"`
	Reason string         `json:"reason"`
}

type threshold struct {
	Ratio  float64
	Signal model.Category
}

type signalRule struct {
	Thresholds []threshold
	Otherwise  model.Category
}

// signalRules maps each trend to its two thresholds, checked in order.
// Uptrend compares price >= level, downtrend compares price <= level.
var signalRules = map[model.Trend]signalRule{
	model.Uptrend: {
		Thresholds: []threshold{
			{calculator.ShallowRatio, model.Favorable},
			{calculator.GoldenRatio, model.Caution},
		},
		Otherwise: model.Unfavorable,
	},
	model.Downtrend: {
		Thresholds: []threshold{
			{calculator.ShallowRatio, model.Unfavorable},
			{calculator.GoldenRatio, model.Caution},
		},
		Otherwise: model.Favorable,
	},
}

// DetermineSignal places currentPrice against the shallow (23.6%) and Golden
// Zone (61.8%) levels. The levels must contain both ratios. A table missing
// either one carries no input for the decision, so the error wraps
// calculator.ErrEmptyInput and names the missing ratio.
func DetermineSignal(currentPrice float64, levels []model.RetracementLevel, trend model.Trend) (model.Category, error) {
	rule, ok := signalRules[trend]
	if !ok {
		return "", fmt.Errorf("unknown trend %q", trend)
	}
	prices := make([]float64, len(rule.Thresholds))
	for i, th := range rule.Thresholds {
		level, ok := calculator.LevelFor(levels, th.Ratio)
		if !ok {
			return "", fmt.Errorf("%w: missing %.1f%% level", calculator.ErrEmptyInput, th.Ratio*100)
		}
		prices[i] = level.Price
	}
	for i, th := range rule.Thresholds {
		if trend == model.Uptrend && currentPrice >= prices[i] {
			return th.Signal, nil
		}
		if trend == model.Downtrend && currentPrice <= prices[i] {
			return th.Signal, nil
		}
	}
	return rule.Otherwise, nil
}

// Decide combines DetermineSignal with the rationale text for the branch.
func Decide(currentPrice float64, levels []model.RetracementLevel, trend model.Trend) (Decision, error) {
	sig, err := DetermineSignal(currentPrice, levels, trend)
	if err != nil {
		return Decision{}, err
	}
	return Decision{Signal: sig, Reason: SignalReason(trend, sig)}, nil
}
