package calculator

import "FibSentinel/internal/model"

// GoldenRatio is the 61.8% Golden Zone ratio.
const GoldenRatio = 0.618

// ShallowRatio is the shallowest retracement, used as the first signal threshold.
const ShallowRatio = 0.236

// Ratios is the fixed, ascending retracement table.
var Ratios = []struct {
	Ratio    float64
	Category model.Category
}{
	{0.236, model.Favorable},
	{0.382, model.Favorable},
	{0.5, model.Caution},
	{GoldenRatio, model.Caution},
	{0.786, model.Unfavorable},
}

// RetracementLevels maps every ratio onto the high/low range. In an uptrend the
// levels are measured down from the high, in a downtrend up from the low.
// A zero range is valid and collapses all levels onto one price.
func RetracementLevels(high, low float64, trend model.Trend) []model.RetracementLevel {
	rng := high - low
	levels := make([]model.RetracementLevel, 0, len(Ratios))
	for _, r := range Ratios {
		var price float64
		if trend == model.Uptrend {
			price = high - rng*r.Ratio
		} else {
			price = low + rng*r.Ratio
		}
		levels = append(levels, model.RetracementLevel{
			Ratio:        r.Ratio,
			Price:        Round2(price),
			IsGoldenZone: r.Ratio == GoldenRatio,
			Category:     r.Category,
		})
	}
	return levels
}

// LevelFor returns the level with the given ratio.
func LevelFor(levels []model.RetracementLevel, ratio float64) (model.RetracementLevel, bool) {
	for _, l := range levels {
		if l.Ratio == ratio {
			return l, true
		}
	}
	return model.RetracementLevel{}, false
}
