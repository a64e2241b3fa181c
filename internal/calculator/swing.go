package calculator

import "FibSentinel/internal/model"

// SwingPoints holds the extreme high and low of a price window.
type SwingPoints struct {
	High model.SwingPoint
	Low  model.SwingPoint
}

// Range returns High.Price - Low.Price.
func (s SwingPoints) Range() float64 {
	return s.High.Price - s.Low.Price
}

// FindSwingPoints scans the whole window once and returns the bar with the
// highest high and the bar with the lowest low. The first occurrence wins on ties.
func FindSwingPoints(bars []model.OHLCV) (SwingPoints, error) {
	if len(bars) == 0 {
		return SwingPoints{}, ErrEmptyInput
	}
	hi, lo := 0, 0
	for i := 1; i < len(bars); i++ {
		if bars[i].High > bars[hi].High {
			hi = i
		}
		if bars[i].Low < bars[lo].Low {
			lo = i
		}
	}
	return swingPointsAt(bars, hi, lo), nil
}

// FindRollingSwingPoints looks for bars whose high (low) is the extreme of the
// closed window [i-lookback, i+lookback]. Among those candidates the highest high
// and the lowest low win, first found on ties. When no interior bar qualifies on
// either side it falls back to FindSwingPoints over the full input.
func FindRollingSwingPoints(bars []model.OHLCV, lookback int) (SwingPoints, error) {
	if len(bars) == 0 {
		return SwingPoints{}, ErrEmptyInput
	}
	if lookback < 0 {
		lookback = 0
	}

	hi, lo := -1, -1
	for i := lookback; i < len(bars)-lookback; i++ {
		isHigh, isLow := true, true
		for j := i - lookback; j <= i+lookback; j++ {
			if bars[j].High > bars[i].High {
				isHigh = false
			}
			if bars[j].Low < bars[i].Low {
				isLow = false
			}
			if !isHigh && !isLow {
				break
			}
		}
		if isHigh && (hi < 0 || bars[i].High > bars[hi].High) {
			hi = i
		}
		if isLow && (lo < 0 || bars[i].Low < bars[lo].Low) {
			lo = i
		}
	}

	if hi < 0 || lo < 0 {
		return FindSwingPoints(bars)
	}
	return swingPointsAt(bars, hi, lo), nil
}

func swingPointsAt(bars []model.OHLCV, hi, lo int) SwingPoints {
	return SwingPoints{
		High: model.SwingPoint{Price: bars[hi].High, Date: bars[hi].Time, Index: hi},
		Low:  model.SwingPoint{Price: bars[lo].Low, Date: bars[lo].Time, Index: lo},
	}
}
