package calculator

import "github.com/shopspring/decimal"

// Round2 rounds half-up to 2 decimal places for currency display.
func Round2(v float64) float64 {
	return roundPlaces(v, 2)
}

// Round1 rounds half-up to 1 decimal place.
func Round1(v float64) float64 {
	return roundPlaces(v, 1)
}

func roundPlaces(v float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}
