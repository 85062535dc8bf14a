package model

import "github.com/shopspring/decimal"

// Round rounds v half away from zero to the given number of decimal places.
func Round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// ChangePercent returns change relative to the previous price, in percent.
func ChangePercent(change, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return decimal.NewFromFloat(change).
		Div(decimal.NewFromFloat(previous)).
		Mul(decimal.NewFromInt(100)).
		InexactFloat64()
}
