package utils

import "github.com/shopspring/decimal"

// RoundPercent arredonda meio para longe do zero, sem o erro de float de math.Round(f*100)/100
func RoundPercent(f float64, places int32) float64 {
	if f == 0 {
		return 0
	}

	return decimal.NewFromFloat(f).Round(places).InexactFloat64()
}
