package utils

import "math"

// RoundWithTwoDecimalPlace rounds a metric value to two decimal places,
// which is the precision every percentage and trend figure is reported at.
func RoundWithTwoDecimalPlace(value float64) float64 {
	if value == 0 {
		return 0
	}

	return math.Round(value*100) / 100
}
