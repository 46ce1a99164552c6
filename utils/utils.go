package utils

import "math"

// Round1 rounds half-up to one decimal place. Stored enrollment progress is
// always the rounded value.
func Round1(value float64) float64 {
	return math.Round(value*10) / 10
}

// ClampProgress bounds a percentage to [0, 100]
func ClampProgress(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}
