package indicators

import (
	"math"

	"finsight/internal/models"
)

// nanSeries returns a series of length n filled with NaN.
func nanSeries(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}

// defined reports whether v is a usable numeric value.
func defined(v float64) bool {
	return !math.IsNaN(v)
}

// firstDefined returns the index of the first non-NaN value, or -1.
func firstDefined(values []float64) int {
	for i, v := range values {
		if defined(v) {
			return i
		}
	}
	return -1
}

// LastDefined returns the last non-NaN value and its index, or false if the
// series has no defined points.
func LastDefined(values []float64) (float64, int, bool) {
	for i := len(values) - 1; i >= 0; i-- {
		if defined(values[i]) {
			return values[i], i, true
		}
	}
	return math.NaN(), -1, false
}

// mean calculates the arithmetic mean of a slice of float64.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	var total float64
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

// stdDevPop calculates the population standard deviation of a slice.
func stdDevPop(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	m := mean(values)
	var variance float64
	for _, v := range values {
		diff := v - m
		variance += diff * diff
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}

// closePrices extracts close prices from candles.
func closePrices(candles []models.Candle) []float64 {
	prices := make([]float64, len(candles))
	for i, c := range candles {
		prices[i] = c.Close
	}
	return prices
}
