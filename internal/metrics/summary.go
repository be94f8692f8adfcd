// Package metrics reduces a price series plus indicator series into the
// compact numeric summary handed to the narrator.
package metrics

import (
	"math"

	"finsight/internal/indicators"
	"finsight/internal/models"
)

const (
	rsiOverboughtLevel = 70
	rsiOversoldLevel   = 30
)

// Summarize computes the per-ticker summary record. It runs with whatever
// history exists: a window shorter than an indicator's minimum period yields
// NaN numeric fields and "unknown" states, never an error. The ind map may
// be nil when indicators were never computed.
func Summarize(candles []models.Candle, ind map[string][]float64, interval models.Interval) models.Metrics {
	m := models.Metrics{
		PeriodReturn:         math.NaN(),
		AnnualizedVolatility: math.NaN(),
		MaxDrawdown:          math.NaN(),
		TrendSlope:           math.NaN(),
		RSIState:             models.RSIUnknown,
		MACDState:            models.MACDUnknown,
		BBState:              models.BBUnknown,
	}
	if len(candles) == 0 {
		return m
	}

	m.PeriodStart = candles[0].Date.Format("2006-01-02")
	m.PeriodEnd = candles[len(candles)-1].Date.Format("2006-01-02")

	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}
	if len(closes) < 2 {
		return m
	}

	m.PeriodReturn = closes[len(closes)-1]/closes[0] - 1
	m.AnnualizedVolatility = annualizedVolatility(closes, interval)
	m.MaxDrawdown = maxDrawdown(closes)
	m.TrendSlope = trendSlope(closes)

	m.RSIState = classifyRSI(ind)
	m.MACDState = classifyMACD(ind)
	m.BBState = classifyBB(ind, closes[len(closes)-1])
	return m
}

// annualizedVolatility is the standard deviation of per-period log returns
// scaled by the square root of trading periods per year.
func annualizedVolatility(closes []float64, interval models.Interval) float64 {
	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] > 0 && closes[i] > 0 {
			returns = append(returns, math.Log(closes[i]/closes[i-1]))
		}
	}
	if len(returns) < 2 {
		return math.NaN()
	}

	var sum float64
	for _, r := range returns {
		sum += r
	}
	avg := sum / float64(len(returns))
	var variance float64
	for _, r := range returns {
		d := r - avg
		variance += d * d
	}
	variance /= float64(len(returns) - 1)

	return math.Sqrt(variance) * math.Sqrt(interval.PeriodsPerYear())
}

// maxDrawdown is the minimum over time of price divided by its running
// maximum, minus one. Always <= 0; exactly 0 when price never falls below a
// previous high.
func maxDrawdown(closes []float64) float64 {
	peak := closes[0]
	worst := 0.0
	for _, c := range closes {
		if c > peak {
			peak = c
		}
		if peak > 0 {
			dd := c/peak - 1
			if dd < worst {
				worst = dd
			}
		}
	}
	return worst
}

// trendSlope is the slope of an ordinary-least-squares fit of close against
// the time index. Directional signal only, not a forecast.
func trendSlope(closes []float64) float64 {
	n := float64(len(closes))
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range closes {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return math.NaN()
	}
	return (n*sumXY - sumX*sumY) / denom
}

func classifyRSI(ind map[string][]float64) models.RSIState {
	series, ok := ind[indicators.ColRSI14]
	if !ok || len(series) == 0 {
		return models.RSIUnknown
	}
	last := series[len(series)-1]
	switch {
	case math.IsNaN(last):
		return models.RSIUnknown
	case last >= rsiOverboughtLevel:
		return models.RSIOverbought
	case last <= rsiOversoldLevel:
		return models.RSIOversold
	default:
		return models.RSINeutral
	}
}

// classifyMACD reads the histogram at the last two defined points: positive
// and rising is bullish, negative and falling is bearish, anything else
// neutral.
func classifyMACD(ind map[string][]float64) models.MACDState {
	hist, ok := ind[indicators.ColMACDHist]
	if !ok || len(hist) == 0 {
		return models.MACDUnknown
	}
	last := hist[len(hist)-1]
	if math.IsNaN(last) {
		return models.MACDUnknown
	}

	prev := math.NaN()
	for i := len(hist) - 2; i >= 0; i-- {
		if !math.IsNaN(hist[i]) {
			prev = hist[i]
			break
		}
	}
	if math.IsNaN(prev) {
		return models.MACDNeutral
	}

	switch {
	case last > 0 && last > prev:
		return models.MACDBullish
	case last < 0 && last < prev:
		return models.MACDBearish
	default:
		return models.MACDNeutral
	}
}

func classifyBB(ind map[string][]float64, lastClose float64) models.BBState {
	high, okHigh := ind[indicators.ColBBHigh]
	low, okLow := ind[indicators.ColBBLow]
	if !okHigh || !okLow || len(high) == 0 || len(low) == 0 {
		return models.BBUnknown
	}
	upper := high[len(high)-1]
	lower := low[len(low)-1]
	if math.IsNaN(upper) || math.IsNaN(lower) {
		return models.BBUnknown
	}
	switch {
	case lastClose > upper:
		return models.BBAboveUpper
	case lastClose < lower:
		return models.BBBelowLower
	default:
		return models.BBInside
	}
}
