// Package models provides domain models for the analyst application.
package models

import (
	"math"
	"time"
)

// Interval represents the sampling interval of a price series.
type Interval string

const (
	IntervalDaily   Interval = "1d"
	IntervalWeekly  Interval = "1wk"
	IntervalMonthly Interval = "1mo"
)

// Valid reports whether the interval is one of the supported values.
func (i Interval) Valid() bool {
	switch i {
	case IntervalDaily, IntervalWeekly, IntervalMonthly:
		return true
	}
	return false
}

// PeriodsPerYear returns the number of trading periods in a year for the
// interval, used to annualize volatility.
func (i Interval) PeriodsPerYear() float64 {
	switch i {
	case IntervalWeekly:
		return 52
	case IntervalMonthly:
		return 12
	default:
		return 252
	}
}

// Candle represents OHLCV data for one trading period.
type Candle struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// Parsed is the deterministic interpretation of the user question, produced
// by the intent resolver before the loop starts and read-only thereafter.
type Parsed struct {
	Tickers  []string  `json:"tickers"`
	Start    time.Time `json:"-"`
	End      time.Time `json:"-"`
	Interval Interval  `json:"interval"`
	Compare  bool      `json:"compare"`

	// String forms of Start/End for prompts and display.
	StartDate string `json:"start,omitempty"`
	EndDate   string `json:"end,omitempty"`
}

// RSIState classifies the most recent RSI reading.
type RSIState string

const (
	RSIOverbought RSIState = "overbought"
	RSIOversold   RSIState = "oversold"
	RSINeutral    RSIState = "neutral"
	RSIUnknown    RSIState = "unknown"
)

// MACDState classifies the most recent MACD histogram behavior.
type MACDState string

const (
	MACDBullish MACDState = "bullish"
	MACDBearish MACDState = "bearish"
	MACDNeutral MACDState = "neutral"
	MACDUnknown MACDState = "unknown"
)

// BBState classifies the last close relative to the Bollinger Bands.
type BBState string

const (
	BBAboveUpper BBState = "above_upper"
	BBBelowLower BBState = "below_lower"
	BBInside     BBState = "inside"
	BBUnknown    BBState = "unknown"
)

// Metrics is the compact per-ticker numeric digest handed to the narrator.
// Numeric fields are NaN when the underlying series is too short; the
// categorical states degrade to "unknown" in the same situation.
type Metrics struct {
	PeriodStart          string
	PeriodEnd            string
	PeriodReturn         float64
	AnnualizedVolatility float64
	MaxDrawdown          float64
	TrendSlope           float64
	RSIState             RSIState
	MACDState            MACDState
	BBState              BBState
}

// Context renders the metrics as a JSON-safe map, replacing NaN with the
// literal "unavailable" so the digest survives json.Marshal.
func (m Metrics) Context() map[string]any {
	num := func(v float64) any {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return "unavailable"
		}
		return v
	}
	return map[string]any{
		"period_start":          m.PeriodStart,
		"period_end":            m.PeriodEnd,
		"period_return":         num(m.PeriodReturn),
		"annualized_volatility": num(m.AnnualizedVolatility),
		"max_drawdown":          num(m.MaxDrawdown),
		"trend_slope":           num(m.TrendSlope),
		"rsi_state":             string(m.RSIState),
		"macd_state":            string(m.MACDState),
		"bb_state":              string(m.BBState),
	}
}
