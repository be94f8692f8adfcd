package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterval_Valid(t *testing.T) {
	assert.True(t, IntervalDaily.Valid())
	assert.True(t, IntervalWeekly.Valid())
	assert.True(t, IntervalMonthly.Valid())
	assert.False(t, Interval("4h").Valid())
	assert.False(t, Interval("").Valid())
}

func TestInterval_PeriodsPerYear(t *testing.T) {
	assert.Equal(t, 252.0, IntervalDaily.PeriodsPerYear())
	assert.Equal(t, 52.0, IntervalWeekly.PeriodsPerYear())
	assert.Equal(t, 12.0, IntervalMonthly.PeriodsPerYear())
}

func TestMetrics_ContextRendersNaNAsUnavailable(t *testing.T) {
	m := Metrics{
		PeriodStart:          "2024-01-02",
		PeriodEnd:            "2024-06-28",
		PeriodReturn:         0.12,
		AnnualizedVolatility: math.NaN(),
		MaxDrawdown:          -0.08,
		TrendSlope:           math.Inf(1),
		RSIState:             RSINeutral,
		MACDState:            MACDUnknown,
		BBState:              BBInside,
	}

	ctx := m.Context()

	assert.Equal(t, 0.12, ctx["period_return"])
	assert.Equal(t, "unavailable", ctx["annualized_volatility"])
	assert.Equal(t, "unavailable", ctx["trend_slope"])
	assert.Equal(t, -0.08, ctx["max_drawdown"])
	assert.Equal(t, "neutral", ctx["rsi_state"])
	assert.Equal(t, "unknown", ctx["macd_state"])

	// The digest must survive json.Marshal, which rejects raw NaN.
	_, err := json.Marshal(ctx)
	require.NoError(t, err)
}
