package intent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finsight/internal/errors"
	"finsight/internal/models"
)

func TestExtractTickers(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "single ticker",
			text: "is NVDA overbought right now?",
			want: []string{"NVDA"},
		},
		{
			name: "lowercase input is uppercased",
			text: "how has aapl performed this quarter?",
			want: []string{"AAPL"},
		},
		{
			name: "two tickers in order of appearance",
			text: "How did AAPL and MSFT perform last month?",
			want: []string{"AAPL", "MSFT"},
		},
		{
			name: "duplicates collapse",
			text: "AAPL again AAPL and once more AAPL",
			want: []string{"AAPL"},
		},
		{
			name: "short symbol requires dollar prefix",
			text: "what happened to $F this week?",
			want: []string{"F"},
		},
		{
			name: "short symbol without prefix is dropped",
			text: "what happened to GM lately?",
			want: nil,
		},
		{
			name: "indicator names are not tickers",
			text: "show me the RSI and MACD for TSLA",
			want: []string{"TSLA"},
		},
		{
			name: "question words are not tickers",
			text: "WHAT SHOULD I CHECK TODAY",
			want: nil,
		},
		{
			name: "no candidates",
			text: "how is the market doing",
			want: nil,
		},
		{
			name: "empty text",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractTickers(tt.text))
		})
	}
}

func TestDetectCompare(t *testing.T) {
	assert.True(t, DetectCompare("NVDA vs AMD", []string{"NVDA", "AMD"}))
	assert.True(t, DetectCompare("compare TSLA to the index", []string{"TSLA"}))
	assert.True(t, DetectCompare("AAPL versus MSFT", []string{"AAPL"}))
	assert.False(t, DetectCompare("how has AAPL done", []string{"AAPL"}))

	// Two tickers imply a comparison even without a keyword.
	assert.True(t, DetectCompare("AAPL MSFT this year", []string{"AAPL", "MSFT"}))
}

func TestResolve(t *testing.T) {
	today := time.Date(2025, 8, 15, 14, 30, 0, 0, time.UTC)

	parsed, err := Resolve("compare NVDA vs AMD over the past year", today)
	require.NoError(t, err)

	assert.Equal(t, []string{"NVDA", "AMD"}, parsed.Tickers)
	assert.True(t, parsed.Compare)
	assert.Equal(t, models.IntervalDaily, parsed.Interval)
	assert.Equal(t, "2024-08-15", parsed.StartDate)
	assert.Equal(t, "2025-08-15", parsed.EndDate)
	assert.Equal(t, parsed.Start.Format("2006-01-02"), parsed.StartDate)
}

func TestResolve_NoTickers(t *testing.T) {
	today := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)

	_, err := Resolve("how is the market doing", today)
	require.Error(t, err)

	var unresolved *errors.UnresolvedIntentError
	require.True(t, errors.As(err, &unresolved))
	assert.Contains(t, unresolved.Question, "market")
}

func TestResolve_Deterministic(t *testing.T) {
	today := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)
	question := "how has AAPL done over the last 3 months?"

	first, err := Resolve(question, today)
	require.NoError(t, err)
	second, err := Resolve(question, today)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
