package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finsight/internal/errors"
)

func TestParse_ValidPlans(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "finalize without tool calls",
			raw:  `{"next_action":"FINALIZE"}`,
		},
		{
			name: "finalize with empty tool calls",
			raw:  `{"next_action":"FINALIZE","tool_calls":[]}`,
		},
		{
			name: "full three-step plan",
			raw: `{"next_action":"CALL_TOOLS","tool_calls":[
				{"name":"fetch_prices","args":{"tickers":["AAPL"],"start":"2024-01-01","end":"2024-03-31","interval":"1d"}},
				{"name":"compute_indicators","args":{"indicators":["sma20","rsi14","macd"]}},
				{"name":"summarize_metrics","args":{}}
			]}`,
		},
		{
			name: "fetch without dates",
			raw:  `{"next_action":"CALL_TOOLS","tool_calls":[{"name":"fetch_prices","args":{"tickers":["MSFT","NVDA"]}}]}`,
		},
		{
			name: "markdown fenced json",
			raw:  "```json\n{\"next_action\":\"FINALIZE\"}\n```",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Parse(tt.raw)
			require.NoError(t, err)
			require.NotNil(t, p)
		})
	}
}

func TestParse_DecodesArgVariants(t *testing.T) {
	raw := `{"next_action":"CALL_TOOLS","tool_calls":[
		{"name":"fetch_prices","args":{"tickers":["AAPL"],"interval":"1wk"}},
		{"name":"compute_indicators","args":{"indicators":["bbands"],"tickers":["AAPL"]}},
		{"name":"summarize_metrics","args":{"interval":"1wk"}}
	]}`

	p, err := Parse(raw)
	require.NoError(t, err)
	require.Len(t, p.ToolCalls, 3)

	require.NotNil(t, p.ToolCalls[0].FetchPrices)
	assert.Equal(t, []string{"AAPL"}, p.ToolCalls[0].FetchPrices.Tickers)
	assert.Equal(t, "1wk", p.ToolCalls[0].FetchPrices.Interval)
	assert.Nil(t, p.ToolCalls[0].ComputeIndicators)

	require.NotNil(t, p.ToolCalls[1].ComputeIndicators)
	assert.Equal(t, []string{"bbands"}, p.ToolCalls[1].ComputeIndicators.Indicators)

	require.NotNil(t, p.ToolCalls[2].SummarizeMetrics)
	assert.Equal(t, "1wk", p.ToolCalls[2].SummarizeMetrics.Interval)
}

func TestParse_Violations(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		rule errors.SchemaRule
	}{
		{
			name: "not json at all",
			raw:  "I think we should fetch some prices first.",
			rule: errors.RuleMalformedJSON,
		},
		{
			name: "missing next_action",
			raw:  `{"tool_calls":[]}`,
			rule: errors.RuleMissingAction,
		},
		{
			name: "unknown next_action",
			raw:  `{"next_action":"PONDER"}`,
			rule: errors.RuleUnknownAction,
		},
		{
			name: "call_tools without tool_calls",
			raw:  `{"next_action":"CALL_TOOLS"}`,
			rule: errors.RuleMissingToolCalls,
		},
		{
			name: "call_tools with empty tool_calls",
			raw:  `{"next_action":"CALL_TOOLS","tool_calls":[]}`,
			rule: errors.RuleEmptyToolCalls,
		},
		{
			name: "finalize with tool_calls",
			raw:  `{"next_action":"FINALIZE","tool_calls":[{"name":"summarize_metrics","args":{}}]}`,
			rule: errors.RuleToolCallsOnFinal,
		},
		{
			name: "unknown tool name",
			raw:  `{"next_action":"CALL_TOOLS","tool_calls":[{"name":"buy_stock","args":{}}]}`,
			rule: errors.RuleUnknownTool,
		},
		{
			name: "tool call without name",
			raw:  `{"next_action":"CALL_TOOLS","tool_calls":[{"args":{}}]}`,
			rule: errors.RuleUnknownTool,
		},
		{
			name: "fetch without tickers",
			raw:  `{"next_action":"CALL_TOOLS","tool_calls":[{"name":"fetch_prices","args":{}}]}`,
			rule: errors.RuleBadArgument,
		},
		{
			name: "fetch with too many tickers",
			raw:  `{"next_action":"CALL_TOOLS","tool_calls":[{"name":"fetch_prices","args":{"tickers":["A1","B2","C3","D4","E5","F6"]}}]}`,
			rule: errors.RuleBadArgument,
		},
		{
			name: "fetch with bad interval",
			raw:  `{"next_action":"CALL_TOOLS","tool_calls":[{"name":"fetch_prices","args":{"tickers":["AAPL"],"interval":"4h"}}]}`,
			rule: errors.RuleBadArgument,
		},
		{
			name: "fetch with start after end",
			raw:  `{"next_action":"CALL_TOOLS","tool_calls":[{"name":"fetch_prices","args":{"tickers":["AAPL"],"start":"2024-06-01","end":"2024-01-01"}}]}`,
			rule: errors.RuleBadArgument,
		},
		{
			name: "fetch with unparseable date",
			raw:  `{"next_action":"CALL_TOOLS","tool_calls":[{"name":"fetch_prices","args":{"tickers":["AAPL"],"start":"June 1st"}}]}`,
			rule: errors.RuleBadArgument,
		},
		{
			name: "fetch with unknown argument key",
			raw:  `{"next_action":"CALL_TOOLS","tool_calls":[{"name":"fetch_prices","args":{"tickers":["AAPL"],"leverage":10}}]}`,
			rule: errors.RuleBadArgument,
		},
		{
			name: "compute with unknown indicator",
			raw:  `{"next_action":"CALL_TOOLS","tool_calls":[{"name":"compute_indicators","args":{"indicators":["ichimoku"]}}]}`,
			rule: errors.RuleBadArgument,
		},
		{
			name: "summarize with bad interval",
			raw:  `{"next_action":"CALL_TOOLS","tool_calls":[{"name":"summarize_metrics","args":{"interval":"hourly"}}]}`,
			rule: errors.RuleBadArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Parse(tt.raw)
			require.Error(t, err)
			assert.Nil(t, p)

			var violation *errors.SchemaViolationError
			require.True(t, errors.As(err, &violation), "expected SchemaViolationError, got %T", err)
			assert.Equal(t, tt.rule, violation.Rule)
		})
	}
}
