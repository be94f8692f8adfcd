package agents

import (
	"context"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finsight/internal/errors"
	"finsight/internal/models"
)

type scriptedLLM struct {
	response string
	err      error
	system   string
	prompt   string
}

func (s *scriptedLLM) Complete(ctx context.Context, prompt string) (string, error) {
	return s.CompleteWithSystem(ctx, "", prompt)
}

func (s *scriptedLLM) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	s.system = systemPrompt
	s.prompt = userPrompt
	return s.response, s.err
}

func TestPlannerPrompt_NamesEveryTool(t *testing.T) {
	prompt := PlannerPrompt()

	assert.Contains(t, prompt, "fetch_prices")
	assert.Contains(t, prompt, "compute_indicators")
	assert.Contains(t, prompt, "summarize_metrics")
	assert.Contains(t, prompt, "rsi14")
	assert.Contains(t, prompt, "bbands")
	assert.Contains(t, prompt, "FINALIZE")
}

func TestPlanner_ProposePlanForwardsContext(t *testing.T) {
	llm := &scriptedLLM{response: `{"next_action":"FINALIZE"}`}
	planner := NewPlanner(llm, zerolog.Nop())

	raw, err := planner.ProposePlan(context.Background(), PlannerInput{
		Question: "how has AAPL done?",
		Parsed:   models.Parsed{Tickers: []string{"AAPL"}, Interval: models.IntervalDaily},
		ToolLog:  []string{"fetch_prices AAPL: 120 rows"},
		Hint:     "previous plan was rejected",
	})

	require.NoError(t, err)
	assert.Equal(t, `{"next_action":"FINALIZE"}`, raw)
	assert.Contains(t, llm.prompt, "how has AAPL done?")
	assert.Contains(t, llm.prompt, "fetch_prices AAPL: 120 rows")
	assert.Contains(t, llm.prompt, "previous plan was rejected")
	assert.NotEmpty(t, llm.system)
}

func TestPlanner_TransportErrorClassified(t *testing.T) {
	llm := &scriptedLLM{err: fmt.Errorf("dial tcp: timeout")}
	planner := NewPlanner(llm, zerolog.Nop())

	_, err := planner.ProposePlan(context.Background(), PlannerInput{Question: "q"})
	require.Error(t, err)

	var unavailable *errors.LLMUnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.Equal(t, errors.StagePlanner, unavailable.Stage)
}

func TestNarrator_SendsDigestsNotSeries(t *testing.T) {
	llm := &scriptedLLM{response: "  AAPL gained 12% over the window.  "}
	narrator := NewNarrator(llm, zerolog.Nop())

	metrics := map[string]models.Metrics{
		"AAPL": {
			PeriodStart:  "2024-01-02",
			PeriodEnd:    "2024-06-28",
			PeriodReturn: 0.12,
			TrendSlope:   math.NaN(),
			RSIState:     models.RSIOverbought,
			MACDState:    models.MACDBullish,
			BBState:      models.BBInside,
		},
	}

	answer, err := narrator.Narrate(context.Background(), "how has AAPL done?", models.Parsed{Tickers: []string{"AAPL"}}, metrics)
	require.NoError(t, err)
	assert.Equal(t, "AAPL gained 12% over the window.", answer)

	assert.Contains(t, llm.prompt, "overbought")
	assert.Contains(t, llm.prompt, "unavailable")
	assert.Contains(t, llm.prompt, "2024-06-28")

	// The digest is compact; a raw series would blow the prompt up.
	assert.Less(t, len(llm.prompt), 3000)
	assert.False(t, strings.Contains(llm.prompt, "Volume"))
}

func TestNarrator_FailureClassified(t *testing.T) {
	llm := &scriptedLLM{err: fmt.Errorf("rate limited")}
	narrator := NewNarrator(llm, zerolog.Nop())

	_, err := narrator.Narrate(context.Background(), "q", models.Parsed{}, nil)
	require.Error(t, err)

	var unavailable *errors.LLMUnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.Equal(t, errors.StageNarrator, unavailable.Stage)
}
