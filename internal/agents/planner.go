package agents

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"finsight/internal/errors"
	"finsight/internal/models"
)

// PlannerInput is the context handed to the planning model: the question,
// the resolved window, any metrics computed so far, the log of the previous
// tool batch, and an optional validation hint from a rejected plan.
type PlannerInput struct {
	Question string                    `json:"question"`
	Parsed   models.Parsed             `json:"parsed"`
	Metrics  map[string]map[string]any `json:"metrics,omitempty"`
	ToolLog  []string                  `json:"tool_log,omitempty"`
	Hint     string                    `json:"previous_plan_error,omitempty"`
}

// Planner asks the LLM for the next tool-call plan. Its output is untrusted
// text; the orchestrator validates it before acting.
type Planner struct {
	llm LLMClient
	log zerolog.Logger
}

// NewPlanner creates a planner backed by the given LLM client.
func NewPlanner(llm LLMClient, logger zerolog.Logger) *Planner {
	return &Planner{
		llm: llm,
		log: logger.With().Str("agent", "planner").Logger(),
	}
}

// ProposePlan returns the raw planner output for the current state. A
// transport failure is reported as PlannerUnavailable so the loop can retry
// against the iteration cap.
func (p *Planner) ProposePlan(ctx context.Context, in PlannerInput) (string, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return "", errors.Wrap(err, "marshal planner input")
	}

	prompt := fmt.Sprintf("%s\n\nJSON: %s", PlannerPrompt(), payload)
	raw, err := p.llm.CompleteWithSystem(ctx, SystemPrompt(), prompt)
	if err != nil {
		return "", errors.NewLLMUnavailable(errors.StagePlanner, err)
	}

	p.log.Debug().Int("chars", len(raw)).Msg("planner responded")
	return raw, nil
}
