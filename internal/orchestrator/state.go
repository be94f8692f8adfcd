// Package orchestrator implements the plan-execute-narrate control loop:
// a finite-state machine that alternates between a planning model and
// deterministic tool execution until a terminal answer is produced.
package orchestrator

import (
	"finsight/internal/models"
)

// Phase is the loop's control state.
type Phase string

const (
	PhasePlanning   Phase = "PLANNING"
	PhaseExecuting  Phase = "EXECUTING"
	PhaseFinalizing Phase = "FINALIZING"
	PhaseDone       Phase = "DONE"
	PhaseAborted    Phase = "ABORTED"
)

// ConversationState is the mutable record threaded through one question's
// loop. The loop owns it exclusively for the duration of the run; nothing
// outlives the run.
type ConversationState struct {
	// Question is the original user text. Immutable after creation.
	Question string

	// Parsed is set once by the intent resolver before the loop starts and
	// read-only thereafter.
	Parsed models.Parsed

	// Iteration counts planner invocations. Invariant: Iteration <= MaxIter.
	Iteration int

	// PriceData maps ticker to its ordered OHLCV series. A present, empty
	// series means a fetch was attempted and returned no rows.
	PriceData map[string][]models.Candle

	// Indicators maps ticker to indicator column to a series aligned with
	// PriceData[ticker]; warm-up points are NaN.
	Indicators map[string]map[string][]float64

	// Metrics maps ticker to its compact summary record.
	Metrics map[string]models.Metrics

	// ToolLog is the compact success/failure log of the most recent tool
	// batch, surfaced to the planner on its next turn.
	ToolLog []string

	// FinalAnswer is set once by the narrator; after that the loop is
	// terminal.
	FinalAnswer string
}

// NewConversationState creates the state for one question with the resolved
// intent already populated.
func NewConversationState(question string, parsed models.Parsed) *ConversationState {
	return &ConversationState{
		Question:   question,
		Parsed:     parsed,
		PriceData:  make(map[string][]models.Candle),
		Indicators: make(map[string]map[string][]float64),
		Metrics:    make(map[string]models.Metrics),
	}
}

// MetricsContext renders every ticker's metrics as JSON-safe maps for the
// planner prompt.
func (s *ConversationState) MetricsContext() map[string]map[string]any {
	if len(s.Metrics) == 0 {
		return nil
	}
	out := make(map[string]map[string]any, len(s.Metrics))
	for ticker, m := range s.Metrics {
		out[ticker] = m.Context()
	}
	return out
}
