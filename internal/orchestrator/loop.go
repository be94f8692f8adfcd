package orchestrator

import (
	"context"

	"github.com/rs/zerolog"

	"finsight/internal/agents"
	"finsight/internal/errors"
	"finsight/internal/plan"
)

// DefaultMaxIterations caps planner invocations per question.
const DefaultMaxIterations = 3

// Loop is the orchestration state machine. It alternates PLANNING and
// EXECUTING until a terminal plan is produced or the iteration cap is hit,
// then narrates. It performs at most MaxIterations planner invocations and
// always terminates in DONE or ABORTED, regardless of planner behavior.
type Loop struct {
	planner    *agents.Planner
	narrator   *agents.Narrator
	dispatcher *Dispatcher
	maxIter    int
	log        zerolog.Logger
}

// NewLoop creates the orchestration loop. maxIter <= 0 selects the default
// cap of 3 planner invocations.
func NewLoop(planner *agents.Planner, narrator *agents.Narrator, dispatcher *Dispatcher, maxIter int, logger zerolog.Logger) *Loop {
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}
	return &Loop{
		planner:    planner,
		narrator:   narrator,
		dispatcher: dispatcher,
		maxIter:    maxIter,
		log:        logger.With().Str("component", "loop").Logger(),
	}
}

// Run drives the state machine for one question. On DONE the state's
// FinalAnswer is set and the returned error is nil; on ABORTED the error
// names the stage that failed. The state is owned by the loop until Run
// returns.
func (l *Loop) Run(ctx context.Context, st *ConversationState) (Phase, error) {
	phase := PhasePlanning
	var current *plan.Plan
	var hint string

	for {
		switch phase {
		case PhasePlanning:
			if err := ctx.Err(); err != nil {
				return PhaseAborted, errors.NewAbort("planning", "canceled", err)
			}

			// Cap check: after maxIter planner invocations, finalize with
			// whatever metrics exist instead of dropping the question.
			if st.Iteration >= l.maxIter {
				l.log.Warn().Int("iterations", st.Iteration).
					Msg("iteration cap reached, forcing finalize")
				phase = PhaseFinalizing
				continue
			}

			st.Iteration++
			raw, err := l.planner.ProposePlan(ctx, agents.PlannerInput{
				Question: st.Question,
				Parsed:   st.Parsed,
				Metrics:  st.MetricsContext(),
				ToolLog:  st.ToolLog,
				Hint:     hint,
			})
			if err != nil {
				l.log.Warn().Err(err).Int("iteration", st.Iteration).Msg("planner call failed")
				if st.Iteration >= l.maxIter {
					return PhaseAborted, errors.NewAbort("planning", "planner exhausted retries", err)
				}
				hint = "the previous planner call failed, please answer again"
				continue
			}

			p, err := plan.Parse(raw)
			if err != nil {
				l.log.Warn().Err(err).Int("iteration", st.Iteration).Msg("plan rejected")
				if st.Iteration >= l.maxIter {
					return PhaseAborted, errors.NewAbort("planning", "planner exhausted retries", err)
				}
				hint = err.Error()
				continue
			}
			hint = ""

			if p.NextAction == plan.ActionFinalize {
				l.log.Debug().Int("iteration", st.Iteration).Msg("planner finalized")
				phase = PhaseFinalizing
				continue
			}
			l.log.Debug().Int("iteration", st.Iteration).
				Int("tool_calls", len(p.ToolCalls)).Msg("plan accepted")
			current = p
			phase = PhaseExecuting

		case PhaseExecuting:
			st.ToolLog = l.dispatcher.Execute(ctx, st, current.ToolCalls)
			for _, line := range st.ToolLog {
				l.log.Debug().Str("tool_log", line).Msg("tool executed")
			}
			current = nil
			phase = PhasePlanning

		case PhaseFinalizing:
			answer, err := l.narrator.Narrate(ctx, st.Question, st.Parsed, st.Metrics)
			if err != nil {
				// No narrative can be produced without the narrator.
				return PhaseAborted, errors.NewAbort("narration", "narrator unavailable", err)
			}
			st.FinalAnswer = answer
			l.log.Info().Int("iterations", st.Iteration).Msg("run complete")
			return PhaseDone, nil
		}
	}
}
