// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrNoQuestion         = errors.New("no question provided")
	ErrIterationExhausted = errors.New("iteration cap reached without a finalize plan")
	ErrRunAborted         = errors.New("run aborted")
	ErrConfigInvalid      = errors.New("invalid configuration")
	ErrNoData             = errors.New("no data for requested window")
)

// UnresolvedIntentError indicates the resolver could not identify any ticker
// in the question. Fatal to the run; the loop never starts.
type UnresolvedIntentError struct {
	Question string
}

func (e *UnresolvedIntentError) Error() string {
	return fmt.Sprintf("unresolved intent: no tickers found in %q", e.Question)
}

// SchemaRule identifies the specific plan-schema rule that was broken.
type SchemaRule string

const (
	RuleMalformedJSON    SchemaRule = "malformed_json"
	RuleMissingAction    SchemaRule = "missing_next_action"
	RuleUnknownAction    SchemaRule = "unknown_next_action"
	RuleMissingToolCalls SchemaRule = "missing_tool_calls"
	RuleEmptyToolCalls   SchemaRule = "empty_tool_calls"
	RuleToolCallsOnFinal SchemaRule = "tool_calls_on_finalize"
	RuleUnknownTool      SchemaRule = "unknown_tool"
	RuleBadArgument      SchemaRule = "bad_argument"
)

// SchemaViolationError indicates planner output that fails plan validation.
// Recoverable: the loop re-prompts with the detail as a hint, counted
// against the iteration cap.
type SchemaViolationError struct {
	Rule   SchemaRule
	Detail string
}

func (e *SchemaViolationError) Error() string {
	return fmt.Sprintf("schema violation [%s]: %s", e.Rule, e.Detail)
}

// NewSchemaViolation creates a SchemaViolationError for the given rule.
func NewSchemaViolation(rule SchemaRule, format string, args ...interface{}) *SchemaViolationError {
	return &SchemaViolationError{
		Rule:   rule,
		Detail: fmt.Sprintf(format, args...),
	}
}

// ToolError represents a per-tool, per-ticker execution failure. Recoverable:
// recorded in state and surfaced to the planner on the next turn.
type ToolError struct {
	Tool    string
	Ticker  string
	Message string
	Err     error
}

func (e *ToolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("tool error [%s] %s: %s: %v", e.Tool, e.Ticker, e.Message, e.Err)
	}
	return fmt.Sprintf("tool error [%s] %s: %s", e.Tool, e.Ticker, e.Message)
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// NewToolError creates a new ToolError.
func NewToolError(tool, ticker, message string, err error) *ToolError {
	return &ToolError{Tool: tool, Ticker: ticker, Message: message, Err: err}
}

// LLMStage names the model call that failed.
type LLMStage string

const (
	StagePlanner  LLMStage = "planner"
	StageNarrator LLMStage = "narrator"
)

// LLMUnavailableError indicates the model call itself failed or timed out.
// Planner failures are retried up to the cap; narrator failures are fatal.
type LLMUnavailableError struct {
	Stage LLMStage
	Err   error
}

func (e *LLMUnavailableError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Stage, e.Err)
}

func (e *LLMUnavailableError) Unwrap() error {
	return e.Err
}

// NewLLMUnavailable creates a new LLMUnavailableError.
func NewLLMUnavailable(stage LLMStage, err error) *LLMUnavailableError {
	return &LLMUnavailableError{Stage: stage, Err: err}
}

// AbortError carries the stage and reason a run ended without an answer.
type AbortError struct {
	Stage  string
	Reason string
	Err    error
}

func (e *AbortError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("run aborted at %s: %s: %v", e.Stage, e.Reason, e.Err)
	}
	return fmt.Sprintf("run aborted at %s: %s", e.Stage, e.Reason)
}

func (e *AbortError) Unwrap() error {
	return e.Err
}

// NewAbort creates a new AbortError.
func NewAbort(stage, reason string, err error) *AbortError {
	return &AbortError{Stage: stage, Reason: reason, Err: err}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
