// Package plan defines the schema the planner must emit and validates
// untrusted planner output against it before any tool is executed.
package plan

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"finsight/internal/errors"
	"finsight/internal/indicators"
	"finsight/internal/models"
)

// NextAction is the planner's top-level decision.
type NextAction string

const (
	ActionCallTools NextAction = "CALL_TOOLS"
	ActionFinalize  NextAction = "FINALIZE"
)

// ToolName identifies one of the three declared tools.
type ToolName string

const (
	ToolFetchPrices       ToolName = "fetch_prices"
	ToolComputeIndicators ToolName = "compute_indicators"
	ToolSummarizeMetrics  ToolName = "summarize_metrics"
)

// MaxTickersPerCall bounds the ticker list of a single fetch_prices call.
const MaxTickersPerCall = 5

// FetchPricesArgs are the validated arguments of a fetch_prices call.
type FetchPricesArgs struct {
	Tickers  []string `json:"tickers"`
	Start    string   `json:"start,omitempty"`
	End      string   `json:"end,omitempty"`
	Interval string   `json:"interval,omitempty"`
}

// ComputeIndicatorsArgs are the validated arguments of a compute_indicators
// call. Empty Indicators means all supported indicators; empty Tickers means
// every ticker with price data.
type ComputeIndicatorsArgs struct {
	Tickers    []string `json:"tickers,omitempty"`
	Indicators []string `json:"indicators,omitempty"`
}

// SummarizeMetricsArgs are the validated arguments of a summarize_metrics
// call.
type SummarizeMetricsArgs struct {
	Tickers  []string `json:"tickers,omitempty"`
	Interval string   `json:"interval,omitempty"`
}

// ToolCall is one declared, named, schema-checked operation. Exactly one of
// the typed argument fields is populated after validation, matching Name.
type ToolCall struct {
	Name ToolName        `json:"name"`
	Args json.RawMessage `json:"args"`

	FetchPrices       *FetchPricesArgs       `json:"-"`
	ComputeIndicators *ComputeIndicatorsArgs `json:"-"`
	SummarizeMetrics  *SummarizeMetricsArgs  `json:"-"`
}

// Plan is the planner's validated output.
type Plan struct {
	NextAction NextAction `json:"next_action"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
}

// Parse parses raw planner output and validates it against the plan schema.
// Any violation is returned as a SchemaViolationError classified by the
// specific rule broken.
func Parse(raw string) (*Plan, error) {
	cleaned := stripFences(raw)

	var p Plan
	if err := json.Unmarshal([]byte(cleaned), &p); err != nil {
		return nil, errors.NewSchemaViolation(errors.RuleMalformedJSON, "plan is not valid JSON: %v", err)
	}
	if err := validate(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// stripFences removes a surrounding markdown code fence if the model added
// one despite the JSON-only instruction.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

func validate(p *Plan) error {
	switch p.NextAction {
	case "":
		return errors.NewSchemaViolation(errors.RuleMissingAction, "missing required field 'next_action'")
	case ActionCallTools, ActionFinalize:
	default:
		return errors.NewSchemaViolation(errors.RuleUnknownAction,
			"next_action must be CALL_TOOLS or FINALIZE, got %q", p.NextAction)
	}

	if p.NextAction == ActionFinalize {
		if len(p.ToolCalls) > 0 {
			return errors.NewSchemaViolation(errors.RuleToolCallsOnFinal,
				"tool_calls must be empty when next_action is FINALIZE")
		}
		return nil
	}

	if p.ToolCalls == nil {
		return errors.NewSchemaViolation(errors.RuleMissingToolCalls,
			"tool_calls required when next_action is CALL_TOOLS")
	}
	if len(p.ToolCalls) == 0 {
		return errors.NewSchemaViolation(errors.RuleEmptyToolCalls,
			"tool_calls cannot be empty when next_action is CALL_TOOLS")
	}

	for i := range p.ToolCalls {
		if err := validateToolCall(&p.ToolCalls[i], i); err != nil {
			return err
		}
	}
	return nil
}

// validateToolCall decodes the raw args into the variant struct for the
// named tool and checks its constraints. Unknown argument keys are rejected.
func validateToolCall(tc *ToolCall, idx int) error {
	switch tc.Name {
	case ToolFetchPrices:
		var args FetchPricesArgs
		if err := decodeArgs(tc.Args, &args); err != nil {
			return errors.NewSchemaViolation(errors.RuleBadArgument,
				"tool_calls[%d] fetch_prices: %v", idx, err)
		}
		if err := validateFetchPrices(&args); err != nil {
			return errors.NewSchemaViolation(errors.RuleBadArgument,
				"tool_calls[%d] fetch_prices: %v", idx, err)
		}
		tc.FetchPrices = &args

	case ToolComputeIndicators:
		var args ComputeIndicatorsArgs
		if err := decodeArgs(tc.Args, &args); err != nil {
			return errors.NewSchemaViolation(errors.RuleBadArgument,
				"tool_calls[%d] compute_indicators: %v", idx, err)
		}
		for _, name := range args.Indicators {
			if _, ok := indicators.ParseID(name); !ok {
				return errors.NewSchemaViolation(errors.RuleBadArgument,
					"tool_calls[%d] compute_indicators: unknown indicator %q", idx, name)
			}
		}
		tc.ComputeIndicators = &args

	case ToolSummarizeMetrics:
		var args SummarizeMetricsArgs
		if err := decodeArgs(tc.Args, &args); err != nil {
			return errors.NewSchemaViolation(errors.RuleBadArgument,
				"tool_calls[%d] summarize_metrics: %v", idx, err)
		}
		if args.Interval != "" && !models.Interval(args.Interval).Valid() {
			return errors.NewSchemaViolation(errors.RuleBadArgument,
				"tool_calls[%d] summarize_metrics: interval must be 1d/1wk/1mo, got %q", idx, args.Interval)
		}
		tc.SummarizeMetrics = &args

	case "":
		return errors.NewSchemaViolation(errors.RuleUnknownTool,
			"tool_calls[%d]: missing required field 'name'", idx)
	default:
		return errors.NewSchemaViolation(errors.RuleUnknownTool,
			"tool_calls[%d]: unknown tool name %q", idx, tc.Name)
	}
	return nil
}

func decodeArgs(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func validateFetchPrices(args *FetchPricesArgs) error {
	if len(args.Tickers) == 0 {
		return fmt.Errorf("tickers must be a non-empty list")
	}
	if len(args.Tickers) > MaxTickersPerCall {
		return fmt.Errorf("tickers exceeds %d (got %d)", MaxTickersPerCall, len(args.Tickers))
	}
	for _, t := range args.Tickers {
		if strings.TrimSpace(t) == "" {
			return fmt.Errorf("tickers must not contain empty strings")
		}
	}
	if args.Interval != "" && !models.Interval(args.Interval).Valid() {
		return fmt.Errorf("interval must be 1d/1wk/1mo, got %q", args.Interval)
	}

	var start, end time.Time
	var err error
	if args.Start != "" {
		if start, err = time.Parse("2006-01-02", args.Start); err != nil {
			return fmt.Errorf("start must be YYYY-MM-DD, got %q", args.Start)
		}
	}
	if args.End != "" {
		if end, err = time.Parse("2006-01-02", args.End); err != nil {
			return fmt.Errorf("end must be YYYY-MM-DD, got %q", args.End)
		}
	}
	if !start.IsZero() && !end.IsZero() && start.After(end) {
		return fmt.Errorf("start %s is after end %s", args.Start, args.End)
	}
	return nil
}
