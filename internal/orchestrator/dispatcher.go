package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"finsight/internal/indicators"
	"finsight/internal/marketdata"
	"finsight/internal/metrics"
	"finsight/internal/models"
	"finsight/internal/plan"
)

// Dispatcher executes validated tool calls against the conversation state.
// Tool calls run synchronously in declared order because later calls depend
// on state produced by earlier ones. Partial failures are recorded as
// warnings, never escalated: the planner sees them on its next turn.
type Dispatcher struct {
	source marketdata.Source
	engine *indicators.Engine
	log    zerolog.Logger
}

// NewDispatcher creates a dispatcher over the given price source.
func NewDispatcher(source marketdata.Source, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		source: source,
		engine: indicators.NewEngine(),
		log:    logger.With().Str("component", "dispatcher").Logger(),
	}
}

// Execute runs each tool call in order, mutating the state in place, and
// returns a compact log of what succeeded and failed.
func (d *Dispatcher) Execute(ctx context.Context, st *ConversationState, calls []plan.ToolCall) []string {
	var logLines []string
	for _, tc := range calls {
		switch tc.Name {
		case plan.ToolFetchPrices:
			logLines = append(logLines, d.fetchPrices(ctx, st, tc.FetchPrices)...)
		case plan.ToolComputeIndicators:
			logLines = append(logLines, d.computeIndicators(st, tc.ComputeIndicators)...)
		case plan.ToolSummarizeMetrics:
			logLines = append(logLines, d.summarizeMetrics(st, tc.SummarizeMetrics)...)
		}
	}
	return logLines
}

// fetchPrices downloads a series per ticker. A ticker with no data gets an
// empty series and a warning rather than failing the whole call; a ticker
// already present is overwritten with the latest fetch.
func (d *Dispatcher) fetchPrices(ctx context.Context, st *ConversationState, args *plan.FetchPricesArgs) []string {
	start, end := st.Parsed.Start, st.Parsed.End
	if args.Start != "" {
		start, _ = time.Parse("2006-01-02", args.Start)
	}
	if args.End != "" {
		end, _ = time.Parse("2006-01-02", args.End)
	}
	interval := st.Parsed.Interval
	if args.Interval != "" {
		interval = models.Interval(args.Interval)
	}

	var lines []string
	for _, ticker := range args.Tickers {
		candles, err := d.source.Fetch(ctx, ticker, start, end, interval)
		if err != nil {
			if _, present := st.PriceData[ticker]; !present {
				st.PriceData[ticker] = nil
			}
			d.log.Warn().Err(err).Str("ticker", ticker).Msg("price fetch failed")
			lines = append(lines, fmt.Sprintf("fetch_prices %s: failed: %v", ticker, err))
			continue
		}
		st.PriceData[ticker] = candles
		if len(candles) == 0 {
			lines = append(lines, fmt.Sprintf("fetch_prices %s: no data for window", ticker))
			continue
		}
		lines = append(lines, fmt.Sprintf("fetch_prices %s: %d rows", ticker, len(candles)))
	}
	return lines
}

// computeIndicators merges the requested indicator series into the state
// for every targeted ticker that has price data.
func (d *Dispatcher) computeIndicators(st *ConversationState, args *plan.ComputeIndicatorsArgs) []string {
	ids := indicators.All()
	if len(args.Indicators) > 0 {
		ids = ids[:0]
		for _, name := range args.Indicators {
			if id, ok := indicators.ParseID(name); ok {
				ids = append(ids, id)
			}
		}
	}

	var lines []string
	for _, ticker := range d.targetTickers(st, args.Tickers) {
		candles, present := st.PriceData[ticker]
		if !present {
			lines = append(lines, fmt.Sprintf("compute_indicators %s: skipped, no price data", ticker))
			continue
		}
		if len(candles) == 0 {
			lines = append(lines, fmt.Sprintf("compute_indicators %s: skipped, empty series", ticker))
			continue
		}

		columns, err := d.engine.Compute(candles, ids)
		if err != nil {
			lines = append(lines, fmt.Sprintf("compute_indicators %s: failed: %v", ticker, err))
			continue
		}
		if st.Indicators[ticker] == nil {
			st.Indicators[ticker] = make(map[string][]float64, len(columns))
		}
		for col, series := range columns {
			st.Indicators[ticker][col] = series
		}
		lines = append(lines, fmt.Sprintf("compute_indicators %s: %d series", ticker, len(columns)))
	}
	return lines
}

// summarizeMetrics computes the per-ticker summary record. Missing pieces
// degrade fields to unavailable/unknown rather than failing.
func (d *Dispatcher) summarizeMetrics(st *ConversationState, args *plan.SummarizeMetricsArgs) []string {
	interval := st.Parsed.Interval
	if args.Interval != "" {
		interval = models.Interval(args.Interval)
	}

	var lines []string
	for _, ticker := range d.targetTickers(st, args.Tickers) {
		candles, present := st.PriceData[ticker]
		if !present {
			lines = append(lines, fmt.Sprintf("summarize_metrics %s: skipped, no price data", ticker))
			continue
		}
		st.Metrics[ticker] = metrics.Summarize(candles, st.Indicators[ticker], interval)
		if len(candles) == 0 {
			lines = append(lines, fmt.Sprintf("summarize_metrics %s: no data, metrics unavailable", ticker))
			continue
		}
		lines = append(lines, fmt.Sprintf("summarize_metrics %s: ok", ticker))
	}
	return lines
}

// targetTickers returns the explicit ticker list, or every ticker with
// price data in deterministic order when the list is empty.
func (d *Dispatcher) targetTickers(st *ConversationState, explicit []string) []string {
	if len(explicit) > 0 {
		return explicit
	}
	tickers := make([]string, 0, len(st.PriceData))
	for t := range st.PriceData {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	return tickers
}
