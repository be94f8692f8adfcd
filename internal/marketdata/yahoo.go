package marketdata

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"finsight/internal/errors"
	"finsight/internal/models"
	"finsight/pkg/utils"
)

// YahooSource fetches OHLCV candles from the Yahoo Finance chart API.
type YahooSource struct {
	retry utils.RetryConfig
	log   zerolog.Logger
}

// NewYahooSource creates a Yahoo Finance price source.
func NewYahooSource(logger zerolog.Logger) *YahooSource {
	return &YahooSource{
		retry: utils.DefaultRetryConfig(),
		log:   logger.With().Str("component", "yahoo").Logger(),
	}
}

// Fetch downloads the candle series for one ticker over [start, end] at the
// given interval. Rows are returned sorted by date with duplicate dates
// dropped. An empty series is a valid result.
func (y *YahooSource) Fetch(ctx context.Context, ticker string, start, end time.Time, interval models.Interval) ([]models.Candle, error) {
	symbol := strings.ToUpper(strings.TrimSpace(ticker))
	if symbol == "" {
		return nil, errors.NewToolError("fetch_prices", ticker, "empty ticker", nil)
	}

	params := &chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.Interval(interval),
	}

	candles, err := utils.RetryWithResult(ctx, y.retry, func() ([]models.Candle, error) {
		iter := chart.Get(params)
		var rows []models.Candle
		for iter.Next() {
			bar := iter.Bar()
			rows = append(rows, models.Candle{
				Date:   time.Unix(int64(bar.Timestamp), 0).UTC(),
				Open:   decToFloat(bar.Open),
				High:   decToFloat(bar.High),
				Low:    decToFloat(bar.Low),
				Close:  decToFloat(bar.Close),
				Volume: int64(bar.Volume),
			})
		}
		if err := iter.Err(); err != nil {
			return nil, err
		}
		return rows, nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "yahoo fetch failed for %s", symbol)
	}

	normalizeSeries(candles)
	candles = dedupeDates(candles)

	y.log.Debug().Str("ticker", symbol).Int("rows", len(candles)).
		Time("start", start).Time("end", end).Str("interval", string(interval)).
		Msg("fetched price series")
	return candles, nil
}

// decToFloat converts a finance-go decimal price to float64.
func decToFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

// normalizeSeries sorts candles by date ascending.
func normalizeSeries(candles []models.Candle) {
	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Date.Before(candles[j].Date)
	})
}

// dedupeDates drops rows that repeat the previous calendar date, keeping the
// first occurrence. The series index must be strictly increasing.
func dedupeDates(candles []models.Candle) []models.Candle {
	if len(candles) < 2 {
		return candles
	}
	out := candles[:1]
	for _, c := range candles[1:] {
		prev := out[len(out)-1]
		if c.Date.Format("2006-01-02") == prev.Date.Format("2006-01-02") {
			continue
		}
		out = append(out, c)
	}
	return out
}
