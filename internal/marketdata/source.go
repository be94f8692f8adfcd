// Package marketdata provides OHLCV price sources.
package marketdata

import (
	"context"
	"time"

	"finsight/internal/models"
)

// Source fetches an ordered OHLCV series for one ticker. An empty result is
// valid, not an error: delisted or unknown tickers simply have no data for
// the window.
type Source interface {
	Fetch(ctx context.Context, ticker string, start, end time.Time, interval models.Interval) ([]models.Candle, error)
}
