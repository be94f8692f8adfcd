// Package indicators provides NaN-aware technical indicator calculations
// over ordered close-price series. Every series preserves the input index:
// warm-up points are NaN and NaN propagates through derived values, never
// silently replaced by zero.
package indicators

import (
	"fmt"

	"finsight/internal/models"
)

// ID identifies one computable indicator set.
type ID string

const (
	SMA20  ID = "sma20"
	SMA50  ID = "sma50"
	EMA20  ID = "ema20"
	RSI14  ID = "rsi14"
	MACDID ID = "macd"
	BBands ID = "bbands"
)

// Series column names emitted by the engine.
const (
	ColSMA20      = "sma20"
	ColSMA50      = "sma50"
	ColEMA20      = "ema20"
	ColRSI14      = "rsi14"
	ColMACD       = "macd"
	ColMACDSignal = "macd_signal"
	ColMACDHist   = "macd_hist"
	ColBBMid      = "bb_mid"
	ColBBHigh     = "bb_high"
	ColBBLow      = "bb_low"
)

// All returns every supported indicator ID in computation order.
func All() []ID {
	return []ID{SMA20, SMA50, EMA20, RSI14, MACDID, BBands}
}

// ParseID converts a raw indicator name to an ID.
func ParseID(s string) (ID, bool) {
	switch ID(s) {
	case SMA20, SMA50, EMA20, RSI14, MACDID, BBands:
		return ID(s), true
	}
	return "", false
}

// Engine computes named indicator sets over a candle series. It is
// stateless and deterministic: the same candles and IDs always produce
// identical output.
type Engine struct{}

// NewEngine creates a new indicator engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Compute calculates the requested indicators over the candle closes and
// returns one column per output series, each aligned to the candle index.
// Unknown IDs are rejected; insufficient history yields NaN columns rather
// than an error.
func (e *Engine) Compute(candles []models.Candle, ids []ID) (map[string][]float64, error) {
	closes := closePrices(candles)
	out := make(map[string][]float64, len(ids))

	for _, id := range ids {
		switch id {
		case SMA20:
			out[ColSMA20] = SMA(closes, 20)
		case SMA50:
			out[ColSMA50] = SMA(closes, 50)
		case EMA20:
			out[ColEMA20] = EMA(closes, 20)
		case RSI14:
			out[ColRSI14] = RSI(closes, 14)
		case MACDID:
			macd, signal, hist := MACD(closes)
			out[ColMACD] = macd
			out[ColMACDSignal] = signal
			out[ColMACDHist] = hist
		case BBands:
			mid, high, low := BollingerBands(closes, 20, 2.0)
			out[ColBBMid] = mid
			out[ColBBHigh] = high
			out[ColBBLow] = low
		default:
			return nil, fmt.Errorf("unknown indicator: %s", id)
		}
	}
	return out, nil
}
