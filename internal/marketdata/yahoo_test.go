package marketdata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"finsight/internal/models"
)

func candleAt(t time.Time, close float64) models.Candle {
	return models.Candle{Date: t, Close: close}
}

func TestNormalizeSeries(t *testing.T) {
	d1 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	d3 := time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)

	candles := []models.Candle{candleAt(d3, 3), candleAt(d1, 1), candleAt(d2, 2)}
	normalizeSeries(candles)

	assert.Equal(t, []float64{1, 2, 3}, []float64{candles[0].Close, candles[1].Close, candles[2].Close})
}

func TestDedupeDates(t *testing.T) {
	d1 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	d1Later := time.Date(2024, 1, 2, 15, 30, 0, 0, time.UTC)
	d2 := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)

	candles := dedupeDates([]models.Candle{candleAt(d1, 1), candleAt(d1Later, 99), candleAt(d2, 2)})

	// First occurrence per calendar date wins.
	assert.Len(t, candles, 2)
	assert.Equal(t, 1.0, candles[0].Close)
	assert.Equal(t, 2.0, candles[1].Close)
}

func TestDedupeDates_ShortSeries(t *testing.T) {
	assert.Empty(t, dedupeDates(nil))

	one := []models.Candle{candleAt(time.Now(), 1)}
	assert.Len(t, dedupeDates(one), 1)
}
