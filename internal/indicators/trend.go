package indicators

// SMA calculates the Simple Moving Average of closes. The first period-1
// points are NaN; a series shorter than period is all NaN.
func SMA(closes []float64, period int) []float64 {
	result := nanSeries(len(closes))
	if period <= 0 || len(closes) < period {
		return result
	}
	for i := period - 1; i < len(closes); i++ {
		result[i] = mean(closes[i-period+1 : i+1])
	}
	return result
}

// EMA calculates the Exponential Moving Average of closes with smoothing
// factor 2/(period+1), seeded by the SMA of the first period points. Defined
// from index period-1 onward; NaN before. Leading NaNs in the input are
// skipped so EMA can be applied to derived series such as the MACD line.
func EMA(closes []float64, period int) []float64 {
	result := nanSeries(len(closes))
	if period <= 0 {
		return result
	}

	offset := firstDefined(closes)
	if offset < 0 || len(closes)-offset < period {
		return result
	}

	multiplier := 2.0 / float64(period+1)
	seedEnd := offset + period

	result[seedEnd-1] = mean(closes[offset:seedEnd])
	for i := seedEnd; i < len(closes); i++ {
		result[i] = (closes[i]-result[i-1])*multiplier + result[i-1]
	}
	return result
}

// MACD calculates the Moving Average Convergence Divergence with the
// standard 12/26/9 periods. Returns the MACD line, signal line and
// histogram, each NaN during its warm-up window. The histogram equals
// macd - signal at every index where both are defined.
func MACD(closes []float64) (macd, signal, hist []float64) {
	n := len(closes)
	fastEMA := EMA(closes, 12)
	slowEMA := EMA(closes, 26)

	macd = nanSeries(n)
	for i := 0; i < n; i++ {
		if defined(fastEMA[i]) && defined(slowEMA[i]) {
			macd[i] = fastEMA[i] - slowEMA[i]
		}
	}

	signal = EMA(macd, 9)

	hist = nanSeries(n)
	for i := 0; i < n; i++ {
		if defined(macd[i]) && defined(signal[i]) {
			hist[i] = macd[i] - signal[i]
		}
	}
	return macd, signal, hist
}
