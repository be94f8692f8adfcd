package indicators

// BollingerBands calculates the middle band (SMA) and upper/lower bands at
// stdDevMul population standard deviations. All three series are NaN for
// the first period-1 points.
func BollingerBands(closes []float64, period int, stdDevMul float64) (middle, upper, lower []float64) {
	n := len(closes)
	middle = nanSeries(n)
	upper = nanSeries(n)
	lower = nanSeries(n)
	if period <= 0 || n < period {
		return middle, upper, lower
	}

	for i := period - 1; i < n; i++ {
		window := closes[i-period+1 : i+1]
		m := mean(window)
		sd := stdDevPop(window)
		middle[i] = m
		upper[i] = m + stdDevMul*sd
		lower[i] = m - stdDevMul*sd
	}
	return middle, upper, lower
}
