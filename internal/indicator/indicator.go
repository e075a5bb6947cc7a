// Package indicator implements the technical indicators used by the
// analyzers. All functions are pure and operate on close-price slices.
// Warm-up regions where a value is mathematically undefined are NaN,
// never zero, so downstream rules can skip them explicitly.
package indicator

import "math"

// Undefined marks positions where an indicator has no value yet.
func Undefined() float64 { return math.NaN() }

// Defined reports whether v carries a real indicator value.
func Defined(v float64) bool { return !math.IsNaN(v) }

// SMA computes a simple moving average. The first window-1 positions
// are NaN. Returns nil when the window is invalid for the input.
func SMA(values []float64, window int) []float64 {
	if window <= 0 || len(values) < window {
		return nil
	}
	out := make([]float64, len(values))
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// EMA computes an exponential moving average with alpha = 2/(span+1),
// seeded from the first value. Defined for every position.
func EMA(values []float64, span int) []float64 {
	if span <= 0 || len(values) == 0 {
		return nil
	}
	alpha := 2.0 / float64(span+1)
	out := make([]float64, len(values))
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// RSI computes the relative strength index over the given period using
// rolling means of gains and losses. Positions before the first full
// window are NaN. When the average loss is zero RSI is exactly 100.
func RSI(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period+1 {
		return nil
	}
	gains := make([]float64, len(values))
	losses := make([]float64, len(values))
	for i := 1; i < len(values); i++ {
		delta := values[i] - values[i-1]
		if delta > 0 {
			gains[i] = delta
		} else {
			losses[i] = -delta
		}
	}
	avgGain := SMA(gains[1:], period)
	avgLoss := SMA(losses[1:], period)

	out := make([]float64, len(values))
	out[0] = math.NaN()
	for i := 1; i < len(values); i++ {
		g, l := avgGain[i-1], avgLoss[i-1]
		if math.IsNaN(g) || math.IsNaN(l) {
			out[i] = math.NaN()
			continue
		}
		if l == 0 {
			out[i] = 100
			continue
		}
		rs := g / l
		out[i] = 100 - 100/(1+rs)
	}
	return out
}

// MACD computes the MACD line (fast EMA minus slow EMA), its signal
// line (EMA of the MACD line) and the histogram.
func MACD(values []float64, fast, slow, signal int) (line, sig, hist []float64) {
	if len(values) == 0 || fast <= 0 || slow <= 0 || signal <= 0 {
		return nil, nil, nil
	}
	emaFast := EMA(values, fast)
	emaSlow := EMA(values, slow)
	line = make([]float64, len(values))
	for i := range values {
		line[i] = emaFast[i] - emaSlow[i]
	}
	sig = EMA(line, signal)
	hist = make([]float64, len(values))
	for i := range values {
		hist[i] = line[i] - sig[i]
	}
	return line, sig, hist
}

// Bollinger computes the middle band (SMA), upper and lower bands at
// mult standard deviations. Warm-up positions are NaN.
func Bollinger(values []float64, window int, mult float64) (mid, upper, lower []float64) {
	mid = SMA(values, window)
	if mid == nil {
		return nil, nil, nil
	}
	std := RollingStd(values, window)
	upper = make([]float64, len(values))
	lower = make([]float64, len(values))
	for i := range values {
		if math.IsNaN(mid[i]) {
			upper[i] = math.NaN()
			lower[i] = math.NaN()
			continue
		}
		upper[i] = mid[i] + mult*std[i]
		lower[i] = mid[i] - mult*std[i]
	}
	return mid, upper, lower
}

// RollingStd computes the rolling sample standard deviation.
// Warm-up positions are NaN.
func RollingStd(values []float64, window int) []float64 {
	if window <= 1 || len(values) < window {
		return nil
	}
	out := make([]float64, len(values))
	for i := range values {
		if i < window-1 {
			out[i] = math.NaN()
			continue
		}
		seg := values[i-window+1 : i+1]
		var mean float64
		for _, v := range seg {
			mean += v
		}
		mean /= float64(window)
		var ss float64
		for _, v := range seg {
			d := v - mean
			ss += d * d
		}
		out[i] = math.Sqrt(ss / float64(window-1))
	}
	return out
}

// Last returns the final value of a series and whether it is defined.
func Last(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	v := values[len(values)-1]
	return v, Defined(v)
}

// LastTwo returns the last two values when both are defined. Used by
// edge-triggered crossover rules.
func LastTwo(values []float64) (prev, cur float64, ok bool) {
	if len(values) < 2 {
		return 0, 0, false
	}
	prev = values[len(values)-2]
	cur = values[len(values)-1]
	return prev, cur, Defined(prev) && Defined(cur)
}
