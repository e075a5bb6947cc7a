// Package stat holds the shared return and risk math used by the scorer
// and the comparison engine.
package stat

import "math"

// TradingDaysPerYear is the annualization base for daily series.
const TradingDaysPerYear = 252

// PctReturns computes simple percent returns r_t = C_t/C_{t-1} - 1.
// It returns a slice of length len(closes)-1, or nil if insufficient data.
func PctReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	out := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		prev := closes[i-1]
		if prev == 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, closes[i]/prev-1)
	}
	return out
}

// Mean returns the arithmetic mean, 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Std returns the sample standard deviation, 0 when fewer than two values.
func Std(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	mean := Mean(values)
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}

// AnnualizedVolatility converts daily return volatility to annual terms.
func AnnualizedVolatility(dailyReturns []float64) float64 {
	return Std(dailyReturns) * math.Sqrt(TradingDaysPerYear)
}

// SharpeRatio computes the annualized mean/sigma ratio of daily returns,
// 0 when the deviation is zero.
func SharpeRatio(dailyReturns []float64) float64 {
	sd := Std(dailyReturns)
	if sd == 0 {
		return 0
	}
	return Mean(dailyReturns) / sd * math.Sqrt(TradingDaysPerYear)
}

// MaxDrawdown returns the deepest peak-to-trough decline of a price
// series as a negative fraction (-0.25 means a 25% drawdown).
func MaxDrawdown(closes []float64) float64 {
	if len(closes) == 0 {
		return 0
	}
	peak := closes[0]
	worst := 0.0
	for _, c := range closes {
		if c > peak {
			peak = c
		}
		if peak > 0 {
			dd := c/peak - 1
			if dd < worst {
				worst = dd
			}
		}
	}
	return worst
}

// Pearson computes the correlation coefficient of two equal-length
// series. Returns 0 when either side has no variance or lengths differ.
func Pearson(a, b []float64) float64 {
	n := len(a)
	if n != len(b) || n < 2 {
		return 0
	}
	meanA := Mean(a)
	meanB := Mean(b)
	var cov, varA, varB float64
	for i := 0; i < n; i++ {
		da := a[i] - meanA
		db := b[i] - meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}
	if varA == 0 || varB == 0 {
		return 0
	}
	return cov / math.Sqrt(varA*varB)
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
