package analyzer

import (
	"fmt"

	"FinAdvisor/internal/domain/models"
)

// Indicator names for fundamental signals.
const (
	IndPERatio       = "P/E Ratio"
	IndRevenueGrowth = "Revenue Growth"
	IndProfitMargin  = "Profit Margin"
	IndROE           = "Return on Equity"
	IndDebtEquity    = "Debt to Equity"
	IndAnalysts      = "Analyst Consensus"
)

// analystGradeScores maps rating labels to a bullishness score.
var analystGradeScores = map[string]float64{
	"Strong Buy":     2,
	"Buy":            1,
	"Outperform":     1,
	"Overweight":     1,
	"Hold":           0,
	"Neutral":        0,
	"Perform":        0,
	"Market Perform": 0,
	"Equal-Weight":   0,
	"Underperform":   -1,
	"Underweight":    -1,
	"Sell":           -1,
	"Strong Sell":    -2,
}

// Fundamental evaluates the company-metric rule table. Metrics the
// provider did not report are skipped. Ratio-style fields reported as
// fractions are rescaled to percent before thresholding.
func Fundamental(snap models.Snapshot) models.SignalSet {
	var signals models.SignalSet
	f := snap.Fundamentals
	if f != nil {
		if f.PERatio != nil {
			pe := *f.PERatio
			switch {
			case pe < 15:
				signals = append(signals, bullish(IndPERatio, 2, "%.1f", pe))
			case pe > 30:
				signals = append(signals, bearish(IndPERatio, 2, "%.1f", pe))
			default:
				signals = append(signals, neutral(IndPERatio, 1, "%.1f", pe))
			}
		}
		if f.RevenueGrowthPct != nil {
			g := *f.RevenueGrowthPct
			switch {
			case g > 20:
				signals = append(signals, bullish(IndRevenueGrowth, 3, "%.1f%%", g))
			case g > 10:
				signals = append(signals, bullish(IndRevenueGrowth, 2, "%.1f%%", g))
			case g < 0:
				signals = append(signals, bearish(IndRevenueGrowth, 2, "%.1f%%", g))
			default:
				signals = append(signals, neutral(IndRevenueGrowth, 1, "%.1f%%", g))
			}
		}
		if f.ProfitMargin != nil {
			m := asPercent(*f.ProfitMargin)
			switch {
			case m > 20:
				signals = append(signals, bullish(IndProfitMargin, 2, "%.1f%%", m))
			case m < 5:
				signals = append(signals, bearish(IndProfitMargin, 2, "%.1f%%", m))
			default:
				signals = append(signals, neutral(IndProfitMargin, 1, "%.1f%%", m))
			}
		}
		if f.ReturnOnEquity != nil {
			roe := asPercent(*f.ReturnOnEquity)
			switch {
			case roe > 20:
				signals = append(signals, bullish(IndROE, 2, "%.1f%%", roe))
			case roe < 10:
				signals = append(signals, bearish(IndROE, 1, "%.1f%%", roe))
			default:
				signals = append(signals, neutral(IndROE, 1, "%.1f%%", roe))
			}
		}
		if f.DebtToEquity != nil {
			de := *f.DebtToEquity
			switch {
			case de > 2:
				signals = append(signals, bearish(IndDebtEquity, 2, "%.2f", de))
			case de < 0.5:
				signals = append(signals, bullish(IndDebtEquity, 1, "%.2f", de))
			default:
				signals = append(signals, neutral(IndDebtEquity, 1, "%.2f", de))
			}
		}
	}
	if sig, ok := analystSignal(snap.Ratings); ok {
		signals = append(signals, sig)
	}
	return signals
}

// analystSignal averages graded ratings into one weighted signal.
func analystSignal(r *models.AnalystRatings) (models.Signal, bool) {
	if r == nil || len(r.Counts) == 0 {
		return models.Signal{}, false
	}
	var sum float64
	var n int
	for grade, count := range r.Counts {
		score, known := analystGradeScores[grade]
		if !known || count <= 0 {
			continue
		}
		sum += score * float64(count)
		n += count
	}
	if n == 0 {
		return models.Signal{}, false
	}
	avg := sum / float64(n)
	switch {
	case avg > 0.5:
		return bullish(IndAnalysts, 3, "score %.2f", avg), true
	case avg < -0.5:
		return bearish(IndAnalysts, 3, "score %.2f", avg), true
	default:
		return neutral(IndAnalysts, 2, "score %.2f", avg), true
	}
}

// asPercent rescales fraction-style ratios (0.23) to percent (23).
func asPercent(v float64) float64 {
	if v < 1 && v > -1 {
		return v * 100
	}
	return v
}

func bullish(indicator string, weight int, format string, args ...any) models.Signal {
	return models.Signal{Indicator: indicator, Direction: models.Bullish, Weight: weight, Value: fmt.Sprintf(format, args...)}
}

func bearish(indicator string, weight int, format string, args ...any) models.Signal {
	return models.Signal{Indicator: indicator, Direction: models.Bearish, Weight: weight, Value: fmt.Sprintf(format, args...)}
}

func neutral(indicator string, weight int, format string, args ...any) models.Signal {
	return models.Signal{Indicator: indicator, Direction: models.Neutral, Weight: weight, Value: fmt.Sprintf(format, args...)}
}
