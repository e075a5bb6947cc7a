// Package analyzer turns price history and fundamentals into weighted
// signal sets. Rules are threshold tables; crossover rules fire only on
// the transition between the last two points.
package analyzer

import (
	"fmt"

	"FinAdvisor/internal/domain/models"
	"FinAdvisor/internal/indicator"
)

const (
	maShortWindow   = 50
	maLongWindow    = 200
	rsiPeriod       = 14
	macdFast        = 12
	macdSlow        = 26
	macdSignal      = 9
	bollingerWindow = 20
	bollingerMult   = 2.0
	volumeWindow    = 5
	volumeSurgePct  = 30.0
)

// Indicator display names shared with the narrative rules.
const (
	IndGoldenCross  = "Golden Cross"
	IndDeathCross   = "Death Cross"
	IndPriceVsMA50  = "Price vs MA50"
	IndPriceVsMA200 = "Price vs MA200"
	IndRSI          = "RSI"
	IndMACD         = "MACD"
	IndBollinger    = "Bollinger Bands"
	IndVolume       = "Volume Trend"
	IndVolatility   = "Volatility"
	IndBTCRelative  = "BTC Comparison"
)

// Technical evaluates the indicator rule table against a price series.
// Indicators that have not warmed up are skipped, never defaulted, so a
// short series yields a smaller signal set rather than false neutrals.
// withVolume additionally applies the volume-surge rule used for crypto.
func Technical(series models.PriceSeries, withVolume bool) models.SignalSet {
	closes := series.Closes()
	if len(closes) < 2 {
		return nil
	}
	price := closes[len(closes)-1]
	var signals models.SignalSet

	maShort := indicator.SMA(closes, maShortWindow)
	maLong := indicator.SMA(closes, maLongWindow)

	// crossover fires on the transition only
	if ps, cs, okS := indicator.LastTwo(maShort); okS {
		if pl, cl, okL := indicator.LastTwo(maLong); okL {
			if ps <= pl && cs > cl {
				signals = append(signals, models.Signal{
					Indicator: IndGoldenCross, Direction: models.Bullish, Weight: 3,
					Value: "MA50 crossed above MA200",
				})
			} else if ps >= pl && cs < cl {
				signals = append(signals, models.Signal{
					Indicator: IndDeathCross, Direction: models.Bearish, Weight: 3,
					Value: "MA50 crossed below MA200",
				})
			}
		}
	}

	if ma, ok := indicator.Last(maShort); ok {
		dir, val := models.Bearish, "Below"
		if price > ma {
			dir, val = models.Bullish, "Above"
		}
		signals = append(signals, models.Signal{
			Indicator: IndPriceVsMA50, Direction: dir, Weight: 2, Value: val,
		})
	}
	if ma, ok := indicator.Last(maLong); ok {
		dir, val := models.Bearish, "Below"
		if price > ma {
			dir, val = models.Bullish, "Above"
		}
		signals = append(signals, models.Signal{
			Indicator: IndPriceVsMA200, Direction: dir, Weight: 2, Value: val,
		})
	}

	if rsi, ok := indicator.Last(indicator.RSI(closes, rsiPeriod)); ok {
		switch {
		case rsi < 30:
			signals = append(signals, models.Signal{
				Indicator: IndRSI, Direction: models.Bullish, Weight: 2,
				Value: fmt.Sprintf("Oversold (%.1f)", rsi),
			})
		case rsi > 70:
			signals = append(signals, models.Signal{
				Indicator: IndRSI, Direction: models.Bearish, Weight: 2,
				Value: fmt.Sprintf("Overbought (%.1f)", rsi),
			})
		}
	}

	line, sig, _ := indicator.MACD(closes, macdFast, macdSlow, macdSignal)
	if pl, cl, okL := indicator.LastTwo(line); okL {
		if psg, csg, okS := indicator.LastTwo(sig); okS {
			switch {
			case pl <= psg && cl > csg:
				signals = append(signals, models.Signal{
					Indicator: IndMACD, Direction: models.Bullish, Weight: 3,
					Value: "Bullish Crossover",
				})
			case pl >= psg && cl < csg:
				signals = append(signals, models.Signal{
					Indicator: IndMACD, Direction: models.Bearish, Weight: 3,
					Value: "Bearish Crossover",
				})
			case cl > csg:
				signals = append(signals, models.Signal{
					Indicator: IndMACD, Direction: models.Bullish, Weight: 2,
					Value: "Above Signal Line",
				})
			default:
				signals = append(signals, models.Signal{
					Indicator: IndMACD, Direction: models.Bearish, Weight: 2,
					Value: "Below Signal Line",
				})
			}
		}
	}

	_, upper, lower := indicator.Bollinger(closes, bollingerWindow, bollingerMult)
	if up, okU := indicator.Last(upper); okU {
		if lo, okL := indicator.Last(lower); okL {
			switch {
			case price > up:
				signals = append(signals, models.Signal{
					Indicator: IndBollinger, Direction: models.Bearish, Weight: 2,
					Value: "Overbought",
				})
			case price < lo:
				signals = append(signals, models.Signal{
					Indicator: IndBollinger, Direction: models.Bullish, Weight: 2,
					Value: "Oversold",
				})
			}
		}
	}

	if withVolume {
		if sig, ok := volumeSignal(series, signals); ok {
			signals = append(signals, sig)
		}
	}
	return signals
}

// volumeSignal compares the recent average volume with the whole-series
// average. A surge confirms the short-MA trend direction.
func volumeSignal(series models.PriceSeries, existing models.SignalSet) (models.Signal, bool) {
	volumes := series.Volumes()
	if len(volumes) < volumeWindow*2 {
		return models.Signal{}, false
	}
	var total float64
	for _, v := range volumes {
		total += v
	}
	overall := total / float64(len(volumes))
	if overall == 0 {
		return models.Signal{}, false
	}
	var recent float64
	for _, v := range volumes[len(volumes)-volumeWindow:] {
		recent += v
	}
	recent /= volumeWindow
	changePct := (recent - overall) / overall * 100
	// Only a surge confirms the trend; a collapse carries no direction.
	if changePct <= volumeSurgePct {
		return models.Signal{}, false
	}
	trend := models.Neutral
	for _, s := range existing {
		if s.Indicator == IndPriceVsMA50 {
			trend = s.Direction
			break
		}
	}
	if trend == models.Neutral {
		return models.Signal{}, false
	}
	return models.Signal{
		Indicator: IndVolume, Direction: trend, Weight: 2,
		Value: fmt.Sprintf("%.1f%% vs average", changePct),
	}, true
}
