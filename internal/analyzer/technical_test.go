package analyzer

import (
	"math"
	"testing"
	"time"

	"FinAdvisor/internal/domain/models"
)

func seriesFromCloses(closes []float64) models.PriceSeries {
	candles := make([]models.Candle, len(closes))
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		candles[i] = models.Candle{
			Bucket: start.AddDate(0, 0, i),
			Open:   c, High: c, Low: c, Close: c,
			Volume: 1000,
		}
	}
	return models.PriceSeries{Symbol: "TEST", Period: "1y", Interval: "1d", Candles: candles}
}

func findSignal(set models.SignalSet, indicator string) (models.Signal, bool) {
	for _, s := range set {
		if s.Indicator == indicator {
			return s, true
		}
	}
	return models.Signal{}, false
}

func TestTechnicalMonotonicRise(t *testing.T) {
	closes := make([]float64, 252)
	for i := range closes {
		closes[i] = 100 * math.Pow(1.002, float64(i))
	}
	signals := Technical(seriesFromCloses(closes), false)
	if len(signals) == 0 {
		t.Fatalf("expected signals for a full-year series")
	}

	ma50, ok := findSignal(signals, IndPriceVsMA50)
	if !ok || ma50.Direction != models.Bullish {
		t.Errorf("rising price should be above MA50, got %+v", ma50)
	}
	ma200, ok := findSignal(signals, IndPriceVsMA200)
	if !ok || ma200.Direction != models.Bullish {
		t.Errorf("rising price should be above MA200, got %+v", ma200)
	}
	rsi, ok := findSignal(signals, IndRSI)
	if !ok || rsi.Direction != models.Bearish {
		t.Errorf("loss-free rise should flag RSI overbought, got %+v", rsi)
	}
	macd, ok := findSignal(signals, IndMACD)
	if !ok || macd.Direction != models.Bullish {
		t.Errorf("steady uptrend should keep MACD bullish, got %+v", macd)
	}
	if _, ok := findSignal(signals, IndGoldenCross); ok {
		t.Errorf("steady trend without a crossing should not fire golden cross")
	}
}

func TestTechnicalShortSeriesSkipsUnwarmedIndicators(t *testing.T) {
	closes := []float64{10, 11, 12, 13, 14, 15, 16, 17, 18, 19}
	signals := Technical(seriesFromCloses(closes), false)
	for _, name := range []string{IndPriceVsMA50, IndPriceVsMA200, IndRSI, IndBollinger, IndGoldenCross, IndDeathCross} {
		if _, ok := findSignal(signals, name); ok {
			t.Errorf("%s should not fire before its warm-up window", name)
		}
	}
}

func TestTechnicalEmptySeries(t *testing.T) {
	if got := Technical(models.PriceSeries{}, false); got != nil {
		t.Fatalf("empty series should produce no signals, got %v", got)
	}
	if got := Technical(seriesFromCloses([]float64{10}), true); got != nil {
		t.Fatalf("single candle should produce no signals, got %v", got)
	}
}

func TestGoldenCrossEdgeTriggered(t *testing.T) {
	// long decline then sharp recovery so MA50 crosses MA200 on the last bar
	closes := make([]float64, 0, 420)
	for i := 0; i < 300; i++ {
		closes = append(closes, 200-float64(i)*0.2)
	}
	for i := 0; i < 120; i++ {
		closes = append(closes, 140+float64(i)*1.2)
	}
	crossed := false
	for n := 320; n < len(closes); n++ {
		signals := Technical(seriesFromCloses(closes[:n]), false)
		if _, ok := findSignal(signals, IndGoldenCross); ok {
			crossed = true
			// the bar after the cross must not re-fire
			next := Technical(seriesFromCloses(closes[:n+1]), false)
			if _, again := findSignal(next, IndGoldenCross); again {
				t.Fatalf("golden cross fired twice in a row at bar %d", n+1)
			}
			break
		}
	}
	if !crossed {
		t.Fatalf("expected a golden cross somewhere in the recovery leg")
	}
}

func TestVolumeSurgeConfirmsTrend(t *testing.T) {
	closes := make([]float64, 80)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	series := seriesFromCloses(closes)
	for i := range series.Candles {
		series.Candles[i].Volume = 1000
	}
	for i := len(series.Candles) - 5; i < len(series.Candles); i++ {
		series.Candles[i].Volume = 5000
	}

	withVol := Technical(series, true)
	sig, ok := findSignal(withVol, IndVolume)
	if !ok {
		t.Fatalf("5x recent volume should fire the surge rule")
	}
	if sig.Direction != models.Bullish {
		t.Errorf("surge in an uptrend should confirm bullish, got %v", sig.Direction)
	}

	withoutVol := Technical(series, false)
	if _, ok := findSignal(withoutVol, IndVolume); ok {
		t.Errorf("volume rule should be disabled for the equity path")
	}
}

func TestVolumeFlatNoSignal(t *testing.T) {
	closes := make([]float64, 80)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	series := seriesFromCloses(closes)
	signals := Technical(series, true)
	if _, ok := findSignal(signals, IndVolume); ok {
		t.Fatalf("flat volume should not fire the surge rule")
	}
}

func TestVolumeDropNoSignal(t *testing.T) {
	closes := make([]float64, 80)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	series := seriesFromCloses(closes)
	for i := range series.Candles {
		series.Candles[i].Volume = 1000
	}
	for i := len(series.Candles) - 5; i < len(series.Candles); i++ {
		series.Candles[i].Volume = 100
	}

	signals := Technical(series, true)
	if sig, ok := findSignal(signals, IndVolume); ok {
		t.Fatalf("a volume collapse must not confirm the trend, got %+v", sig)
	}
}
