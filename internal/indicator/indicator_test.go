package indicator

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSMAWarmup(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	out := SMA(values, 3)
	if out == nil {
		t.Fatalf("expected SMA output, got nil")
	}
	for i := 0; i < 2; i++ {
		if !math.IsNaN(out[i]) {
			t.Errorf("position %d should be undefined, got %v", i, out[i])
		}
	}
	if !almostEqual(out[2], 2) || !almostEqual(out[3], 3) || !almostEqual(out[4], 4) {
		t.Errorf("unexpected SMA values: %v", out)
	}
}

func TestSMAShortSeries(t *testing.T) {
	if out := SMA([]float64{1, 2}, 5); out != nil {
		t.Fatalf("expected nil for short series, got %v", out)
	}
}

func TestEMASeed(t *testing.T) {
	values := []float64{10, 10, 10, 10}
	out := EMA(values, 3)
	for i, v := range out {
		if !almostEqual(v, 10) {
			t.Errorf("constant series EMA should stay constant, position %d got %v", i, v)
		}
	}
}

func TestRSIBounds(t *testing.T) {
	values := make([]float64, 60)
	price := 100.0
	for i := range values {
		// alternating moves keep both gains and losses in the window
		if i%2 == 0 {
			price += 1.5
		} else {
			price -= 1.0
		}
		values[i] = price
	}
	out := RSI(values, 14)
	if out == nil {
		t.Fatalf("expected RSI output, got nil")
	}
	for i, v := range out {
		if math.IsNaN(v) {
			continue
		}
		if v < 0 || v > 100 {
			t.Errorf("RSI out of bounds at %d: %v", i, v)
		}
	}
}

func TestRSIAllGains(t *testing.T) {
	values := make([]float64, 30)
	for i := range values {
		values[i] = 100 + float64(i)
	}
	out := RSI(values, 14)
	last, ok := Last(out)
	if !ok {
		t.Fatalf("expected defined RSI at end of monotonic series")
	}
	if !almostEqual(last, 100) {
		t.Errorf("zero-loss series should give RSI 100, got %v", last)
	}
}

func TestRSIWarmup(t *testing.T) {
	values := make([]float64, 20)
	for i := range values {
		values[i] = float64(i)
	}
	out := RSI(values, 14)
	for i := 0; i < 14; i++ {
		if !math.IsNaN(out[i]) {
			t.Errorf("position %d should be undefined, got %v", i, out[i])
		}
	}
	if math.IsNaN(out[14]) {
		t.Errorf("position 14 should be defined")
	}
}

func TestRSIShortSeries(t *testing.T) {
	if out := RSI([]float64{1, 2, 3}, 14); out != nil {
		t.Fatalf("expected nil for short series, got %v", out)
	}
}

func TestMACDConstantSeries(t *testing.T) {
	values := make([]float64, 40)
	for i := range values {
		values[i] = 50
	}
	line, sig, hist := MACD(values, 12, 26, 9)
	for i := range values {
		if !almostEqual(line[i], 0) || !almostEqual(sig[i], 0) || !almostEqual(hist[i], 0) {
			t.Fatalf("constant series should give zero MACD at %d: line=%v sig=%v hist=%v",
				i, line[i], sig[i], hist[i])
		}
	}
}

func TestMACDUptrendPositive(t *testing.T) {
	values := make([]float64, 60)
	for i := range values {
		values[i] = 100 * math.Pow(1.01, float64(i))
	}
	line, sig, _ := MACD(values, 12, 26, 9)
	last, _ := Last(line)
	if last <= 0 {
		t.Errorf("uptrend should give positive MACD line, got %v", last)
	}
	sigLast, _ := Last(sig)
	if last <= sigLast {
		t.Errorf("accelerating uptrend should keep MACD above signal: %v <= %v", last, sigLast)
	}
}

func TestBollingerBands(t *testing.T) {
	values := make([]float64, 30)
	for i := range values {
		values[i] = 100 + math.Sin(float64(i))*5
	}
	mid, upper, lower := Bollinger(values, 20, 2)
	if mid == nil {
		t.Fatalf("expected bands, got nil")
	}
	for i := 19; i < len(values); i++ {
		if math.IsNaN(mid[i]) {
			t.Fatalf("band undefined past warm-up at %d", i)
		}
		if !(lower[i] < mid[i] && mid[i] < upper[i]) {
			t.Errorf("band ordering violated at %d: %v %v %v", i, lower[i], mid[i], upper[i])
		}
		if !almostEqual(upper[i]-mid[i], mid[i]-lower[i]) {
			t.Errorf("bands not symmetric around middle at %d", i)
		}
	}
	for i := 0; i < 19; i++ {
		if !math.IsNaN(upper[i]) || !math.IsNaN(lower[i]) {
			t.Errorf("warm-up band defined at %d", i)
		}
	}
}

func TestBollingerShortSeries(t *testing.T) {
	mid, upper, lower := Bollinger([]float64{1, 2, 3}, 20, 2)
	if mid != nil || upper != nil || lower != nil {
		t.Fatalf("expected nil bands for short series")
	}
}

func TestLastTwo(t *testing.T) {
	prev, cur, ok := LastTwo([]float64{1, 2, 3})
	if !ok || prev != 2 || cur != 3 {
		t.Fatalf("unexpected LastTwo result: %v %v %v", prev, cur, ok)
	}
	if _, _, ok := LastTwo([]float64{1}); ok {
		t.Fatalf("single-element series should not yield two values")
	}
	if _, _, ok := LastTwo([]float64{math.NaN(), 1}); ok {
		t.Fatalf("undefined prev should not be ok")
	}
}
