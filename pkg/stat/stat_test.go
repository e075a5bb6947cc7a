package stat

import (
	"math"
	"testing"
)

func TestPctReturns(t *testing.T) {
	out := PctReturns([]float64{100, 110, 99})
	if len(out) != 2 {
		t.Fatalf("expected 2 returns, got %d", len(out))
	}
	if math.Abs(out[0]-0.10) > 1e-9 {
		t.Errorf("first return should be 0.10, got %v", out[0])
	}
	if math.Abs(out[1]-(-0.10)) > 1e-9 {
		t.Errorf("second return should be -0.10, got %v", out[1])
	}
	if PctReturns([]float64{100}) != nil {
		t.Errorf("single price should give nil returns")
	}
}

func TestStdZeroForConstant(t *testing.T) {
	if sd := Std([]float64{5, 5, 5, 5}); sd != 0 {
		t.Fatalf("constant series should have zero deviation, got %v", sd)
	}
	if sd := Std([]float64{1}); sd != 0 {
		t.Fatalf("single value should have zero deviation, got %v", sd)
	}
}

func TestSharpeZeroStd(t *testing.T) {
	if s := SharpeRatio([]float64{0.01, 0.01, 0.01}); s != 0 {
		t.Fatalf("zero-variance returns should give Sharpe 0, got %v", s)
	}
}

func TestMaxDrawdown(t *testing.T) {
	closes := []float64{100, 120, 90, 110, 80}
	dd := MaxDrawdown(closes)
	want := 80.0/120.0 - 1
	if math.Abs(dd-want) > 1e-9 {
		t.Fatalf("expected drawdown %v, got %v", want, dd)
	}
	if MaxDrawdown([]float64{1, 2, 3}) != 0 {
		t.Errorf("monotonic rise should have zero drawdown")
	}
}

func TestPearson(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5}
	b := []float64{2, 4, 6, 8, 10}
	if r := Pearson(a, b); math.Abs(r-1) > 1e-9 {
		t.Errorf("perfectly correlated series should give 1, got %v", r)
	}
	c := []float64{5, 4, 3, 2, 1}
	if r := Pearson(a, c); math.Abs(r+1) > 1e-9 {
		t.Errorf("inverse series should give -1, got %v", r)
	}
	flat := []float64{3, 3, 3, 3, 3}
	if r := Pearson(a, flat); r != 0 {
		t.Errorf("zero-variance side should give 0, got %v", r)
	}
	if r := Pearson(a, []float64{1, 2}); r != 0 {
		t.Errorf("length mismatch should give 0, got %v", r)
	}
}

func TestPearsonSymmetry(t *testing.T) {
	a := []float64{1.2, 3.4, 2.1, 5.6, 4.4}
	b := []float64{2.0, 2.9, 2.4, 5.1, 3.8}
	if r1, r2 := Pearson(a, b), Pearson(b, a); math.Abs(r1-r2) > 1e-12 {
		t.Fatalf("correlation must be symmetric: %v vs %v", r1, r2)
	}
}

func TestClamp(t *testing.T) {
	if v := Clamp(0.1, 0.15, 0.5); v != 0.15 {
		t.Errorf("expected lower bound, got %v", v)
	}
	if v := Clamp(0.9, 0.15, 0.5); v != 0.5 {
		t.Errorf("expected upper bound, got %v", v)
	}
	if v := Clamp(0.3, 0.15, 0.5); v != 0.3 {
		t.Errorf("expected passthrough, got %v", v)
	}
}

func TestRound(t *testing.T) {
	if v := Round(3.14159, 2); v != 3.14 {
		t.Errorf("expected 3.14, got %v", v)
	}
	if v := Round(2.675, 1); v != 2.7 {
		t.Errorf("expected 2.7, got %v", v)
	}
}
