package analyzer

import (
	"testing"

	"FinAdvisor/internal/domain/models"
)

func fptr(v float64) *float64 { return &v }

func TestFundamentalThresholds(t *testing.T) {
	snap := models.Snapshot{
		Symbol: "ACME",
		Fundamentals: &models.Fundamentals{
			PERatio:          fptr(10),   // cheap
			RevenueGrowthPct: fptr(25),   // strong growth
			ProfitMargin:     fptr(0.25), // fraction form, 25%
			ReturnOnEquity:   fptr(0.05), // 5%, weak
			DebtToEquity:     fptr(3.0),  // leveraged
		},
	}
	signals := Fundamental(snap)

	cases := []struct {
		indicator string
		direction models.Direction
		weight    int
	}{
		{IndPERatio, models.Bullish, 2},
		{IndRevenueGrowth, models.Bullish, 3},
		{IndProfitMargin, models.Bullish, 2},
		{IndROE, models.Bearish, 1},
		{IndDebtEquity, models.Bearish, 2},
	}
	for _, c := range cases {
		sig, ok := findSignal(signals, c.indicator)
		if !ok {
			t.Errorf("missing %s signal", c.indicator)
			continue
		}
		if sig.Direction != c.direction || sig.Weight != c.weight {
			t.Errorf("%s: got %s w%d, want %s w%d",
				c.indicator, sig.Direction, sig.Weight, c.direction, c.weight)
		}
	}
}

func TestFundamentalMissingMetricsSkipped(t *testing.T) {
	snap := models.Snapshot{
		Symbol:       "BARE",
		Fundamentals: &models.Fundamentals{PERatio: fptr(20)},
	}
	signals := Fundamental(snap)
	if len(signals) != 1 {
		t.Fatalf("only the reported metric should produce a signal, got %d", len(signals))
	}
	if signals[0].Indicator != IndPERatio || signals[0].Direction != models.Neutral {
		t.Errorf("P/E of 20 should be neutral, got %+v", signals[0])
	}
}

func TestFundamentalNilInput(t *testing.T) {
	if got := Fundamental(models.Snapshot{Symbol: "NONE"}); len(got) != 0 {
		t.Fatalf("no fundamentals should give no signals, got %v", got)
	}
}

func TestAnalystConsensus(t *testing.T) {
	bullish := models.Snapshot{
		Ratings: &models.AnalystRatings{Counts: map[string]int{
			"Strong Buy": 5, "Buy": 5,
		}},
	}
	sig, ok := findSignal(Fundamental(bullish), IndAnalysts)
	if !ok || sig.Direction != models.Bullish || sig.Weight != 3 {
		t.Errorf("strong ratings should give bullish w3, got %+v", sig)
	}

	mixed := models.Snapshot{
		Ratings: &models.AnalystRatings{Counts: map[string]int{
			"Buy": 3, "Hold": 4, "Sell": 3,
		}},
	}
	sig, ok = findSignal(Fundamental(mixed), IndAnalysts)
	if !ok || sig.Direction != models.Neutral || sig.Weight != 2 {
		t.Errorf("mixed ratings should give neutral w2, got %+v", sig)
	}

	bearish := models.Snapshot{
		Ratings: &models.AnalystRatings{Counts: map[string]int{
			"Sell": 6, "Strong Sell": 4,
		}},
	}
	sig, ok = findSignal(Fundamental(bearish), IndAnalysts)
	if !ok || sig.Direction != models.Bearish {
		t.Errorf("sell-side ratings should give bearish, got %+v", sig)
	}

	unknownOnly := models.Snapshot{
		Ratings: &models.AnalystRatings{Counts: map[string]int{"Speculative": 3}},
	}
	if _, ok := findSignal(Fundamental(unknownOnly), IndAnalysts); ok {
		t.Errorf("unknown grades alone should not produce a signal")
	}
}

func TestNarrativeRules(t *testing.T) {
	tech := models.SignalSet{
		{Indicator: IndMACD, Direction: models.Bullish, Weight: 3},
		{Indicator: IndRSI, Direction: models.Bearish, Weight: 2},
		{Indicator: "weak", Direction: models.Bullish, Weight: 1},
	}
	fund := models.SignalSet{
		{Indicator: IndRevenueGrowth, Direction: models.Bullish, Weight: 3, Value: "25.0%"},
		{Indicator: IndDebtEquity, Direction: models.Bearish, Weight: 2, Value: "3.00"},
	}
	n := BuildNarrative(tech, fund)
	if len(n.Thesis) != 2 {
		t.Fatalf("expected 2 thesis lines, got %v", n.Thesis)
	}
	if n.Thesis[0] != "MACD indicates bullish momentum" {
		t.Errorf("unexpected thesis line: %q", n.Thesis[0])
	}
	if n.Thesis[1] != "Strong Revenue Growth (25.0%)" {
		t.Errorf("unexpected fundamental thesis line: %q", n.Thesis[1])
	}
	if len(n.Risks) != 2 {
		t.Fatalf("expected 2 risk lines, got %v", n.Risks)
	}
}

func TestNarrativeDefaults(t *testing.T) {
	var n Narrative
	n.Finalize(4.2)
	if len(n.Thesis) != 1 || len(n.Risks) != 1 {
		t.Fatalf("defaults should fill both lists: %+v", n)
	}
	if n.Thesis[0] != defaultThesisPositive || n.Risks[0] != defaultRiskPositive {
		t.Errorf("positive score should pick positive defaults: %+v", n)
	}

	var m Narrative
	m.Finalize(-4.2)
	if m.Thesis[0] != defaultThesisNegative || m.Risks[0] != defaultRiskNegative {
		t.Errorf("negative score should pick negative defaults: %+v", m)
	}
}

func TestNarrativeBenchmark(t *testing.T) {
	var n Narrative
	n.AddBenchmark("S&P 500", 15.4)
	if len(n.Thesis) != 1 || n.Thesis[0] != "Outperforming S&P 500 by 15.4%" {
		t.Fatalf("unexpected benchmark thesis: %+v", n.Thesis)
	}
	n.AddBenchmark("S&P 500", -12.0)
	if len(n.Risks) != 1 || n.Risks[0] != "Underperforming S&P 500 by 12.0%" {
		t.Fatalf("unexpected benchmark risk: %+v", n.Risks)
	}
	n.AddBenchmark("S&P 500", 5.0)
	if len(n.Thesis) != 1 || len(n.Risks) != 1 {
		t.Fatalf("small gaps should not add lines: %+v", n)
	}
}

func TestCryptoNarrative(t *testing.T) {
	var n Narrative
	n.ApplyCrypto(CryptoContext{
		AnnualVolPct: 85,
		VsBTCPct:     fptr(22),
		DominancePct: fptr(55),
	})
	if len(n.Thesis) != 3 {
		t.Fatalf("expected volatility, BTC and dominance thesis lines, got %v", n.Thesis)
	}
	n.FinalizeCrypto(1.0, models.RiskLow)
	found := false
	for _, r := range n.Risks {
		if r == "High-volatility assets may not be suitable for a low risk tolerance" {
			found = true
		}
	}
	if !found {
		t.Errorf("low tolerance should add the suitability caveat: %v", n.Risks)
	}
}
