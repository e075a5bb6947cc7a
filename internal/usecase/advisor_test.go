package usecase

import (
	"context"
	"strings"
	"testing"

	"FinAdvisor/internal/domain/models"
)

func TestAdviseEquityRisingMarket(t *testing.T) {
	hist := &fakeHistory{
		series: map[string]models.PriceSeries{
			"AAPL":  wobblySeries("AAPL", 252, 100, 0.5, 0.3),
			"^GSPC": risingSeries("^GSPC", 252, 4000, 2),
		},
		snaps: map[string]models.Snapshot{"AAPL": strongSnapshot("AAPL", "Apple Inc.")},
	}
	advisor := newTestAdvisor(t, hist, &fakeQuotes{})

	rec, err := advisor.Advise(context.Background(), AdviseParams{Symbol: "aapl"})
	if err != nil {
		t.Fatalf("advise: %v", err)
	}
	if rec.Symbol != "AAPL" || rec.AssetClass != models.AssetEquity {
		t.Fatalf("unexpected identity: %s %s", rec.Symbol, rec.AssetClass)
	}
	if !strings.Contains(rec.Recommendation, "Buy") {
		t.Errorf("rising market with strong fundamentals should be a buy, got %q (score %.2f)",
			rec.Recommendation, rec.CombinedScore)
	}
	if rec.CombinedScore <= 0 {
		t.Errorf("combined score should be positive, got %.2f", rec.CombinedScore)
	}
	if rec.FundamentalScore <= 0 {
		t.Errorf("strong fundamentals should score positive, got %.2f", rec.FundamentalScore)
	}
	if len(rec.InvestmentThesis) == 0 || len(rec.Risks) == 0 {
		t.Errorf("thesis and risks must never be empty: %+v %+v", rec.InvestmentThesis, rec.Risks)
	}
	if rec.PotentialUpsidePct <= 0 || rec.PotentialDownsidePct <= 0 {
		t.Errorf("return projections missing: up=%.1f down=%.1f",
			rec.PotentialUpsidePct, rec.PotentialDownsidePct)
	}
	if rec.PriceChange == "" || !strings.Contains(rec.PriceChange, "1y") {
		t.Errorf("price change should mention the period, got %q", rec.PriceChange)
	}
	if rec.Name != "Apple Inc." {
		t.Errorf("name from snapshot expected, got %q", rec.Name)
	}
}

func TestAdviseMissingHistoryFails(t *testing.T) {
	advisor := newTestAdvisor(t, &fakeHistory{}, &fakeQuotes{})
	_, err := advisor.Advise(context.Background(), AdviseParams{Symbol: "ZZZ"})
	if err == nil {
		t.Fatalf("expected error for unknown symbol")
	}
	if !models.IsNoData(err) {
		t.Errorf("expected a no-data failure, got %v", err)
	}
}

func TestAdviseEquityWithoutSnapshot(t *testing.T) {
	hist := &fakeHistory{
		series: map[string]models.PriceSeries{
			"MSFT":  wobblySeries("MSFT", 252, 300, 0.4, 0.5),
			"^GSPC": risingSeries("^GSPC", 252, 4000, 2),
		},
	}
	advisor := newTestAdvisor(t, hist, &fakeQuotes{})

	rec, err := advisor.Advise(context.Background(), AdviseParams{Symbol: "MSFT"})
	if err != nil {
		t.Fatalf("snapshot failure must not sink the analysis: %v", err)
	}
	if rec.FundamentalScore != 0 {
		t.Errorf("no snapshot means no fundamental score, got %.2f", rec.FundamentalScore)
	}
	if len(rec.TechnicalSignals) == 0 {
		t.Errorf("technical signals expected from history alone")
	}
}

func TestAdviseCrypto(t *testing.T) {
	hist := &fakeHistory{
		series: map[string]models.PriceSeries{
			"SOL-USD": wobblySeries("SOL-USD", 252, 100, 0.8, 2),
			"BTC-USD": wobblySeries("BTC-USD", 252, 60000, 50, 300),
		},
	}
	quotes := &fakeQuotes{quotes: map[string]models.Quote{
		"SOL": {Symbol: "SOL", Name: "Solana", Price: 305, PctChange24h: 4},
		"BTC": {Symbol: "BTC", Name: "Bitcoin", Price: 72000, PctChange24h: 3},
	}}
	advisor := newTestAdvisor(t, hist, quotes)

	rec, err := advisor.Advise(context.Background(), AdviseParams{Symbol: "SOL-USD"})
	if err != nil {
		t.Fatalf("advise: %v", err)
	}
	if rec.AssetClass != models.AssetCrypto || rec.Symbol != "SOL" {
		t.Fatalf("crypto detection failed: %s %s", rec.AssetClass, rec.Symbol)
	}
	if rec.RiskLevel == "" {
		t.Errorf("crypto advice must carry a volatility risk level")
	}
	if rec.CurrentPrice != 305 {
		t.Errorf("quote price preferred over last close, got %.2f", rec.CurrentPrice)
	}
	var hasBTCComparison, hasVolatility bool
	for _, s := range rec.TechnicalSignals {
		switch s.Indicator {
		case "BTC Comparison":
			hasBTCComparison = true
		case "Volatility":
			hasVolatility = true
		}
	}
	if !hasBTCComparison || !hasVolatility {
		t.Errorf("expected BTC comparison and volatility signals, got %+v", rec.TechnicalSignals)
	}
	if len(rec.Risks) == 0 {
		t.Errorf("crypto risks must never be empty")
	}
}

func TestAdviseBTCSkipsSelfComparison(t *testing.T) {
	hist := &fakeHistory{
		series: map[string]models.PriceSeries{
			"BTC-USD": wobblySeries("BTC-USD", 252, 60000, 50, 300),
		},
	}
	quotes := &fakeQuotes{quotes: map[string]models.Quote{
		"BTC": {Symbol: "BTC", Name: "Bitcoin", Price: 72000, Dominance: 52},
	}}
	advisor := newTestAdvisor(t, hist, quotes)

	rec, err := advisor.Advise(context.Background(), AdviseParams{Symbol: "BTC"})
	if err != nil {
		t.Fatalf("advise: %v", err)
	}
	for _, s := range rec.TechnicalSignals {
		if s.Indicator == "BTC Comparison" {
			t.Errorf("bitcoin must not be compared to itself")
		}
	}
	var found bool
	for _, line := range rec.InvestmentThesis {
		if strings.Contains(line, "dominance") {
			found = true
		}
	}
	if !found {
		t.Errorf("dominance above 50 should appear in the thesis: %+v", rec.InvestmentThesis)
	}
}

func TestMomentumAdvice(t *testing.T) {
	quotes := &fakeQuotes{quotes: map[string]models.Quote{
		"SOL": {
			Symbol: "SOL", Name: "Solana", Price: 305,
			MarketCap: 60e9, Volume24h: 9e9,
			PctChange1h: 2, PctChange24h: 6, PctChange7d: 12, PctChange30d: 25,
		},
	}}
	advisor := newTestAdvisor(t, &fakeHistory{}, quotes)

	rec, err := advisor.MomentumAdvice(context.Background(), "SOL", models.RiskModerate)
	if err != nil {
		t.Fatalf("momentum advice: %v", err)
	}
	// score 8: 1h +1, 24h +2, 7d +2, 30d +2, liquidity ratio +1
	if rec.Recommendation != models.LabelStrongBuy || rec.Confidence != 85 {
		t.Errorf("score 8 low-profile moderate should be Strong Buy at 85, got %q %d",
			rec.Recommendation, rec.Confidence)
	}
	if rec.Source != "quotes" {
		t.Errorf("momentum source should be quotes, got %q", rec.Source)
	}
	if rec.PotentialUpsidePct != 125 || rec.PotentialDownsidePct != 12.5 {
		t.Errorf("returns mismatch: up=%.2f down=%.2f", rec.PotentialUpsidePct, rec.PotentialDownsidePct)
	}
	if rec.RiskLevel != "Low to Moderate" {
		t.Errorf("large cap risk level expected, got %q", rec.RiskLevel)
	}
	if len(rec.InvestmentThesis) == 0 || !strings.Contains(rec.InvestmentThesis[0], "growth over the past week") {
		t.Errorf("buy thesis should cite weekly growth: %+v", rec.InvestmentThesis)
	}
	if len(rec.TechnicalSignals) != 5 {
		t.Errorf("four momentum signals plus sentiment expected, got %d", len(rec.TechnicalSignals))
	}
}

func TestMomentumAdviceQuoteUnavailable(t *testing.T) {
	advisor := newTestAdvisor(t, &fakeHistory{}, &fakeQuotes{})
	if _, err := advisor.MomentumAdvice(context.Background(), "ZZZ", ""); err == nil {
		t.Fatalf("expected error when the quote provider has no data")
	}
}
