package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"FinAdvisor/internal/domain/models"
)

func strongSOLQuote() models.Quote {
	return models.Quote{
		Symbol: "SOL", Name: "Solana", Price: 305,
		MarketCap: 60e9, Volume24h: 9e9,
		PctChange1h: 2, PctChange24h: 6, PctChange7d: 12, PctChange30d: 25,
	}
}

func solHistory() *fakeHistory {
	return &fakeHistory{series: map[string]models.PriceSeries{
		"SOL-USD": wobblySeries("SOL-USD", 252, 100, 0.8, 2),
		"BTC-USD": wobblySeries("BTC-USD", 252, 60000, 50, 300),
	}}
}

func scanFixture(overall string) models.MultiTimeframeScan {
	return models.MultiTimeframeScan{
		Symbol:        "SOL",
		ScannerSymbol: "BINANCE:SOLUSDT",
		Overall:       overall,
		Bullish:       6,
		Timeframes: map[models.Timeframe]*models.TimeframeScan{
			models.TF1d: {Timeframe: models.TF1d, Recommendation: overall, Bullish: 6, Price: 300},
		},
	}
}

func newEngine(t *testing.T, hist *fakeHistory, quotes *fakeQuotes, scanner *fakeScanner) *ConsensusEngine {
	t.Helper()
	advisor := newTestAdvisor(t, hist, quotes)
	return NewConsensusEngine(advisor, scanner, testRecorder, testLogger(t), 5*time.Second)
}

func TestConsensusUnanimousBuy(t *testing.T) {
	quotes := &fakeQuotes{quotes: map[string]models.Quote{
		"SOL": strongSOLQuote(),
		"BTC": {Symbol: "BTC", Price: 72000, PctChange24h: 3},
	}}
	engine := newEngine(t, solHistory(), quotes, &fakeScanner{scan: scanFixture("Strong Buy")})

	out, err := engine.Consensus(context.Background(), "SOL", "")
	if err != nil {
		t.Fatalf("consensus: %v", err)
	}
	if len(out.Opinions) != 3 {
		t.Fatalf("three sources should answer, got %d: %+v", len(out.Opinions), out.Opinions)
	}
	if out.Label != "Strong consensus to Buy" {
		t.Errorf("unanimous buys should be a strong consensus, got %q", out.Label)
	}
	if out.AgreementLevel != models.AgreementHigh {
		t.Errorf("unanimous sources should agree at High, got %q", out.AgreementLevel)
	}
	if out.Primary == nil || out.Primary.Source != "quotes" {
		t.Errorf("quote provider should be the primary source, got %+v", out.Primary)
	}
	if len(out.Errors) != 0 {
		t.Errorf("no source failed, errors should be empty: %+v", out.Errors)
	}
}

func TestConsensusTwoOfThree(t *testing.T) {
	quotes := &fakeQuotes{quotes: map[string]models.Quote{
		"SOL": strongSOLQuote(),
		"BTC": {Symbol: "BTC", Price: 72000, PctChange24h: 3},
	}}
	engine := newEngine(t, solHistory(), quotes, &fakeScanner{scan: scanFixture("Neutral")})

	out, err := engine.Consensus(context.Background(), "SOL", models.RiskModerate)
	if err != nil {
		t.Fatalf("consensus: %v", err)
	}
	if out.Label != "Moderate consensus to Buy" {
		t.Errorf("two buys of three should be moderate, got %q", out.Label)
	}
	if out.AgreementLevel != models.AgreementModerate {
		t.Errorf("split votes should agree at Moderate, got %q", out.AgreementLevel)
	}
}

func TestConsensusScannerFallback(t *testing.T) {
	// only the scanner answers
	engine := newEngine(t, &fakeHistory{}, &fakeQuotes{}, &fakeScanner{scan: scanFixture("Buy")})

	out, err := engine.Consensus(context.Background(), "SOL", "")
	if err != nil {
		t.Fatalf("consensus: %v", err)
	}
	if out.Primary == nil || out.Primary.Source != "scanner" {
		t.Fatalf("scanner should become primary when better sources fail, got %+v", out.Primary)
	}
	if out.Primary.Confidence != 65 {
		t.Errorf("scanner-backed confidence is fixed at 65, got %d", out.Primary.Confidence)
	}
	if len(out.Primary.InvestmentThesis) == 0 ||
		!strings.Contains(out.Primary.InvestmentThesis[0], "overall sentiment") {
		t.Errorf("scanner thesis should describe the sentiment: %+v", out.Primary.InvestmentThesis)
	}
	if len(out.Errors) != 2 {
		t.Errorf("quotes and history failures should be reported: %+v", out.Errors)
	}
}

func TestConsensusAllSourcesFailed(t *testing.T) {
	engine := newEngine(t, &fakeHistory{}, &fakeQuotes{}, &fakeScanner{err: models.NewProviderUnavailable("scanner", nil)})

	_, err := engine.Consensus(context.Background(), "ZZZ", "")
	if err == nil {
		t.Fatalf("expected failure when every source fails")
	}
	if !models.IsAllSourcesFailed(err) {
		t.Errorf("expected all-sources failure, got %v", err)
	}
	if !strings.Contains(err.Error(), "ZZZ") {
		t.Errorf("error should name the symbol: %v", err)
	}
}

func TestMergeOpinions(t *testing.T) {
	cases := []struct {
		name      string
		labels    []string
		label     string
		agreement string
	}{
		{"all buy", []string{"Strong Buy", "Buy", "Mild Buy"}, "Strong consensus to Buy", models.AgreementHigh},
		{"two buy one hold", []string{"Buy", "Buy", "Hold"}, "Moderate consensus to Buy", models.AgreementModerate},
		{"all sell", []string{"Sell", "Strong Sell", "Mild Sell"}, "Strong consensus to Sell", models.AgreementHigh},
		{"two sell one buy", []string{"Sell", "Sell", "Buy"}, "Moderate consensus to Sell", models.AgreementModerate},
		{"split", []string{"Buy", "Sell", "Hold"}, "Mixed signals across sources", models.AgreementLow},
		{"all hold", []string{"Hold", "Hold", "Hold"}, "Mixed signals across sources", models.AgreementLow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var opinions []models.SourceOpinion
			for _, l := range tc.labels {
				opinions = append(opinions, models.SourceOpinion{Recommendation: l})
			}
			label, agreement := mergeOpinions(opinions)
			if label != tc.label {
				t.Errorf("label: got %q want %q", label, tc.label)
			}
			if agreement != tc.agreement {
				t.Errorf("agreement: got %q want %q", agreement, tc.agreement)
			}
		})
	}
}
