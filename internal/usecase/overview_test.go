package usecase

import (
	"context"
	"testing"
	"time"

	"FinAdvisor/internal/domain/models"
	svccache "FinAdvisor/internal/service/cache"
	pkgcache "FinAdvisor/pkg/cache"
)

func newReporter(t *testing.T, quotes *fakeQuotes) *MarketReporter {
	t.Helper()
	cache := svccache.New(pkgcache.NewMemoryCache(), svccache.DefaultConfig())
	return NewMarketReporter(quotes, cache, testRecorder, testLogger(t), 5*time.Second)
}

func TestOverview(t *testing.T) {
	quotes := &fakeQuotes{
		global: &models.GlobalMetrics{TotalMarketCap: 2.4e12, BTCDominance: 52.3},
		listings: []models.Listing{
			{Symbol: "BTC", Name: "Bitcoin", Price: 72000},
			{Symbol: "ETH", Name: "Ethereum", Price: 3600},
		},
	}
	reporter := newReporter(t, quotes)

	out, err := reporter.Overview(context.Background(), 0)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if out.Global == nil || out.Global.BTCDominance != 52.3 {
		t.Errorf("global metrics missing: %+v", out.Global)
	}
	if len(out.TopAssets) != 2 {
		t.Errorf("top assets missing: %+v", out.TopAssets)
	}
	if len(out.Errors) != 0 {
		t.Errorf("no errors expected: %+v", out.Errors)
	}
}

func TestOverviewPartialFailure(t *testing.T) {
	quotes := &fakeQuotes{
		listings: []models.Listing{{Symbol: "BTC", Name: "Bitcoin", Price: 72000}},
	}
	reporter := newReporter(t, quotes)

	out, err := reporter.Overview(context.Background(), 0)
	if err != nil {
		t.Fatalf("one half failing must not sink the overview: %v", err)
	}
	if out.Global != nil {
		t.Errorf("global metrics should be absent")
	}
	if len(out.TopAssets) != 1 {
		t.Errorf("listings should survive: %+v", out.TopAssets)
	}
	if _, ok := out.Errors["global_metrics"]; !ok {
		t.Errorf("the failed half should be reported: %+v", out.Errors)
	}
}

func TestOverviewAllFailed(t *testing.T) {
	reporter := newReporter(t, &fakeQuotes{err: models.NewProviderUnavailable("fake", nil)})
	_, err := reporter.Overview(context.Background(), 0)
	if err == nil {
		t.Fatalf("expected failure when nothing could be fetched")
	}
	if !models.IsAllSourcesFailed(err) {
		t.Errorf("expected all-sources failure, got %v", err)
	}
}

func TestScanNormalizesInput(t *testing.T) {
	scanner := &fakeScanner{scan: models.MultiTimeframeScan{
		Symbol:  "BTC",
		Overall: "Buy",
		Timeframes: map[models.Timeframe]*models.TimeframeScan{
			models.TF4h: {Timeframe: models.TF4h, Recommendation: "Buy"},
		},
	}}
	runner := NewScanRunner(scanner, testRecorder, 5*time.Second)

	out, err := runner.Scan(context.Background(), "btc-usd", []string{"4h", "bogus"})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if scanner.gotSymbol != "BTC" {
		t.Errorf("symbol should be cleaned for the scanner, got %q", scanner.gotSymbol)
	}
	want := []models.Timeframe{models.TF4h, models.TF1d}
	if len(scanner.gotTFs) != len(want) {
		t.Fatalf("timeframes: got %v want %v", scanner.gotTFs, want)
	}
	for i, tf := range want {
		if scanner.gotTFs[i] != tf {
			t.Errorf("timeframe %d: got %s want %s", i, scanner.gotTFs[i], tf)
		}
	}
	if out.Overall != "Buy" {
		t.Errorf("scan result should pass through, got %q", out.Overall)
	}
}

func TestScanPropagatesError(t *testing.T) {
	runner := NewScanRunner(&fakeScanner{err: models.NewProviderUnavailable("scanner", nil)}, testRecorder, time.Second)
	if _, err := runner.Scan(context.Background(), "BTC", nil); err == nil {
		t.Fatalf("scanner errors must propagate")
	}
}
