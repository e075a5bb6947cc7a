package usecase

import (
	"context"
	"testing"
	"time"

	"FinAdvisor/internal/domain/models"
	svccache "FinAdvisor/internal/service/cache"
	pkgcache "FinAdvisor/pkg/cache"
	"FinAdvisor/pkg/logger"
	"FinAdvisor/pkg/metrics"
)

// One recorder for the whole package; promauto registers globally and
// a second New would panic on duplicate collectors.
var testRecorder = metrics.New()

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

type fakeHistory struct {
	series map[string]models.PriceSeries
	snaps  map[string]models.Snapshot
	err    error
}

func (f *fakeHistory) Series(_ context.Context, symbol, period, interval string) (models.PriceSeries, error) {
	if f.err != nil {
		return models.PriceSeries{}, f.err
	}
	s, ok := f.series[symbol]
	if !ok || s.IsEmpty() {
		return models.PriceSeries{}, models.NewNoData("fake", symbol)
	}
	s.Period, s.Interval = period, interval
	return s, nil
}

func (f *fakeHistory) Snapshot(_ context.Context, symbol string) (models.Snapshot, error) {
	if f.err != nil {
		return models.Snapshot{}, f.err
	}
	s, ok := f.snaps[symbol]
	if !ok {
		return models.Snapshot{}, models.NewNoData("fake", symbol)
	}
	return s, nil
}

type fakeQuotes struct {
	quotes   map[string]models.Quote
	global   *models.GlobalMetrics
	listings []models.Listing
	err      error
}

func (f *fakeQuotes) Quote(_ context.Context, symbol string) (models.Quote, error) {
	if f.err != nil {
		return models.Quote{}, f.err
	}
	q, ok := f.quotes[symbol]
	if !ok {
		return models.Quote{}, models.NewNoData("fake", symbol)
	}
	return q, nil
}

func (f *fakeQuotes) Info(_ context.Context, symbol string) (models.AssetInfo, error) {
	if f.err != nil {
		return models.AssetInfo{}, f.err
	}
	return models.AssetInfo{Symbol: symbol}, nil
}

func (f *fakeQuotes) GlobalMetrics(_ context.Context) (models.GlobalMetrics, error) {
	if f.err != nil || f.global == nil {
		if f.err != nil {
			return models.GlobalMetrics{}, f.err
		}
		return models.GlobalMetrics{}, models.NewProviderUnavailable("fake", nil)
	}
	return *f.global, nil
}

func (f *fakeQuotes) Listings(_ context.Context, limit int) ([]models.Listing, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.listings) > limit {
		return f.listings[:limit], nil
	}
	return f.listings, nil
}

type fakeScanner struct {
	scan      models.MultiTimeframeScan
	err       error
	gotSymbol string
	gotTFs    []models.Timeframe
}

func (f *fakeScanner) Analyze(_ context.Context, symbol string, tf models.Timeframe) (models.TimeframeScan, error) {
	if f.err != nil {
		return models.TimeframeScan{}, f.err
	}
	if scan, ok := f.scan.Timeframes[tf]; ok {
		return *scan, nil
	}
	return models.TimeframeScan{}, models.NewNoData("fake", symbol)
}

func (f *fakeScanner) MultiTimeframe(_ context.Context, symbol string, tfs []models.Timeframe) (models.MultiTimeframeScan, error) {
	f.gotSymbol = symbol
	f.gotTFs = tfs
	if f.err != nil {
		return models.MultiTimeframeScan{}, f.err
	}
	return f.scan, nil
}

func newTestAdvisor(t *testing.T, hist *fakeHistory, quotes *fakeQuotes) *Advisor {
	t.Helper()
	cache := svccache.New(pkgcache.NewMemoryCache(), svccache.DefaultConfig())
	return NewAdvisor(hist, quotes, cache, testRecorder, testLogger(t))
}

// risingSeries builds n daily candles climbing by step from start.
func risingSeries(symbol string, n int, start, step float64) models.PriceSeries {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]models.Candle, n)
	for i := 0; i < n; i++ {
		price := start + float64(i)*step
		candles[i] = models.Candle{
			Bucket: base.AddDate(0, 0, i),
			Open:   price, High: price + 1, Low: price - 1, Close: price,
			Volume: 1000,
		}
	}
	return models.PriceSeries{Symbol: symbol, Period: "1y", Interval: "1d", Candles: candles}
}

// wobblySeries adds a deterministic oscillation so returns have variance.
func wobblySeries(symbol string, n int, start, step, wobble float64) models.PriceSeries {
	s := risingSeries(symbol, n, start, step)
	for i := range s.Candles {
		if i%2 == 0 {
			s.Candles[i].Close += wobble
		} else {
			s.Candles[i].Close -= wobble
		}
	}
	return s
}

func fptr(v float64) *float64 { return &v }

func strongSnapshot(symbol, name string) models.Snapshot {
	return models.Snapshot{
		Symbol: symbol,
		Name:   name,
		Price:  180,
		Fundamentals: &models.Fundamentals{
			CompanyName:      name,
			Sector:           "Technology",
			Industry:         "Consumer Electronics",
			MarketCap:        fptr(2.8e12),
			PERatio:          fptr(12),
			EPS:              fptr(6.1),
			DividendYield:    fptr(0.0055),
			High52w:          fptr(200),
			Low52w:           fptr(140),
			ProfitMargin:     fptr(0.25),
			ReturnOnEquity:   fptr(25),
			DebtToEquity:     fptr(0.3),
			RevenueGrowthPct: fptr(25),
		},
		Ratings: &models.AnalystRatings{Counts: map[string]int{
			"Strong Buy": 12, "Buy": 8, "Hold": 3,
		}},
	}
}
