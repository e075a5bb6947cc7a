package usecase

import (
	"context"
	"sync"
	"time"

	"FinAdvisor/internal/domain/models"
	domsvc "FinAdvisor/internal/domain/service"
	svccache "FinAdvisor/internal/service/cache"
	"FinAdvisor/pkg/logger"
	"FinAdvisor/pkg/metrics"
)

const (
	DefaultListingLimit = 10
	maxListingLimit     = 100
)

// MarketReporter assembles the crypto market overview from the quote
// provider's global metrics and top listings.
type MarketReporter struct {
	quotes  domsvc.QuoteProvider
	cache   *svccache.ProviderCache
	rec     *metrics.Recorder
	log     *logger.Logger
	timeout time.Duration
}

func NewMarketReporter(quotes domsvc.QuoteProvider, cache *svccache.ProviderCache, rec *metrics.Recorder, log *logger.Logger, timeout time.Duration) *MarketReporter {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &MarketReporter{quotes: quotes, cache: cache, rec: rec, log: log, timeout: timeout}
}

type overviewItem struct {
	name string
	val  interface{}
	err  error
}

// Overview fetches global metrics and the top listings concurrently.
// Either half may fail independently; failures land in Errors.
func (m *MarketReporter) Overview(ctx context.Context, limit int) (*models.MarketOverview, error) {
	if limit <= 0 {
		limit = DefaultListingLimit
	}
	if limit > maxListingLimit {
		limit = maxListingLimit
	}
	start := time.Now()
	defer func() { m.rec.RecordLatency("overview", time.Since(start).Seconds()) }()

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	ch := make(chan overviewItem, 2)
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		g, err := m.fetchGlobal(ctx)
		ch <- overviewItem{name: "global_metrics", val: g, err: err}
	}()
	go func() {
		defer wg.Done()
		listings, err := m.quotes.Listings(ctx, limit)
		ch <- overviewItem{name: "top_assets", val: listings, err: err}
	}()

	go func() {
		wg.Wait()
		close(ch)
	}()

	out := &models.MarketOverview{Timestamp: time.Now().UTC()}
	errs := make(map[string]string)
	for item := range ch {
		if item.err != nil {
			errs[item.name] = item.err.Error()
			m.log.Warn("overview source failed",
				logger.String("source", item.name),
				logger.Error(item.err),
			)
			continue
		}
		switch item.name {
		case "global_metrics":
			g := item.val.(models.GlobalMetrics)
			out.Global = &g
		case "top_assets":
			out.TopAssets = item.val.([]models.Listing)
		}
	}

	if out.Global == nil && len(out.TopAssets) == 0 {
		m.rec.RecordError("overview")
		return nil, models.NewAllSourcesFailed("market overview")
	}
	if len(errs) > 0 {
		out.Errors = errs
	}
	return out, nil
}

func (m *MarketReporter) fetchGlobal(ctx context.Context) (models.GlobalMetrics, error) {
	if g, ok := m.cache.GetGlobal(ctx); ok {
		return g, nil
	}
	g, err := m.quotes.GlobalMetrics(ctx)
	if err != nil {
		return models.GlobalMetrics{}, err
	}
	m.cache.SetGlobal(ctx, g)
	return g, nil
}
