// Package cache provides a typed facade over the shared cache service
// for provider responses. Quotes, series and global metrics are cached
// for short TTLs to absorb repeated fetches inside comparison and
// consensus bursts. Recommendations themselves are never cached.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"FinAdvisor/internal/domain/models"
	"FinAdvisor/internal/service/metrics"
	pkgcache "FinAdvisor/pkg/cache"
)

// TTLs per response kind.
type Config struct {
	QuoteTTL    time.Duration
	SeriesTTL   time.Duration
	SnapshotTTL time.Duration
	GlobalTTL   time.Duration
}

// DefaultConfig returns the standard TTL set.
func DefaultConfig() Config {
	return Config{
		QuoteTTL:    30 * time.Second,
		SeriesTTL:   5 * time.Minute,
		SnapshotTTL: 2 * time.Minute,
		GlobalTTL:   2 * time.Minute,
	}
}

// ProviderCache caches provider responses by kind.
type ProviderCache struct {
	svc pkgcache.Service
	cfg Config
}

// New builds the provider cache facade. A nil service disables caching.
func New(svc pkgcache.Service, cfg Config) *ProviderCache {
	if cfg.QuoteTTL <= 0 {
		cfg.QuoteTTL = DefaultConfig().QuoteTTL
	}
	if cfg.SeriesTTL <= 0 {
		cfg.SeriesTTL = DefaultConfig().SeriesTTL
	}
	if cfg.SnapshotTTL <= 0 {
		cfg.SnapshotTTL = DefaultConfig().SnapshotTTL
	}
	if cfg.GlobalTTL <= 0 {
		cfg.GlobalTTL = DefaultConfig().GlobalTTL
	}
	return &ProviderCache{svc: svc, cfg: cfg}
}

// Values are stored as JSON strings so every Service backend handles
// them the same way.
func (c *ProviderCache) get(ctx context.Context, kind, key string, dest interface{}) bool {
	if c == nil || c.svc == nil {
		return false
	}
	var raw string
	if err := c.svc.Get(ctx, key, &raw); err != nil || raw == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false
	}
	metrics.CacheHits.WithLabelValues(kind).Inc()
	return true
}

func (c *ProviderCache) set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if c == nil || c.svc == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	// best effort; a failed write only costs a refetch
	_ = c.svc.Set(ctx, key, string(raw), ttl)
}

func seriesKey(symbol, period, interval string) string {
	return pkgcache.GenerateKeyWithParams("series", symbol, period, interval)
}

// GetSeries looks up a cached price series.
func (c *ProviderCache) GetSeries(ctx context.Context, symbol, period, interval string) (models.PriceSeries, bool) {
	var s models.PriceSeries
	ok := c.get(ctx, "series", seriesKey(symbol, period, interval), &s)
	return s, ok
}

// SetSeries stores a price series.
func (c *ProviderCache) SetSeries(ctx context.Context, s models.PriceSeries) {
	c.set(ctx, seriesKey(s.Symbol, s.Period, s.Interval), s, c.cfg.SeriesTTL)
}

// GetQuote looks up a cached crypto quote.
func (c *ProviderCache) GetQuote(ctx context.Context, symbol string) (models.Quote, bool) {
	var q models.Quote
	ok := c.get(ctx, "quote", pkgcache.GenerateKey("quote", symbol), &q)
	return q, ok
}

// SetQuote stores a crypto quote.
func (c *ProviderCache) SetQuote(ctx context.Context, q models.Quote) {
	c.set(ctx, pkgcache.GenerateKey("quote", q.Symbol), q, c.cfg.QuoteTTL)
}

// GetSnapshot looks up a cached equity snapshot.
func (c *ProviderCache) GetSnapshot(ctx context.Context, symbol string) (models.Snapshot, bool) {
	var s models.Snapshot
	ok := c.get(ctx, "snapshot", pkgcache.GenerateKey("snapshot", symbol), &s)
	return s, ok
}

// SetSnapshot stores an equity snapshot.
func (c *ProviderCache) SetSnapshot(ctx context.Context, s models.Snapshot) {
	c.set(ctx, pkgcache.GenerateKey("snapshot", s.Symbol), s, c.cfg.SnapshotTTL)
}

// GetGlobal looks up cached global metrics.
func (c *ProviderCache) GetGlobal(ctx context.Context) (models.GlobalMetrics, bool) {
	var g models.GlobalMetrics
	ok := c.get(ctx, "global", "global:metrics", &g)
	return g, ok
}

// SetGlobal stores global metrics.
func (c *ProviderCache) SetGlobal(ctx context.Context, g models.GlobalMetrics) {
	c.set(ctx, "global:metrics", g, c.cfg.GlobalTTL)
}
