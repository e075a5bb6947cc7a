package di

import (
	"fmt"
	"io"
	"time"

	"FinAdvisor/internal/domain/service"
	"FinAdvisor/internal/handler/api"
	svccache "FinAdvisor/internal/service/cache"
	"FinAdvisor/internal/service/coinmarket"
	"FinAdvisor/internal/service/equity"
	provmetrics "FinAdvisor/internal/service/metrics"
	"FinAdvisor/internal/service/ratelimit"
	"FinAdvisor/internal/service/scanner"
	"FinAdvisor/internal/usecase"
	pkgcache "FinAdvisor/pkg/cache"
	"FinAdvisor/pkg/config"
	xhttp "FinAdvisor/pkg/http"
	applogger "FinAdvisor/pkg/logger"
	"FinAdvisor/pkg/metrics"
	"FinAdvisor/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	lcfg := &applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}
	if lcfg.Level == "" {
		lcfg.Level = "info"
	}
	if lcfg.Format == "" {
		lcfg.Format = "console"
	}
	if lcfg.Output == "" {
		lcfg.Output = "stdout"
	}
	l, err := applogger.New(lcfg)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	// Fold repeated provider failures into periodic summary lines.
	l.AddCollector(&applogger.CollectionConfig{
		TimeInterval:   30 * time.Second,
		CountThreshold: 100,
		Sink:           applogger.NewSummarySink(l),
	})
	return l, nil
}

// ProvideMetrics creates the Prometheus recorder and registers the
// provider-level collectors.
func ProvideMetrics() *metrics.Recorder {
	provmetrics.Register()
	return metrics.New()
}

// ProvideCacheService selects the cache backend. With Redis enabled the
// memory layer fronts it; otherwise a process-local cache is used.
func ProvideCacheService(cfg *config.Config) (pkgcache.Service, error) {
	if !cfg.Cache.Redis.Enabled {
		return pkgcache.NewMemoryCache(), nil
	}
	redisCache, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(cfg.Cache.Redis.Host),
		pkgcache.WithRedisPort(cfg.Cache.Redis.Port),
		pkgcache.WithRedisPassword(cfg.Cache.Redis.Password),
		pkgcache.WithRedisDB(cfg.Cache.Redis.DB),
		pkgcache.WithRedisPrefix("finadvisor"),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return pkgcache.NewLayeredCache(redisCache), nil
}

// ProvideProviderCache wraps the cache service in the typed facade.
func ProvideProviderCache(svc pkgcache.Service, cfg *config.Config) *svccache.ProviderCache {
	return svccache.New(svc, svccache.Config{
		QuoteTTL:    cfg.Cache.QuoteTTL,
		SeriesTTL:   cfg.Cache.SeriesTTL,
		SnapshotTTL: cfg.Cache.SnapshotTTL,
		GlobalTTL:   cfg.Cache.GlobalTTL,
	})
}

// ProvideRateLimiter creates the shared outbound rate limiter.
func ProvideRateLimiter() *ratelimit.Limiter {
	return ratelimit.New()
}

// ProvideHistoryProvider creates the market-data sidecar client.
func ProvideHistoryProvider(cfg *config.Config, log *applogger.Logger) service.HistoryProvider {
	return equity.New(equity.Config{
		BaseURL: cfg.MarketData.BaseURL,
		Timeout: cfg.MarketData.Timeout,
		Retries: cfg.MarketData.Retries,
	}, log)
}

// ProvideQuoteProvider creates the CoinMarketCap client.
func ProvideQuoteProvider(cfg *config.Config, limiter *ratelimit.Limiter, log *applogger.Logger) service.QuoteProvider {
	return coinmarket.New(coinmarket.Config{
		BaseURL:       cfg.CoinMarketCap.BaseURL,
		APIKey:        cfg.CoinMarketCap.APIKey,
		Timeout:       cfg.CoinMarketCap.Timeout,
		RateCapacity:  cfg.CoinMarketCap.RateCapacity,
		RatePerSecond: cfg.CoinMarketCap.RatePerSecond,
	}, limiter, log)
}

// ProvideScanner creates the screener client.
func ProvideScanner(cfg *config.Config, limiter *ratelimit.Limiter, log *applogger.Logger) service.Scanner {
	return scanner.New(scanner.Config{
		BaseURL:       cfg.Scanner.BaseURL,
		Timeout:       cfg.Scanner.Timeout,
		Retries:       cfg.Scanner.Retries,
		RateCapacity:  cfg.Scanner.RateCapacity,
		RatePerSecond: cfg.Scanner.RatePerSecond,
	}, limiter, log)
}

// ProvideAdvisor creates the core analysis usecase.
func ProvideAdvisor(
	history service.HistoryProvider,
	quotes service.QuoteProvider,
	cache *svccache.ProviderCache,
	rec *metrics.Recorder,
	log *applogger.Logger,
) *usecase.Advisor {
	return usecase.NewAdvisor(history, quotes, cache, rec, log)
}

// ProvideConsensusEngine creates the cross-source consensus usecase.
func ProvideConsensusEngine(
	advisor *usecase.Advisor,
	scan service.Scanner,
	rec *metrics.Recorder,
	log *applogger.Logger,
	cfg *config.Config,
) *usecase.ConsensusEngine {
	return usecase.NewConsensusEngine(advisor, scan, rec, log, cfg.Server.RequestTimeout)
}

// ProvideComparator creates the multi-asset comparison usecase.
func ProvideComparator(advisor *usecase.Advisor, rec *metrics.Recorder, log *applogger.Logger, cfg *config.Config) *usecase.Comparator {
	return usecase.NewComparator(advisor, rec, log, cfg.Server.RequestTimeout)
}

// ProvideScanRunner creates the timeframe scan usecase.
func ProvideScanRunner(scan service.Scanner, rec *metrics.Recorder, cfg *config.Config) *usecase.ScanRunner {
	return usecase.NewScanRunner(scan, rec, cfg.Server.RequestTimeout)
}

// ProvideMarketReporter creates the market overview usecase.
func ProvideMarketReporter(
	quotes service.QuoteProvider,
	cache *svccache.ProviderCache,
	rec *metrics.Recorder,
	log *applogger.Logger,
	cfg *config.Config,
) *usecase.MarketReporter {
	return usecase.NewMarketReporter(quotes, cache, rec, log, cfg.Server.RequestTimeout)
}

// ProvideHandler wires the usecases into the HTTP handler.
func ProvideHandler(
	log *applogger.Logger,
	advisor *usecase.Advisor,
	consensus *usecase.ConsensusEngine,
	comparator *usecase.Comparator,
	scans *usecase.ScanRunner,
	overview *usecase.MarketReporter,
) xhttp.Handler {
	return api.NewAdviceHandler(log, advisor, consensus, comparator, scans, overview)
}

// ProvideApp creates the application server.
func ProvideApp(cfg *config.Config, log *applogger.Logger, handler xhttp.Handler, cacheSvc pkgcache.Service) *server.App {
	var closers []io.Closer
	if c, ok := cacheSvc.(io.Closer); ok {
		closers = append(closers, c)
	}
	return server.New(cfg, log, handler, closers...)
}
