package service

import (
	"context"

	"FinAdvisor/internal/domain/models"
)

// HistoryProvider serves price history plus equity snapshots. Backed by the
// market-data sidecar; the symbol convention is the sidecar's own.
type HistoryProvider interface {
	Series(ctx context.Context, symbol, period, interval string) (models.PriceSeries, error)
	Snapshot(ctx context.Context, symbol string) (models.Snapshot, error)
}

// QuoteProvider serves crypto quotes and market-wide metrics from the
// commercial quote API.
type QuoteProvider interface {
	Quote(ctx context.Context, symbol string) (models.Quote, error)
	Info(ctx context.Context, symbol string) (models.AssetInfo, error)
	GlobalMetrics(ctx context.Context) (models.GlobalMetrics, error)
	Listings(ctx context.Context, limit int) ([]models.Listing, error)
}

// Scanner serves technical-analysis ratings per timeframe from the
// screener API.
type Scanner interface {
	Analyze(ctx context.Context, symbol string, tf models.Timeframe) (models.TimeframeScan, error)
	MultiTimeframe(ctx context.Context, symbol string, tfs []models.Timeframe) (models.MultiTimeframeScan, error)
}
