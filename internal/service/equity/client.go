// Package equity implements the history provider against the
// market-data sidecar, which wraps the public quote feeds behind a
// small JSON API.
package equity

import (
	"context"
	"fmt"
	"time"

	"FinAdvisor/internal/domain/models"
	domsvc "FinAdvisor/internal/domain/service"
	"FinAdvisor/internal/service/metrics"
	xhttp "FinAdvisor/pkg/http"
	"FinAdvisor/pkg/logger"
)

const providerName = "marketdata"

// Config holds the sidecar connection settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Retries int
}

// Client talks to the market-data sidecar.
type Client struct {
	baseURL string
	retries int
	client  *xhttp.Client
	log     *logger.Logger
}

var _ domsvc.HistoryProvider = (*Client)(nil)

// New builds the history provider client.
func New(cfg Config, log *logger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	retries := cfg.Retries
	if retries <= 0 {
		retries = 2
	}
	return &Client{
		baseURL: cfg.BaseURL,
		retries: retries,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
		log:     log,
	}
}

// Series fetches a price history for one symbol.
func (c *Client) Series(ctx context.Context, symbol, period, interval string) (models.PriceSeries, error) {
	var series models.PriceSeries
	err := c.getJSONWithRetry(ctx, "/history", map[string][]string{
		"symbol":   {symbol},
		"period":   {period},
		"interval": {interval},
	}, &series)
	if err != nil {
		return models.PriceSeries{}, models.NewProviderUnavailable(providerName, err)
	}
	if series.IsEmpty() {
		return models.PriceSeries{}, models.NewNoData(providerName, symbol)
	}
	if series.Symbol == "" {
		series.Symbol = symbol
	}
	return series, nil
}

// Snapshot fetches the current price plus fundamentals and analyst data.
func (c *Client) Snapshot(ctx context.Context, symbol string) (models.Snapshot, error) {
	var snap models.Snapshot
	err := c.getJSONWithRetry(ctx, "/snapshot", map[string][]string{
		"symbol": {symbol},
	}, &snap)
	if err != nil {
		return models.Snapshot{}, models.NewProviderUnavailable(providerName, err)
	}
	if snap.Price == 0 && snap.Fundamentals == nil {
		return models.Snapshot{}, models.NewNoData(providerName, symbol)
	}
	if snap.Symbol == "" {
		snap.Symbol = symbol
	}
	return snap, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query map[string][]string, dest interface{}) error {
	if c.client == nil || c.baseURL == "" {
		return fmt.Errorf("marketdata client not initialized")
	}
	start := time.Now()
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.baseURL + path,
		QueryParams: query,
	}, dest)
	metrics.ProviderLatency.WithLabelValues(providerName, path).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ProviderErrors.WithLabelValues(providerName, path).Inc()
		return fmt.Errorf("get %s: %w", path, err)
	}
	return nil
}

func (c *Client) getJSONWithRetry(ctx context.Context, path string, query map[string][]string, dest interface{}) error {
	var err error
	for i := 1; i <= c.retries; i++ {
		err = c.getJSON(ctx, path, query, dest)
		if err == nil {
			return nil
		}
		if i == c.retries {
			break
		}
		select {
		case <-time.After(time.Duration(i) * 50 * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err != nil {
		c.log.Warn("marketdata request failed",
			logger.String("path", path),
			logger.Error(err),
		)
	}
	return err
}
