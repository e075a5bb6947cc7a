// Package coinmarket implements the crypto quote provider against the
// CoinMarketCap v1 API. Responses arrive in a {status, data} envelope
// with per-symbol entries and USD-denominated quote blocks.
package coinmarket

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"FinAdvisor/internal/domain/models"
	domsvc "FinAdvisor/internal/domain/service"
	"FinAdvisor/internal/service/metrics"
	"FinAdvisor/internal/service/ratelimit"
	xhttp "FinAdvisor/pkg/http"
	"FinAdvisor/pkg/logger"
	"FinAdvisor/pkg/util"
)

const (
	providerName   = "coinmarketcap"
	DefaultBaseURL = "https://pro-api.coinmarketcap.com/v1"
	apiKeyHeader   = "X-CMC_PRO_API_KEY"
)

// Config holds API connection settings and the outbound rate cap.
type Config struct {
	BaseURL       string
	APIKey        string
	Timeout       time.Duration
	RateCapacity  float64
	RatePerSecond float64
}

// Client is the CoinMarketCap API client.
type Client struct {
	cfg     Config
	client  *xhttp.Client
	limiter *ratelimit.Limiter
	log     *logger.Logger
}

var _ domsvc.QuoteProvider = (*Client)(nil)

// New builds the quote provider client.
func New(cfg Config, limiter *ratelimit.Limiter, log *logger.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RateCapacity <= 0 {
		cfg.RateCapacity = 5
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = 2
	}
	return &Client{
		cfg:     cfg,
		client:  xhttp.NewClient(xhttp.WithTimeout(cfg.Timeout)),
		limiter: limiter,
		log:     log,
	}
}

// Wire types mirror the provider's envelope.

type apiStatus struct {
	ErrorCode    int    `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

type usdQuote struct {
	Price              float64  `json:"price"`
	Volume24h          float64  `json:"volume_24h"`
	PctChange1h        float64  `json:"percent_change_1h"`
	PctChange24h       float64  `json:"percent_change_24h"`
	PctChange7d        float64  `json:"percent_change_7d"`
	PctChange30d       float64  `json:"percent_change_30d"`
	PctChange60d       *float64 `json:"percent_change_60d"`
	PctChange90d       *float64 `json:"percent_change_90d"`
	MarketCap          float64  `json:"market_cap"`
	MarketCapDominance float64  `json:"market_cap_dominance"`
	LastUpdated        string   `json:"last_updated"`
}

type quoteEntry struct {
	Name   string              `json:"name"`
	Symbol string              `json:"symbol"`
	Quote  map[string]usdQuote `json:"quote"`
}

type quotesResponse struct {
	Status apiStatus             `json:"status"`
	Data   map[string]quoteEntry `json:"data"`
}

type infoEntry struct {
	Name        string   `json:"name"`
	Symbol      string   `json:"symbol"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

type infoResponse struct {
	Status apiStatus            `json:"status"`
	Data   map[string]infoEntry `json:"data"`
}

type globalData struct {
	BTCDominance     float64 `json:"btc_dominance"`
	ETHDominance     float64 `json:"eth_dominance"`
	DeFiMarketCap    float64 `json:"defi_market_cap"`
	ActiveCurrencies int     `json:"active_cryptocurrencies"`
	Quote            map[string]struct {
		TotalMarketCap float64 `json:"total_market_cap"`
		TotalVolume24h float64 `json:"total_volume_24h"`
		LastUpdated    string  `json:"last_updated"`
	} `json:"quote"`
}

type globalResponse struct {
	Status apiStatus  `json:"status"`
	Data   globalData `json:"data"`
}

type listingsResponse struct {
	Status apiStatus    `json:"status"`
	Data   []quoteEntry `json:"data"`
}

// Quote fetches the latest USD quote for one symbol.
func (c *Client) Quote(ctx context.Context, symbol string) (models.Quote, error) {
	sym := models.CleanCryptoSymbol(symbol)
	var resp quotesResponse
	err := c.getJSON(ctx, "/cryptocurrency/quotes/latest", map[string][]string{
		"symbol":  {sym},
		"convert": {"USD"},
	}, &resp, resp.statusRef)
	if err != nil {
		return models.Quote{}, err
	}
	entry, ok := resp.Data[sym]
	if !ok {
		return models.Quote{}, models.NewNoData(providerName, sym)
	}
	usd, ok := entry.Quote["USD"]
	if !ok {
		return models.Quote{}, models.NewNoData(providerName, sym)
	}
	return models.Quote{
		Symbol:       entry.Symbol,
		Name:         entry.Name,
		Price:        usd.Price,
		MarketCap:    usd.MarketCap,
		Volume24h:    usd.Volume24h,
		PctChange1h:  usd.PctChange1h,
		PctChange24h: usd.PctChange24h,
		PctChange7d:  usd.PctChange7d,
		PctChange30d: usd.PctChange30d,
		PctChange60d: usd.PctChange60d,
		PctChange90d: usd.PctChange90d,
		Dominance:    usd.MarketCapDominance,
		Updated:      parseTimestamp(usd.LastUpdated),
	}, nil
}

// Info fetches asset metadata.
func (c *Client) Info(ctx context.Context, symbol string) (models.AssetInfo, error) {
	sym := models.CleanCryptoSymbol(symbol)
	var resp infoResponse
	err := c.getJSON(ctx, "/cryptocurrency/info", map[string][]string{
		"symbol": {sym},
	}, &resp, resp.statusRef)
	if err != nil {
		return models.AssetInfo{}, err
	}
	entry, ok := resp.Data[sym]
	if !ok {
		return models.AssetInfo{}, models.NewNoData(providerName, sym)
	}
	return models.AssetInfo{
		Symbol:      entry.Symbol,
		Name:        entry.Name,
		Category:    entry.Category,
		Tags:        entry.Tags,
		Description: entry.Description,
	}, nil
}

// GlobalMetrics fetches market-wide metrics.
func (c *Client) GlobalMetrics(ctx context.Context) (models.GlobalMetrics, error) {
	var resp globalResponse
	err := c.getJSON(ctx, "/global-metrics/quotes/latest", map[string][]string{
		"convert": {"USD"},
	}, &resp, resp.statusRef)
	if err != nil {
		return models.GlobalMetrics{}, err
	}
	out := models.GlobalMetrics{
		BTCDominance:     resp.Data.BTCDominance,
		ETHDominance:     resp.Data.ETHDominance,
		DeFiMarketCap:    resp.Data.DeFiMarketCap,
		ActiveCurrencies: resp.Data.ActiveCurrencies,
	}
	if usd, ok := resp.Data.Quote["USD"]; ok {
		out.TotalMarketCap = usd.TotalMarketCap
		out.TotalVolume24h = usd.TotalVolume24h
		out.Updated = parseTimestamp(usd.LastUpdated)
	}
	return out, nil
}

// Listings fetches the top assets by market cap.
func (c *Client) Listings(ctx context.Context, limit int) ([]models.Listing, error) {
	if limit <= 0 {
		limit = 10
	}
	var resp listingsResponse
	err := c.getJSON(ctx, "/cryptocurrency/listings/latest", map[string][]string{
		"limit":   {strconv.Itoa(limit)},
		"convert": {"USD"},
		"sort":    {"market_cap"},
	}, &resp, resp.statusRef)
	if err != nil {
		return nil, err
	}
	out := make([]models.Listing, 0, len(resp.Data))
	for _, entry := range resp.Data {
		usd, ok := entry.Quote["USD"]
		if !ok {
			continue
		}
		out = append(out, models.Listing{
			Symbol:       entry.Symbol,
			Name:         entry.Name,
			Price:        usd.Price,
			MarketCap:    usd.MarketCap,
			PctChange24h: usd.PctChange24h,
			PctChange7d:  usd.PctChange7d,
		})
	}
	if len(out) == 0 {
		return nil, models.NewNoData(providerName, "listings")
	}
	return out, nil
}

// statusRef helpers let getJSON check the envelope after decode.
func (r *quotesResponse) statusRef() apiStatus   { return r.Status }
func (r *infoResponse) statusRef() apiStatus     { return r.Status }
func (r *globalResponse) statusRef() apiStatus   { return r.Status }
func (r *listingsResponse) statusRef() apiStatus { return r.Status }

func (c *Client) getJSON(ctx context.Context, path string, query map[string][]string, dest interface{}, status func() apiStatus) error {
	if c.cfg.APIKey == "" {
		return models.NewProviderUnavailable(providerName, fmt.Errorf("api key not configured"))
	}
	if c.limiter != nil {
		if err := c.limiter.WaitAllow(ctx, providerName, c.cfg.RateCapacity, c.cfg.RatePerSecond); err != nil {
			return models.NewProviderUnavailable(providerName, err)
		}
	}
	start := time.Now()
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.cfg.BaseURL + path,
		Headers: map[string]string{
			apiKeyHeader: c.cfg.APIKey,
			"Accept":     "application/json",
		},
		QueryParams: query,
	}, dest)
	metrics.ProviderLatency.WithLabelValues(providerName, path).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ProviderErrors.WithLabelValues(providerName, path).Inc()
		c.log.Warn("coinmarketcap request failed",
			logger.String("path", path),
			logger.Error(err),
		)
		return models.NewProviderUnavailable(providerName, err)
	}
	if st := status(); st.ErrorCode != 0 {
		metrics.ProviderErrors.WithLabelValues(providerName, path).Inc()
		return models.NewProviderUnavailable(providerName, fmt.Errorf("api error %d: %s", st.ErrorCode, st.ErrorMessage))
	}
	return nil
}

func parseTimestamp(s string) time.Time {
	return util.ParseTimeDefault(s, time.Time{})
}
