// Package scanner implements the technical-analysis provider against
// the public screener scan API. The response carries one positional
// value array per ticker which is zipped back onto the requested
// column names; missing values arrive as nulls.
package scanner

import (
	"context"
	"fmt"
	"time"

	"FinAdvisor/internal/domain/models"
	domsvc "FinAdvisor/internal/domain/service"
	"FinAdvisor/internal/service/metrics"
	"FinAdvisor/internal/service/ratelimit"
	xhttp "FinAdvisor/pkg/http"
	"FinAdvisor/pkg/logger"
)

const (
	providerName   = "scanner"
	DefaultBaseURL = "https://scanner.tradingview.com"
)

// Config holds the screener connection settings and rate cap.
type Config struct {
	BaseURL       string
	Timeout       time.Duration
	Retries       int
	RateCapacity  float64
	RatePerSecond float64
}

// Client is the screener scan client.
type Client struct {
	cfg     Config
	client  *xhttp.Client
	limiter *ratelimit.Limiter
	log     *logger.Logger
}

var _ domsvc.Scanner = (*Client)(nil)

// New builds the scanner client.
func New(cfg Config, limiter *ratelimit.Limiter, log *logger.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Retries <= 0 {
		cfg.Retries = 2
	}
	if cfg.RateCapacity <= 0 {
		cfg.RateCapacity = 10
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = 5
	}
	// The screener rejects non-browser user agents.
	httpClient := xhttp.NewClient(
		xhttp.WithTimeout(cfg.Timeout),
		xhttp.WithUserAgent("Mozilla/5.0 (compatible; FinAdvisor/1.0)"),
	)
	return &Client{
		cfg:     cfg,
		client:  httpClient,
		limiter: limiter,
		log:     log,
	}
}

// columns requested per scan, zipped positionally with the response.
var baseColumns = []string{
	"Recommend.All", "Recommend.MA", "Recommend.Other",
	"RSI", "RSI[1]",
	"Stoch.K", "Stoch.D", "Stoch.K[1]", "Stoch.D[1]",
	"MACD.macd", "MACD.signal",
	"SMA20", "SMA50", "SMA200",
	"BB.lower", "BB.upper",
	"volume", "change", "close",
}

// interval suffixes appended to column names; daily is the default and
// carries no suffix.
var intervalSuffix = map[models.Timeframe]string{
	models.TF1d:  "",
	models.TF4h:  "|240",
	models.TF1h:  "|60",
	models.TF15m: "|15",
}

type scanRequest struct {
	Symbols scanSymbols `json:"symbols"`
	Columns []string    `json:"columns"`
}

type scanSymbols struct {
	Tickers []string  `json:"tickers"`
	Query   scanQuery `json:"query"`
}

type scanQuery struct {
	Types []string `json:"types"`
}

type scanResponse struct {
	TotalCount int        `json:"totalCount"`
	Data       []scanItem `json:"data"`
}

type scanItem struct {
	Symbol string     `json:"s"`
	Values []*float64 `json:"d"`
}

// Analyze scans one symbol on one timeframe, resolving the ticker
// through the exchange fallback chain.
func (c *Client) Analyze(ctx context.Context, symbol string, tf models.Timeframe) (models.TimeframeScan, error) {
	if !models.IsValidTimeframe(tf) {
		tf = models.DefaultTimeframe()
	}
	sym := models.CleanCryptoSymbol(symbol)
	tickers := []string{
		"BINANCE:" + sym + "USDT",
		"COINBASE:" + sym + "USD",
		"BINANCE:" + sym + "BTC",
	}
	var lastErr error
	for _, ticker := range tickers {
		cols, err := c.scan(ctx, ticker, tf)
		if err != nil {
			lastErr = err
			continue
		}
		return interpret(cols, tf), nil
	}
	if lastErr == nil {
		lastErr = models.NewNoData(providerName, sym)
	}
	return models.TimeframeScan{}, lastErr
}

// MultiTimeframe scans the symbol across the given timeframes,
// recording per-timeframe failures without failing the whole call.
func (c *Client) MultiTimeframe(ctx context.Context, symbol string, tfs []models.Timeframe) (models.MultiTimeframeScan, error) {
	if len(tfs) == 0 {
		tfs = []models.Timeframe{models.TF1d, models.TF4h, models.TF1h, models.TF15m}
	}
	out := models.MultiTimeframeScan{
		Symbol:     models.CleanCryptoSymbol(symbol),
		Timeframes: make(map[models.Timeframe]*models.TimeframeScan, len(tfs)),
		Errors:     make(map[models.Timeframe]string),
	}
	for _, tf := range tfs {
		scan, err := c.Analyze(ctx, symbol, tf)
		if err != nil {
			out.Errors[tf] = err.Error()
			continue
		}
		s := scan
		out.Timeframes[tf] = &s
		out.Bullish += scan.Bullish
		out.Bearish += scan.Bearish
		out.Neutral += scan.Neutral
	}
	if len(out.Timeframes) == 0 {
		return models.MultiTimeframeScan{}, models.NewNoData(providerName, symbol)
	}
	out.Overall = overallSentiment(out.Bullish, out.Bearish)
	return out, nil
}

// scan performs one POST and zips the positional values onto columns.
func (c *Client) scan(ctx context.Context, ticker string, tf models.Timeframe) (map[string]*float64, error) {
	if c.limiter != nil {
		if err := c.limiter.WaitAllow(ctx, providerName, c.cfg.RateCapacity, c.cfg.RatePerSecond); err != nil {
			return nil, models.NewProviderUnavailable(providerName, err)
		}
	}
	suffix := intervalSuffix[tf]
	columns := make([]string, len(baseColumns))
	for i, col := range baseColumns {
		columns[i] = col + suffix
	}
	payload := scanRequest{
		Symbols: scanSymbols{Tickers: []string{ticker}, Query: scanQuery{Types: []string{}}},
		Columns: columns,
	}

	var resp scanResponse
	var err error
	path := "/crypto/scan"
	for i := 1; i <= c.cfg.Retries; i++ {
		start := time.Now()
		err = c.client.SendAndParse(ctx, &xhttp.RequestOptions{
			Method: xhttp.MethodPost,
			URL:    c.cfg.BaseURL + path,
			Body:   payload,
		}, &resp)
		metrics.ProviderLatency.WithLabelValues(providerName, path).Observe(time.Since(start).Seconds())
		if err == nil {
			break
		}
		metrics.ProviderErrors.WithLabelValues(providerName, path).Inc()
		if i == c.cfg.Retries {
			break
		}
		select {
		case <-time.After(time.Duration(i) * 50 * time.Millisecond):
		case <-ctx.Done():
			return nil, models.NewProviderUnavailable(providerName, ctx.Err())
		}
	}
	if err != nil {
		c.log.Warn("scanner request failed",
			logger.String("ticker", ticker),
			logger.Error(err),
		)
		return nil, models.NewProviderUnavailable(providerName, err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Values) == 0 {
		return nil, models.NewNoData(providerName, ticker)
	}

	values := resp.Data[0].Values
	cols := make(map[string]*float64, len(baseColumns))
	for i, name := range baseColumns {
		if i < len(values) {
			cols[name] = values[i]
		}
	}
	return cols, nil
}

// interpret applies the rating rules to a zipped column map.
func interpret(cols map[string]*float64, tf models.Timeframe) models.TimeframeScan {
	scan := models.TimeframeScan{Timeframe: tf}
	val := func(name string) (float64, bool) {
		v, ok := cols[name]
		if !ok || v == nil {
			return 0, false
		}
		return *v, true
	}
	add := func(indicator string, dir models.Direction, value string) {
		scan.Signals = append(scan.Signals, models.Signal{
			Indicator: indicator, Direction: dir, Weight: 1, Value: value,
		})
		switch dir {
		case models.Bullish:
			scan.Bullish++
		case models.Bearish:
			scan.Bearish++
		default:
			scan.Neutral++
		}
	}

	if close_, ok := val("close"); ok {
		scan.Price = close_
	}

	if rec, ok := val("Recommend.All"); ok {
		switch {
		case rec > 0.5:
			add("Summary Rating", models.Bullish, fmt.Sprintf("%.2f", rec))
		case rec < -0.5:
			add("Summary Rating", models.Bearish, fmt.Sprintf("%.2f", rec))
		default:
			add("Summary Rating", models.Neutral, fmt.Sprintf("%.2f", rec))
		}
	}
	if rsi, ok := val("RSI"); ok {
		switch {
		case rsi > 70:
			add("RSI", models.Bearish, fmt.Sprintf("Overbought (%.1f)", rsi))
		case rsi < 30:
			add("RSI", models.Bullish, fmt.Sprintf("Oversold (%.1f)", rsi))
		default:
			add("RSI", models.Neutral, fmt.Sprintf("%.1f", rsi))
		}
	}
	if macd, okM := val("MACD.macd"); okM {
		if sig, okS := val("MACD.signal"); okS {
			if macd > sig {
				add("MACD", models.Bullish, "Above Signal Line")
			} else {
				add("MACD", models.Bearish, "Below Signal Line")
			}
		}
	}
	if price, ok := val("close"); ok {
		for _, ma := range []string{"SMA20", "SMA50", "SMA200"} {
			if v, okV := val(ma); okV {
				if price > v {
					add("Price vs "+ma, models.Bullish, "Above")
				} else {
					add("Price vs "+ma, models.Bearish, "Below")
				}
			}
		}
		if up, okU := val("BB.upper"); okU {
			if lo, okL := val("BB.lower"); okL {
				switch {
				case price > up:
					add("Bollinger Bands", models.Bearish, "Overbought")
				case price < lo:
					add("Bollinger Bands", models.Bullish, "Oversold")
				}
			}
		}
	}
	if k, okK := val("Stoch.K"); okK {
		if d, okD := val("Stoch.D"); okD {
			dir, value := models.Neutral, fmt.Sprintf("K %.1f / D %.1f", k, d)
			switch {
			case k > 80 && d > 80:
				dir, value = models.Bearish, "Overbought"
			case k < 20 && d < 20:
				dir, value = models.Bullish, "Oversold"
			}
			// a fresh K/D crossing overrides the zone reading
			if pk, okPK := val("Stoch.K[1]"); okPK {
				if pd, okPD := val("Stoch.D[1]"); okPD {
					if pk <= pd && k > d {
						dir, value = models.Bullish, "Bullish Crossover"
					} else if pk >= pd && k < d {
						dir, value = models.Bearish, "Bearish Crossover"
					}
				}
			}
			add("Stochastic", dir, value)
		}
	}

	scan.Recommendation = timeframeSentiment(scan.Bullish, scan.Bearish, scan.Neutral)
	return scan
}

// timeframeSentiment summarizes one timeframe's signal counts.
func timeframeSentiment(bullish, bearish, neutral int) string {
	switch {
	case bullish > bearish+neutral:
		return models.LabelStrongBuy
	case bullish > bearish:
		return models.LabelBuy
	case bearish > bullish+neutral:
		return models.LabelStrongSell
	case bearish > bullish:
		return models.LabelSell
	default:
		return "Neutral"
	}
}

// overallSentiment summarizes the cross-timeframe totals.
func overallSentiment(bullish, bearish int) string {
	switch {
	case bullish > bearish*2:
		return models.LabelStrongBuy
	case bullish > bearish:
		return models.LabelBuy
	case bearish > bullish*2:
		return models.LabelStrongSell
	case bearish > bullish:
		return models.LabelSell
	default:
		return "Neutral"
	}
}
