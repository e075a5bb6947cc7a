package models

import "time"

// Timeframe is a scanner analysis interval.
type Timeframe string

const (
	TF1d  Timeframe = "1d"
	TF4h  Timeframe = "4h"
	TF1h  Timeframe = "1h"
	TF15m Timeframe = "15m"
)

// IsValidTimeframe returns true if tf is a supported timeframe.
func IsValidTimeframe(tf Timeframe) bool {
	switch tf {
	case TF1d, TF4h, TF1h, TF15m:
		return true
	default:
		return false
	}
}

// DefaultTimeframe returns the default timeframe.
func DefaultTimeframe() Timeframe { return TF1d }

// NormalizeTimeframe converts raw string to a valid timeframe (or default).
func NormalizeTimeframe(s string) Timeframe {
	if s == "" {
		return DefaultTimeframe()
	}
	tf := Timeframe(s)
	if IsValidTimeframe(tf) {
		return tf
	}
	return DefaultTimeframe()
}

// Candle represents one OHLCV record of a price history.
type Candle struct {
	Bucket time.Time `json:"t"`
	Open   float64   `json:"o"`
	High   float64   `json:"h"`
	Low    float64   `json:"l"`
	Close  float64   `json:"c"`
	Volume float64   `json:"v"`
}

// PriceSeries is an ordered price history for one symbol.
// Candles are strictly increasing in time.
type PriceSeries struct {
	Symbol   string   `json:"symbol"`
	Period   string   `json:"period"`
	Interval string   `json:"interval"`
	Candles  []Candle `json:"candles"`
}

func (s PriceSeries) Len() int      { return len(s.Candles) }
func (s PriceSeries) IsEmpty() bool { return len(s.Candles) == 0 }

// Closes returns the close column of the series.
func (s PriceSeries) Closes() []float64 {
	out := make([]float64, len(s.Candles))
	for i, c := range s.Candles {
		out[i] = c.Close
	}
	return out
}

// Volumes returns the volume column of the series.
func (s PriceSeries) Volumes() []float64 {
	out := make([]float64, len(s.Candles))
	for i, c := range s.Candles {
		out[i] = c.Volume
	}
	return out
}

// LastClose returns the most recent close, or false for an empty series.
func (s PriceSeries) LastClose() (float64, bool) {
	if len(s.Candles) == 0 {
		return 0, false
	}
	return s.Candles[len(s.Candles)-1].Close, true
}

// ChangePct returns the percent change from the first to the last close.
func (s PriceSeries) ChangePct() (float64, bool) {
	if len(s.Candles) < 2 {
		return 0, false
	}
	first := s.Candles[0].Close
	last := s.Candles[len(s.Candles)-1].Close
	if first == 0 {
		return 0, false
	}
	return (last - first) / first * 100, true
}

// Quote is an immutable market snapshot for one symbol from the quote provider.
type Quote struct {
	Symbol       string    `json:"symbol"`
	Name         string    `json:"name"`
	Price        float64   `json:"price"`
	MarketCap    float64   `json:"market_cap"`
	Volume24h    float64   `json:"volume_24h"`
	PctChange1h  float64   `json:"pct_change_1h"`
	PctChange24h float64   `json:"pct_change_24h"`
	PctChange7d  float64   `json:"pct_change_7d"`
	PctChange30d float64   `json:"pct_change_30d"`
	PctChange60d *float64  `json:"pct_change_60d,omitempty"`
	PctChange90d *float64  `json:"pct_change_90d,omitempty"`
	Dominance    float64   `json:"market_cap_dominance"`
	Updated      time.Time `json:"updated"`
}

// VolumeToMarketCap is the 24h volume over market cap liquidity ratio.
func (q Quote) VolumeToMarketCap() float64 {
	if q.MarketCap <= 0 {
		return 0
	}
	return q.Volume24h / q.MarketCap
}

// Fundamentals holds company-level metrics for equity analysis.
// Optional fields are nil when the provider did not report them.
type Fundamentals struct {
	CompanyName        string   `json:"company_name"`
	Sector             string   `json:"sector"`
	Industry           string   `json:"industry"`
	MarketCap          *float64 `json:"market_cap,omitempty"`
	PERatio            *float64 `json:"pe_ratio,omitempty"`
	ForwardPE          *float64 `json:"forward_pe,omitempty"`
	DividendYield      *float64 `json:"dividend_yield,omitempty"`
	EPS                *float64 `json:"eps,omitempty"`
	Beta               *float64 `json:"beta,omitempty"`
	High52w            *float64 `json:"high_52w,omitempty"`
	Low52w             *float64 `json:"low_52w,omitempty"`
	ProfitMargin       *float64 `json:"profit_margin,omitempty"`
	ReturnOnEquity     *float64 `json:"return_on_equity,omitempty"`
	DebtToEquity       *float64 `json:"debt_to_equity,omitempty"`
	PriceToBook        *float64 `json:"price_to_book,omitempty"`
	RevenueGrowthPct   *float64 `json:"revenue_growth_pct,omitempty"`
	NetIncomeGrowthPct *float64 `json:"net_income_growth_pct,omitempty"`
}

// AnalystRatings aggregates recent analyst grades by label.
type AnalystRatings struct {
	Counts map[string]int `json:"counts"`
}

// Snapshot is the history provider's current view of a symbol:
// latest price plus fundamentals and analyst data when available.
type Snapshot struct {
	Symbol       string          `json:"symbol"`
	Name         string          `json:"name"`
	Price        float64         `json:"price"`
	Fundamentals *Fundamentals   `json:"fundamentals,omitempty"`
	Ratings      *AnalystRatings `json:"ratings,omitempty"`
}

// GlobalMetrics holds market-wide crypto metrics.
type GlobalMetrics struct {
	TotalMarketCap    float64   `json:"total_market_cap"`
	TotalVolume24h    float64   `json:"total_volume_24h"`
	BTCDominance      float64   `json:"btc_dominance"`
	ETHDominance      float64   `json:"eth_dominance"`
	DeFiMarketCap     float64   `json:"defi_market_cap"`
	ActiveCurrencies  int       `json:"active_currencies"`
	Updated           time.Time `json:"updated"`
}

// Listing is one row of the quote provider's top-asset listings.
type Listing struct {
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	MarketCap    float64 `json:"market_cap"`
	PctChange24h float64 `json:"pct_change_24h"`
	PctChange7d  float64 `json:"pct_change_7d"`
}

// AssetInfo is quote provider metadata about an asset.
type AssetInfo struct {
	Symbol      string   `json:"symbol"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	Description string   `json:"description"`
}

// MarketPair is one exchange trading pair for an asset.
type MarketPair struct {
	Exchange  string  `json:"exchange"`
	Pair      string  `json:"pair"`
	Price     float64 `json:"price"`
	Volume24h float64 `json:"volume_24h"`
}

// MarketOverview combines global metrics with top listings.
type MarketOverview struct {
	Global    *GlobalMetrics    `json:"global_metrics,omitempty"`
	TopAssets []Listing         `json:"top_assets,omitempty"`
	Errors    map[string]string `json:"errors,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}
