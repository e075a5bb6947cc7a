package models

import "time"

// AssetPerformance is the per-symbol performance row of a comparison.
type AssetPerformance struct {
	Symbol       string   `json:"symbol"`
	Name         string   `json:"name,omitempty"`
	StartPrice   float64  `json:"start_price"`
	CurrentPrice float64  `json:"current_price"`
	ChangePct    float64  `json:"percent_change"`
	VsBTCPct     *float64 `json:"vs_btc_pct,omitempty"`
}

// KeyMetrics is the fundamental summary row for equity comparisons.
type KeyMetrics struct {
	MarketCap        *float64 `json:"market_cap,omitempty"`
	PERatio          *float64 `json:"pe_ratio,omitempty"`
	EPS              *float64 `json:"eps,omitempty"`
	DividendYieldPct *float64 `json:"dividend_yield_pct,omitempty"`
	High52w          *float64 `json:"high_52w,omitempty"`
	Low52w           *float64 `json:"low_52w,omitempty"`
	AvgVolume        *float64 `json:"avg_volume,omitempty"`
	Sector           string   `json:"sector,omitempty"`
	Industry         string   `json:"industry,omitempty"`
	AnalystGrade     string   `json:"analyst_recommendation,omitempty"`
}

// VolatilityMetrics is the per-symbol risk row for crypto comparisons.
type VolatilityMetrics struct {
	DailyVolPct    float64 `json:"daily_volatility"`
	AnnualVolPct   float64 `json:"annualized_volatility"`
	MaxDrawdownPct float64 `json:"max_drawdown"`
	SharpeRatio    float64 `json:"sharpe_ratio"`
}

// Comparison is the full cross-asset comparison result. Symbols with no
// usable data appear in Errors and are excluded from the matrices.
type Comparison struct {
	AssetClass     AssetClass                    `json:"asset_class"`
	Period         string                        `json:"period"`
	Symbols        []string                      `json:"symbols"`
	DataSource     string                        `json:"data_source,omitempty"`
	Performance    map[string]AssetPerformance   `json:"performance"`
	KeyMetrics     map[string]KeyMetrics         `json:"key_metrics,omitempty"`
	SectorGroups   map[string][]string           `json:"sector_grouping,omitempty"`
	Correlations   map[string]map[string]float64 `json:"correlation_matrix,omitempty"`
	Volatility     map[string]VolatilityMetrics  `json:"volatility_metrics,omitempty"`
	BTCCorrelation map[string]float64            `json:"bitcoin_correlation,omitempty"`
	Summary        []string                      `json:"summary_insights"`
	Errors         map[string]string             `json:"errors,omitempty"`
	AnalysisDate   time.Time                     `json:"analysis_date"`
}
