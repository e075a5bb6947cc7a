package models

import "time"

// Recommendation labels ordered from most bullish to most bearish.
const (
	LabelStrongBuy  = "Strong Buy"
	LabelBuy        = "Buy"
	LabelMildBuy    = "Mild Buy"
	LabelHold       = "Hold"
	LabelMildSell   = "Mild Sell"
	LabelSell       = "Sell"
	LabelStrongSell = "Strong Sell"
)

// ScoredRecommendation is the full outcome of one analysis pass.
// Created once per request and treated as read-only downstream.
type ScoredRecommendation struct {
	Symbol               string        `json:"symbol"`
	Name                 string        `json:"name,omitempty"`
	AssetClass           AssetClass    `json:"asset_class"`
	Source               string        `json:"source"`
	Recommendation       string        `json:"recommendation"`
	Confidence           int           `json:"confidence_score"`
	TechnicalScore       float64       `json:"technical_score"`
	FundamentalScore     float64       `json:"fundamental_score"`
	CombinedScore        float64       `json:"combined_score"`
	PotentialUpsidePct   float64       `json:"potential_upside"`
	PotentialDownsidePct float64       `json:"potential_downside"`
	RiskRewardRatio      *float64      `json:"risk_reward_ratio,omitempty"`
	RiskLevel            string        `json:"risk_level,omitempty"`
	InvestmentThesis     []string      `json:"investment_thesis"`
	Risks                []string      `json:"risks"`
	TechnicalSignals     SignalSet     `json:"technical_signals"`
	FundamentalSignals   SignalSet     `json:"fundamental_signals,omitempty"`
	CurrentPrice         float64       `json:"current_price"`
	PriceChange          string        `json:"price_change,omitempty"`
	VolatilityAnnualPct  float64       `json:"annualized_volatility_pct,omitempty"`
	RiskTolerance        RiskTolerance `json:"risk_tolerance"`
	AnalysisDate         time.Time     `json:"analysis_date"`
}

// SourceOpinion is one source's vote inside a consensus.
type SourceOpinion struct {
	Source         string `json:"source"`
	Recommendation string `json:"recommendation"`
	Confidence     int    `json:"confidence_score,omitempty"`
}

// Agreement levels across consensus sources.
const (
	AgreementHigh     = "High"
	AgreementModerate = "Moderate"
	AgreementLow      = "Low"
)

// Consensus is the cross-source view of one symbol. Base carries the
// primary source's full recommendation; Opinions list every source that
// answered. Errors records sources that failed, keyed by source name.
type Consensus struct {
	Symbol         string                `json:"symbol"`
	Primary        *ScoredRecommendation `json:"primary"`
	Opinions       []SourceOpinion       `json:"sources"`
	Label          string                `json:"consensus"`
	AgreementLevel string                `json:"agreement_level"`
	Errors         map[string]string     `json:"errors,omitempty"`
	Timestamp      time.Time             `json:"timestamp"`
}

// TimeframeScan is the scanner verdict for one timeframe.
type TimeframeScan struct {
	Timeframe      Timeframe `json:"timeframe"`
	Recommendation string    `json:"recommendation"`
	Bullish        int       `json:"bullish"`
	Bearish        int       `json:"bearish"`
	Neutral        int       `json:"neutral"`
	Signals        SignalSet `json:"signals,omitempty"`
	Price          float64   `json:"price,omitempty"`
}

// MultiTimeframeScan aggregates scanner verdicts across timeframes.
type MultiTimeframeScan struct {
	Symbol        string                       `json:"symbol"`
	ScannerSymbol string                       `json:"scanner_symbol"`
	Timeframes    map[Timeframe]*TimeframeScan `json:"timeframes"`
	Bullish       int                          `json:"bullish_total"`
	Bearish       int                          `json:"bearish_total"`
	Neutral       int                          `json:"neutral_total"`
	Overall       string                       `json:"overall_sentiment"`
	Errors        map[Timeframe]string         `json:"errors,omitempty"`
}
