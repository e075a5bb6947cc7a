package models

import "strings"

// Direction is the stance a single indicator takes on an asset.
type Direction string

const (
	Bullish Direction = "bullish"
	Bearish Direction = "bearish"
	Neutral Direction = "neutral"
)

// Sign maps a direction to its scoring contribution.
func (d Direction) Sign() int {
	switch d {
	case Bullish:
		return 1
	case Bearish:
		return -1
	default:
		return 0
	}
}

// Signal is one indicator's weighted verdict.
type Signal struct {
	Indicator string    `json:"indicator"`
	Direction Direction `json:"direction"`
	Weight    int       `json:"weight"`
	Value     string    `json:"value,omitempty"`
}

// SignalSet is an ordered collection of signals from one analysis pass.
type SignalSet []Signal

// Score is the raw weighted sum of directions.
func (s SignalSet) Score() float64 {
	var score float64
	for _, sig := range s {
		score += float64(sig.Weight * sig.Direction.Sign())
	}
	return score
}

// TotalWeight sums all signal weights, including neutral ones.
func (s SignalSet) TotalWeight() int {
	var total int
	for _, sig := range s {
		total += sig.Weight
	}
	return total
}

// Normalized maps the weighted score into [-10, 10].
// An empty set normalizes to 0, not NaN.
func (s SignalSet) Normalized() float64 {
	total := s.TotalWeight()
	if total == 0 {
		return 0
	}
	return s.Score() / float64(total) * 10
}

// RiskTolerance shapes score blending, adjustments and upside scaling.
type RiskTolerance string

const (
	RiskLow      RiskTolerance = "low"
	RiskModerate RiskTolerance = "moderate"
	RiskHigh     RiskTolerance = "high"
)

// ParseRiskTolerance normalizes raw input, defaulting to moderate.
func ParseRiskTolerance(s string) RiskTolerance {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(RiskLow):
		return RiskLow
	case string(RiskHigh):
		return RiskHigh
	default:
		return RiskModerate
	}
}

// Title returns the tolerance capitalized for display.
func (r RiskTolerance) Title() string {
	if r == "" {
		return "Moderate"
	}
	return strings.ToUpper(string(r[:1])) + string(r[1:])
}

// AssetClass selects the analysis path for a symbol.
type AssetClass string

const (
	AssetAuto   AssetClass = "auto"
	AssetEquity AssetClass = "equity"
	AssetCrypto AssetClass = "crypto"
)

// cryptoPrefixes are the major coin tickers used for auto-detection.
var cryptoPrefixes = []string{
	"BTC", "ETH", "XRP", "LTC", "BCH", "ADA",
	"DOT", "LINK", "XLM", "DOGE", "UNI", "SOL",
}

// IsCryptoSymbol reports whether a raw symbol looks like a crypto ticker.
func IsCryptoSymbol(symbol string) bool {
	up := strings.ToUpper(strings.TrimSpace(symbol))
	if strings.Contains(up, "-USD") {
		return true
	}
	for _, p := range cryptoPrefixes {
		if up == p || strings.HasPrefix(up, p+"-") {
			return true
		}
	}
	return false
}

// DetectAssetClass resolves "auto" against the symbol set: if any symbol
// looks like crypto, the whole request is treated as crypto.
func DetectAssetClass(class AssetClass, symbols ...string) AssetClass {
	if class == AssetEquity || class == AssetCrypto {
		return class
	}
	for _, s := range symbols {
		if IsCryptoSymbol(s) {
			return AssetCrypto
		}
	}
	return AssetEquity
}

// CleanCryptoSymbol strips quote-currency suffixes for quote-provider lookups.
func CleanCryptoSymbol(symbol string) string {
	up := strings.ToUpper(strings.TrimSpace(symbol))
	up = strings.ReplaceAll(up, "-USD", "")
	up = strings.ReplaceAll(up, "USD", "")
	return up
}
