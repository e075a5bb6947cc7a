// Package scorer maps weighted signal sets to recommendation labels,
// confidences and return expectations. All thresholds are fixed policy
// constants reproduced exactly; do not retune without a stakeholder
// decision.
package scorer

import (
	"math"

	"FinAdvisor/internal/domain/models"
	"FinAdvisor/pkg/stat"
)

// Blend combines the normalized technical and fundamental scores for
// equities. Lower risk tolerance leans on fundamentals, higher on
// technicals. Weights always sum to 1.
func Blend(technical, fundamental float64, tolerance models.RiskTolerance) float64 {
	switch tolerance {
	case models.RiskLow:
		return technical*0.3 + fundamental*0.7
	case models.RiskHigh:
		return technical*0.7 + fundamental*0.3
	default:
		return technical*0.5 + fundamental*0.5
	}
}

// CryptoTechnicalWeight scales the crypto technical score by tolerance.
func CryptoTechnicalWeight(tolerance models.RiskTolerance) float64 {
	switch tolerance {
	case models.RiskLow:
		return 0.4
	case models.RiskHigh:
		return 1.0
	default:
		return 0.7
	}
}

// BTCTrendAdjustment nudges a crypto score by the market leader's 24h move.
func BTCTrendAdjustment(btc24hPct float64) float64 {
	switch {
	case btc24hPct > 5:
		return 2
	case btc24hPct > 2:
		return 1
	case btc24hPct < -5:
		return -2
	case btc24hPct < -2:
		return -1
	default:
		return 0
	}
}

// BTCComparison scores relative performance against Bitcoin over the
// analysis period. Outperformance is a weighted bullish signal.
func BTCComparison(outperforming bool) (models.Signal, float64) {
	if outperforming {
		return models.Signal{
			Indicator: "BTC Comparison", Direction: models.Bullish, Weight: 2,
			Value: "Outperforming BTC",
		}, 1.0
	}
	return models.Signal{
		Indicator: "BTC Comparison", Direction: models.Bearish, Weight: 1,
		Value: "Underperforming BTC",
	}, -0.5
}

// VolatilityRiskLevel labels annualized volatility (percent).
func VolatilityRiskLevel(annualVolPct float64) string {
	switch {
	case annualVolPct > 100:
		return "Very High"
	case annualVolPct > 70:
		return "High"
	case annualVolPct > 40:
		return "Moderate"
	default:
		return "Low"
	}
}

// VolatilityAdjustment penalizes high volatility for cautious investors
// and rewards it for aggressive ones.
func VolatilityAdjustment(annualVolPct float64, tolerance models.RiskTolerance) float64 {
	if annualVolPct <= 70 {
		return 0
	}
	switch tolerance {
	case models.RiskLow:
		return -2
	case models.RiskHigh:
		return 1
	default:
		return 0
	}
}

// Label maps a combined score in [-10,10] to a recommendation label.
func Label(score float64) string {
	switch {
	case score > 6:
		return models.LabelStrongBuy
	case score > 3:
		return models.LabelBuy
	case score > 0:
		return models.LabelMildBuy
	case score > -3:
		return models.LabelHold
	case score > -6:
		return models.LabelSell
	default:
		return models.LabelStrongSell
	}
}

// Confidence converts score magnitude to a 0-100 confidence.
func Confidence(score float64) int {
	c := int(math.Round(math.Abs(score) / 10 * 100))
	if c > 100 {
		c = 100
	}
	return c
}

// Upside/downside policy constants per asset class.
type returnPolicy struct {
	base          float64
	volFloor      float64
	volCeil       float64
	scale         float64
	upsideFloor   float64
	downsideFloor float64
	downsideCeil  float64
	fallback      float64
}

var equityPolicy = returnPolicy{
	base: 0.10, volFloor: 0.15, volCeil: 0.50, scale: 2,
	upsideFloor: 2, downsideFloor: 2, downsideCeil: 50, fallback: 10,
}

var cryptoPolicy = returnPolicy{
	base: 0.15, volFloor: 0.30, volCeil: 1.00, scale: 3,
	upsideFloor: 5, downsideFloor: 5, downsideCeil: 90, fallback: 20,
}

// PotentialReturns derives upside and downside percentages from the
// combined score and annualized volatility (as a fraction, e.g. 0.35).
// A non-positive volatility falls back to the symmetric default.
func PotentialReturns(combinedScore, annualVol float64, class models.AssetClass, tolerance models.RiskTolerance) (upside, downside float64) {
	p := equityPolicy
	if class == models.AssetCrypto {
		p = cryptoPolicy
	}
	if annualVol <= 0 || math.IsNaN(annualVol) {
		return p.fallback, p.fallback
	}

	scoreAdj := combinedScore / 10
	volFactor := stat.Clamp(annualVol, p.volFloor, p.volCeil)
	adj := scoreAdj * volFactor * p.scale
	upside = (p.base + adj) * 100
	downside = (p.base - adj) * 100

	upMul, downMul := toleranceScaling(class, tolerance)
	upside *= upMul
	downside *= downMul

	if upside < p.upsideFloor {
		upside = p.upsideFloor
	}
	downside = stat.Clamp(downside, p.downsideFloor, p.downsideCeil)
	return stat.Round(upside, 1), stat.Round(downside, 1)
}

// toleranceScaling widens or narrows the projected range by tolerance.
// Crypto scales harder (±30%) than equity (±20%).
func toleranceScaling(class models.AssetClass, tolerance models.RiskTolerance) (upMul, downMul float64) {
	delta := 0.2
	if class == models.AssetCrypto {
		delta = 0.3
	}
	switch tolerance {
	case models.RiskLow:
		return 1 - delta, 1 + delta
	case models.RiskHigh:
		return 1 + delta, 1 - delta
	default:
		return 1, 1
	}
}

// RiskReward is upside/downside at two decimals, nil when downside is 0.
func RiskReward(upside, downside float64) *float64 {
	if downside == 0 {
		return nil
	}
	r := stat.Round(upside/downside, 2)
	return &r
}
