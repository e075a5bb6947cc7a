package scorer

import (
	"fmt"
	"math"

	"FinAdvisor/internal/domain/models"
	"FinAdvisor/pkg/stat"
)

// MomentumSentiment summarizes a quote's short-term momentum.
func MomentumSentiment(q models.Quote) string {
	switch {
	case q.PctChange24h > 10 && q.PctChange7d > 20:
		return models.LabelStrongBuy
	case q.PctChange24h > 5 && q.PctChange7d > 10:
		return models.LabelBuy
	case q.PctChange24h < -10 && q.PctChange7d < -20:
		return models.LabelStrongSell
	case q.PctChange24h < -5 && q.PctChange7d < -10:
		return models.LabelSell
	default:
		return models.LabelHold
	}
}

// MomentumSignals builds the per-timeframe direction signals shown
// alongside a momentum score.
func MomentumSignals(q models.Quote) models.SignalSet {
	add := func(set models.SignalSet, name string, pct float64) models.SignalSet {
		dir := models.Bearish
		if pct > 0 {
			dir = models.Bullish
		}
		return append(set, models.Signal{
			Indicator: name, Direction: dir, Weight: 1,
			Value: fmt.Sprintf("%+.2f%%", pct),
		})
	}
	var set models.SignalSet
	set = add(set, "Momentum 1h", q.PctChange1h)
	set = add(set, "Momentum 24h", q.PctChange24h)
	set = add(set, "Momentum 7d", q.PctChange7d)
	set = add(set, "Momentum 30d", q.PctChange30d)
	return set
}

// MomentumScore computes the integer technical score from the quote's
// percent changes, liquidity ratio and market dominance.
func MomentumScore(q models.Quote) int {
	score := 0
	switch {
	case q.PctChange1h > 1:
		score++
	case q.PctChange1h < -1:
		score--
	}
	switch {
	case q.PctChange24h > 5:
		score += 2
	case q.PctChange24h > 2:
		score++
	case q.PctChange24h < -5:
		score -= 2
	case q.PctChange24h < -2:
		score--
	}
	switch {
	case q.PctChange7d > 10:
		score += 2
	case q.PctChange7d > 5:
		score++
	case q.PctChange7d < -10:
		score -= 2
	case q.PctChange7d < -5:
		score--
	}
	switch {
	case q.PctChange30d > 20:
		score += 2
	case q.PctChange30d > 10:
		score++
	case q.PctChange30d < -20:
		score -= 2
	case q.PctChange30d < -10:
		score--
	}
	if q.PctChange60d != nil {
		switch {
		case *q.PctChange60d > 50:
			score++
		case *q.PctChange60d < -50:
			score--
		}
	}
	if q.PctChange90d != nil {
		switch {
		case *q.PctChange90d > 100:
			score++
		case *q.PctChange90d < -50:
			score--
		}
	}
	ratio := q.VolumeToMarketCap()
	switch {
	case ratio > 0.1:
		score++
	case ratio < 0.01:
		score--
	}
	switch {
	case q.Dominance > 40:
		score += 2
	case q.Dominance > 15:
		score++
	}
	return score
}

// Market-cap risk profiles for the momentum matrix.
const (
	ProfileLow      = "low"
	ProfileModerate = "moderate"
	ProfileHigh     = "high"
	ProfileVeryHigh = "very_high"
)

// MarketCapProfile buckets an asset by market capitalization (USD).
func MarketCapProfile(marketCap float64) string {
	switch {
	case marketCap > 50e9:
		return ProfileLow
	case marketCap > 5e9:
		return ProfileModerate
	case marketCap > 1e9:
		return ProfileHigh
	default:
		return ProfileVeryHigh
	}
}

// ProfileRiskLevel renders the profile as a display risk level.
func ProfileRiskLevel(profile string) string {
	switch profile {
	case ProfileLow:
		return "Low to Moderate"
	case ProfileModerate:
		return "Moderate"
	case ProfileHigh:
		return "High"
	default:
		return "Very High"
	}
}

// MomentumRecommend resolves the (tolerance, score, profile) matrix to
// a label and fixed confidence.
func MomentumRecommend(score int, profile string, tolerance models.RiskTolerance) (string, int) {
	lowProfile := profile == ProfileLow
	modProfile := profile == ProfileLow || profile == ProfileModerate

	switch tolerance {
	case models.RiskLow:
		switch {
		case score >= 6 && lowProfile:
			return models.LabelStrongBuy, 90
		case score >= 4 && lowProfile:
			return models.LabelBuy, 70
		case score <= -6:
			return models.LabelStrongSell, 85
		case score <= -4:
			return models.LabelSell, 65
		case score >= 2 && modProfile:
			return models.LabelMildBuy, 55
		case score <= -2:
			return models.LabelMildSell, 55
		default:
			return models.LabelHold, 60
		}
	case models.RiskHigh:
		switch {
		case score >= 4:
			return models.LabelStrongBuy, 80
		case score >= 2:
			return models.LabelBuy, 65
		case score <= -4:
			return models.LabelStrongSell, 75
		case score <= -2:
			return models.LabelSell, 60
		case score >= 1:
			return models.LabelMildBuy, 55
		case score <= -1:
			return models.LabelMildSell, 55
		default:
			return models.LabelHold, 60
		}
	default:
		switch {
		case score >= 5:
			return models.LabelStrongBuy, 85
		case score >= 3:
			return models.LabelBuy, 70
		case score <= -5:
			return models.LabelStrongSell, 80
		case score <= -3:
			return models.LabelSell, 65
		case score >= 1:
			return models.LabelMildBuy, 55
		case score <= -1:
			return models.LabelMildSell, 55
		default:
			return models.LabelHold, 60
		}
	}
}

// MomentumReturns derives upside/downside from the 30-day move as a
// volatility proxy, widened in the direction the score points.
func MomentumReturns(score int, pct30d float64) (upside, downside float64) {
	volFactor := math.Abs(pct30d) / 30
	if volFactor == 0 {
		return 0, 0
	}
	if score > 0 {
		upside = stat.Round(volFactor*30*(1+float64(score)*0.5), 2)
	} else {
		upside = stat.Round(volFactor*15, 2)
	}
	if score < 0 {
		downside = stat.Round(volFactor*30*(1+math.Abs(float64(score))*0.5), 2)
	} else {
		downside = stat.Round(volFactor*15, 2)
	}
	return upside, downside
}
