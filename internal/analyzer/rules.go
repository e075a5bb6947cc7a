package analyzer

import (
	"fmt"

	"FinAdvisor/internal/domain/models"
)

// Narrative is the human-readable justification for a recommendation.
type Narrative struct {
	Thesis []string
	Risks  []string
}

// Default narrative lines used when no rule produced any entry.
const (
	defaultThesisPositive = "Overall technical and fundamental indicators are positive"
	defaultThesisNegative = "Limited positive indicators found"
	defaultRiskNegative   = "Overall technical and fundamental indicators are negative"
	defaultRiskPositive   = "Market volatility and economic uncertainty"
)

// BuildNarrative derives thesis and risk lines from the signal sets.
// Only signals of weight 2 or more contribute; weaker signals shape the
// score but not the story.
func BuildNarrative(technical, fundamental models.SignalSet) Narrative {
	var n Narrative
	for _, s := range technical {
		if s.Weight < 2 {
			continue
		}
		switch s.Direction {
		case models.Bullish:
			n.Thesis = append(n.Thesis, fmt.Sprintf("%s indicates bullish momentum", s.Indicator))
		case models.Bearish:
			n.Risks = append(n.Risks, fmt.Sprintf("%s shows bearish signals", s.Indicator))
		}
	}
	for _, s := range fundamental {
		if s.Weight < 2 {
			continue
		}
		switch s.Direction {
		case models.Bullish:
			n.Thesis = append(n.Thesis, fmt.Sprintf("Strong %s (%s)", s.Indicator, s.Value))
		case models.Bearish:
			n.Risks = append(n.Risks, fmt.Sprintf("Concerning %s (%s)", s.Indicator, s.Value))
		}
	}
	return n
}

// AddBenchmark records out/underperformance vs a benchmark when the gap
// exceeds 10 percentage points.
func (n *Narrative) AddBenchmark(benchmark string, relPct float64) {
	if relPct > 10 {
		n.Thesis = append(n.Thesis, fmt.Sprintf("Outperforming %s by %.1f%%", benchmark, relPct))
	} else if relPct < -10 {
		n.Risks = append(n.Risks, fmt.Sprintf("Underperforming %s by %.1f%%", benchmark, -relPct))
	}
}

// Finalize fills in default lines so neither list is ever empty.
// combinedScore picks which default fits the overall verdict.
func (n *Narrative) Finalize(combinedScore float64) {
	if len(n.Thesis) == 0 {
		if combinedScore > 0 {
			n.Thesis = append(n.Thesis, defaultThesisPositive)
		} else {
			n.Thesis = append(n.Thesis, defaultThesisNegative)
		}
	}
	if len(n.Risks) == 0 {
		if combinedScore < 0 {
			n.Risks = append(n.Risks, defaultRiskNegative)
		} else {
			n.Risks = append(n.Risks, defaultRiskPositive)
		}
	}
}

// CryptoNarrative extends the base narrative with crypto-specific lines.
type CryptoContext struct {
	AnnualVolPct    float64
	VsBTCPct        *float64
	DominancePct    *float64
	VolumeChangePct *float64
	RiskTolerance   models.RiskTolerance
}

// ApplyCrypto appends the crypto rule lines to an existing narrative.
func (n *Narrative) ApplyCrypto(ctx CryptoContext) {
	if ctx.AnnualVolPct > 0 {
		n.Thesis = append(n.Thesis, fmt.Sprintf(
			"Historical volatility of %.1f%% suggests potential for higher returns", ctx.AnnualVolPct))
	}
	if ctx.VsBTCPct != nil {
		if *ctx.VsBTCPct > 10 {
			n.Thesis = append(n.Thesis, fmt.Sprintf("Outperforming Bitcoin by %.1f%%", *ctx.VsBTCPct))
		} else if *ctx.VsBTCPct < -10 {
			n.Risks = append(n.Risks, fmt.Sprintf("Underperforming Bitcoin by %.1f%%", -*ctx.VsBTCPct))
		}
	}
	if ctx.DominancePct != nil {
		if *ctx.DominancePct > 50 {
			n.Thesis = append(n.Thesis, fmt.Sprintf("Strong market position with %.1f%% dominance", *ctx.DominancePct))
		} else if *ctx.DominancePct > 10 {
			n.Thesis = append(n.Thesis, fmt.Sprintf("Significant market share with %.1f%% dominance", *ctx.DominancePct))
		}
	}
	if ctx.VolumeChangePct != nil {
		if *ctx.VolumeChangePct > 50 {
			n.Thesis = append(n.Thesis, fmt.Sprintf("Trading volume up %.1f%% over the period", *ctx.VolumeChangePct))
		} else if *ctx.VolumeChangePct < -30 {
			n.Risks = append(n.Risks, fmt.Sprintf("Trading volume down %.1f%% over the period", -*ctx.VolumeChangePct))
		}
	}
}

// FinalizeCrypto fills crypto-flavored defaults and the tolerance caveat.
func (n *Narrative) FinalizeCrypto(combinedScore float64, tolerance models.RiskTolerance) {
	if len(n.Thesis) == 0 {
		if combinedScore > 0 {
			n.Thesis = append(n.Thesis, defaultThesisPositive)
		} else {
			n.Thesis = append(n.Thesis, defaultThesisNegative)
		}
	}
	if len(n.Risks) == 0 {
		n.Risks = append(n.Risks,
			"High market volatility and regulatory uncertainty",
			"Cryptocurrency markets are speculative and can move sharply")
	}
	if tolerance == models.RiskLow {
		n.Risks = append(n.Risks, "High-volatility assets may not be suitable for a low risk tolerance")
	}
}
