package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"FinAdvisor/internal/domain/models"
	domsvc "FinAdvisor/internal/domain/service"
	"FinAdvisor/pkg/logger"
	"FinAdvisor/pkg/metrics"
)

// Source names in priority order. The first source that answers becomes
// the primary recommendation; the rest contribute opinions.
var consensusPriority = []string{"quotes", "scanner", "history"}

// ConsensusEngine fans one symbol out to every source and merges the
// verdicts into a cross-source consensus.
type ConsensusEngine struct {
	advisor *Advisor
	scanner domsvc.Scanner
	rec     *metrics.Recorder
	log     *logger.Logger
	timeout time.Duration
}

func NewConsensusEngine(advisor *Advisor, scanner domsvc.Scanner, rec *metrics.Recorder, log *logger.Logger, timeout time.Duration) *ConsensusEngine {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ConsensusEngine{advisor: advisor, scanner: scanner, rec: rec, log: log, timeout: timeout}
}

type sourceResult struct {
	source string
	rec    *models.ScoredRecommendation
	err    error
}

// Consensus queries every source concurrently and merges the answers.
// It fails only when no source returns anything.
func (c *ConsensusEngine) Consensus(ctx context.Context, symbol string, tolerance models.RiskTolerance) (*models.Consensus, error) {
	symbol = models.CleanCryptoSymbol(symbol)
	if tolerance == "" {
		tolerance = models.RiskModerate
	}
	start := time.Now()
	defer func() { c.rec.RecordLatency("consensus", time.Since(start).Seconds()) }()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ch := make(chan sourceResult, len(consensusPriority))
	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		rec, err := c.advisor.MomentumAdvice(ctx, symbol, tolerance)
		ch <- sourceResult{source: "quotes", rec: rec, err: err}
	}()
	go func() {
		defer wg.Done()
		scan, err := c.scanner.MultiTimeframe(ctx, symbol, nil)
		if err != nil {
			ch <- sourceResult{source: "scanner", err: err}
			return
		}
		ch <- sourceResult{source: "scanner", rec: scanRecommendation(symbol, scan, tolerance)}
	}()
	go func() {
		defer wg.Done()
		rec, err := c.advisor.Advise(ctx, AdviseParams{
			Symbol: symbol, Class: models.AssetAuto, Tolerance: tolerance,
		})
		ch <- sourceResult{source: "history", rec: rec, err: err}
	}()

	go func() {
		wg.Wait()
		close(ch)
	}()

	byName := make(map[string]*models.ScoredRecommendation, len(consensusPriority))
	errs := make(map[string]string)
	for res := range ch {
		if res.err != nil {
			errs[res.source] = res.err.Error()
			c.log.Warn("consensus source failed",
				logger.String("symbol", symbol),
				logger.String("source", res.source),
				logger.Error(res.err),
			)
			continue
		}
		byName[res.source] = res.rec
	}

	if len(byName) == 0 {
		c.rec.RecordError("consensus")
		return nil, models.NewAllSourcesFailed(symbol)
	}

	out := &models.Consensus{
		Symbol:    symbol,
		Timestamp: time.Now().UTC(),
	}
	for _, source := range consensusPriority {
		rec, ok := byName[source]
		if !ok {
			continue
		}
		if out.Primary == nil {
			out.Primary = rec
		}
		out.Opinions = append(out.Opinions, models.SourceOpinion{
			Source:         source,
			Recommendation: rec.Recommendation,
			Confidence:     rec.Confidence,
		})
	}
	if len(errs) > 0 {
		out.Errors = errs
	}

	out.Label, out.AgreementLevel = mergeOpinions(out.Opinions)
	c.rec.RecordRecommendation("consensus", out.Label)
	return out, nil
}

// mergeOpinions derives the consensus label and agreement level from the
// individual source votes.
func mergeOpinions(opinions []models.SourceOpinion) (label, agreement string) {
	sources := len(opinions)
	var buys, sells int
	for _, o := range opinions {
		if strings.Contains(o.Recommendation, "Buy") {
			buys++
		}
		if strings.Contains(o.Recommendation, "Sell") {
			sells++
		}
	}

	switch {
	case buys >= 2 && buys > sells:
		if buys == sources {
			label = "Strong consensus to Buy"
		} else {
			label = "Moderate consensus to Buy"
		}
	case sells >= 2 && sells > buys:
		if sells == sources {
			label = "Strong consensus to Sell"
		} else {
			label = "Moderate consensus to Sell"
		}
	default:
		label = "Mixed signals across sources"
	}

	switch {
	case buys == sources || sells == sources:
		agreement = models.AgreementHigh
	case buys != sells:
		agreement = models.AgreementModerate
	default:
		agreement = models.AgreementLow
	}
	return label, agreement
}

// scanRecommendation adapts a multi-timeframe scan into a recommendation
// so the scanner can stand in as primary when better sources fail.
func scanRecommendation(symbol string, scan models.MultiTimeframeScan, tolerance models.RiskTolerance) *models.ScoredRecommendation {
	var signals models.SignalSet
	for _, tfScan := range scan.Timeframes {
		signals = append(signals, models.Signal{
			Indicator: fmt.Sprintf("Timeframe %s", tfScan.Timeframe),
			Direction: sentimentDirection(tfScan.Recommendation),
			Weight:    1,
			Value:     tfScan.Recommendation,
		})
	}
	var price float64
	if daily, ok := scan.Timeframes[models.TF1d]; ok {
		price = daily.Price
	}
	return &models.ScoredRecommendation{
		Symbol:         symbol,
		AssetClass:     models.AssetCrypto,
		Source:         "scanner",
		Recommendation: scan.Overall,
		Confidence:     65,
		InvestmentThesis: []string{fmt.Sprintf(
			"Based on technical analysis across multiple timeframes, the overall sentiment for %s is %s", symbol, scan.Overall)},
		Risks: []string{
			"Recommendation is based solely on technical indicators",
			"Short-term technical signals can reverse quickly",
		},
		TechnicalSignals: signals,
		CurrentPrice:     price,
		RiskTolerance:    tolerance,
		AnalysisDate:     time.Now().UTC(),
	}
}
