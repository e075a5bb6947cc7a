package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"FinAdvisor/internal/analyzer"
	"FinAdvisor/internal/domain/models"
	domsvc "FinAdvisor/internal/domain/service"
	"FinAdvisor/internal/scorer"
	svccache "FinAdvisor/internal/service/cache"
	"FinAdvisor/pkg/logger"
	"FinAdvisor/pkg/metrics"
	"FinAdvisor/pkg/stat"
)

const (
	benchmarkSymbol = "^GSPC"
	benchmarkName   = "S&P 500"
	btcSymbol       = "BTC"
)

// Advisor produces scored recommendations from price history, equity
// fundamentals and crypto quotes.
type Advisor struct {
	history domsvc.HistoryProvider
	quotes  domsvc.QuoteProvider
	cache   *svccache.ProviderCache
	rec     *metrics.Recorder
	log     *logger.Logger
}

func NewAdvisor(history domsvc.HistoryProvider, quotes domsvc.QuoteProvider, cache *svccache.ProviderCache, rec *metrics.Recorder, log *logger.Logger) *Advisor {
	return &Advisor{history: history, quotes: quotes, cache: cache, rec: rec, log: log}
}

// AdviseParams selects the symbol and analysis knobs.
type AdviseParams struct {
	Symbol    string
	Class     models.AssetClass
	Period    string
	Tolerance models.RiskTolerance
}

func (p *AdviseParams) normalize() {
	p.Symbol = strings.ToUpper(strings.TrimSpace(p.Symbol))
	if p.Period == "" {
		p.Period = "1y"
	}
	if p.Tolerance == "" {
		p.Tolerance = models.RiskModerate
	}
	p.Class = models.DetectAssetClass(p.Class, p.Symbol)
}

// Advise runs the full analysis pass for one symbol.
func (a *Advisor) Advise(ctx context.Context, p AdviseParams) (*models.ScoredRecommendation, error) {
	p.normalize()
	start := time.Now()
	defer func() { a.rec.RecordLatency("advise", time.Since(start).Seconds()) }()

	var out *models.ScoredRecommendation
	var err error
	if p.Class == models.AssetCrypto {
		out, err = a.adviseCrypto(ctx, p)
	} else {
		out, err = a.adviseEquity(ctx, p)
	}
	if err != nil {
		a.rec.RecordError("advise")
		return nil, err
	}
	a.rec.RecordRecommendation("advise", out.Recommendation)
	a.rec.RecordLastPrice(out.Symbol, out.CurrentPrice)
	return out, nil
}

func (a *Advisor) adviseEquity(ctx context.Context, p AdviseParams) (*models.ScoredRecommendation, error) {
	series, err := a.fetchSeries(ctx, p.Symbol, p.Period)
	if err != nil {
		return nil, err
	}

	snap, snapErr := a.fetchSnapshot(ctx, p.Symbol)
	if snapErr != nil {
		a.log.Warn("snapshot unavailable, technical-only analysis",
			logger.String("symbol", p.Symbol),
			logger.Error(snapErr),
		)
	}

	technical := analyzer.Technical(series, false)
	fundamental := analyzer.Fundamental(snap)
	techScore := technical.Normalized()
	fundScore := fundamental.Normalized()
	combined := scorer.Blend(techScore, fundScore, p.Tolerance)

	narrative := analyzer.BuildNarrative(technical, fundamental)
	if rel, ok := a.benchmarkRelative(ctx, series, p.Period); ok {
		narrative.AddBenchmark(benchmarkName, rel)
	}
	narrative.Finalize(combined)

	vol := a.annualizedVolatility(ctx, series, p.Symbol, p.Period)
	upside, downside := scorer.PotentialReturns(combined, vol, models.AssetEquity, p.Tolerance)

	price, _ := series.LastClose()
	rec := &models.ScoredRecommendation{
		Symbol:               p.Symbol,
		Name:                 snap.Name,
		AssetClass:           models.AssetEquity,
		Source:               "history",
		Recommendation:       scorer.Label(combined),
		Confidence:           scorer.Confidence(combined),
		TechnicalScore:       stat.Round(techScore, 2),
		FundamentalScore:     stat.Round(fundScore, 2),
		CombinedScore:        stat.Round(combined, 2),
		PotentialUpsidePct:   upside,
		PotentialDownsidePct: downside,
		RiskRewardRatio:      scorer.RiskReward(upside, downside),
		InvestmentThesis:     narrative.Thesis,
		Risks:                narrative.Risks,
		TechnicalSignals:     technical,
		FundamentalSignals:   fundamental,
		CurrentPrice:         price,
		VolatilityAnnualPct:  stat.Round(vol*100, 1),
		RiskTolerance:        p.Tolerance,
		AnalysisDate:         time.Now().UTC(),
	}
	if change, ok := series.ChangePct(); ok {
		rec.PriceChange = fmt.Sprintf("%.2f%% over %s", change, p.Period)
	}
	return rec, nil
}

func (a *Advisor) adviseCrypto(ctx context.Context, p AdviseParams) (*models.ScoredRecommendation, error) {
	histSym := cryptoHistorySymbol(p.Symbol)
	series, err := a.fetchSeries(ctx, histSym, p.Period)
	if err != nil {
		return nil, err
	}

	cleanSym := models.CleanCryptoSymbol(p.Symbol)
	quote, quoteErr := a.fetchQuote(ctx, cleanSym)
	if quoteErr != nil {
		a.log.Warn("quote provider unavailable, history-only analysis",
			logger.String("symbol", cleanSym),
			logger.Error(quoteErr),
		)
	}

	technical := analyzer.Technical(series, true)
	techScore := technical.Normalized()
	combined := techScore * scorer.CryptoTechnicalWeight(p.Tolerance)

	narrative := analyzer.BuildNarrative(technical, nil)
	cryptoCtx := analyzer.CryptoContext{RiskTolerance: p.Tolerance}

	// market-leader context: trend nudges the score, relative
	// performance adds a weighted signal
	var vsBTC *float64
	if cleanSym != btcSymbol {
		if btcQuote, err := a.fetchQuote(ctx, btcSymbol); err == nil {
			combined += scorer.BTCTrendAdjustment(btcQuote.PctChange24h)
		}
		if btcSeries, err := a.fetchSeries(ctx, cryptoHistorySymbol(btcSymbol), p.Period); err == nil {
			symChange, okS := series.ChangePct()
			btcChange, okB := btcSeries.ChangePct()
			if okS && okB {
				rel := symChange - btcChange
				vsBTC = &rel
				sig, adj := scorer.BTCComparison(rel > 0)
				technical = append(technical, sig)
				combined += adj
			}
		}
	}

	vol := stat.AnnualizedVolatility(stat.PctReturns(series.Closes()))
	volPct := vol * 100
	riskLevel := scorer.VolatilityRiskLevel(volPct)
	combined += scorer.VolatilityAdjustment(volPct, p.Tolerance)
	technical = append(technical, models.Signal{
		Indicator: analyzer.IndVolatility, Direction: models.Neutral, Weight: 2,
		Value: fmt.Sprintf("%.1f%% annualized (%s)", volPct, riskLevel),
	})

	cryptoCtx.AnnualVolPct = volPct
	cryptoCtx.VsBTCPct = vsBTC
	if quoteErr == nil && quote.Dominance > 0 {
		d := quote.Dominance
		cryptoCtx.DominancePct = &d
	}
	if vc, ok := volumeChangePct(series); ok {
		cryptoCtx.VolumeChangePct = &vc
	}
	narrative.ApplyCrypto(cryptoCtx)
	narrative.FinalizeCrypto(combined, p.Tolerance)

	upside, downside := scorer.PotentialReturns(combined, vol, models.AssetCrypto, p.Tolerance)

	price, _ := series.LastClose()
	if quoteErr == nil && quote.Price > 0 {
		price = quote.Price
	}
	name := quote.Name
	if name == "" {
		if info, err := a.quotes.Info(ctx, cleanSym); err == nil {
			name = info.Name
		}
	}
	rec := &models.ScoredRecommendation{
		Symbol:               cleanSym,
		Name:                 name,
		AssetClass:           models.AssetCrypto,
		Source:               "history",
		Recommendation:       scorer.Label(combined),
		Confidence:           scorer.Confidence(combined),
		TechnicalScore:       stat.Round(techScore, 2),
		CombinedScore:        stat.Round(combined, 2),
		PotentialUpsidePct:   upside,
		PotentialDownsidePct: downside,
		RiskRewardRatio:      scorer.RiskReward(upside, downside),
		RiskLevel:            riskLevel,
		InvestmentThesis:     narrative.Thesis,
		Risks:                narrative.Risks,
		TechnicalSignals:     technical,
		CurrentPrice:         price,
		VolatilityAnnualPct:  stat.Round(volPct, 1),
		RiskTolerance:        p.Tolerance,
		AnalysisDate:         time.Now().UTC(),
	}
	if change, ok := series.ChangePct(); ok {
		rec.PriceChange = fmt.Sprintf("%.2f%% over %s", change, p.Period)
	}
	return rec, nil
}

// MomentumAdvice builds a recommendation from the quote provider's
// momentum data alone, without price history.
func (a *Advisor) MomentumAdvice(ctx context.Context, symbol string, tolerance models.RiskTolerance) (*models.ScoredRecommendation, error) {
	if tolerance == "" {
		tolerance = models.RiskModerate
	}
	cleanSym := models.CleanCryptoSymbol(symbol)
	quote, err := a.fetchQuote(ctx, cleanSym)
	if err != nil {
		return nil, err
	}

	score := scorer.MomentumScore(quote)
	profile := scorer.MarketCapProfile(quote.MarketCap)
	label, confidence := scorer.MomentumRecommend(score, profile, tolerance)
	upside, downside := scorer.MomentumReturns(score, quote.PctChange30d)

	signals := scorer.MomentumSignals(quote)
	signals = append(signals, models.Signal{
		Indicator: "Momentum Sentiment", Direction: sentimentDirection(label),
		Weight: 2, Value: scorer.MomentumSentiment(quote),
	})

	thesis, risks := momentumNarrative(quote, label, profile)

	rec := &models.ScoredRecommendation{
		Symbol:               cleanSym,
		Name:                 quote.Name,
		AssetClass:           models.AssetCrypto,
		Source:               "quotes",
		Recommendation:       label,
		Confidence:           confidence,
		TechnicalScore:       float64(score),
		CombinedScore:        float64(score),
		PotentialUpsidePct:   upside,
		PotentialDownsidePct: downside,
		RiskRewardRatio:      scorer.RiskReward(upside, downside),
		RiskLevel:            scorer.ProfileRiskLevel(profile),
		InvestmentThesis:     thesis,
		Risks:                risks,
		TechnicalSignals:     signals,
		CurrentPrice:         quote.Price,
		RiskTolerance:        tolerance,
		AnalysisDate:         time.Now().UTC(),
	}
	a.rec.RecordRecommendation("momentum", label)
	return rec, nil
}

// momentumNarrative renders thesis and risk lines for the momentum path.
func momentumNarrative(q models.Quote, label, profile string) (thesis, risks []string) {
	name := q.Name
	if name == "" {
		name = q.Symbol
	}
	ratio := q.VolumeToMarketCap()

	switch {
	case strings.Contains(label, "Buy"):
		thesis = append(thesis, fmt.Sprintf("%s shows %.1f%% growth over the past week with positive momentum", name, q.PctChange7d))
		if ratio > 0.1 {
			thesis = append(thesis, "Strong trading volume indicates deep market liquidity")
		}
		if q.Dominance > 10 {
			thesis = append(thesis, fmt.Sprintf("Significant market share with %.1f%% dominance", q.Dominance))
		}
	case strings.Contains(label, "Sell"):
		thesis = append(thesis, fmt.Sprintf("%s has declined %.1f%% over the past week showing weak momentum", name, -q.PctChange7d))
	default:
		thesis = append(thesis, "Mixed momentum signals suggest holding current positions")
	}

	switch profile {
	case scorer.ProfileLow:
		risks = append(risks, "Large-cap asset, still subject to broad market swings")
	case scorer.ProfileModerate:
		risks = append(risks, "Mid-cap asset with moderate volatility risk")
	default:
		risks = append(risks, "Small market capitalization brings elevated volatility risk")
	}
	switch {
	case ratio > 0.1:
		risks = append(risks, "Liquidity is strong relative to market cap")
	case ratio > 0.05:
		risks = append(risks, "Liquidity is adequate relative to market cap")
	default:
		risks = append(risks, "Thin liquidity may amplify price moves")
	}
	if q.PctChange30d > 30 || q.PctChange30d < -30 {
		risks = append(risks, fmt.Sprintf("Recent price swings of %.1f%% indicate high volatility", q.PctChange30d))
	}
	return thesis, risks
}

func sentimentDirection(label string) models.Direction {
	switch {
	case strings.Contains(label, "Buy"):
		return models.Bullish
	case strings.Contains(label, "Sell"):
		return models.Bearish
	default:
		return models.Neutral
	}
}

// benchmarkRelative compares the series' period change to the benchmark.
func (a *Advisor) benchmarkRelative(ctx context.Context, series models.PriceSeries, period string) (float64, bool) {
	symChange, ok := series.ChangePct()
	if !ok {
		return 0, false
	}
	bench, err := a.fetchSeries(ctx, benchmarkSymbol, period)
	if err != nil {
		return 0, false
	}
	benchChange, ok := bench.ChangePct()
	if !ok {
		return 0, false
	}
	return symChange - benchChange, true
}

// annualizedVolatility prefers a one-year window so short analysis
// periods do not understate risk.
func (a *Advisor) annualizedVolatility(ctx context.Context, series models.PriceSeries, symbol, period string) float64 {
	volSeries := series
	if period != "1y" {
		if yearly, err := a.fetchSeries(ctx, symbol, "1y"); err == nil {
			volSeries = yearly
		}
	}
	return stat.AnnualizedVolatility(stat.PctReturns(volSeries.Closes()))
}

// volumeChangePct compares recent 5-bar average volume to the series average.
func volumeChangePct(series models.PriceSeries) (float64, bool) {
	volumes := series.Volumes()
	if len(volumes) < 10 {
		return 0, false
	}
	var total float64
	for _, v := range volumes {
		total += v
	}
	overall := total / float64(len(volumes))
	if overall == 0 {
		return 0, false
	}
	var recent float64
	for _, v := range volumes[len(volumes)-5:] {
		recent += v
	}
	recent /= 5
	return (recent - overall) / overall * 100, true
}

func cryptoHistorySymbol(symbol string) string {
	clean := models.CleanCryptoSymbol(symbol)
	return clean + "-USD"
}

// Cached provider access shared by the usecases.

func (a *Advisor) fetchSeries(ctx context.Context, symbol, period string) (models.PriceSeries, error) {
	const interval = "1d"
	if s, ok := a.cache.GetSeries(ctx, symbol, period, interval); ok {
		return s, nil
	}
	s, err := a.history.Series(ctx, symbol, period, interval)
	if err != nil {
		return models.PriceSeries{}, err
	}
	a.cache.SetSeries(ctx, s)
	return s, nil
}

func (a *Advisor) fetchSnapshot(ctx context.Context, symbol string) (models.Snapshot, error) {
	if s, ok := a.cache.GetSnapshot(ctx, symbol); ok {
		return s, nil
	}
	s, err := a.history.Snapshot(ctx, symbol)
	if err != nil {
		return models.Snapshot{}, err
	}
	a.cache.SetSnapshot(ctx, s)
	return s, nil
}

func (a *Advisor) fetchQuote(ctx context.Context, symbol string) (models.Quote, error) {
	if q, ok := a.cache.GetQuote(ctx, symbol); ok {
		return q, nil
	}
	q, err := a.quotes.Quote(ctx, symbol)
	if err != nil {
		return models.Quote{}, err
	}
	a.cache.SetQuote(ctx, q)
	return q, nil
}
