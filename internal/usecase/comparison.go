package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"FinAdvisor/internal/domain/models"
	"FinAdvisor/pkg/logger"
	"FinAdvisor/pkg/metrics"
	"FinAdvisor/pkg/stat"
)

// Comparator runs side-by-side analyses across a basket of symbols.
type Comparator struct {
	advisor *Advisor
	rec     *metrics.Recorder
	log     *logger.Logger
	timeout time.Duration
}

func NewComparator(advisor *Advisor, rec *metrics.Recorder, log *logger.Logger, timeout time.Duration) *Comparator {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Comparator{advisor: advisor, rec: rec, log: log, timeout: timeout}
}

// CompareParams selects the basket and analysis window.
type CompareParams struct {
	Symbols []string
	Class   models.AssetClass
	Period  string
}

type seriesResult struct {
	symbol string
	series models.PriceSeries
	err    error
}

// Compare fetches every symbol's history concurrently and builds the
// performance, risk and correlation views. Symbols that fail land in
// Errors; the comparison fails only when nothing could be fetched.
func (c *Comparator) Compare(ctx context.Context, p CompareParams) (*models.Comparison, error) {
	if p.Period == "" {
		p.Period = "1y"
	}
	p.Class = models.DetectAssetClass(p.Class, p.Symbols...)
	start := time.Now()
	defer func() { c.rec.RecordLatency("compare", time.Since(start).Seconds()) }()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	symbols := make([]string, 0, len(p.Symbols))
	for _, raw := range p.Symbols {
		sym := strings.ToUpper(strings.TrimSpace(raw))
		if p.Class == models.AssetCrypto {
			sym = models.CleanCryptoSymbol(raw)
		}
		symbols = append(symbols, sym)
	}

	ch := make(chan seriesResult, len(symbols))
	var wg sync.WaitGroup
	for _, sym := range symbols {
		wg.Add(1)
		go func(sym string) {
			defer wg.Done()
			histSym := sym
			if p.Class == models.AssetCrypto {
				histSym = cryptoHistorySymbol(sym)
			}
			series, err := c.advisor.fetchSeries(ctx, histSym, p.Period)
			ch <- seriesResult{symbol: sym, series: series, err: err}
		}(sym)
	}
	go func() {
		wg.Wait()
		close(ch)
	}()

	out := &models.Comparison{
		AssetClass:   p.Class,
		Period:       p.Period,
		Symbols:      symbols,
		DataSource:   "history",
		Performance:  make(map[string]models.AssetPerformance),
		AnalysisDate: time.Now().UTC(),
	}
	errs := make(map[string]string)
	bySymbol := make(map[string]models.PriceSeries, len(symbols))
	for res := range ch {
		if res.err != nil {
			errs[res.symbol] = res.err.Error()
			c.log.Warn("comparison symbol failed",
				logger.String("symbol", res.symbol),
				logger.Error(res.err),
			)
			continue
		}
		bySymbol[res.symbol] = res.series
	}
	if len(bySymbol) == 0 {
		c.rec.RecordError("compare")
		return nil, models.NewAllSourcesFailed(joinSymbols(symbols))
	}
	if len(errs) > 0 {
		out.Errors = errs
	}

	for sym, series := range bySymbol {
		perf := models.AssetPerformance{Symbol: sym}
		perf.StartPrice = series.Candles[0].Close
		perf.CurrentPrice, _ = series.LastClose()
		if change, ok := series.ChangePct(); ok {
			perf.ChangePct = stat.Round(change, 2)
		}
		out.Performance[sym] = perf
	}

	out.Correlations = correlationMatrix(bySymbol)

	if p.Class == models.AssetCrypto {
		c.addCryptoViews(ctx, out, bySymbol, p.Period)
	} else {
		c.addEquityViews(ctx, out, bySymbol, p.Period)
	}

	out.Summary = buildSummary(out)
	return out, nil
}

// addEquityViews fills the fundamental metric rows and sector grouping.
func (c *Comparator) addEquityViews(ctx context.Context, out *models.Comparison, bySymbol map[string]models.PriceSeries, period string) {
	out.KeyMetrics = make(map[string]models.KeyMetrics, len(bySymbol))
	out.SectorGroups = make(map[string][]string)
	for sym, series := range bySymbol {
		snap, err := c.advisor.fetchSnapshot(ctx, sym)
		if err != nil {
			continue
		}
		row := models.KeyMetrics{}
		if f := snap.Fundamentals; f != nil {
			row.MarketCap = f.MarketCap
			row.PERatio = f.PERatio
			row.EPS = f.EPS
			if f.DividendYield != nil {
				y := stat.Round(*f.DividendYield*100, 2)
				row.DividendYieldPct = &y
			}
			row.High52w = f.High52w
			row.Low52w = f.Low52w
			row.Sector = f.Sector
			row.Industry = f.Industry
			if f.Sector != "" {
				out.SectorGroups[f.Sector] = append(out.SectorGroups[f.Sector], sym)
			}
		}
		if avg := meanVolume(series); avg > 0 {
			row.AvgVolume = &avg
		}
		row.AnalystGrade = topAnalystGrade(snap.Ratings)
		out.KeyMetrics[sym] = row

		if perf, ok := out.Performance[sym]; ok && snap.Name != "" {
			perf.Name = snap.Name
			out.Performance[sym] = perf
		}
	}
	if len(out.SectorGroups) == 0 {
		out.SectorGroups = nil
	}
}

// addCryptoViews fills the volatility rows and the Bitcoin comparison.
func (c *Comparator) addCryptoViews(ctx context.Context, out *models.Comparison, bySymbol map[string]models.PriceSeries, period string) {
	out.Volatility = make(map[string]models.VolatilityMetrics, len(bySymbol))
	for sym, series := range bySymbol {
		returns := stat.PctReturns(series.Closes())
		daily := stat.Std(returns)
		out.Volatility[sym] = models.VolatilityMetrics{
			DailyVolPct:    stat.Round(daily*100, 2),
			AnnualVolPct:   stat.Round(stat.AnnualizedVolatility(returns)*100, 2),
			MaxDrawdownPct: stat.Round(stat.MaxDrawdown(series.Closes())*100, 2),
			SharpeRatio:    stat.Round(stat.SharpeRatio(returns), 2),
		}
	}

	if _, hasBTC := bySymbol[btcSymbol]; hasBTC {
		return
	}
	btcSeries, err := c.advisor.fetchSeries(ctx, cryptoHistorySymbol(btcSymbol), period)
	if err != nil {
		return
	}
	btcReturns := stat.PctReturns(btcSeries.Closes())
	btcChange, _ := btcSeries.ChangePct()
	out.BTCCorrelation = make(map[string]float64, len(bySymbol))
	for sym, series := range bySymbol {
		a, b := alignTails(stat.PctReturns(series.Closes()), btcReturns)
		out.BTCCorrelation[sym] = stat.Round(stat.Pearson(a, b), 2)
		if perf, ok := out.Performance[sym]; ok {
			rel := stat.Round(perf.ChangePct-btcChange, 2)
			perf.VsBTCPct = &rel
			out.Performance[sym] = perf
		}
	}
}

// correlationMatrix computes pairwise Pearson correlation of daily
// returns, aligned to the shortest common tail.
func correlationMatrix(bySymbol map[string]models.PriceSeries) map[string]map[string]float64 {
	if len(bySymbol) < 2 {
		return nil
	}
	symbols := make([]string, 0, len(bySymbol))
	returns := make(map[string][]float64, len(bySymbol))
	for sym, series := range bySymbol {
		r := stat.PctReturns(series.Closes())
		if len(r) == 0 {
			continue
		}
		symbols = append(symbols, sym)
		returns[sym] = r
	}
	if len(symbols) < 2 {
		return nil
	}
	sort.Strings(symbols)

	matrix := make(map[string]map[string]float64, len(symbols))
	for _, sym := range symbols {
		matrix[sym] = make(map[string]float64, len(symbols))
		matrix[sym][sym] = 1
	}
	for i := 0; i < len(symbols); i++ {
		for j := i + 1; j < len(symbols); j++ {
			a, b := alignTails(returns[symbols[i]], returns[symbols[j]])
			corr := stat.Round(stat.Pearson(a, b), 2)
			matrix[symbols[i]][symbols[j]] = corr
			matrix[symbols[j]][symbols[i]] = corr
		}
	}
	return matrix
}

// alignTails trims both slices to their common most-recent length.
func alignTails(a, b []float64) ([]float64, []float64) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	return a[len(a)-n:], b[len(b)-n:]
}

// buildSummary renders the headline insight lines.
func buildSummary(out *models.Comparison) []string {
	var summary []string

	bestSym, worstSym := "", ""
	best, worst := 0.0, 0.0
	first := true
	for sym, perf := range out.Performance {
		if first || perf.ChangePct > best {
			best, bestSym = perf.ChangePct, sym
		}
		if first || perf.ChangePct < worst {
			worst, worstSym = perf.ChangePct, sym
		}
		first = false
	}
	if bestSym != "" {
		summary = append(summary, fmt.Sprintf("Best performer: %s with %.2f%% return", bestSym, best))
	}
	if worstSym != "" && worstSym != bestSym {
		summary = append(summary, fmt.Sprintf("Worst performer: %s with %.2f%% return", worstSym, worst))
	}

	if pair, corr, ok := extremeCorrelation(out.Correlations, true); ok {
		summary = append(summary, fmt.Sprintf("Highest correlation: %s and %s at %.2f", pair[0], pair[1], corr))
	}
	if pair, corr, ok := extremeCorrelation(out.Correlations, false); ok {
		summary = append(summary, fmt.Sprintf("Lowest correlation: %s and %s at %.2f", pair[0], pair[1], corr))
	}

	if len(out.Volatility) > 1 {
		mostSym, leastSym := "", ""
		most, least := 0.0, 0.0
		first := true
		for sym, v := range out.Volatility {
			if first || v.AnnualVolPct > most {
				most, mostSym = v.AnnualVolPct, sym
			}
			if first || v.AnnualVolPct < least {
				least, leastSym = v.AnnualVolPct, sym
			}
			first = false
		}
		summary = append(summary, fmt.Sprintf("Most volatile: %s with %.2f%% annualized volatility", mostSym, most))
		if leastSym != mostSym {
			summary = append(summary, fmt.Sprintf("Least volatile: %s with %.2f%% annualized volatility", leastSym, least))
		}
	}
	return summary
}

// extremeCorrelation finds the highest or lowest off-diagonal pair.
func extremeCorrelation(matrix map[string]map[string]float64, highest bool) ([2]string, float64, bool) {
	symbols := make([]string, 0, len(matrix))
	for sym := range matrix {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	var pair [2]string
	var extreme float64
	found := false
	for i := 0; i < len(symbols); i++ {
		for j := i + 1; j < len(symbols); j++ {
			corr := matrix[symbols[i]][symbols[j]]
			if !found || (highest && corr > extreme) || (!highest && corr < extreme) {
				extreme = corr
				pair = [2]string{symbols[i], symbols[j]}
				found = true
			}
		}
	}
	return pair, extreme, found
}

func meanVolume(series models.PriceSeries) float64 {
	volumes := series.Volumes()
	if len(volumes) == 0 {
		return 0
	}
	var total float64
	for _, v := range volumes {
		total += v
	}
	return stat.Round(total/float64(len(volumes)), 0)
}

// topAnalystGrade picks the grade with the highest analyst count.
func topAnalystGrade(ratings *models.AnalystRatings) string {
	if ratings == nil || len(ratings.Counts) == 0 {
		return ""
	}
	grades := make([]string, 0, len(ratings.Counts))
	for g := range ratings.Counts {
		grades = append(grades, g)
	}
	sort.Strings(grades)
	top, topCount := "", -1
	for _, g := range grades {
		if ratings.Counts[g] > topCount {
			top, topCount = g, ratings.Counts[g]
		}
	}
	return top
}

func joinSymbols(symbols []string) string {
	return strings.Join(symbols, ",")
}
