package usecase

import (
	"context"
	"time"

	"FinAdvisor/internal/domain/models"
	domsvc "FinAdvisor/internal/domain/service"
	"FinAdvisor/pkg/metrics"
)

// ScanRunner exposes the multi-timeframe technical scan as its own
// operation.
type ScanRunner struct {
	scanner domsvc.Scanner
	rec     *metrics.Recorder
	timeout time.Duration
}

func NewScanRunner(scanner domsvc.Scanner, rec *metrics.Recorder, timeout time.Duration) *ScanRunner {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ScanRunner{scanner: scanner, rec: rec, timeout: timeout}
}

// Scan runs the technical scan for one symbol across the requested
// timeframes. Empty timeframes means all supported ones.
func (s *ScanRunner) Scan(ctx context.Context, symbol string, timeframes []string) (*models.MultiTimeframeScan, error) {
	start := time.Now()
	defer func() { s.rec.RecordLatency("scan", time.Since(start).Seconds()) }()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	tfs := make([]models.Timeframe, 0, len(timeframes))
	for _, raw := range timeframes {
		tfs = append(tfs, models.NormalizeTimeframe(raw))
	}

	scan, err := s.scanner.MultiTimeframe(ctx, models.CleanCryptoSymbol(symbol), tfs)
	if err != nil {
		s.rec.RecordError("scan")
		return nil, err
	}
	s.rec.RecordRecommendation("scan", scan.Overall)
	return &scan, nil
}
