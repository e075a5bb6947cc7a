package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"FinAdvisor/internal/domain/models"
	svccache "FinAdvisor/internal/service/cache"
	"FinAdvisor/internal/usecase"
	pkgcache "FinAdvisor/pkg/cache"
	"FinAdvisor/pkg/logger"
	"FinAdvisor/pkg/metrics"
)

var testRecorder = metrics.New()

type stubHistory struct{ series map[string]models.PriceSeries }

func (s *stubHistory) Series(_ context.Context, symbol, period, interval string) (models.PriceSeries, error) {
	ser, ok := s.series[symbol]
	if !ok {
		return models.PriceSeries{}, models.NewNoData("stub", symbol)
	}
	ser.Period, ser.Interval = period, interval
	return ser, nil
}

func (s *stubHistory) Snapshot(_ context.Context, symbol string) (models.Snapshot, error) {
	return models.Snapshot{}, models.NewNoData("stub", symbol)
}

type stubQuotes struct{}

func (stubQuotes) Quote(_ context.Context, symbol string) (models.Quote, error) {
	return models.Quote{}, models.NewNoData("stub", symbol)
}
func (stubQuotes) Info(_ context.Context, symbol string) (models.AssetInfo, error) {
	return models.AssetInfo{}, models.NewNoData("stub", symbol)
}
func (stubQuotes) GlobalMetrics(_ context.Context) (models.GlobalMetrics, error) {
	return models.GlobalMetrics{BTCDominance: 52.3}, nil
}
func (stubQuotes) Listings(_ context.Context, _ int) ([]models.Listing, error) {
	return []models.Listing{{Symbol: "BTC", Price: 72000}}, nil
}

type stubScanner struct{}

func (stubScanner) Analyze(_ context.Context, symbol string, _ models.Timeframe) (models.TimeframeScan, error) {
	return models.TimeframeScan{}, models.NewNoData("stub", symbol)
}
func (stubScanner) MultiTimeframe(_ context.Context, symbol string, _ []models.Timeframe) (models.MultiTimeframeScan, error) {
	return models.MultiTimeframeScan{}, models.NewNoData("stub", symbol)
}

func testSeries(symbol string, n int) models.PriceSeries {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]models.Candle, n)
	for i := 0; i < n; i++ {
		price := 100 + float64(i)*0.5
		candles[i] = models.Candle{Bucket: base.AddDate(0, 0, i), Close: price, Volume: 1000}
	}
	return models.PriceSeries{Symbol: symbol, Candles: candles}
}

func newTestHandler(t *testing.T) *AdviceHandler {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	hist := &stubHistory{series: map[string]models.PriceSeries{
		"AAPL":  testSeries("AAPL", 252),
		"^GSPC": testSeries("^GSPC", 252),
	}}
	cache := svccache.New(pkgcache.NewMemoryCache(), svccache.DefaultConfig())
	advisor := usecase.NewAdvisor(hist, stubQuotes{}, cache, testRecorder, log)
	consensus := usecase.NewConsensusEngine(advisor, stubScanner{}, testRecorder, log, 5*time.Second)
	comparator := usecase.NewComparator(advisor, testRecorder, log, 5*time.Second)
	scans := usecase.NewScanRunner(stubScanner{}, testRecorder, 5*time.Second)
	overview := usecase.NewMarketReporter(stubQuotes{}, cache, testRecorder, log, 5*time.Second)
	return NewAdviceHandler(log, advisor, consensus, comparator, scans, overview)
}

func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()
	e := echo.New()
	newTestHandler(t).RegisterRoutes(e)
	return e
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	rec := doJSON(newTestRouter(t), http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("health returned %d", rec.Code)
	}
}

func TestAdviceEndpoint(t *testing.T) {
	rec := doJSON(newTestRouter(t), http.MethodPost, "/api/v1/advice", `{"symbol":"AAPL"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("advice returned %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Status int `json:"status"`
		Data   struct {
			Symbol         string `json:"symbol"`
			Recommendation string `json:"recommendation"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.Symbol != "AAPL" || resp.Data.Recommendation == "" {
		t.Errorf("unexpected payload: %+v", resp.Data)
	}
}

func TestAdviceValidation(t *testing.T) {
	rec := doJSON(newTestRouter(t), http.MethodPost, "/api/v1/advice", `{}`)
	var resp struct {
		Status int `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != http.StatusBadRequest {
		t.Errorf("missing symbol should fail validation, status %d", resp.Status)
	}
}

func TestAdviceUnknownSymbol(t *testing.T) {
	rec := doJSON(newTestRouter(t), http.MethodPost, "/api/v1/advice", `{"symbol":"ZZZT"}`)
	var resp struct {
		Status int `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != http.StatusNotFound {
		t.Errorf("unknown symbol should map to not found, status %d", resp.Status)
	}
}

func TestCompareValidation(t *testing.T) {
	rec := doJSON(newTestRouter(t), http.MethodPost, "/api/v1/compare", `{"symbols":["AAPL"]}`)
	var resp struct {
		Status int `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != http.StatusBadRequest {
		t.Errorf("a single symbol cannot be compared, status %d", resp.Status)
	}
}

func TestOverviewEndpoint(t *testing.T) {
	rec := doJSON(newTestRouter(t), http.MethodGet, "/api/v1/market/overview", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("overview returned %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Data struct {
			Global *models.GlobalMetrics `json:"global_metrics"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.Global == nil || resp.Data.Global.BTCDominance != 52.3 {
		t.Errorf("global metrics missing: %+v", resp.Data.Global)
	}
}
