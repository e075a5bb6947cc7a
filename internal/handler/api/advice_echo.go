package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"FinAdvisor/internal/domain/models"
	"FinAdvisor/internal/usecase"
	xhttp "FinAdvisor/pkg/http"
	xlogger "FinAdvisor/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AdviceHandler wires the advisory usecases to the Echo router.
type AdviceHandler struct {
	logger     *xlogger.Logger
	advisor    *usecase.Advisor
	consensus  *usecase.ConsensusEngine
	comparator *usecase.Comparator
	scans      *usecase.ScanRunner
	overview   *usecase.MarketReporter
}

func NewAdviceHandler(
	logger *xlogger.Logger,
	advisor *usecase.Advisor,
	consensus *usecase.ConsensusEngine,
	comparator *usecase.Comparator,
	scans *usecase.ScanRunner,
	overview *usecase.MarketReporter,
) *AdviceHandler {
	return &AdviceHandler{
		logger:     logger,
		advisor:    advisor,
		consensus:  consensus,
		comparator: comparator,
		scans:      scans,
		overview:   overview,
	}
}

func (h *AdviceHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)
	g := e.Group("/api/v1")
	g.POST("/advice", h.Advice)
	g.POST("/consensus", h.Consensus)
	g.POST("/compare", h.Compare)
	g.POST("/scan", h.Scan)
	g.GET("/market/overview", h.Overview)
}

func (h *AdviceHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

func (h *AdviceHandler) Advice(c echo.Context) error {
	start := time.Now()
	req := &models.AdviceRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.advisor.Advise(c.Request().Context(), usecase.AdviseParams{
		Symbol:    req.Symbol,
		Class:     models.AssetClass(req.AssetClass),
		Period:    req.Period,
		Tolerance: models.ParseRiskTolerance(req.RiskTolerance),
	})
	if err != nil {
		h.logger.Error("advice usecase error",
			xlogger.String("symbol", req.Symbol),
			xlogger.Duration("elapsed", time.Since(start)),
			xlogger.Error(err),
		)
		return xhttp.AppErrorResponse(c, mapFailure(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AdviceHandler) Consensus(c echo.Context) error {
	req := &models.ConsensusRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.consensus.Consensus(c.Request().Context(), req.Symbol, models.ParseRiskTolerance(req.RiskTolerance))
	if err != nil {
		h.logger.Error("consensus usecase error",
			xlogger.String("symbol", req.Symbol),
			xlogger.Error(err),
		)
		return xhttp.AppErrorResponse(c, mapFailure(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AdviceHandler) Compare(c echo.Context) error {
	req := &models.CompareRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.comparator.Compare(c.Request().Context(), usecase.CompareParams{
		Symbols: req.Symbols,
		Class:   models.AssetClass(req.AssetClass),
		Period:  req.Period,
	})
	if err != nil {
		h.logger.Error("compare usecase error",
			xlogger.Strings("symbols", req.Symbols),
			xlogger.Error(err),
		)
		return xhttp.AppErrorResponse(c, mapFailure(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AdviceHandler) Scan(c echo.Context) error {
	req := &models.ScanRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.scans.Scan(c.Request().Context(), req.Symbol, req.Timeframes)
	if err != nil {
		h.logger.Error("scan usecase error",
			xlogger.String("symbol", req.Symbol),
			xlogger.Error(err),
		)
		return xhttp.AppErrorResponse(c, mapFailure(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AdviceHandler) Overview(c echo.Context) error {
	limit := xhttp.ParseIntDefault(c.QueryParam("limit"), usecase.DefaultListingLimit)
	res, err := h.overview.Overview(c.Request().Context(), limit)
	if err != nil {
		h.logger.Error("overview usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, mapFailure(err))
	}
	return xhttp.SuccessResponse(c, res)
}

// mapFailure translates domain failures into HTTP application errors.
func mapFailure(err error) error {
	switch {
	case models.IsNoData(err):
		return xhttp.NotFoundError(err.Error()).WithError(err)
	case models.IsAllSourcesFailed(err):
		return xhttp.NewAppError("ERR_ALL_SOURCES_FAILED", "", err.Error(), http.StatusBadGateway).WithError(err)
	case models.IsProviderUnavailable(err):
		return xhttp.NewAppError("ERR_PROVIDER_UNAVAILABLE", "", err.Error(), http.StatusBadGateway).WithError(err)
	case errors.Is(err, context.DeadlineExceeded):
		return xhttp.NewAppError("ERR_TIMEOUT", "", "request took too long to complete", http.StatusGatewayTimeout).WithError(err)
	default:
		return err
	}
}
