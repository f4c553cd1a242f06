package api

import (
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"

	models "FinDeck/internal/domain/models"
	domrepo "FinDeck/internal/domain/repository"
	"FinDeck/internal/ledger"
	"FinDeck/internal/service/metrics"
	"FinDeck/internal/usecase"
	xhttp "FinDeck/pkg/http"
	xlogger "FinDeck/pkg/logger"
)

// SessionHeader carries the opaque session ID. An absent or unknown ID
// lazily creates a fresh session; the resolved ID is echoed back so the
// client can keep it.
const SessionHeader = "X-Session-ID"

// PortfolioHandler serves the simulated portfolio endpoints.
type PortfolioHandler struct {
	logger   *xlogger.Logger
	registry *ledger.Registry
	trade    *usecase.TradeUsecase
	holdings *usecase.HoldingsUsecase
	perf     *usecase.PerformanceUsecase
}

func NewPortfolioHandler(logger *xlogger.Logger, registry *ledger.Registry, trade *usecase.TradeUsecase, holdings *usecase.HoldingsUsecase, perf *usecase.PerformanceUsecase) *PortfolioHandler {
	metrics.Register()
	return &PortfolioHandler{
		logger:   logger,
		registry: registry,
		trade:    trade,
		holdings: holdings,
		perf:     perf,
	}
}

func (h *PortfolioHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/portfolio")
	g.POST("/trade", h.Trade)
	g.GET("/holdings", h.Holdings)
	g.GET("/transactions", h.Transactions)
	g.GET("/performance", h.Performance)
	g.GET("/series", h.Series)
}

func (h *PortfolioHandler) session(c echo.Context) *ledger.Ledger {
	id, l := h.registry.Get(c.Request().Header.Get(SessionHeader))
	c.Response().Header().Set(SessionHeader, id)
	return l
}

func (h *PortfolioHandler) Trade(c echo.Context) error {
	req := &models.TradeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	l := h.session(c)
	tx, err := h.trade.Execute(c.Request().Context(), l, *req)
	if err != nil {
		return h.portfolioError(c, "trade", err)
	}
	return xhttp.CreatedResponse(c, tx)
}

func (h *PortfolioHandler) Holdings(c echo.Context) error {
	start := time.Now()
	defer func() {
		metrics.AnalyticsLatency.WithLabelValues("holdings").Observe(time.Since(start).Seconds())
	}()

	l := h.session(c)
	snap := h.holdings.Snapshot(c.Request().Context(), l)
	return xhttp.SuccessResponse(c, snap)
}

func (h *PortfolioHandler) Transactions(c echo.Context) error {
	l := h.session(c)
	txs := l.Transactions()
	// newest first for display
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].Timestamp.After(txs[j].Timestamp) })

	total := int64(len(txs))
	if limit := xhttp.ParseIntDefault(c.QueryParam("limit"), 0); limit > 0 && limit < len(txs) {
		txs = txs[:limit]
	}
	return xhttp.ListResponse(c, txs, total)
}

func (h *PortfolioHandler) Performance(c echo.Context) error {
	start := time.Now()
	defer func() {
		metrics.AnalyticsLatency.WithLabelValues("performance").Observe(time.Since(start).Seconds())
	}()

	req := &models.PerformanceRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	l := h.session(c)
	report, err := h.perf.Report(c.Request().Context(), l, domrepo.NormalizeWindow(req.Window), req.Benchmark)
	if err != nil {
		return h.portfolioError(c, "performance", err)
	}
	return xhttp.SuccessResponse(c, report)
}

func (h *PortfolioHandler) Series(c echo.Context) error {
	req := &models.SeriesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	l := h.session(c)
	series, diags, err := h.perf.Series(c.Request().Context(), l, domrepo.NormalizeWindow(req.Window))
	if err != nil {
		return h.portfolioError(c, "series", err)
	}
	return xhttp.SuccessResponse(c, echo.Map{
		"chart":       usecase.ToChartSeries(series),
		"empty":       series.Empty(),
		"diagnostics": diags,
	})
}

func (h *PortfolioHandler) portfolioError(c echo.Context, endpoint string, err error) error {
	metrics.AnalyticsErrors.WithLabelValues(endpoint).Inc()
	switch {
	case errors.Is(err, usecase.ErrEmptyPortfolio):
		return xhttp.AppErrorResponse(c,
			xhttp.NewAppError("ERR_EMPTY_PORTFOLIO", "", "portfolio has no holdings", http.StatusNotFound))
	case errors.Is(err, usecase.ErrPriceUnavailable):
		return xhttp.AppErrorResponse(c,
			xhttp.NewAppError("ERR_DATA_UNAVAILABLE", "symbol", "current price unavailable", http.StatusBadGateway))
	case errors.Is(err, usecase.ErrInsufficientShares):
		return xhttp.AppErrorResponse(c,
			xhttp.NewAppError("ERR_INSUFFICIENT_SHARES", "quantity", "no shares held to sell", http.StatusBadRequest))
	default:
		h.logger.Error(endpoint+" usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
}
