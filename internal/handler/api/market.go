package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	models "FinDeck/internal/domain/models"
	domrepo "FinDeck/internal/domain/repository"
	icache "FinDeck/internal/service/cache"
	"FinDeck/internal/usecase"
	xhttp "FinDeck/pkg/http"
	xlogger "FinDeck/pkg/logger"
)

// MarketHandler serves symbol-level market data for the trade panel.
type MarketHandler struct {
	logger   *xlogger.Logger
	market   *usecase.MarketUsecase
	cache    icache.BytesCache
	cacheTTL time.Duration
}

func NewMarketHandler(logger *xlogger.Logger, market *usecase.MarketUsecase) *MarketHandler {
	return &MarketHandler{logger: logger, market: market, cacheTTL: 10 * time.Minute}
}

// SetCache enables response caching for history lookups.
func (h *MarketHandler) SetCache(c icache.BytesCache) { h.cache = c }

func (h *MarketHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/market")
	g.GET("/history", h.History)
	g.GET("/quote", h.Quote)
}

func (h *MarketHandler) History(c echo.Context) error {
	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	window := domrepo.NormalizeWindow(req.Window)

	// Explicit from/to overrides the named window.
	if c.QueryParam("from") != "" || c.QueryParam("to") != "" {
		to := xhttp.ParseTimeDefault(c.QueryParam("to"), time.Now().UTC())
		from := xhttp.ParseTimeDefault(c.QueryParam("from"), window.Start(to))
		series, err := h.market.HistoryRange(c.Request().Context(), req.Symbol, from, to)
		if err != nil {
			return xhttp.AppErrorResponse(c,
				xhttp.NewAppError("ERR_DATA_UNAVAILABLE", "symbol", "price history unavailable", http.StatusBadGateway).WithError(err))
		}
		return xhttp.SuccessResponse(c, series)
	}

	cacheKey := "market:history:" + req.Symbol + ":" + string(window)
	if h.cache != nil {
		if b, ok, err := h.cache.GetBytes(cacheKey); err == nil && ok {
			var series models.PriceSeries
			if json.Unmarshal(b, &series) == nil {
				return xhttp.SuccessResponse(c, series)
			}
		}
	}

	series, err := h.market.History(c.Request().Context(), req.Symbol, window)
	if err != nil {
		return xhttp.AppErrorResponse(c,
			xhttp.NewAppError("ERR_DATA_UNAVAILABLE", "symbol", "price history unavailable", http.StatusBadGateway).WithError(err))
	}

	if h.cache != nil && !series.Empty() {
		if b, err := json.Marshal(series); err == nil {
			if err := h.cache.SetBytes(cacheKey, b, h.cacheTTL); err != nil {
				h.logger.Warn("history cache set failed", xlogger.Error(err))
			}
		}
	}
	return xhttp.SuccessResponse(c, series)
}

func (h *MarketHandler) Quote(c echo.Context) error {
	req := &models.QuoteRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	q, ok := h.market.Quote(c.Request().Context(), req.Symbol)
	if !ok {
		return xhttp.AppErrorResponse(c,
			xhttp.NewAppError("ERR_DATA_UNAVAILABLE", "symbol", "current price unavailable", http.StatusNotFound))
	}
	return xhttp.SuccessResponse(c, echo.Map{
		"symbol":    q.Symbol,
		"price":     q.Price,
		"timestamp": q.Timestamp,
	})
}
