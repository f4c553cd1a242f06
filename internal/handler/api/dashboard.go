package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	models "FinDeck/internal/domain/models"
	"FinDeck/internal/usecase"
	xhttp "FinDeck/pkg/http"
	xlogger "FinDeck/pkg/logger"
)

// DashboardHandler serves the macro widgets: rates, spreads and news.
type DashboardHandler struct {
	logger *xlogger.Logger
	dash   *usecase.DashboardUsecase
}

func NewDashboardHandler(logger *xlogger.Logger, dash *usecase.DashboardUsecase) *DashboardHandler {
	return &DashboardHandler{logger: logger, dash: dash}
}

func (h *DashboardHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/dashboard/rates", h.Rates)
	g.GET("/dashboard/spreads", h.Spreads)
	g.GET("/news", h.News)
}

func (h *DashboardHandler) Rates(c echo.Context) error {
	rates, err := h.dash.Rates(c.Request().Context())
	if err != nil {
		h.logger.Error("rates fetch error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c,
			xhttp.NewAppError("ERR_DATA_UNAVAILABLE", "", "rates unavailable", http.StatusBadGateway).WithError(err))
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "public, max-age=300")
	return xhttp.SuccessResponse(c, rates)
}

func (h *DashboardHandler) Spreads(c echo.Context) error {
	req := &models.SpreadsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	spreads, err := h.dash.Spreads(c.Request().Context(), req.History)
	if err != nil {
		h.logger.Error("spreads fetch error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c,
			xhttp.NewAppError("ERR_DATA_UNAVAILABLE", "", "spreads unavailable", http.StatusBadGateway).WithError(err))
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "public, max-age=300")
	return xhttp.SuccessResponse(c, spreads)
}

func (h *DashboardHandler) News(c echo.Context) error {
	articles, err := h.dash.News(c.Request().Context())
	if err != nil {
		h.logger.Error("news fetch error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c,
			xhttp.NewAppError("ERR_DATA_UNAVAILABLE", "", "news unavailable", http.StatusBadGateway).WithError(err))
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "public, max-age=60")
	return xhttp.SuccessResponse(c, articles)
}
