package api

import (
	"errors"
	"strings"

	models "LiqWatch/internal/domain/models"
	domrepo "LiqWatch/internal/domain/repository"
	"LiqWatch/internal/usecase"
	xhttp "LiqWatch/pkg/http"
	xlogger "LiqWatch/pkg/logger"

	"github.com/labstack/echo/v4"
)

// LiquidationsEchoHandler implements Echo-based HTTP handlers following Clean Architecture.
type LiquidationsEchoHandler struct {
	logger *xlogger.Logger
	query  *usecase.QueryService
}

func NewLiquidationsEchoHandler(logger *xlogger.Logger, query *usecase.QueryService) *LiquidationsEchoHandler {
	return &LiquidationsEchoHandler{logger: logger, query: query}
}

func (h *LiquidationsEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/symbols", h.Symbols)
	g.GET("/liquidation", h.AllStats)
	g.GET("/liquidation/:symbol", h.SymbolStats)
	e.GET("/healthz", h.Health)
}

func (h *LiquidationsEchoHandler) Symbols(c echo.Context) error {
	symbols, err := h.query.ListActiveSymbols(c.Request().Context())
	if err != nil {
		h.logger.Error("symbols query error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, h.mapError(err))
	}
	return xhttp.SuccessResponse(c, symbols)
}

func (h *LiquidationsEchoHandler) SymbolStats(c echo.Context) error {
	req := &models.SymbolStatsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	symbol := strings.ToUpper(req.Symbol)

	res, err := h.query.SymbolStats(c.Request().Context(), symbol)
	if err != nil {
		if !errors.Is(err, domrepo.ErrNotFound) {
			h.logger.Error("symbol stats query error", xlogger.String("symbol", symbol), xlogger.Error(err))
		}
		return xhttp.AppErrorResponse(c, h.mapError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *LiquidationsEchoHandler) AllStats(c echo.Context) error {
	res, err := h.query.AllStats(c.Request().Context())
	if err != nil {
		h.logger.Error("all stats query error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, h.mapError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *LiquidationsEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

// mapError translates domain errors into HTTP-layer errors.
func (h *LiquidationsEchoHandler) mapError(err error) error {
	switch {
	case errors.Is(err, domrepo.ErrNotFound):
		return xhttp.NotFoundError("symbol has no liquidations in the current window").WithError(err)
	case errors.Is(err, domrepo.ErrStorageUnavailable):
		return xhttp.ServiceUnavailableError("storage backend unavailable").WithError(err)
	default:
		return xhttp.InternalError("query failed").WithError(err)
	}
}
