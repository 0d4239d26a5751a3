// Package relay accepts liquidation events pushed by upstream relay
// processes over WebSocket. Frames use the same envelope as the exchange
// feed, so both paths share one decoder.
package relay

import (
	"errors"
	"net/http"

	models "LiqWatch/internal/domain/models"
	domrepo "LiqWatch/internal/domain/repository"
	"LiqWatch/internal/middleware"
	"LiqWatch/internal/usecase"
	xlogger "LiqWatch/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	logger   *xlogger.Logger
	pipe     *middleware.IngestPipeline
	metrics  domrepo.Metrics
	upgrader websocket.Upgrader
}

func NewHandler(logger *xlogger.Logger, pipe *middleware.IngestPipeline, metrics domrepo.Metrics) *Handler {
	return &Handler{
		logger:  logger,
		pipe:    pipe,
		metrics: metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws", h.Serve)
}

// Serve upgrades the connection and ingests frames until the peer
// disconnects. Relay connections are never redialed from this side.
func (h *Handler) Serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("relay upgrade failed", xlogger.Error(err))
		return nil
	}
	remote := conn.RemoteAddr().String()
	h.logger.Info("relay connected", xlogger.String("remote", remote))

	defer func() {
		conn.Close()
		h.logger.Info("relay disconnected", xlogger.String("remote", remote))
	}()

	ctx := c.Request().Context()
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn("relay read error", xlogger.String("remote", remote), xlogger.Error(err))
			}
			return nil
		}

		ev, err := models.DecodeEvent(raw)
		if err != nil {
			var derr *models.DecodeError
			if errors.As(err, &derr) {
				h.logger.Warn("relay frame dropped",
					xlogger.String("remote", remote),
					xlogger.String("reason", derr.Reason),
				)
			}
			h.metrics.RecordError("relay_decode")
			continue
		}
		if ev == nil {
			continue
		}

		if err := h.pipe.Process(ctx, usecase.SourceRelay, ev); err != nil {
			h.logger.Warn("relay event rejected", xlogger.String("remote", remote), xlogger.Error(err))
		}
	}
}
