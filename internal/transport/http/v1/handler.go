// Package v1 provides the public HTTP API for the dispatcher.
package v1

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/sereenat7/DISHA-sub001/internal/config"
	"github.com/sereenat7/DISHA-sub001/internal/feed"
	"github.com/sereenat7/DISHA-sub001/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service  *service.Service
	hub      *feed.Hub
	cfg      *config.Config
	upgrader websocket.Upgrader
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service, hub *feed.Hub, cfg *config.Config) *Handler {
	return &Handler{
		service: service,
		hub:     hub,
		cfg:     cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Feed is read-only; allow all origins
				return true
			},
		},
	}
}

// RegisterRoutes registers external routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Dispatch API
	e.POST("/v1/dispatches", h.TriggerDispatch)
	e.GET("/v1/dispatches", h.ListDispatches)
	e.GET("/v1/dispatches/:session_id", h.GetDispatch)
	e.GET("/v1/dispatches/:session_id/events", h.GetDispatchEvents)
	e.GET("/v1/dispatches/:session_id/summary", h.GetDispatchSummary)
	e.POST("/v1/dispatches/:session_id/cancel", h.CancelDispatch)

	// Live event feed
	e.GET("/v1/feed", h.Feed)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.Health())
}
