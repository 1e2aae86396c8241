// Package internalapi provides HTTP handlers for internal dispatcher APIs.
// These endpoints receive provider callbacks and are not exposed publicly.
package internalapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sereenat7/DISHA-sub001/internal/service"
)

// Handler handles internal HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new internal API handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers internal routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Provider delivery callbacks
	e.POST("/internal/provider/status", h.ProviderStatus)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.Health())
}
