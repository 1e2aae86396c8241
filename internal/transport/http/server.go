// Package http provides the HTTP server implementation for the dispatcher.
package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/sereenat7/DISHA-sub001/internal/config"
	"github.com/sereenat7/DISHA-sub001/internal/feed"
	"github.com/sereenat7/DISHA-sub001/internal/service"
	"github.com/sereenat7/DISHA-sub001/internal/transport/http/internalapi"
	v1 "github.com/sereenat7/DISHA-sub001/internal/transport/http/v1"
)

// NewExternalServer creates and configures the external-facing HTTP server.
// This server handles dispatch triggers, session queries, and the live
// event feed.
func NewExternalServer(svc *service.Service, hub *feed.Hub, cfg *config.Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Handlers
	v1Handler := v1.NewHandler(svc, hub, cfg)

	// Register Routes
	v1Handler.RegisterRoutes(e)

	return e
}

// NewInternalServer creates and configures the internal-facing HTTP server.
// This server handles provider delivery callbacks.
func NewInternalServer(svc *service.Service) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Handlers
	internalHandler := internalapi.NewHandler(svc)

	// Register Routes
	internalHandler.RegisterRoutes(e)

	return e
}
