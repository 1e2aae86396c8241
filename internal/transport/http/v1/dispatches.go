package v1

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sereenat7/DISHA-sub001/internal/dispatch"
	"github.com/sereenat7/DISHA-sub001/internal/domain"
	"github.com/sereenat7/DISHA-sub001/internal/service"
)

// TriggerDispatch starts a new dispatch session.
// POST /v1/dispatches
func (h *Handler) TriggerDispatch(c echo.Context) error {
	ctx := c.Request().Context()

	var req domain.TriggerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	resp, err := h.service.TriggerDispatch(ctx, &req)
	if err != nil {
		switch {
		case errors.Is(err, dispatch.ErrInvalidPlan):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, service.ErrPolicyBlocked):
			return c.JSON(http.StatusForbidden, map[string]string{"error": err.Error()})
		case errors.Is(err, service.ErrProviderNotConfigured):
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusAccepted, resp)
}

// ListDispatches lists recent dispatch sessions, newest first.
// GET /v1/dispatches
func (h *Handler) ListDispatches(c echo.Context) error {
	ctx := c.Request().Context()

	limit := 50
	if l := c.QueryParam("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil {
			limit = val
		}
	}

	sessions, err := h.service.ListSessions(ctx, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"sessions": sessions,
	})
}

// GetDispatch returns one session with its per-contact reports.
// GET /v1/dispatches/:session_id
func (h *Handler) GetDispatch(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := c.Param("session_id")

	session, err := h.service.GetSession(ctx, sessionID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if session == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
	}

	reports, err := h.service.GetReports(ctx, sessionID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	session.Reports = reports

	return c.JSON(http.StatusOK, session)
}

// GetDispatchEvents returns a session's event trail, oldest first.
// GET /v1/dispatches/:session_id/events
func (h *Handler) GetDispatchEvents(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := c.Param("session_id")

	limit := 100
	if l := c.QueryParam("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil {
			limit = val
		}
	}
	afterTs := int64(0)
	if ts := c.QueryParam("after_ts"); ts != "" {
		if val, err := strconv.ParseInt(ts, 10, 64); err == nil {
			afterTs = val
		}
	}
	var types []string
	if tv := c.QueryParam("types"); tv != "" {
		types = strings.Split(tv, ",")
	}

	events, err := h.service.GetEvents(ctx, sessionID, afterTs, types, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"events": events,
	})
}

// GetDispatchSummary returns the human-readable report for a session.
// GET /v1/dispatches/:session_id/summary
func (h *Handler) GetDispatchSummary(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := c.Param("session_id")

	summary, err := h.service.Summary(ctx, sessionID)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.String(http.StatusOK, summary)
}

// CancelDispatch requests cancellation of a running session.
// POST /v1/dispatches/:session_id/cancel
func (h *Handler) CancelDispatch(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := c.Param("session_id")

	if err := h.service.CancelDispatch(ctx, sessionID); err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"session_id": sessionID,
		"message":    "cancellation requested",
	})
}
