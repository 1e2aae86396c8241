package internalapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sereenat7/DISHA-sub001/internal/domain"
	"github.com/sereenat7/DISHA-sub001/internal/service"
)

// ProviderStatus receives a call delivery callback from the provider. The
// provider posts form-encoded Twilio fields; the originating session is
// carried in the session_id query parameter of the callback URL.
// POST /internal/provider/status
func (h *Handler) ProviderStatus(c echo.Context) error {
	sessionID := c.QueryParam("session_id")
	if sessionID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "session_id is required"})
	}

	var status domain.DeliveryStatus
	if err := c.Bind(&status); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid callback body"})
	}

	ctx := c.Request().Context()

	if err := h.service.RecordDeliveryStatus(ctx, sessionID, &status); err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}
