package v1

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/sereenat7/DISHA-sub001/internal/feed"
)

// Feed upgrades the connection and streams dispatch events as they happen.
// An optional ?session= query filters to a single session; without it the
// subscriber receives events for every session.
// GET /v1/feed
func (h *Handler) Feed(c echo.Context) error {
	if h.hub == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "feed unavailable"})
	}

	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Printf("Failed to upgrade WebSocket: %v", err)
		return err
	}

	sub := h.hub.NewSubscriber(ws, c.QueryParam("session"))
	h.hub.Register(sub)

	ws.SetReadLimit(h.cfg.WSMaxMessageSize)

	go h.writePump(sub)
	go h.readPump(sub)

	return nil
}

// readPump drains the connection; feed subscribers send no meaningful input.
func (h *Handler) readPump(sub *feed.Subscriber) {
	defer func() {
		h.hub.Unregister(sub)
		sub.Close()
	}()

	sub.SetReadDeadline(time.Now().Add(h.cfg.WSReadTimeout))
	sub.Conn.SetPongHandler(func(string) error {
		sub.SetReadDeadline(time.Now().Add(h.cfg.WSReadTimeout))
		return nil
	})

	for {
		if _, _, err := sub.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
	}
}

// writePump flushes queued events and keeps the connection alive with pings.
func (h *Handler) writePump(sub *feed.Subscriber) {
	ticker := time.NewTicker(h.cfg.WSPingInterval)
	defer func() {
		ticker.Stop()
		sub.Close()
	}()

	for {
		select {
		case message, ok := <-sub.Send:
			sub.SetWriteDeadline(time.Now().Add(h.cfg.WSWriteTimeout))
			if !ok {
				// Hub closed the channel
				sub.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := sub.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("Failed to write message: %v", err)
				return
			}

		case <-ticker.C:
			sub.SetWriteDeadline(time.Now().Add(h.cfg.WSWriteTimeout))
			if err := sub.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
