// Package feed broadcasts dispatch lifecycle events to WebSocket subscribers.
package feed

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// FeedEvent is the wire envelope delivered to subscribers.
type FeedEvent struct {
	SessionID string          `json:"session_id"`
	Ts        int64           `json:"ts"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// Subscriber represents a single WebSocket subscriber.
type Subscriber struct {
	ID        string
	SessionID string // empty means the subscriber receives every session
	Conn      *websocket.Conn
	Send      chan []byte
	hub       *Hub
	mu        sync.Mutex
}

// Hub manages all feed subscribers.
type Hub struct {
	// Subscribers indexed by subscriber ID
	subscribers map[string]*Subscriber

	// Sessions maps session_id to set of subscriber IDs
	sessions map[string]map[string]bool

	// Firehose is the set of subscriber IDs with no session filter
	firehose map[string]bool

	// Channels for registration/unregistration
	register   chan *Subscriber
	unregister chan *Subscriber

	// Publish channel for fanning out events
	publish chan *envelope

	mu sync.RWMutex
}

// envelope carries a pre-marshaled event through the publish channel.
type envelope struct {
	SessionID string
	Data      []byte
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]*Subscriber),
		sessions:    make(map[string]map[string]bool),
		firehose:    make(map[string]bool),
		register:    make(chan *Subscriber),
		unregister:  make(chan *Subscriber),
		publish:     make(chan *envelope, 256),
	}
}

// Run starts the hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case sub := <-h.register:
			h.mu.Lock()
			h.subscribers[sub.ID] = sub
			if sub.SessionID != "" {
				if h.sessions[sub.SessionID] == nil {
					h.sessions[sub.SessionID] = make(map[string]bool)
				}
				h.sessions[sub.SessionID][sub.ID] = true
			} else {
				h.firehose[sub.ID] = true
			}
			h.mu.Unlock()
			log.Printf("Feed subscriber registered: %s (session: %s)", sub.ID, sub.SessionID)

		case sub := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.subscribers[sub.ID]; ok {
				delete(h.subscribers, sub.ID)
				delete(h.firehose, sub.ID)
				if sub.SessionID != "" && h.sessions[sub.SessionID] != nil {
					delete(h.sessions[sub.SessionID], sub.ID)
					if len(h.sessions[sub.SessionID]) == 0 {
						delete(h.sessions, sub.SessionID)
					}
				}
				close(sub.Send)
			}
			h.mu.Unlock()
			log.Printf("Feed subscriber unregistered: %s", sub.ID)

		case env := <-h.publish:
			h.mu.RLock()
			for subID := range h.firehose {
				h.deliver(subID, env.Data)
			}
			if subIDs, ok := h.sessions[env.SessionID]; ok {
				for subID := range subIDs {
					h.deliver(subID, env.Data)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// deliver pushes data onto a subscriber's send buffer. Caller holds h.mu.
func (h *Hub) deliver(subID string, data []byte) {
	sub, exists := h.subscribers[subID]
	if !exists {
		return
	}
	select {
	case sub.Send <- data:
	default:
		// Buffer full, close the subscriber
		log.Printf("Feed subscriber %s buffer full, closing", subID)
		go h.Unregister(sub)
	}
}

// NewSubscriber creates a subscriber for the given session filter.
// An empty sessionID subscribes to every session.
func (h *Hub) NewSubscriber(ws *websocket.Conn, sessionID string) *Subscriber {
	return &Subscriber{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Conn:      ws,
		Send:      make(chan []byte, 256),
		hub:       h,
	}
}

// Register registers a subscriber with the hub.
func (h *Hub) Register(sub *Subscriber) {
	h.register <- sub
}

// Unregister unregisters a subscriber from the hub.
func (h *Hub) Unregister(sub *Subscriber) {
	h.unregister <- sub
}

// Publish fans an event out to the session's subscribers and the firehose.
func (h *Hub) Publish(evt *FeedEvent) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	h.publish <- &envelope{
		SessionID: evt.SessionID,
		Data:      data,
	}
	return nil
}

// SendToSubscriber sends a message to a specific subscriber.
func (h *Hub) SendToSubscriber(sub *Subscriber, data []byte) error {
	select {
	case sub.Send <- data:
		return nil
	default:
		return ErrBufferFull
	}
}

// SendJSONToSubscriber sends a JSON message to a specific subscriber.
func (h *Hub) SendJSONToSubscriber(sub *Subscriber, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return h.SendToSubscriber(sub, data)
}

// SubscriberCount returns the number of active subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// HasSubscribers checks if a session has any filtered subscribers.
func (h *Hub) HasSubscribers(sessionID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	subIDs, ok := h.sessions[sessionID]
	return ok && len(subIDs) > 0
}

// WriteMessage writes a message to the subscriber with proper locking.
func (s *Subscriber) WriteMessage(messageType int, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Conn.WriteMessage(messageType, data)
}

// SetWriteDeadline sets the write deadline for the connection.
func (s *Subscriber) SetWriteDeadline(t time.Time) error {
	return s.Conn.SetWriteDeadline(t)
}

// SetReadDeadline sets the read deadline for the connection.
func (s *Subscriber) SetReadDeadline(t time.Time) error {
	return s.Conn.SetReadDeadline(t)
}

// Close closes the underlying connection.
func (s *Subscriber) Close() error {
	return s.Conn.Close()
}

// ErrBufferFull is returned when the send buffer is full.
var ErrBufferFull = &BufferFullError{}

// BufferFullError represents a buffer full error.
type BufferFullError struct{}

func (e *BufferFullError) Error() string {
	return "send buffer full"
}
