// Package feed streams settled trades and graduation signals to
// websocket subscribers. The hub implements the executor's Recorder and
// GraduationNotifier hooks, so everything the executor settles fans out
// to connected clients without a second pipeline.
package feed

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"pump-launchpad/internal/domain"
	"pump-launchpad/internal/observability"
)

// Event is the envelope every feed message travels in.
type Event struct {
	Type     string          `json:"type"` // "trade" or "graduation"
	MarketID string          `json:"market_id"`
	Data     json.RawMessage `json:"data"`
}

const (
	EventTrade      = "trade"
	EventGraduation = "graduation"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(*http.Request) bool {
		return true
	},
}

// Hub fans events out to websocket clients. Clients subscribe to a
// single market via the "market" query parameter or receive every
// event when the parameter is absent.
type Hub struct {
	config Config
	logger *log.Logger

	mu      sync.RWMutex
	clients map[*client]struct{}
	closed  bool
}

// NewHub creates a hub with the given config. A nil logger discards.
func NewHub(config Config, logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Hub{
		config:  config.withDefaults(),
		logger:  logger,
		clients: make(map[*client]struct{}),
	}
}

// ServeHTTP upgrades the request and registers the client.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("websocket upgrade failed: %v", err)
		return
	}

	c := &client{
		hub:    h,
		conn:   conn,
		market: r.URL.Query().Get("market"),
		send:   make(chan []byte, h.config.SendBuffer),
		done:   make(chan struct{}),
	}

	if !h.register(c) {
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// RecordTrade satisfies the executor's Recorder hook.
func (h *Hub) RecordTrade(_ context.Context, record *domain.TradeRecord) error {
	return h.publish(EventTrade, record.MarketID, record)
}

// NotifyGraduation satisfies the executor's GraduationNotifier hook.
func (h *Hub) NotifyGraduation(signal domain.GraduationSignal) {
	if err := h.publish(EventGraduation, signal.MarketID, signal); err != nil {
		h.logger.Printf("publish graduation: %v", err)
	}
}

// publish encodes the event once and offers it to every matching
// client. Slow clients drop messages rather than stall the hub.
func (h *Hub) publish(eventType, marketID string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	msg, err := json.Marshal(Event{Type: eventType, MarketID: marketID, Data: data})
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		if c.market != "" && c.market != marketID {
			continue
		}
		select {
		case c.send <- msg:
		default:
			observability.RecordFeedMessageDropped()
		}
	}
	return nil
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	observability.SetFeedClients(len(h.clients))
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	observability.SetFeedClients(len(h.clients))
}
