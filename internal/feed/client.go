package feed

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Config bounds per-client resource usage.
type Config struct {
	// SendBuffer is the per-client outbound queue; a full queue drops
	// the message instead of blocking the hub.
	SendBuffer int

	// WriteWait is the deadline for a single write to the peer.
	WriteWait time.Duration

	// PongWait is how long the connection may go without a pong.
	// Pings go out every PongWait*9/10.
	PongWait time.Duration

	// MaxMessageSize caps inbound frames; the feed is one-way, so
	// anything beyond a small control message is suspect.
	MaxMessageSize int64
}

// DefaultConfig returns the production feed settings.
func DefaultConfig() Config {
	return Config{
		SendBuffer:     64,
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		MaxMessageSize: 512,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.SendBuffer <= 0 {
		c.SendBuffer = d.SendBuffer
	}
	if c.WriteWait <= 0 {
		c.WriteWait = d.WriteWait
	}
	if c.PongWait <= 0 {
		c.PongWait = d.PongWait
	}
	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = d.MaxMessageSize
	}
	return c
}

// client is one websocket subscriber. The writePump goroutine owns all
// writes; the readPump goroutine owns all reads. The send channel is
// never closed: once unregistered no publisher can reach it.
type client struct {
	hub    *Hub
	conn   *websocket.Conn
	market string // empty subscribes to every market
	send   chan []byte
	done   chan struct{}

	closeOnce sync.Once
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		c.hub.unregister(c)
		close(c.done)
		c.conn.Close()
	})
}

// readPump discards inbound frames and refreshes the read deadline on
// pongs. Returning tears the connection down.
func (c *client) readPump() {
	defer c.close()

	c.conn.SetReadLimit(c.hub.config.MaxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(c.hub.config.PongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.hub.config.PongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump drains the send queue and keeps the connection alive with
// pings.
func (c *client) writePump() {
	pingPeriod := c.hub.config.PongWait * 9 / 10
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.hub.config.WriteWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case msg := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(c.hub.config.WriteWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(c.hub.config.WriteWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
