// Package ws is the websocket transport: it upgrades connections,
// runs the per-connection pumps, and fans events out to clients and
// named groups.
package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 5 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20
	sendQueueSize  = 64
)

// Envelope is the wire framing of every message in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// ErrClientGone is returned by Send once the connection is closed or
// its queue is full.
var ErrClientGone = errors.New("ws: client gone")

// Client is one websocket connection with a buffered send queue. Writes
// go through the queue so a slow consumer never blocks a broadcast; a
// full queue drops the message.
type Client struct {
	id     string
	conn   *websocket.Conn
	send   chan []byte
	logger *zap.Logger

	closeOnce sync.Once
	closed    chan struct{}
}

func newClient(id string, conn *websocket.Conn, logger *zap.Logger) *Client {
	return &Client{
		id:     id,
		conn:   conn,
		send:   make(chan []byte, sendQueueSize),
		logger: logger,
		closed: make(chan struct{}),
	}
}

// ID returns the connection id.
func (c *Client) ID() string { return c.id }

// Send marshals the event envelope and queues it for delivery.
//
// Postcondition: Returns ErrClientGone when the connection is closed or
// the queue is full; a marshal failure is returned wrapped.
func (c *Client) Send(event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", event, err)
	}
	frame, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		return fmt.Errorf("marshal %s envelope: %w", event, err)
	}
	select {
	case <-c.closed:
		return ErrClientGone
	default:
	}
	select {
	case c.send <- frame:
		return nil
	default:
		c.logger.Warn("send queue full, dropping message",
			zap.String("client", c.id),
			zap.String("event", event))
		return ErrClientGone
	}
}

// close makes Send fail fast and tears the connection down. Idempotent.
func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.closed)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
}

// writePump drains the send queue onto the connection and keeps the
// peer alive with pings. Runs on its own goroutine per connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()
	for {
		select {
		case frame := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.closed:
			return
		}
	}
}

// readPump decodes inbound envelopes and hands them to the handler.
// Malformed frames are skipped. Returns when the connection drops.
func (c *Client) readPump(handler Handler) {
	defer c.close()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var env Envelope
		if err := json.Unmarshal(payload, &env); err != nil || env.Event == "" {
			c.logger.Debug("skipping malformed frame", zap.String("client", c.id))
			continue
		}
		handler.HandleMessage(c.id, env.Event, env.Data)
	}
}
