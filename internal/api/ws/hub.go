package ws

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handler consumes decoded inbound traffic. HandleMessage runs on the
// connection's read goroutine.
type Handler interface {
	HandleMessage(clientID, event string, data json.RawMessage)
	HandleDisconnect(clientID string)
}

// Hub tracks live connections and named broadcast groups, and serves
// the websocket upgrade endpoint. It satisfies the gateways'
// Broadcaster interface.
//
// All methods are safe for concurrent use.
type Hub struct {
	handler  Handler
	logger   *zap.Logger
	upgrader websocket.Upgrader

	// OnConnect, when set, runs after a connection registers and before
	// its read pump starts. A returned error refuses the connection.
	// Assign before serving.
	OnConnect func(c *Client, r *http.Request) error

	mu      sync.RWMutex
	clients map[string]*Client
	groups  map[string]map[string]struct{} // group → member client ids
}

// NewHub creates a hub. Bind the inbound handler before serving.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// TODO: restrict origins once the client origin list is known.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[string]*Client),
		groups:  make(map[string]map[string]struct{}),
	}
}

// Bind sets the inbound handler. The gateways depend on the hub for
// broadcasting, so the handler is attached after construction.
//
// Precondition: must be called before the hub serves connections.
func (h *Hub) Bind(handler Handler) {
	h.handler = handler
}

// ServeHTTP upgrades the request and runs the connection until it
// drops, then detaches it from every group and reports the disconnect.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := newClient(uuid.NewString(), conn, h.logger)
	h.mu.Lock()
	h.clients[client.id] = client
	h.mu.Unlock()
	h.logger.Info("client connected", zap.String("client", client.id))

	if h.OnConnect != nil {
		if err := h.OnConnect(client, r); err != nil {
			h.logger.Warn("connection refused",
				zap.String("client", client.id),
				zap.Error(err))
			h.drop(client.id)
			return
		}
	}

	go client.writePump()
	client.readPump(h.handler)

	h.drop(client.id)
	h.handler.HandleDisconnect(client.id)
	h.logger.Info("client disconnected", zap.String("client", client.id))
}

// ClientByID returns the live connection with the given id, or nil.
func (h *Hub) ClientByID(id string) *Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clients[id]
}

// SendTo delivers an event to one connection. Unknown ids are dropped.
func (h *Hub) SendTo(clientID, event string, payload any) {
	h.mu.RLock()
	c := h.clients[clientID]
	h.mu.RUnlock()
	if c == nil {
		return
	}
	if err := c.Send(event, payload); err != nil {
		h.logger.Debug("send failed", zap.String("client", clientID), zap.Error(err))
	}
}

// SendToGroup delivers an event to every member of a group.
func (h *Hub) SendToGroup(group, event string, payload any) {
	h.SendToGroupExcept(group, nil, event, payload)
}

// SendToGroupExcept delivers an event to every member of a group except
// the excluded connections.
func (h *Hub) SendToGroupExcept(group string, except []string, event string, payload any) {
	excluded := make(map[string]struct{}, len(except))
	for _, id := range except {
		excluded[id] = struct{}{}
	}

	h.mu.RLock()
	members := make([]*Client, 0, len(h.groups[group]))
	for id := range h.groups[group] {
		if _, skip := excluded[id]; skip {
			continue
		}
		if c, ok := h.clients[id]; ok {
			members = append(members, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range members {
		if err := c.Send(event, payload); err != nil {
			h.logger.Debug("group send failed",
				zap.String("group", group),
				zap.String("client", c.id),
				zap.Error(err))
		}
	}
}

// Join adds a connection to a group, creating the group on first use.
func (h *Hub) Join(group, clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.groups[group]; !ok {
		h.groups[group] = make(map[string]struct{})
	}
	h.groups[group][clientID] = struct{}{}
}

// Leave removes a connection from a group; empty groups are deleted.
func (h *Hub) Leave(group, clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(group, clientID)
}

func (h *Hub) leaveLocked(group, clientID string) {
	members, ok := h.groups[group]
	if !ok {
		return
	}
	delete(members, clientID)
	if len(members) == 0 {
		delete(h.groups, group)
	}
}

// drop forgets a connection and detaches it from every group.
func (h *Hub) drop(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[clientID]; ok {
		c.close()
		delete(h.clients, clientID)
	}
	for group := range h.groups {
		h.leaveLocked(group, clientID)
	}
}
