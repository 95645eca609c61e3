// Package ws delivers live library view updates to connected clients.
package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"kuppi/internal/shared/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 16
)

type client struct {
	userID uint
	conn   *websocket.Conn
	send   chan []byte
}

// Hub tracks one connection set per user. A user may have several tabs open;
// every connection receives each pushed view.
type Hub struct {
	mu      sync.RWMutex
	clients map[uint]map[*client]struct{}
	logger  logger.Interface
}

func NewHub(logger logger.Interface) *Hub {
	return &Hub{
		clients: make(map[uint]map[*client]struct{}),
		logger:  logger,
	}
}

// Register attaches a connection for a user and starts its pumps.
func (h *Hub) Register(userID uint, conn *websocket.Conn) {
	c := &client{
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
	}

	h.mu.Lock()
	if _, ok := h.clients[userID]; !ok {
		h.clients[userID] = make(map[*client]struct{})
	}
	h.clients[userID][c] = struct{}{}
	h.mu.Unlock()

	h.logger.Debugw("websocket client connected", "user_id", userID)

	go h.readPump(c)
	go h.writePump(c)
}

// ConnectedUserIDs returns the users with at least one open connection.
func (h *Hub) ConnectedUserIDs() []uint {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := make([]uint, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	return ids
}

// SendToUser pushes a JSON payload to every connection of one user.
// Returns false when the user has no open connection. A connection whose
// send buffer is full is skipped rather than blocking the projector.
func (h *Hub) SendToUser(userID uint, payload interface{}) bool {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Errorw("failed to marshal websocket payload",
			"user_id", userID, "error", err)
		return false
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	conns, ok := h.clients[userID]
	if !ok || len(conns) == 0 {
		return false
	}

	for c := range conns {
		select {
		case c.send <- data:
		default:
			h.logger.Warnw("websocket send buffer full, dropping update",
				"user_id", userID)
		}
	}
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.clients[c.userID]
	if !ok {
		return
	}
	if _, ok := conns[c]; !ok {
		return
	}
	delete(conns, c)
	close(c.send)
	if len(conns) == 0 {
		delete(h.clients, c.userID)
	}

	h.logger.Debugw("websocket client disconnected", "user_id", c.userID)
}

// readPump drains inbound frames; clients never send application data, the
// read loop only serves pong handling and close detection.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
