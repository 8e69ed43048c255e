// Package ws carries the notification side-channel. The hub keeps a
// userId -> connections multimap behind a mutex and pushes fire-and-forget
// events; nothing here ever propagates an error back into a request path.
package ws

import (
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/betodolist/betodolist-api/internal/utils"
)

// Notifier delivers an event to every live connection of a user.
// Implementations must not block the caller or surface errors.
type Notifier interface {
	Notify(userID uint64, event string, payload interface{})
}

type envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub is the in-process Notifier backed by websocket connections.
type Hub struct {
	jwtSecret string
	upgrader  websocket.Upgrader

	mu    sync.Mutex
	conns map[uint64]map[*websocket.Conn]struct{}
}

func NewHub(jwtSecret string) *Hub {
	return &Hub{
		jwtSecret: jwtSecret,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		conns: make(map[uint64]map[*websocket.Conn]struct{}),
	}
}

// HandleConnection upgrades GET /ws?token=<jwt> and keeps the connection
// registered until the peer goes away.
func (h *Hub) HandleConnection(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	userID, err := utils.ParseToken(h.jwtSecret, token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response
		return
	}

	h.register(userID, conn)
	defer h.unregister(userID, conn)

	// Drain the connection; clients only listen but the read loop detects
	// disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Notify sends an event to every connection of userID. Write failures only
// drop the dead connection.
func (h *Hub) Notify(userID uint64, event string, payload interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.conns[userID]
	if !ok {
		return
	}

	msg := envelope{Event: event, Data: payload}
	for conn := range set {
		if err := conn.WriteJSON(msg); err != nil {
			log.Printf("ws: dropping dead connection for user %d: %v", userID, err)
			conn.Close()
			delete(set, conn)
		}
	}
	if len(set) == 0 {
		delete(h.conns, userID)
	}
}

// ConnectionCount reports the number of live connections for a user.
func (h *Hub) ConnectionCount(userID uint64) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns[userID])
}

func (h *Hub) register(userID uint64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[userID] == nil {
		h.conns[userID] = make(map[*websocket.Conn]struct{})
	}
	h.conns[userID][conn] = struct{}{}
}

func (h *Hub) unregister(userID uint64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conn.Close()
	if set, ok := h.conns[userID]; ok {
		delete(set, conn)
		if len(set) == 0 {
			delete(h.conns, userID)
		}
	}
}
