package site

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// reloadMessage is sent to browsers after a rerun.
type reloadMessage struct {
	Type  string `json:"type"`
	RunID string `json:"run_id,omitempty"`
}

// Hub tracks live-reload connections.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]bool)}
}

// Clients returns the number of connected browsers.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast tells every browser to reload. Connections that fail the write
// are dropped. It returns the number of browsers notified.
func (h *Hub) Broadcast(runID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	sent := 0
	for conn := range h.clients {
		if err := conn.WriteJSON(reloadMessage{Type: "reload", RunID: runID}); err != nil {
			log.Printf("site: websocket write: %v", err)
			conn.Close()
			delete(h.clients, conn)
			continue
		}
		sent++
	}
	return sent
}

func (h *Hub) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("site: websocket upgrade: %v", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		conn.Close()
	}()

	// Browsers never send anything; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("site: websocket read: %v", err)
			}
			return
		}
	}
}
