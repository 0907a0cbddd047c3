package api

import (
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	maxFeedConnections = 32
	writeWait          = 5 * time.Second
)

// Envelope is the wrapper for every frame on the state feed. Consumers switch
// on T to pick a decoder for D.
type Envelope struct {
	T string      `msgpack:"t"`
	D interface{} `msgpack:"d"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // non-browser clients
		}
		return strings.HasPrefix(origin, "http://localhost") ||
			strings.HasPrefix(origin, "http://127.0.0.1")
	},
}

// StateHub fans world snapshots out to renderer connections as binary msgpack
// frames. Clients only listen; inbound messages are drained and discarded.
type StateHub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]struct{}

	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	broadcast  chan []byte

	stopChan chan struct{}
	stopOnce sync.Once
}

// NewStateHub creates a hub. Call Run in a goroutine before accepting
// upgrades.
func NewStateHub() *StateHub {
	return &StateHub{
		clients:    make(map[*websocket.Conn]struct{}),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		broadcast:  make(chan []byte, 16),
		stopChan:   make(chan struct{}),
	}
}

// Run owns the client set. All membership changes and broadcasts funnel
// through this loop.
func (h *StateHub) Run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if len(h.clients) >= maxFeedConnections {
				h.mu.Unlock()
				conn.Close()
				log.Println("⚠️ State feed full, connection refused")
				continue
			}
			h.clients[conn] = struct{}{}
			count := len(h.clients)
			h.mu.Unlock()
			UpdateWSConnections(count)
			log.Printf("🔌 State feed client connected (%d total)", count)

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			count := len(h.clients)
			h.mu.Unlock()
			UpdateWSConnections(count)

		case frame := <-h.broadcast:
			h.mu.RLock()
			conns := make([]*websocket.Conn, 0, len(h.clients))
			for c := range h.clients {
				conns = append(conns, c)
			}
			h.mu.RUnlock()
			for _, c := range conns {
				c.SetWriteDeadline(time.Now().Add(writeWait))
				if err := c.WriteMessage(websocket.BinaryMessage, frame); err != nil {
					h.unregisterAsync(c)
				}
			}
			if len(conns) > 0 {
				IncrementWSMessages()
			}

		case <-h.stopChan:
			h.mu.Lock()
			for c := range h.clients {
				c.Close()
			}
			h.clients = make(map[*websocket.Conn]struct{})
			h.mu.Unlock()
			UpdateWSConnections(0)
			return
		}
	}
}

// Stop closes every connection and terminates Run.
func (h *StateHub) Stop() {
	h.stopOnce.Do(func() {
		close(h.stopChan)
	})
}

// HandleUpgrade upgrades an HTTP request onto the feed.
func (h *StateHub) HandleUpgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("⚠️ Websocket upgrade failed: %v", err)
		return
	}
	h.register <- conn

	// Reader goroutine detects disconnects; the feed itself is one-way.
	go func() {
		defer func() { h.unregisterAsync(conn) }()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// StartBroadcastLoop snapshots the world on a fixed cadence and queues it for
// every client. Returns immediately; the loop stops with the hub.
func (h *StateHub) StartBroadcastLoop(engine EngineInterface, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				h.mu.RLock()
				idle := len(h.clients) == 0
				h.mu.RUnlock()
				if idle {
					continue
				}
				frame, err := msgpack.Marshal(Envelope{T: "state", D: engine.State()})
				if err != nil {
					log.Printf("⚠️ State frame encode failed: %v", err)
					continue
				}
				select {
				case h.broadcast <- frame:
				default: // drop frame rather than stall the loop
				}
			case <-h.stopChan:
				return
			}
		}
	}()
}

// unregisterAsync hands the connection back to Run without blocking the
// caller when the hub is shutting down.
func (h *StateHub) unregisterAsync(conn *websocket.Conn) {
	select {
	case h.unregister <- conn:
	case <-h.stopChan:
		conn.Close()
	}
}
