// Package network exposes the running game to read-only websocket
// observers. Observers receive JSON snapshots; they cannot submit
// actions, so the dispatch loop stays the only mutation path.
package network

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/idlerack/idlerack/internal/game"
	"github.com/idlerack/idlerack/internal/journal"
	"github.com/idlerack/idlerack/internal/platform/logger"
	"github.com/idlerack/idlerack/internal/platform/metrics"
	"github.com/idlerack/idlerack/internal/platform/tuning"
)

// ObserverMessage is the wire envelope pushed to observers.
type ObserverMessage struct {
	Type     string          `json:"type"` // "snapshot"
	SentAt   time.Time       `json:"sent_at"`
	Snapshot game.Snapshot   `json:"snapshot"`
	Journal  []journal.Entry `json:"journal,omitempty"`
}

// Hub maintains the set of observers and broadcasts snapshots to them.
// Implements engine.SnapshotSink.
type Hub struct {
	cfg     *tuning.Config
	logger  *logger.Logger
	journal *journal.Journal

	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	// done releases pumps blocked on register/unregister once Run has
	// torn the hub down.
	done chan struct{}
	mu   sync.Mutex

	// limiter throttles snapshot publishes; render frames arrive at 30fps
	// but observers only need a few per second.
	limiter *rate.Limiter
}

// NewHub initializes a new observer hub. jrnl may be nil to broadcast
// snapshots without log context.
func NewHub(cfg *tuning.Config, log *logger.Logger, jrnl *journal.Journal) *Hub {
	return &Hub{
		cfg:        cfg,
		logger:     log,
		journal:    jrnl,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, cfg.ClientSendBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		limiter:    rate.NewLimiter(rate.Limit(cfg.BroadcastPerSecond), 1),
	}
}

// Run starts the hub's main loop to handle connections and broadcasts.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("Observer hub shutting down.")
			close(h.done)
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				// Closing the connection unblocks the read pump too.
				client.conn.Close()
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if len(h.clients) >= h.cfg.MaxObservers {
				h.mu.Unlock()
				h.logger.Warn("Observer limit reached, rejecting connection")
				close(client.send)
				client.conn.Close()
				continue
			}
			h.clients[client] = true
			h.mu.Unlock()
			metrics.Get().RecordWSConnection(1)
			h.logger.Info("Observer connected")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				metrics.Get().RecordWSConnection(-1)
				h.logger.Info("Observer disconnected")
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
					metrics.Get().RecordWSMessage()
				default:
					// Slow observer; drop it rather than stall the hub.
					close(client.send)
					delete(h.clients, client)
					metrics.Get().RecordWSConnection(-1)
					metrics.Get().RecordWSError()
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish serializes a snapshot and queues it for broadcast. Called from
// the dispatch loop on render frames; rate-limited and non-blocking so a
// busy hub can never slow the simulation.
func (h *Hub) Publish(snap game.Snapshot) {
	if !h.limiter.Allow() {
		return
	}
	h.mu.Lock()
	empty := len(h.clients) == 0
	h.mu.Unlock()
	if empty {
		return
	}

	msg := ObserverMessage{Type: "snapshot", SentAt: time.Now(), Snapshot: snap}
	if h.journal != nil {
		msg.Journal = h.journal.Recent(16)
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Errorf("failed to serialize snapshot for broadcast: %v", err)
		metrics.Get().RecordWSError()
		return
	}

	select {
	case h.broadcast <- payload:
	default:
		metrics.Get().RecordWSError()
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Observers are read-only; any origin may watch.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades HTTP requests to observer connections.
func (h *Hub) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Errorf("websocket upgrade failed: %v", err)
			metrics.Get().RecordWSError()
			return
		}
		client := NewClient(h, conn)
		client.Register()
		go client.WritePump()
		go client.ReadPump()
	}
}
