package api

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"mission-tracker-service/internal/api/dto"
	"mission-tracker-service/internal/domain"
)

const (
	streamWriteDeadline = 5 * time.Second
	streamReadLimit     = 512
)

// StreamHub pushes every published mission snapshot to connected
// websocket clients. It implements the SnapshotSink port; the runner
// stays unaware of websockets.
type StreamHub struct {
	runID    string
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func NewStreamHub(runID string) *StreamHub {
	return &StreamHub{
		runID: runID,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The stream is read-only telemetry; origin checks belong to a
			// fronting proxy in deployments that need them.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// Publish sends the snapshot to every connected client, dropping
// connections whose writes fail. Implements ports.SnapshotSink.
func (h *StreamHub) Publish(snap domain.MissionSnapshot) {
	payload := dto.SnapshotResponse{
		RunID:            h.runID,
		State:            snap.State.String(),
		DistanceMeters:   snap.DistanceToActiveTarget,
		ProgressFraction: snap.ProgressFraction,
		Message:          snap.Message,
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		_ = conn.SetWriteDeadline(time.Now().Add(streamWriteDeadline))
		if err := conn.WriteJSON(payload); err != nil {
			log.Printf("stream write failed, dropping client: %v", err)
			_ = conn.Close()
			delete(h.clients, conn)
		}
	}
}

// ServeHTTP upgrades the connection and registers the client. Clients
// send nothing; the read loop exists only to observe the close.
func (h *StreamHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("stream upgrade failed: %v", err)
		return
	}

	conn.SetReadLimit(streamReadLimit)

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()

	go h.readLoop(conn)
}

func (h *StreamHub) readLoop(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	if _, ok := h.clients[conn]; ok {
		_ = conn.Close()
		delete(h.clients, conn)
	}
	h.mu.Unlock()
}

// ClientCount reports the number of connected stream clients.
func (h *StreamHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
