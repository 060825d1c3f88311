package live

import (
	"encoding/json"
	"sync"

	"go-retail/internal/features/metrics"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// Hub pushes every freshly applied snapshot to the connected dashboard
// clients. It implements metrics.SnapshotSink.
type Hub struct {
	log *zap.Logger

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		log:   log,
		conns: make(map[*websocket.Conn]struct{}),
	}
}

// Publish fans the snapshot out to all subscribers. A connection that fails
// to take the write is dropped; the client reconnects on its own.
func (h *Hub) Publish(snap *metrics.OperationalSnapshot) {
	payload, err := json.Marshal(snap)
	if err != nil {
		h.log.Error("failed to marshal snapshot for live push", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.log.Warn("dropping live subscriber", zap.Error(err))
			conn.Close()
			delete(h.conns, conn)
		}
	}
}

// HandleConnection registers the subscriber and blocks reading until the
// client goes away. Incoming messages are ignored; the stream is one-way.
func (h *Hub) HandleConnection(c *websocket.Conn) {
	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.conns, c)
	h.mu.Unlock()
	c.Close()
}
