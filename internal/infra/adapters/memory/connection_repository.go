package memory

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/business-nexus/backend/internal/application/constant"
	"github.com/business-nexus/backend/internal/application/metric"
)

// ConnectionRepository owns the live websocket connections, keyed by the
// connection id minted at upgrade time. Writes are best-effort: a write to an
// absent connection is a silent no-op, delivery failure is never surfaced to
// the sender. The user-left/disconnect path is the authoritative teardown
// signal for peers.
type ConnectionRepository interface {
	Add(uuid.UUID, *websocket.Conn)
	Remove(connID uuid.UUID)

	Write(connID uuid.UUID, payload any)
}

type safeWS struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

type connectionRepository struct {
	// conns хранит map[connection_id]*ws.conn
	conns map[uuid.UUID]*safeWS

	mu sync.RWMutex
}

func NewConnectionRepository() ConnectionRepository {
	return &connectionRepository{
		conns: make(map[uuid.UUID]*safeWS, 10),
	}
}

func (w *connectionRepository) Add(connID uuid.UUID, conn *websocket.Conn) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.conns[connID] = &safeWS{conn: conn}

	metric.IncrementWSActiveConnections()
}

func (w *connectionRepository) Remove(connID uuid.UUID) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, exists := w.conns[connID]; exists {
		delete(w.conns, connID)

		metric.DecrementWSActiveConnections()
	}
}

func (w *connectionRepository) Write(connID uuid.UUID, payload any) {
	safews, ok := w.getSafeWS(connID)
	if !ok {
		// stale target, dropped by design
		return
	}

	safews.mu.Lock()
	defer safews.mu.Unlock()

	err := safews.conn.WriteJSON(payload)
	if err != nil {
		slog.Error(
			"write to websocket",
			slog.Any(constant.Error, err),
			slog.Any(constant.ConnID, connID),
		)
		return
	}
}

func (w *connectionRepository) getSafeWS(connID uuid.UUID) (*safeWS, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	conn, ok := w.conns[connID]
	return conn, ok
}
