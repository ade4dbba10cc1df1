package memory

import (
	"sync"

	"github.com/google/uuid"
)

// PresenceRepository maps an online user to the websocket connection currently
// representing them. Presence is process-local and rebuilt as clients
// reconnect, nothing is persisted.
type PresenceRepository interface {
	// Register inserts the mapping only if the user is not already present.
	// Returns false when an existing live mapping was kept (first wins).
	Register(userID uuid.UUID, connID uuid.UUID) bool

	// Lookup returns the connection currently representing the user.
	Lookup(userID uuid.UUID) (uuid.UUID, bool)

	// RemoveByConnection erases the entry owning the given connection.
	// Disconnects only report the dying connection id, so removal is keyed by
	// value. Silent no-op when no entry matches.
	RemoveByConnection(connID uuid.UUID)

	// OnlineUserIDs returns every registered user.
	OnlineUserIDs() []uuid.UUID
}

type presenceRepository struct {
	// byUser хранит map[user_id]connection_id
	byUser map[uuid.UUID]uuid.UUID
	mu     sync.RWMutex
}

func NewPresenceRepository() PresenceRepository {
	return &presenceRepository{
		byUser: make(map[uuid.UUID]uuid.UUID),
	}
}

func (r *presenceRepository) Register(userID uuid.UUID, connID uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byUser[userID]; exists {
		return false
	}

	r.byUser[userID] = connID

	return true
}

func (r *presenceRepository) Lookup(userID uuid.UUID) (uuid.UUID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	connID, ok := r.byUser[userID]

	return connID, ok
}

func (r *presenceRepository) RemoveByConnection(connID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for userID, id := range r.byUser {
		if id == connID {
			delete(r.byUser, userID)
			return
		}
	}
}

func (r *presenceRepository) OnlineUserIDs() []uuid.UUID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	userIDs := make([]uuid.UUID, 0, len(r.byUser))

	for userID := range r.byUser {
		userIDs = append(userIDs, userID)
	}

	return userIDs
}
