package memory

import (
	"sync"

	"github.com/google/uuid"
)

// RoomMember is one connection inside a call room.
type RoomMember struct {
	ConnID uuid.UUID
	Name   string
}

// RoomRepository tracks transient room membership, keyed by meeting id.
// A room exists only while it has members; the entry is dropped once empty.
type RoomRepository interface {
	// Join adds the connection to the room, creating it if needed.
	// A connection can be in at most one room, a second join moves it.
	Join(roomID string, member RoomMember)

	// Leave removes the connection from whatever room it is in and returns the
	// room it left. ok is false when the connection was not in any room.
	Leave(connID uuid.UUID) (roomID string, ok bool)

	// MembersExcept returns every member of the room other than the given
	// connection.
	MembersExcept(roomID string, connID uuid.UUID) []RoomMember

	// RoomOf returns the room the connection currently belongs to.
	RoomOf(connID uuid.UUID) (string, bool)
}

type roomRepository struct {
	// rooms хранит map[room_id]map[connection_id]member
	rooms  map[string]map[uuid.UUID]RoomMember
	byConn map[uuid.UUID]string

	mu sync.RWMutex
}

func NewRoomRepository() RoomRepository {
	return &roomRepository{
		rooms:  make(map[string]map[uuid.UUID]RoomMember),
		byConn: make(map[uuid.UUID]string),
	}
}

func (r *roomRepository) Join(roomID string, member RoomMember) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.byConn[member.ConnID]; ok {
		r.removeLocked(prev, member.ConnID)
	}

	members, ok := r.rooms[roomID]
	if !ok {
		members = make(map[uuid.UUID]RoomMember, 2)
		r.rooms[roomID] = members
	}

	members[member.ConnID] = member
	r.byConn[member.ConnID] = roomID
}

func (r *roomRepository) Leave(connID uuid.UUID) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	roomID, ok := r.byConn[connID]
	if !ok {
		return "", false
	}

	r.removeLocked(roomID, connID)

	return roomID, true
}

func (r *roomRepository) removeLocked(roomID string, connID uuid.UUID) {
	delete(r.byConn, connID)

	members, ok := r.rooms[roomID]
	if !ok {
		return
	}

	delete(members, connID)

	if len(members) == 0 {
		delete(r.rooms, roomID)
	}
}

func (r *roomRepository) MembersExcept(roomID string, connID uuid.UUID) []RoomMember {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := r.rooms[roomID]

	result := make([]RoomMember, 0, len(members))

	for id, member := range members {
		if id == connID {
			continue
		}
		result = append(result, member)
	}

	return result
}

func (r *roomRepository) RoomOf(connID uuid.UUID) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roomID, ok := r.byConn[connID]

	return roomID, ok
}
