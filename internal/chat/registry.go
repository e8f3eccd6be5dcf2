package chat

import (
	"sync"

	"github.com/google/uuid"
)

// Registry tracks which connections belong to which campaign room. It holds
// membership records only; sessions own their connections and are the only
// ones reading from them. All methods are safe for concurrent use.
type Registry struct {
	mu    sync.Mutex
	rooms map[uuid.UUID]map[Conn]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[uuid.UUID]map[Conn]struct{}),
	}
}

// Add inserts the connection into the campaign's room, creating the room on
// first use. Adding the same connection twice is a no-op.
func (r *Registry) Add(campaignID uuid.UUID, conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[campaignID]
	if !ok {
		room = make(map[Conn]struct{})
		r.rooms[campaignID] = room
	}
	room[conn] = struct{}{}
}

// Remove deletes the connection from the campaign's room. Removing an absent
// connection or room is a no-op. Empty rooms are dropped.
func (r *Registry) Remove(campaignID uuid.UUID, conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[campaignID]
	if !ok {
		return
	}
	delete(room, conn)
	if len(room) == 0 {
		delete(r.rooms, campaignID)
	}
}

// Snapshot returns a point-in-time copy of the room's connections so a
// fan-out can iterate without holding the lock while concurrent joins and
// leaves mutate the set.
func (r *Registry) Snapshot(campaignID uuid.UUID) []Conn {
	r.mu.Lock()
	defer r.mu.Unlock()

	room := r.rooms[campaignID]
	conns := make([]Conn, 0, len(room))
	for conn := range room {
		conns = append(conns, conn)
	}
	return conns
}

// Count reports the number of connections currently in the campaign's room.
func (r *Registry) Count(campaignID uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms[campaignID])
}
