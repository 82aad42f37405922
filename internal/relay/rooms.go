package relay

import "sync"

// Rooms maintains consultation id -> set of connection handles. Membership is
// a set: joining twice does not create a second entry. A handle may belong to
// any number of rooms at once.
type Rooms struct {
	mu     sync.RWMutex
	rooms  map[string]map[string]struct{}
	byConn map[string]map[string]struct{}
}

func NewRooms() *Rooms {
	return &Rooms{
		rooms:  make(map[string]map[string]struct{}),
		byConn: make(map[string]map[string]struct{}),
	}
}

// Join adds connID to the consultation's member set and returns true if the
// membership is new.
func (r *Rooms) Join(consultationID, connID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[consultationID]
	if !ok {
		members = make(map[string]struct{})
		r.rooms[consultationID] = members
	}
	if _, exists := members[connID]; exists {
		return false
	}
	members[connID] = struct{}{}

	joined, ok := r.byConn[connID]
	if !ok {
		joined = make(map[string]struct{})
		r.byConn[connID] = joined
	}
	joined[consultationID] = struct{}{}
	return true
}

// Leave removes connID from one consultation's member set. Absent membership
// is a no-op.
func (r *Rooms) Leave(consultationID, connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leaveLocked(consultationID, connID)
}

// LeaveAll removes connID from every room it belongs to and returns the
// consultation ids it left. Called on disconnect so no stale entries survive.
func (r *Rooms) LeaveAll(connID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var left []string
	for consultationID := range r.byConn[connID] {
		r.leaveLocked(consultationID, connID)
		left = append(left, consultationID)
	}
	return left
}

// MembersOf returns the current subscriber handles for a consultation.
func (r *Rooms) MembersOf(consultationID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := r.rooms[consultationID]
	if len(members) == 0 {
		return nil
	}
	out := make([]string, 0, len(members))
	for connID := range members {
		out = append(out, connID)
	}
	return out
}

func (r *Rooms) leaveLocked(consultationID, connID string) {
	if members, ok := r.rooms[consultationID]; ok {
		delete(members, connID)
		if len(members) == 0 {
			delete(r.rooms, consultationID)
		}
	}
	if joined, ok := r.byConn[connID]; ok {
		delete(joined, consultationID)
		if len(joined) == 0 {
			delete(r.byConn, connID)
		}
	}
}
