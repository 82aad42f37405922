package relay

import (
	"sync"
	"time"

	"github.com/Shanky3008/dietint-platform-sub001/internal/models"
)

// Registry tracks which connection handles are live and what identity each
// declared. Entries are keyed by connection handle, not user id: one user may
// hold several simultaneous connections (multiple tabs), each its own entry.
//
// Presence is reference-counted per user id so that multi-tab usage does not
// flicker: Register reports whether the entry is the user's first live
// connection, Unregister whether it was the last.
type Registry struct {
	mu        sync.RWMutex
	conns     map[string]models.Identity
	userConns map[string]int
}

func NewRegistry() *Registry {
	return &Registry{
		conns:     make(map[string]models.Identity),
		userConns: make(map[string]int),
	}
}

// Register stores identity keyed by connID, overwriting any previous entry
// for the handle. It always succeeds and returns true when this is the user's
// first live connection.
func (r *Registry) Register(connID string, identity models.Identity) (first bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	identity.IsOnline = true
	if prev, ok := r.conns[connID]; ok {
		// Repeated join on the same handle: last writer wins. Same user
		// re-declaring is not a fresh arrival.
		if prev.UserID == identity.UserID {
			r.conns[connID] = identity
			return false
		}
		r.decrementLocked(prev.UserID)
	}
	r.conns[connID] = identity
	r.userConns[identity.UserID]++
	return r.userConns[identity.UserID] == 1
}

// Unregister removes the entry for connID if present. It returns the removed
// identity (with LastSeen set), whether an entry existed, and whether it was
// the user's last live connection.
func (r *Registry) Unregister(connID string) (identity models.Identity, ok bool, last bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	identity, ok = r.conns[connID]
	if !ok {
		return models.Identity{}, false, false
	}
	delete(r.conns, connID)
	last = r.decrementLocked(identity.UserID)
	identity.IsOnline = false
	identity.LastSeen = time.Now()
	return identity, true, last
}

// Lookup returns the identity declared on connID.
func (r *Registry) Lookup(connID string) (models.Identity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	identity, ok := r.conns[connID]
	return identity, ok
}

// FindByUserID returns the connection handles of every live connection the
// user currently holds. An empty result means the user is offline.
func (r *Registry) FindByUserID(userID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var handles []string
	for connID, identity := range r.conns {
		if identity.UserID == userID {
			handles = append(handles, connID)
		}
	}
	return handles
}

// IsOnline reports whether the user holds at least one live connection.
func (r *Registry) IsOnline(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.userConns[userID] > 0
}

// decrementLocked drops the user's connection count and reports whether it
// reached zero. Caller holds r.mu.
func (r *Registry) decrementLocked(userID string) bool {
	n := r.userConns[userID] - 1
	if n <= 0 {
		delete(r.userConns, userID)
		return true
	}
	r.userConns[userID] = n
	return false
}
