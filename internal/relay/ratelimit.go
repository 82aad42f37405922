package relay

import (
	"sync"
	"time"
)

// RateLimiter caps send_message frames per user over a fixed window. It keeps
// the per-process message logs from being flooded by a single connection;
// rejected frames are dropped with an error_message, the connection stays
// open.
type RateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	clients map[string]*clientWindow
}

type clientWindow struct {
	count       int
	windowStart time.Time
}

// NewRateLimiter allows limit frames per window per user id. A limit <= 0
// disables limiting.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		limit:   limit,
		window:  window,
		clients: make(map[string]*clientWindow),
	}
}

// Allow reports whether the user may send another frame right now.
func (rl *RateLimiter) Allow(userID string) bool {
	if rl.limit <= 0 {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	cw, ok := rl.clients[userID]
	if !ok || now.Sub(cw.windowStart) >= rl.window {
		rl.clients[userID] = &clientWindow{count: 1, windowStart: now}
		return true
	}
	if cw.count >= rl.limit {
		return false
	}
	cw.count++
	return true
}

// Cleanup drops windows idle for several multiples of the window so the map
// does not grow with every user id ever seen.
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for userID, cw := range rl.clients {
		if now.Sub(cw.windowStart) > 5*rl.window {
			delete(rl.clients, userID)
		}
	}
}
