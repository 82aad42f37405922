package relay

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Shanky3008/dietint-platform-sub001/internal/models"
)

// BookingDirectory is the booking collaborator as seen by the relay: given a
// consultation id it may know the booked participant pair. Implemented by the
// SQLite booking store; nil is a valid directory (participants stay unknown
// until reconciled externally).
type BookingDirectory interface {
	Participants(consultationID string) (clientID, coachID string, ok bool)
}

// HubConfig carries the tunables for a Hub. Zero values select defaults.
type HubConfig struct {
	Bookings      BookingDirectory
	LogCap        int
	SendRateLimit int           // frames per window per user, <= 0 disables
	RateWindow    time.Duration // defaults to one minute
}

// Hub is the consultation relay service. A single Run goroutine owns the
// clients map and processes every transport event (connect, disconnect,
// inbound frame) to completion, so handlers never race each other; the
// injected registry, rooms, and store carry their own locks because HTTP
// handlers read them from other goroutines.
type Hub struct {
	RegisterCh   chan Client
	UnregisterCh chan Client
	InboundCh    chan Inbound

	clients  map[string]Client
	registry *Registry
	rooms    *Rooms
	store    *Store
	presence *Presence
	signals  *SignalRouter
	limiter  *RateLimiter
	bookings BookingDirectory

	quit chan struct{}
}

func NewHub(cfg HubConfig) *Hub {
	h := &Hub{
		RegisterCh:   make(chan Client, 64),
		UnregisterCh: make(chan Client, 64),
		InboundCh:    make(chan Inbound, 512),
		clients:      make(map[string]Client),
		registry:     NewRegistry(),
		rooms:        NewRooms(),
		store:        NewStore(cfg.LogCap),
		limiter:      NewRateLimiter(cfg.SendRateLimit, cfg.RateWindow),
		bookings:     cfg.Bookings,
		quit:         make(chan struct{}),
	}
	h.presence = NewPresence(h.registry, h)
	h.signals = NewSignalRouter(h.registry, h.rooms, h)
	return h
}

// Registry exposes the connection registry for read-side callers.
func (h *Hub) Registry() *Registry { return h.registry }

// Rooms exposes the room membership index for read-side callers.
func (h *Hub) Rooms() *Rooms { return h.rooms }

// Store exposes the consultation store for read-side callers.
func (h *Hub) Store() *Store { return h.store }

// Run is the hub's event loop. It owns all connection lifecycle and frame
// dispatch; start it exactly once, in its own goroutine.
func (h *Hub) Run() {
	log.Info().Msg("consultation relay hub started")

	cleanup := time.NewTicker(5 * time.Minute)
	defer cleanup.Stop()

	for {
		select {
		case client := <-h.RegisterCh:
			h.clients[client.GetConnID()] = client
			log.Debug().Str("connId", client.GetConnID()).Msg("connection attached")

		case client := <-h.UnregisterCh:
			h.disconnect(client)

		case in := <-h.InboundCh:
			h.dispatch(in)

		case <-cleanup.C:
			h.limiter.Cleanup()

		case <-h.quit:
			log.Info().Msg("consultation relay hub stopped")
			return
		}
	}
}

// Stop terminates the Run loop. Live connections are left to their transports.
func (h *Hub) Stop() {
	close(h.quit)
}

// disconnect performs the full cleanup sequence for one connection as a
// single handler invocation: detach the transport, drop every room
// membership, remove the registry entry, and announce offline if this was the
// user's last connection. Repeated disconnects for the same handle are no-ops.
func (h *Hub) disconnect(client Client) {
	connID := client.GetConnID()
	if _, ok := h.clients[connID]; !ok {
		return
	}
	delete(h.clients, connID)
	h.rooms.LeaveAll(connID)
	identity, registered, lastConn := h.registry.Unregister(connID)
	client.Close()

	if registered && lastConn {
		h.presence.Announce(identity, false)
	}
	log.Debug().
		Str("connId", connID).
		Str("userId", identity.UserID).
		Bool("offlineAnnounced", registered && lastConn).
		Msg("connection detached")
}

// Deliver queues a frame to one live connection, best effort. A connection
// whose send buffer is full simply misses the frame; the relay promises
// at-most-once delivery, never retries.
func (h *Hub) Deliver(connID string, env models.Envelope) {
	client, ok := h.clients[connID]
	if !ok {
		return
	}
	select {
	case client.GetSendChannel() <- env:
	default:
		log.Warn().
			Str("connId", connID).
			Str("event", env.Event).
			Msg("send buffer full, frame dropped")
	}
}

// Connections returns the handles of every attached connection.
func (h *Hub) Connections() []string {
	out := make([]string, 0, len(h.clients))
	for connID := range h.clients {
		out = append(out, connID)
	}
	return out
}
