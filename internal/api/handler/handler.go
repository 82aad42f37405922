package handler

import (
	"github.com/Shanky3008/dietint-platform-sub001/internal/booking"
	"github.com/Shanky3008/dietint-platform-sub001/internal/relay"
)

// Handler wires the HTTP surface to the relay hub and the booking directory.
type Handler struct {
	Hub       *relay.Hub
	Bookings  *booking.Store
	jwtSecret []byte
}

func NewHandler(hub *relay.Hub, bookings *booking.Store, jwtSecret string) *Handler {
	return &Handler{
		Hub:       hub,
		Bookings:  bookings,
		jwtSecret: []byte(jwtSecret),
	}
}
