package relay

import (
	"github.com/rs/zerolog/log"

	"github.com/Shanky3008/dietint-platform-sub001/internal/models"
)

// Deliverer is the slice of the hub that presence and signal routing need:
// best-effort delivery of a frame to one live connection, and enumeration of
// all live connections. Implemented by the Hub; faked in tests.
type Deliverer interface {
	Deliver(connID string, env models.Envelope)
	Connections() []string
}

// Presence announces identity online/offline transitions to every live
// connection except the subject's own. Fire-and-forget: no acknowledgement,
// no retry, no delivery guarantee to connections that drop mid-broadcast.
type Presence struct {
	registry *Registry
	peers    Deliverer
}

func NewPresence(registry *Registry, peers Deliverer) *Presence {
	return &Presence{registry: registry, peers: peers}
}

// Announce fans out a user_status frame for the subject. The caller is
// responsible for the reference counting: this fires once when a user's first
// connection joins and once when their last connection drops.
func (p *Presence) Announce(subject models.Identity, isOnline bool) {
	env, err := models.NewEnvelope(models.EventUserStatus, models.UserStatusPayload{
		UserID:   subject.UserID,
		IsOnline: isOnline,
		LastSeen: subject.LastSeen,
	})
	if err != nil {
		log.Error().Err(err).Str("userId", subject.UserID).Msg("encode user_status")
		return
	}

	for _, connID := range p.peers.Connections() {
		identity, ok := p.registry.Lookup(connID)
		if ok && identity.UserID == subject.UserID {
			continue
		}
		p.peers.Deliver(connID, env)
	}
}
