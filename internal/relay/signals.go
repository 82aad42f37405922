package relay

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Shanky3008/dietint-platform-sub001/internal/models"
)

// SignalRouter routes low-durability, high-frequency signals that must not
// enter the message log: typing indicators and call signaling. It is kept
// separate from the message relay so the call-signaling transport can be
// swapped without touching the send path; it shares only the connection
// registry and room membership.
//
// Every operation is fire-and-forget: an offline target simply means the
// signal is dropped. There is no server-side typing expiry; the client is
// responsible for clearing a stale indicator.
type SignalRouter struct {
	registry *Registry
	rooms    *Rooms
	peers    Deliverer
}

func NewSignalRouter(registry *Registry, rooms *Rooms, peers Deliverer) *SignalRouter {
	return &SignalRouter{registry: registry, rooms: rooms, peers: peers}
}

// Typing broadcasts a user_typing frame to the consultation's members except
// the sending connection.
func (sr *SignalRouter) Typing(senderConnID string, p models.TypingPayload, isTyping bool) {
	env, err := models.NewEnvelope(models.EventUserTyping, models.UserTypingPayload{
		UserID:   p.UserID,
		UserName: p.UserName,
		IsTyping: isTyping,
	})
	if err != nil {
		log.Error().Err(err).Msg("encode user_typing")
		return
	}
	for _, connID := range sr.rooms.MembersOf(p.ConsultationID) {
		if connID == senderConnID {
			continue
		}
		sr.peers.Deliver(connID, env)
	}
}

// CallRequest generates a call id and delivers incoming_video_call to every
// live connection of the target user. The returned call id is opaque to this
// service; the media session itself belongs to the external call provider.
func (sr *SignalRouter) CallRequest(p models.VideoCallRequestPayload) string {
	callID := uuid.New().String()
	env, err := models.NewEnvelope(models.EventIncomingVideoCall, models.IncomingVideoCallPayload{
		ConsultationID: p.ConsultationID,
		From:           p.From,
		CallID:         callID,
	})
	if err != nil {
		log.Error().Err(err).Msg("encode incoming_video_call")
		return callID
	}
	sr.deliverToUser(p.To, env)
	return callID
}

// CallAnswer forwards a video_call_answer to the named recipient. The call id
// is not verified against any session state; this is a pure pass-through.
func (sr *SignalRouter) CallAnswer(p models.VideoCallAnswerPayload) {
	env, err := models.NewEnvelope(models.EventVideoCallAnswer, p)
	if err != nil {
		log.Error().Err(err).Msg("encode video_call_answer")
		return
	}
	sr.deliverToUser(p.To, env)
}

// CallEnd forwards a video_call_end to the named recipient.
func (sr *SignalRouter) CallEnd(p models.VideoCallEndPayload) {
	env, err := models.NewEnvelope(models.EventVideoCallEnd, p)
	if err != nil {
		log.Error().Err(err).Msg("encode video_call_end")
		return
	}
	sr.deliverToUser(p.To, env)
}

func (sr *SignalRouter) deliverToUser(userID string, env models.Envelope) {
	for _, connID := range sr.registry.FindByUserID(userID) {
		sr.peers.Deliver(connID, env)
	}
}
