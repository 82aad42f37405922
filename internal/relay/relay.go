package relay

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Shanky3008/dietint-platform-sub001/internal/models"
)

// eventMalformed marks a frame the transport could not decode at all. It is
// internal; the wire never carries it.
const eventMalformed = "_malformed"

// dispatch routes one inbound frame. Malformed payloads and unknown event
// names surface to the offending connection as error_message; nothing a
// single connection sends can take the process down.
func (h *Hub) dispatch(in Inbound) {
	switch in.Envelope.Event {
	case models.EventJoin:
		h.handleJoin(in)
	case models.EventJoinConsultation:
		h.handleJoinConsultation(in)
	case models.EventSendMessage:
		h.handleSendMessage(in)
	case models.EventShareFile:
		h.handleShareFile(in)
	case models.EventTypingStart:
		h.handleTyping(in, true)
	case models.EventTypingStop:
		h.handleTyping(in, false)
	case models.EventVideoCallRequest:
		h.handleCallRequest(in)
	case models.EventVideoCallAnswer:
		h.handleCallAnswer(in)
	case models.EventVideoCallEnd:
		h.handleCallEnd(in)
	case models.EventConsultationStatus:
		h.handleConsultationStatus(in)
	case eventMalformed:
		h.sendError(in.ConnID, "malformed frame")
	default:
		h.sendError(in.ConnID, fmt.Sprintf("unknown event %q", in.Envelope.Event))
	}
}

func (h *Hub) handleJoin(in Inbound) {
	var p models.JoinPayload
	if err := json.Unmarshal(in.Envelope.Data, &p); err != nil || p.ID == "" {
		h.sendError(in.ConnID, "malformed join payload")
		return
	}
	if p.Role == "" {
		p.Role = models.RoleClient
	}
	if !p.Role.Valid() {
		h.sendError(in.ConnID, fmt.Sprintf("unknown role %q", p.Role))
		return
	}

	if client, ok := h.clients[in.ConnID]; ok {
		if ic, ok := client.(identityConstrained); ok && ic.ExpectedUserID() != "" && ic.ExpectedUserID() != p.ID {
			h.sendError(in.ConnID, "join user id does not match the authenticated user")
			return
		}
	}

	identity := models.Identity{UserID: p.ID, Name: p.Name, Role: p.Role, IsOnline: true}
	first := h.registry.Register(in.ConnID, identity)
	if first {
		h.presence.Announce(identity, true)
	}
	log.Info().
		Str("connId", in.ConnID).
		Str("userId", p.ID).
		Str("role", string(p.Role)).
		Msg("identity joined")
}

func (h *Hub) handleJoinConsultation(in Inbound) {
	identity, ok := h.requireIdentity(in)
	if !ok {
		return
	}
	var consultationID string
	if err := json.Unmarshal(in.Envelope.Data, &consultationID); err != nil || consultationID == "" {
		h.sendError(in.ConnID, "malformed join_consultation payload")
		return
	}

	clientID, coachID := h.participantsFor(consultationID)
	h.store.GetOrCreate(consultationID, clientID, coachID)
	h.rooms.Join(consultationID, in.ConnID)

	// Replay happens on every explicit join, to this connection only, and
	// precedes any new_message the single event loop dispatches afterwards.
	env, err := models.NewEnvelope(models.EventConsultationHistory, h.store.History(consultationID))
	if err != nil {
		log.Error().Err(err).Str("consultationId", consultationID).Msg("encode consultation_history")
		return
	}
	h.Deliver(in.ConnID, env)
	log.Debug().
		Str("connId", in.ConnID).
		Str("userId", identity.UserID).
		Str("consultationId", consultationID).
		Msg("joined consultation room")
}

func (h *Hub) handleSendMessage(in Inbound) {
	identity, ok := h.requireIdentity(in)
	if !ok {
		return
	}
	var p models.SendMessagePayload
	if err := json.Unmarshal(in.Envelope.Data, &p); err != nil || p.ConsultationID == "" {
		h.sendError(in.ConnID, "malformed send_message payload")
		return
	}
	if !h.limiter.Allow(identity.UserID) {
		h.sendError(in.ConnID, "message rate limit exceeded")
		return
	}

	msgType := p.Type
	switch msgType {
	case models.MessageTypeText, models.MessageTypeImage, models.MessageTypeFile:
	default:
		msgType = models.MessageTypeText
	}
	h.relayMessage(in.ConnID, identity, p.ConsultationID, p.Content, msgType)
}

func (h *Hub) handleShareFile(in Inbound) {
	identity, ok := h.requireIdentity(in)
	if !ok {
		return
	}
	var p models.ShareFilePayload
	if err := json.Unmarshal(in.Envelope.Data, &p); err != nil || p.ConsultationID == "" || p.FileURL == "" {
		h.sendError(in.ConnID, "malformed share_file payload")
		return
	}
	if !h.limiter.Allow(identity.UserID) {
		h.sendError(in.ConnID, "message rate limit exceeded")
		return
	}

	msgType := models.MessageTypeFile
	if strings.HasPrefix(p.FileType, "image/") {
		msgType = models.MessageTypeImage
	}
	h.relayMessage(in.ConnID, identity, p.ConsultationID, p.FileURL, msgType)
}

// relayMessage is the central send path: assign server id and timestamp,
// append to the consultation's log (creating the consultation when needed),
// fan new_message to every room member except the sender, and ack the sender
// with message_sent carrying the same finalized message. An empty member set
// is not an error; the message waits in the log for later replay.
func (h *Hub) relayMessage(senderConnID string, identity models.Identity, consultationID, content string, msgType models.MessageType) {
	now := time.Now()
	msg := models.Message{
		ID:             fmt.Sprintf("%d_%s", now.UnixMilli(), uuid.NewString()[:8]),
		ConsultationID: consultationID,
		UserID:         identity.UserID,
		Sender:         identity.Name,
		Content:        content,
		Type:           msgType,
		Timestamp:      now,
	}

	clientID, coachID := h.participantsFor(consultationID)
	h.store.GetOrCreate(consultationID, clientID, coachID)
	if err := h.store.AppendMessage(consultationID, msg); err != nil {
		log.Error().Err(err).Str("consultationId", consultationID).Msg("append message")
		return
	}

	newEnv, err := models.NewEnvelope(models.EventNewMessage, msg)
	if err != nil {
		log.Error().Err(err).Msg("encode new_message")
		return
	}
	for _, connID := range h.rooms.MembersOf(consultationID) {
		if connID == senderConnID {
			continue
		}
		h.Deliver(connID, newEnv)
	}

	ackEnv, err := models.NewEnvelope(models.EventMessageSent, msg)
	if err != nil {
		log.Error().Err(err).Msg("encode message_sent")
		return
	}
	h.Deliver(senderConnID, ackEnv)
}

func (h *Hub) handleTyping(in Inbound, isTyping bool) {
	if _, ok := h.requireIdentity(in); !ok {
		return
	}
	var p models.TypingPayload
	if err := json.Unmarshal(in.Envelope.Data, &p); err != nil || p.ConsultationID == "" {
		h.sendError(in.ConnID, "malformed typing payload")
		return
	}
	h.signals.Typing(in.ConnID, p, isTyping)
}

func (h *Hub) handleCallRequest(in Inbound) {
	if _, ok := h.requireIdentity(in); !ok {
		return
	}
	var p models.VideoCallRequestPayload
	if err := json.Unmarshal(in.Envelope.Data, &p); err != nil || p.To == "" {
		h.sendError(in.ConnID, "malformed video_call_request payload")
		return
	}
	callID := h.signals.CallRequest(p)
	log.Debug().
		Str("consultationId", p.ConsultationID).
		Str("from", p.From).
		Str("to", p.To).
		Str("callId", callID).
		Msg("call requested")
}

func (h *Hub) handleCallAnswer(in Inbound) {
	if _, ok := h.requireIdentity(in); !ok {
		return
	}
	var p models.VideoCallAnswerPayload
	if err := json.Unmarshal(in.Envelope.Data, &p); err != nil || p.To == "" {
		h.sendError(in.ConnID, "malformed video_call_answer payload")
		return
	}
	h.signals.CallAnswer(p)
}

func (h *Hub) handleCallEnd(in Inbound) {
	if _, ok := h.requireIdentity(in); !ok {
		return
	}
	var p models.VideoCallEndPayload
	if err := json.Unmarshal(in.Envelope.Data, &p); err != nil || p.To == "" {
		h.sendError(in.ConnID, "malformed video_call_end payload")
		return
	}
	h.signals.CallEnd(p)
}

func (h *Hub) handleConsultationStatus(in Inbound) {
	if _, ok := h.requireIdentity(in); !ok {
		return
	}
	var p models.ConsultationStatusPayload
	if err := json.Unmarshal(in.Envelope.Data, &p); err != nil || p.ConsultationID == "" {
		h.sendError(in.ConnID, "malformed consultation_status payload")
		return
	}
	if !p.Status.Valid() {
		h.sendError(in.ConnID, fmt.Sprintf("unknown status %q", p.Status))
		return
	}
	if err := h.store.UpdateStatus(p.ConsultationID, p.Status); err != nil {
		switch {
		case errors.Is(err, ErrUnknownConsultation):
			h.sendError(in.ConnID, "unknown consultation "+p.ConsultationID)
		case errors.Is(err, ErrInvalidTransition):
			h.sendError(in.ConnID, fmt.Sprintf("cannot move consultation %s to status %q", p.ConsultationID, p.Status))
		default:
			h.sendError(in.ConnID, "status update failed")
		}
	}
}

// requireIdentity enforces protocol ordering: every event other than join
// needs a declared identity on the connection.
func (h *Hub) requireIdentity(in Inbound) (models.Identity, bool) {
	identity, ok := h.registry.Lookup(in.ConnID)
	if !ok {
		h.sendError(in.ConnID, fmt.Sprintf("%s requires a prior join", in.Envelope.Event))
		return models.Identity{}, false
	}
	return identity, true
}

// participantsFor asks the booking directory for the consultation's booked
// pair. Unknown bookings leave the participants empty, to be reconciled by
// the collaborator that owns them.
func (h *Hub) participantsFor(consultationID string) (clientID, coachID string) {
	if h.bookings == nil {
		return "", ""
	}
	clientID, coachID, ok := h.bookings.Participants(consultationID)
	if !ok {
		return "", ""
	}
	return clientID, coachID
}

func (h *Hub) sendError(connID, message string) {
	env, err := models.NewEnvelope(models.EventErrorMessage, models.ErrorPayload{
		Message:   message,
		Timestamp: time.Now(),
	})
	if err != nil {
		log.Error().Err(err).Msg("encode error_message")
		return
	}
	h.Deliver(connID, env)
}
