package models

import (
	"encoding/json"
	"time"
)

// Wire-level event names. These are the contract with the dashboard clients;
// renaming one is a breaking protocol change.
const (
	// client -> server
	EventJoin               = "join"
	EventJoinConsultation   = "join_consultation"
	EventSendMessage        = "send_message"
	EventTypingStart        = "typing_start"
	EventTypingStop         = "typing_stop"
	EventVideoCallRequest   = "video_call_request"
	EventVideoCallAnswer    = "video_call_answer"
	EventVideoCallEnd       = "video_call_end"
	EventShareFile          = "share_file"
	EventConsultationStatus = "consultation_status"

	// server -> client
	EventConsultationHistory = "consultation_history"
	EventNewMessage          = "new_message"
	EventMessageSent         = "message_sent"
	EventUserTyping          = "user_typing"
	EventUserStatus          = "user_status"
	EventIncomingVideoCall   = "incoming_video_call"
	EventErrorMessage        = "error_message"
)

// Envelope is the tagged frame carried over the WebSocket in both directions.
// Data holds the event-specific payload, decoded into one of the payload
// structs below at the transport boundary.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// NewEnvelope marshals payload into an outbound envelope.
func NewEnvelope(event string, payload any) (Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Event: event, Data: data}, nil
}

// JoinPayload declares the connection's identity. Carried by "join".
type JoinPayload struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	IsOnline bool   `json:"isOnline"`
}

// SendMessagePayload is the inbound body of "send_message". The server
// assigns id and timestamp; anything the client supplies for those is ignored.
type SendMessagePayload struct {
	Content        string      `json:"content"`
	Sender         string      `json:"sender"`
	Type           MessageType `json:"type"`
	UserID         string      `json:"userId"`
	ConsultationID string      `json:"consultationId"`
}

// TypingPayload is the inbound body of "typing_start" and "typing_stop".
type TypingPayload struct {
	ConsultationID string `json:"consultationId"`
	UserID         string `json:"userId"`
	UserName       string `json:"userName,omitempty"`
}

// UserTypingPayload is the outbound body of "user_typing".
type UserTypingPayload struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName,omitempty"`
	IsTyping bool   `json:"isTyping"`
}

// UserStatusPayload is the outbound body of "user_status".
type UserStatusPayload struct {
	UserID   string    `json:"userId"`
	IsOnline bool      `json:"isOnline"`
	LastSeen time.Time `json:"lastSeen"`
}

// VideoCallRequestPayload is the inbound body of "video_call_request".
type VideoCallRequestPayload struct {
	ConsultationID string `json:"consultationId"`
	From           string `json:"from"`
	To             string `json:"to"`
}

// IncomingVideoCallPayload is the outbound body of "incoming_video_call".
// CallID is generated by the server; the media transport itself is handled by
// the external call provider, this service only relays the signaling.
type IncomingVideoCallPayload struct {
	ConsultationID string `json:"consultationId"`
	From           string `json:"from"`
	CallID         string `json:"callId"`
}

// VideoCallAnswerPayload is carried by "video_call_answer" in both directions.
type VideoCallAnswerPayload struct {
	CallID string `json:"callId"`
	Accept bool   `json:"accept"`
	To     string `json:"to"`
}

// VideoCallEndPayload is carried by "video_call_end" in both directions.
type VideoCallEndPayload struct {
	CallID string `json:"callId"`
	To     string `json:"to"`
}

// ShareFilePayload is the inbound body of "share_file". FileURL comes from
// the upload collaborator; the relay never sees the raw bytes.
type ShareFilePayload struct {
	ConsultationID string `json:"consultationId"`
	FileName       string `json:"fileName"`
	FileType       string `json:"fileType"`
	FileURL        string `json:"fileUrl"`
	Sender         string `json:"sender"`
}

// ConsultationStatusPayload is the inbound body of "consultation_status".
type ConsultationStatusPayload struct {
	ConsultationID string             `json:"consultationId"`
	Status         ConsultationStatus `json:"status"`
}

// ErrorPayload is the outbound body of "error_message".
type ErrorPayload struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
