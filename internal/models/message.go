package models

import "time"

// MessageType tags the content of a relayed message.
type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeImage MessageType = "image"
	MessageTypeFile  MessageType = "file"
)

// Message is one relayed content unit. The id and timestamp are assigned by
// the server exactly once; a Message is immutable after that and lives only
// inside its consultation's log.
type Message struct {
	ID             string      `json:"id"`
	ConsultationID string      `json:"consultationId"`
	UserID         string      `json:"userId"`
	Sender         string      `json:"sender"`
	Content        string      `json:"content"`
	Type           MessageType `json:"type"`
	Timestamp      time.Time   `json:"timestamp"`
}
