package models

import "time"

// ConsultationStatus is the lifecycle state of a consultation thread.
type ConsultationStatus string

const (
	StatusScheduled ConsultationStatus = "scheduled"
	StatusActive    ConsultationStatus = "active"
	StatusEnded     ConsultationStatus = "ended"
)

// Valid reports whether the status is one of the known states.
func (s ConsultationStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusActive, StatusEnded:
		return true
	}
	return false
}

// Consultation is one coach-client engagement thread. The message log itself
// is owned by the relay's consultation store; this struct carries the
// metadata that travels over the API.
type Consultation struct {
	ID        string             `json:"consultationId"`
	ClientID  string             `json:"clientId"`
	CoachID   string             `json:"coachId"`
	Status    ConsultationStatus `json:"status"`
	StartedAt time.Time          `json:"startedAt"`
	EndedAt   *time.Time         `json:"endedAt,omitempty"`
}
