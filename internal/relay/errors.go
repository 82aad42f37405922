package relay

import "errors"

var (
	// ErrUnknownConsultation is returned when an operation references a
	// consultation id the store has never seen.
	ErrUnknownConsultation = errors.New("unknown consultation")

	// ErrInvalidTransition is returned by the store when a status update does
	// not follow scheduled -> active -> ended.
	ErrInvalidTransition = errors.New("invalid status transition")
)
