package relay

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Shanky3008/dietint-platform-sub001/internal/models"
)

// DefaultLogCap bounds a consultation's in-memory message log. There is no
// persistence layer to offload to, so on overflow the oldest entries are
// evicted.
const DefaultLogCap = 500

type consultationState struct {
	info models.Consultation
	log  []models.Message
}

// Store owns the authoritative message log and lifecycle status per
// consultation. All state is process memory; nothing survives a restart.
type Store struct {
	mu            sync.RWMutex
	consultations map[string]*consultationState
	logCap        int
}

// NewStore creates a store whose per-consultation logs are capped at logCap
// entries (DefaultLogCap when logCap <= 0).
func NewStore(logCap int) *Store {
	if logCap <= 0 {
		logCap = DefaultLogCap
	}
	return &Store{
		consultations: make(map[string]*consultationState),
		logCap:        logCap,
	}
}

// GetOrCreate returns the consultation's metadata, creating it with status
// active, an empty log, and the supplied participant ids when absent. The
// participant ids are used only on first creation; later calls never
// overwrite them.
func (s *Store) GetOrCreate(consultationID, clientID, coachID string) models.Consultation {
	s.mu.Lock()
	defer s.mu.Unlock()

	if state, ok := s.consultations[consultationID]; ok {
		return state.info
	}
	state := &consultationState{
		info: models.Consultation{
			ID:        consultationID,
			ClientID:  clientID,
			CoachID:   coachID,
			Status:    models.StatusActive,
			StartedAt: time.Now(),
		},
	}
	s.consultations[consultationID] = state
	return state.info
}

// Get returns the consultation's metadata.
func (s *Store) Get(consultationID string) (models.Consultation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.consultations[consultationID]
	if !ok {
		return models.Consultation{}, false
	}
	return state.info, true
}

// AppendMessage appends msg to the consultation's log. The log is append-only
// for the consultation's lifetime; entries are never mutated or reordered. An
// unknown consultation id is logged and dropped rather than treated as a hard
// failure, since the relay creates the consultation before appending.
func (s *Store) AppendMessage(consultationID string, msg models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.consultations[consultationID]
	if !ok {
		log.Warn().
			Str("consultationId", consultationID).
			Str("messageId", msg.ID).
			Msg("append to unknown consultation dropped")
		return ErrUnknownConsultation
	}
	state.log = append(state.log, msg)
	if len(state.log) > s.logCap {
		state.log = state.log[len(state.log)-s.logCap:]
	}
	return nil
}

// UpdateStatus moves the consultation along scheduled -> active -> ended.
// Setting the current status again is a no-op; any other transition is
// rejected with ErrInvalidTransition. The ended timestamp is recorded when
// the consultation ends.
func (s *Store) UpdateStatus(consultationID string, status models.ConsultationStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.consultations[consultationID]
	if !ok {
		return ErrUnknownConsultation
	}
	current := state.info.Status
	if status == current {
		return nil
	}
	allowed := (current == models.StatusScheduled && status == models.StatusActive) ||
		(current == models.StatusActive && status == models.StatusEnded)
	if !allowed {
		return ErrInvalidTransition
	}
	state.info.Status = status
	if status == models.StatusEnded {
		now := time.Now()
		state.info.EndedAt = &now
	}
	return nil
}

// History returns a copy of the consultation's message log in append order.
// Unknown consultations yield an empty history.
func (s *Store) History(consultationID string) []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.consultations[consultationID]
	if !ok || len(state.log) == 0 {
		return []models.Message{}
	}
	out := make([]models.Message, len(state.log))
	copy(out, state.log)
	return out
}
