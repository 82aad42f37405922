// Package booking is the booking collaborator's directory: which client and
// coach a consultation id was booked for, and when. It is the only part of
// the service backed by the platform's SQLite database; conversation state
// never touches it.
package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Booking is one booked consultation slot.
type Booking struct {
	ID          string    `gorm:"primaryKey" json:"consultationId"`
	ClientID    string    `gorm:"index;not null" json:"clientId"`
	CoachID     string    `gorm:"index;not null" json:"coachId"`
	ScheduledAt time.Time `json:"scheduledAt"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

var ErrNotFound = errors.New("booking not found")

type Store struct {
	db *gorm.DB
}

// Open connects to the SQLite database at path and runs migrations.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Booking{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// NewStore wraps an already-open database handle. Used by tests.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Create stores a booking. An empty id gets a generated one.
func (s *Store) Create(b *Booking) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	if err := s.db.Create(b).Error; err != nil {
		log.Error().Err(err).Str("consultationId", b.ID).Msg("create booking")
		return err
	}
	return nil
}

// Get returns the booking for a consultation id.
func (s *Store) Get(consultationID string) (*Booking, error) {
	var b Booking
	err := s.db.First(&b, "id = ?", consultationID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// List returns all bookings, most recently scheduled first.
func (s *Store) List() ([]Booking, error) {
	var bookings []Booking
	if err := s.db.Order("scheduled_at desc").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// Participants implements the relay's BookingDirectory: the booked pair for a
// consultation id, or ok=false when nothing is booked under it.
func (s *Store) Participants(consultationID string) (clientID, coachID string, ok bool) {
	b, err := s.Get(consultationID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Error().Err(err).Str("consultationId", consultationID).Msg("booking lookup")
		}
		return "", "", false
	}
	return b.ClientID, b.CoachID, true
}
