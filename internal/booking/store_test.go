package booking_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shanky3008/dietint-platform-sub001/internal/booking"
)

func openTestStore(t *testing.T) *booking.Store {
	t.Helper()
	store, err := booking.Open(filepath.Join(t.TempDir(), "bookings.db"))
	require.NoError(t, err)
	return store
}

func TestStore_CreateAndGet(t *testing.T) {
	store := openTestStore(t)

	b := &booking.Booking{
		ID:          "c1",
		ClientID:    "client-1",
		CoachID:     "coach-1",
		ScheduledAt: time.Now().Add(24 * time.Hour),
	}
	require.NoError(t, store.Create(b))

	got, err := store.Get("c1")
	require.NoError(t, err)
	assert.Equal(t, "client-1", got.ClientID)
	assert.Equal(t, "coach-1", got.CoachID)
}

func TestStore_CreateGeneratesID(t *testing.T) {
	store := openTestStore(t)

	b := &booking.Booking{ClientID: "client-1", CoachID: "coach-1"}
	require.NoError(t, store.Create(b))
	assert.NotEmpty(t, b.ID)
}

func TestStore_GetMissing(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Get("nope")
	assert.ErrorIs(t, err, booking.ErrNotFound)
}

func TestStore_List(t *testing.T) {
	store := openTestStore(t)

	early := &booking.Booking{ID: "c1", ClientID: "a", CoachID: "x", ScheduledAt: time.Now()}
	late := &booking.Booking{ID: "c2", ClientID: "b", CoachID: "x", ScheduledAt: time.Now().Add(time.Hour)}
	require.NoError(t, store.Create(early))
	require.NoError(t, store.Create(late))

	got, err := store.List()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c2", got[0].ID, "most recently scheduled first")
}

func TestStore_Participants(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.Create(&booking.Booking{ID: "c1", ClientID: "client-1", CoachID: "coach-1"}))

	clientID, coachID, ok := store.Participants("c1")
	assert.True(t, ok)
	assert.Equal(t, "client-1", clientID)
	assert.Equal(t, "coach-1", coachID)

	_, _, ok = store.Participants("unbooked")
	assert.False(t, ok)
}
