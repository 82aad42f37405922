package relay_test

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Shanky3008/dietint-platform-sub001/internal/models"
	"github.com/Shanky3008/dietint-platform-sub001/internal/relay"
)

// mockClient implements relay.Client for hub tests. Frames the hub delivers
// land in Recv; Close is recorded but leaves the channel open so tests can
// still drain it.
type mockClient struct {
	connID string
	Recv   chan models.Envelope

	mu     sync.Mutex
	closed bool
}

func newMockClient(connID string) *mockClient {
	return &mockClient{
		connID: connID,
		Recv:   make(chan models.Envelope, 64),
	}
}

func (m *mockClient) GetConnID() string                      { return m.connID }
func (m *mockClient) GetSendChannel() chan<- models.Envelope { return m.Recv }
func (m *mockClient) Run()                                   {}

func (m *mockClient) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}

func (m *mockClient) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// envOf builds an inbound envelope with a marshalled payload.
func envOf(t *testing.T, event string, payload any) models.Envelope {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return models.Envelope{Event: event, Data: data}
}

// recvEvent waits for the next frame delivered to the client and requires it
// to carry the expected event name.
func recvEvent(t *testing.T, c *mockClient, event string) models.Envelope {
	t.Helper()
	select {
	case env := <-c.Recv:
		require.Equal(t, event, env.Event, "unexpected event, data: %s", env.Data)
		return env
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %q on %s", event, c.connID)
		return models.Envelope{}
	}
}

// expectSilence asserts no frame reaches the client within the grace period.
func expectSilence(t *testing.T, c *mockClient) {
	t.Helper()
	select {
	case env := <-c.Recv:
		t.Fatalf("unexpected %q frame on %s: %s", env.Event, c.connID, env.Data)
	case <-time.After(150 * time.Millisecond):
	}
}

func decodePayload[T any](t *testing.T, env models.Envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

// startHub runs a hub in the background for the duration of the test.
func startHub(t *testing.T, cfg relay.HubConfig) *relay.Hub {
	t.Helper()
	hub := relay.NewHub(cfg)
	go hub.Run()
	t.Cleanup(hub.Stop)
	return hub
}

// attachAndJoin registers a connection and declares its identity.
func attachAndJoin(t *testing.T, hub *relay.Hub, c *mockClient, userID, name string, role models.Role) {
	t.Helper()
	hub.RegisterCh <- c
	hub.InboundCh <- relay.Inbound{ConnID: c.connID, Envelope: envOf(t, models.EventJoin, models.JoinPayload{
		ID:       userID,
		Name:     name,
		Role:     role,
		IsOnline: true,
	})}
}

// joinConsultation subscribes the connection to a room and consumes the
// history replay, returning it.
func joinConsultation(t *testing.T, hub *relay.Hub, c *mockClient, consultationID string) []models.Message {
	t.Helper()
	hub.InboundCh <- relay.Inbound{ConnID: c.connID, Envelope: envOf(t, models.EventJoinConsultation, consultationID)}
	env := recvEvent(t, c, models.EventConsultationHistory)
	return decodePayload[[]models.Message](t, env)
}
