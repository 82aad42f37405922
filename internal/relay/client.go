package relay

import "github.com/Shanky3008/dietint-platform-sub001/internal/models"

// Client is the interface for one live connection to the relay. It abstracts
// the underlying transport so the hub can manage WebSocket connections and
// test doubles uniformly.
type Client interface {
	// GetConnID returns the opaque per-connection handle assigned at
	// transport-level connect. It is the key for registry and room membership
	// entries; identity (the user id) is declared later via the join event.
	GetConnID() string

	// GetSendChannel returns the channel the hub writes outbound frames to.
	// It is a send-only channel; the transport drains it.
	GetSendChannel() chan<- models.Envelope

	// Run starts the client's read and write pumps.
	Run()

	// Close shuts down the client's outbound channel, which terminates the
	// write pump and closes the underlying connection.
	Close()
}

// identityConstrained is implemented by clients whose transport was
// authenticated for a specific user; the join event on such a connection must
// declare that user.
type identityConstrained interface {
	ExpectedUserID() string
}

// Inbound pairs a decoded frame with the connection it arrived on.
type Inbound struct {
	ConnID   string
	Envelope models.Envelope
}
