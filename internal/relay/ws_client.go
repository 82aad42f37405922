package relay

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/Shanky3008/dietint-platform-sub001/internal/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// WebSocketClient implements Client over a gorilla/websocket connection.
// UserID is the authenticated user id from the transport token; the join
// event must declare the same user.
type WebSocketClient struct {
	ConnID string
	UserID string
	Conn   *websocket.Conn
	Hub    *Hub
	Send   chan models.Envelope
}

func NewWebSocketClient(connID, userID string, conn *websocket.Conn, hub *Hub) *WebSocketClient {
	return &WebSocketClient{
		ConnID: connID,
		UserID: userID,
		Conn:   conn,
		Hub:    hub,
		Send:   make(chan models.Envelope, 256),
	}
}

func (c *WebSocketClient) GetConnID() string                      { return c.ConnID }
func (c *WebSocketClient) GetSendChannel() chan<- models.Envelope { return c.Send }
func (c *WebSocketClient) ExpectedUserID() string                 { return c.UserID }

// Run starts the read and write pumps.
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close closes the send channel, which terminates the write pump.
func (c *WebSocketClient) Close() {
	close(c.Send)
}

// readPump reads frames off the socket, decodes the envelope, and hands it to
// the hub. A frame that is not valid JSON is reported back on the error path
// and skipped; the connection stays usable. Any read error ends the pump and
// triggers the hub's disconnect cleanup.
func (c *WebSocketClient) readPump() {
	defer func() {
		c.Hub.UnregisterCh <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("connId", c.ConnID).Msg("websocket read")
			}
			break
		}

		var env models.Envelope
		if err := json.Unmarshal(raw, &env); err != nil || env.Event == "" {
			log.Debug().Str("connId", c.ConnID).Msg("undecodable frame")
			c.Hub.InboundCh <- Inbound{ConnID: c.ConnID, Envelope: models.Envelope{Event: eventMalformed}}
			continue
		}
		c.Hub.InboundCh <- Inbound{ConnID: c.ConnID, Envelope: env}
	}
}

// writePump drains the send channel onto the socket and keeps the connection
// alive with pings. Queued frames are batched into one writer when the
// channel has backlog.
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case env, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(env)
			if err != nil {
				log.Error().Err(err).Str("connId", c.ConnID).Msg("encode outbound frame")
				continue
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(data)

			n := len(c.Send)
			for i := 0; i < n; i++ {
				next := <-c.Send
				extra, err := json.Marshal(next)
				if err != nil {
					continue
				}
				w.Write([]byte{'\n'})
				w.Write(extra)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
