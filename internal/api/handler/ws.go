package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/Shanky3008/dietint-platform-sub001/internal/relay"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Dashboard and relay are served from different origins in development.
	// TODO: restrict to the dashboard origin once the deployment domain is fixed.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket authenticates the request, upgrades it, and attaches a new
// relay client. The token authenticates the transport; the identity the
// relay acts on is still declared by the join event, which must name the
// same user the token was issued to.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	tokenString := bearerToken(c)
	if tokenString == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization token missing"})
		return
	}
	claims, err := h.parseToken(tokenString)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written its own response.
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	connID := uuid.New().String()
	client := relay.NewWebSocketClient(connID, claims.UserID, conn, h.Hub)

	h.Hub.RegisterCh <- client
	client.Run()

	log.Debug().
		Str("connId", connID).
		Str("userId", claims.UserID).
		Msg("websocket connection established")
}

// bearerToken pulls the JWT from the Authorization header, falling back to
// the token query parameter because browser WebSocket clients cannot set
// headers.
func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return c.Query("token")
}
