package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/Shanky3008/dietint-platform-sub001/internal/models"
)

const tokenIssuer = "dietint-platform"

// tokenClaims is what the authentication collaborator supplies before join.
type tokenClaims struct {
	UserID string
	Name   string
	Role   models.Role
}

func (h *Handler) generateToken(c tokenClaims) (string, error) {
	claims := jwt.MapClaims{
		"user_id": c.UserID,
		"name":    c.Name,
		"role":    string(c.Role),
		"exp":     time.Now().Add(72 * time.Hour).Unix(),
		"iss":     tokenIssuer,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.jwtSecret)
}

func (h *Handler) parseToken(tokenString string) (tokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return h.jwtSecret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithExpirationRequired())
	if err != nil {
		return tokenClaims{}, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return tokenClaims{}, errors.New("invalid token")
	}

	userID, _ := claims["user_id"].(string)
	name, _ := claims["name"].(string)
	role, _ := claims["role"].(string)
	if userID == "" {
		return tokenClaims{}, errors.New("token missing user_id")
	}
	return tokenClaims{UserID: userID, Name: name, Role: models.Role(role)}, nil
}

// GetToken issues a development JWT carrying {userId, name, role}. In
// production the platform's authentication service issues these; this
// endpoint stands in for it so the dashboard can run against a bare relay.
func (h *Handler) GetToken(c *gin.Context) {
	role := models.Role(c.DefaultQuery("role", string(models.RoleClient)))
	if !role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role"})
		return
	}
	userID := c.Query("userId")
	if userID == "" {
		userID = uuid.New().String()
	}

	claims := tokenClaims{
		UserID: userID,
		Name:   c.DefaultQuery("name", "Guest"),
		Role:   role,
	}
	token, err := h.generateToken(claims)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "userId": claims.UserID, "role": claims.Role})
}
