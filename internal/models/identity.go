package models

import "time"

// Role is the declared role of a connected participant.
type Role string

const (
	RoleClient Role = "client"
	RoleCoach  Role = "coach"
	RoleAdmin  Role = "admin"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleCoach, RoleAdmin:
		return true
	}
	return false
}

// Identity is the declared identity of one live connection. The user id is
// stable across reconnects; the same user may hold several simultaneous
// connections, each with its own Identity entry in the registry.
type Identity struct {
	UserID   string    `json:"id"`
	Name     string    `json:"name"`
	Role     Role      `json:"role"`
	IsOnline bool      `json:"isOnline"`
	LastSeen time.Time `json:"lastSeen,omitempty"`
}
