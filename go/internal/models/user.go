package models

import (
	"time"

	"github.com/google/uuid"
)

// UserRole defines the role of a user.
type UserRole string

const (
	// RoleAdmin may create rounds.
	RoleAdmin UserRole = "ADMIN"
	// RolePlayer is the default scoring role.
	RolePlayer UserRole = "PLAYER"
	// RoleObserver taps are accepted but never score and never create a ledger row.
	RoleObserver UserRole = "OBSERVER"
)

// User represents a user in the system
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Role      UserRole  `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// CanCreateRounds reports whether the user may create rounds.
func (u *User) CanCreateRounds() bool {
	return u.Role == RoleAdmin
}

// IsExemptFromScoring reports whether the user's taps are accepted as no-ops.
func (u *User) IsExemptFromScoring() bool {
	return u.Role == RoleObserver
}
