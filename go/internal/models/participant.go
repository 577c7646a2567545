package models

import (
	"time"

	"github.com/google/uuid"
)

// RoundParticipant is one user's score ledger within one round.
//
// At most one row exists per (UserID, RoundID), enforced by a unique index.
// Score and TapsCount are monotonically non-decreasing; Score is fully
// determined by TapsCount through the scoring rule and is never an
// independent input. Version is the concurrency token: it strictly
// increases on every successful write and stale writes are rejected.
type RoundParticipant struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	RoundID   uuid.UUID `json:"round_id"`
	Score     int64     `json:"score"`
	TapsCount int64     `json:"taps_count"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
