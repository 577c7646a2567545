package rounds

import (
	"github.com/google/uuid"
	"github.com/goosetap/goosetap/go/internal/models"
)

// CreateRoundRequest carries the timing offsets for a new round.
type CreateRoundRequest struct {
	CooldownSeconds int `json:"cooldown_seconds"`
	DurationSeconds int `json:"duration_seconds"`
}

// RoundSummary is a round together with its computed status.
type RoundSummary struct {
	Round  models.Round       `json:"round"`
	Status models.RoundStatus `json:"status"`
}

// ParticipantEntry is one leaderboard line of a round.
type ParticipantEntry struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Username  string          `json:"username"`
	Role      models.UserRole `json:"role"`
	Score     int64           `json:"score"`
	TapsCount int64           `json:"taps_count"`
}

// RoundDetails is the full view of a round: computed status, participants
// ordered by descending score, the caller's own participation if present,
// and the winner once the round is finished.
type RoundDetails struct {
	Round           models.Round       `json:"round"`
	Status          models.RoundStatus `json:"status"`
	Participants    []ParticipantEntry `json:"participants"`
	MyParticipation *ParticipantEntry  `json:"my_participation,omitempty"`
	Winner          *ParticipantEntry  `json:"winner,omitempty"`
}
