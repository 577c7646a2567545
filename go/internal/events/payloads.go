package events

import (
	"time"
)

// Event payload types shared between the round, tap, outbox and gateway packages

// Event type names as they appear on the wire.
const (
	TypeRoundCreated = "RoundCreated"
	TypeTapApplied   = "TapApplied"
	TypeRoundUpdated = "RoundUpdated"
)

// RoundCreatedPayload is the payload for a RoundCreated event
type RoundCreatedPayload struct {
	RoundID   string    `json:"round_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	CreatedAt time.Time `json:"created_at"`
}

// TapAppliedPayload is the payload for a TapApplied event, pushed to the
// tapping user after a successful commit.
type TapAppliedPayload struct {
	RoundID     string    `json:"round_id"`
	UserID      string    `json:"user_id"`
	MyScore     int64     `json:"my_score"`
	TapsCount   int64     `json:"taps_count"`
	BonusEarned bool      `json:"bonus_earned"`
	ScoreEarned int64     `json:"score_earned"`
	AppliedAt   time.Time `json:"applied_at"`
}

// RoundUpdatedPayload is the payload for a RoundUpdated event, broadcast to
// everyone watching the round.
type RoundUpdatedPayload struct {
	RoundID     string    `json:"round_id"`
	ScoreEarned int64     `json:"score_earned"`
	UpdatedAt   time.Time `json:"updated_at"`
}
