package models

import (
	"time"

	"github.com/google/uuid"
)

// RoundStatus defines the lifecycle state of a round.
//
// Status is never persisted. It is always recomputed from the round's fixed
// start/end instants and the current time, so a stored status can never
// drift from wall-clock reality.
type RoundStatus string

const (
	RoundStatusCooldown RoundStatus = "COOLDOWN"
	RoundStatusActive   RoundStatus = "ACTIVE"
	RoundStatusFinished RoundStatus = "FINISHED"
)

// Round represents a time-boxed competitive session.
//
// StartTime and EndTime are fixed at creation and never mutated. TotalScore
// is the only mutable field and only ever grows, via single-statement
// additive increments at the storage layer.
type Round struct {
	ID         uuid.UUID `json:"id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	TotalScore int64     `json:"total_score"`
	CreatedAt  time.Time `json:"created_at"`
}
