// Package roundclock projects a round's lifecycle status from its fixed
// timing and the current instant. The projection is pure: no transition is
// ever stored, every read recomputes.
package roundclock

import (
	"time"

	"github.com/goosetap/goosetap/go/internal/models"
)

// StatusAt returns the lifecycle status of a round with the given timing at
// the instant now. Boundaries are inclusive: a round is ACTIVE at exactly
// startTime and at exactly endTime.
func StatusAt(startTime, endTime, now time.Time) models.RoundStatus {
	switch {
	case now.Before(startTime):
		return models.RoundStatusCooldown
	case now.After(endTime):
		return models.RoundStatusFinished
	default:
		return models.RoundStatusActive
	}
}

// StatusOf returns the lifecycle status of round at the instant now.
func StatusOf(round *models.Round, now time.Time) models.RoundStatus {
	return StatusAt(round.StartTime, round.EndTime, now)
}

// CanAcceptTaps reports whether round accepts taps at the instant now.
func CanAcceptTaps(round *models.Round, now time.Time) bool {
	return StatusOf(round, now) == models.RoundStatusActive
}
