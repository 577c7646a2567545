package roundclock

import (
	"testing"
	"time"

	"github.com/goosetap/goosetap/go/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestStatusAt(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	start := created.Add(30 * time.Second)
	end := start.Add(60 * time.Second)

	tests := []struct {
		name string
		now  time.Time
		want models.RoundStatus
	}{
		{"before start", created.Add(10 * time.Second), models.RoundStatusCooldown},
		{"instant before start", start.Add(-time.Nanosecond), models.RoundStatusCooldown},
		{"exactly at start", start, models.RoundStatusActive},
		{"mid round", created.Add(40 * time.Second), models.RoundStatusActive},
		{"exactly at end", end, models.RoundStatusActive},
		{"instant after end", end.Add(time.Nanosecond), models.RoundStatusFinished},
		{"long after end", created.Add(100 * time.Second), models.RoundStatusFinished},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusAt(start, end, tt.now))
		})
	}
}

func TestStatusChangesWithObservationTime(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 30, 0, time.UTC)
	round := &models.Round{
		StartTime: start,
		EndTime:   start.Add(60 * time.Second),
	}

	// Same stored round, three different answers depending on the clock.
	assert.Equal(t, models.RoundStatusCooldown, StatusOf(round, start.Add(-20*time.Second)))
	assert.Equal(t, models.RoundStatusActive, StatusOf(round, start.Add(10*time.Second)))
	assert.Equal(t, models.RoundStatusFinished, StatusOf(round, start.Add(70*time.Second)))
}

func TestCanAcceptTaps(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	round := &models.Round{
		StartTime: start,
		EndTime:   start.Add(time.Minute),
	}

	assert.False(t, CanAcceptTaps(round, start.Add(-time.Second)))
	assert.True(t, CanAcceptTaps(round, start))
	assert.True(t, CanAcceptTaps(round, start.Add(time.Minute)))
	assert.False(t, CanAcceptTaps(round, start.Add(time.Minute+time.Second)))
}
