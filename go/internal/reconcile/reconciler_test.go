package reconcile

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/goosetap/goosetap/go/internal/rounds"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTotalsRepo struct {
	totals     []rounds.RoundTotal
	lastCutoff time.Time
}

func (f *fakeTotalsRepo) ListRoundTotalsSince(ctx context.Context, cutoff time.Time) ([]rounds.RoundTotal, error) {
	f.lastCutoff = cutoff
	return f.totals, nil
}

func TestSweepOnceUsesLookbackCutoff(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(now)
	repo := &fakeTotalsRepo{}

	r := NewReconciler(repo, clock, Config{Interval: time.Minute, Lookback: 10 * time.Minute})
	require.NoError(t, r.SweepOnce(context.Background()))

	assert.Equal(t, now.Add(-10*time.Minute), repo.lastCutoff)
}

func TestSweepOnceToleratesMatchingTotals(t *testing.T) {
	repo := &fakeTotalsRepo{
		totals: []rounds.RoundTotal{
			{RoundID: uuid.New(), TotalScore: 100, ParticipantSum: 100},
			{RoundID: uuid.New(), TotalScore: 0, ParticipantSum: 0},
			{RoundID: uuid.New(), TotalScore: 55, ParticipantSum: 54}, // drifted, logged only
		},
	}

	r := NewReconciler(repo, clockwork.NewFakeClock(), DefaultConfig())
	assert.NoError(t, r.SweepOnce(context.Background()))
}

func TestRunStopsOnCancel(t *testing.T) {
	clock := clockwork.NewFakeClock()
	r := NewReconciler(&fakeTotalsRepo{}, clock, DefaultConfig())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- r.Run(ctx)
	}()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("reconciler did not stop on cancel")
	}
}
