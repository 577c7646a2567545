package reconcile

import (
	"context"
	"time"

	"github.com/goosetap/goosetap/go/internal/rounds"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// TotalsRepository defines what the reconciler needs from the rounds layer
type TotalsRepository interface {
	ListRoundTotalsSince(ctx context.Context, cutoff time.Time) ([]rounds.RoundTotal, error)
}

// Config controls the reconciliation sweep.
type Config struct {
	Interval time.Duration // How often to sweep
	Lookback time.Duration // How far past a round's end it stays in the sweep
}

func DefaultConfig() Config {
	return Config{
		Interval: time.Minute,
		Lookback: 10 * time.Minute,
	}
}

// Reconciler periodically compares each round's stored total against the sum
// of its participant scores. The two are written by separate statements in
// the same transaction so they cannot drift, but the invariant is cheap to
// check and a mismatch would point at a bug worth finding early. Detection
// only; it never rewrites totals.
type Reconciler struct {
	repo  TotalsRepository
	clock clockwork.Clock
	cfg   Config
}

// NewReconciler creates a new Reconciler
func NewReconciler(repo TotalsRepository, clock clockwork.Clock, cfg Config) *Reconciler {
	return &Reconciler{
		repo:  repo,
		clock: clock,
		cfg:   cfg,
	}
}

// Run sweeps on the configured interval until ctx is cancelled.
func (r *Reconciler) Run(ctx context.Context) error {
	log.Info().
		Dur("interval", r.cfg.Interval).
		Dur("lookback", r.cfg.Lookback).
		Msg("reconciler started")

	timer := r.clock.NewTimer(r.cfg.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("reconciler shutting down")
			return ctx.Err()
		case <-timer.Chan():
			if err := r.SweepOnce(ctx); err != nil {
				log.Error().Err(err).Msg("reconciliation sweep failed")
			}
			timer.Reset(r.cfg.Interval)
		}
	}
}

// SweepOnce checks every round still in the lookback window and logs any
// total that disagrees with its participant sum.
func (r *Reconciler) SweepOnce(ctx context.Context) error {
	cutoff := r.clock.Now().UTC().Add(-r.cfg.Lookback)

	totals, err := r.repo.ListRoundTotalsSince(ctx, cutoff)
	if err != nil {
		return err
	}

	drifted := 0
	for _, t := range totals {
		if t.TotalScore == t.ParticipantSum {
			continue
		}
		drifted++
		log.Warn().
			Str("round_id", t.RoundID.String()).
			Int64("total_score", t.TotalScore).
			Int64("participant_sum", t.ParticipantSum).
			Int64("drift", t.TotalScore-t.ParticipantSum).
			Msg("round total disagrees with participant sum")
	}

	log.Debug().
		Int("rounds_checked", len(totals)).
		Int("drifted", drifted).
		Msg("reconciliation sweep complete")

	return nil
}
