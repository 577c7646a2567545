package tap

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/goosetap/goosetap/go/internal/apperr"
	"github.com/goosetap/goosetap/go/internal/events"
	"github.com/goosetap/goosetap/go/internal/models"
	"github.com/goosetap/goosetap/go/internal/participants"
	"github.com/goosetap/goosetap/go/internal/roundclock"
	"github.com/goosetap/goosetap/go/internal/scoring"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

const (
	// maxAttempts bounds the whole tap, including the first try.
	maxAttempts = 3
	// baseRetryDelay is the flat wait between attempts; up to maxRetryJitter
	// of random jitter is added so colliding retries spread out.
	baseRetryDelay = 10 * time.Millisecond
	maxRetryJitter = 10 * time.Millisecond
)

// UsersApp defines what the processor needs from the users application
type UsersApp interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// RoundsApp defines what the processor needs from the rounds application
type RoundsApp interface {
	GetRound(ctx context.Context, id uuid.UUID) (*models.Round, error)
}

// Notifier pushes post-commit score updates. Delivery is fire-and-forget,
// at most once; it never participates in the tap's correctness.
type Notifier interface {
	PublishTapApplied(ctx context.Context, payload events.TapAppliedPayload) error
	PublishRoundUpdated(ctx context.Context, payload events.RoundUpdatedPayload) error
}

// Processor executes taps: it validates the round window, then runs a
// bounded retry loop where each attempt locks the ledger row without
// waiting, applies the scoring rule, and commits the ledger write together
// with the round-total increment as one transaction.
//
// Only same-user-same-round taps ever contend: the ledger row is the single
// contended resource, and the round total is maintained by a commutative
// increment that never conflicts. Retried attempts are not FIFO; totals are
// deterministic anyway because scoring depends only on the count reached.
type Processor struct {
	users    UsersApp
	rounds   RoundsApp
	store    participants.Store
	notifier Notifier
	clock    clockwork.Clock
}

// NewProcessor creates a new tap Processor. notifier may be nil.
func NewProcessor(users UsersApp, rounds RoundsApp, store participants.Store, notifier Notifier, clock clockwork.Clock) *Processor {
	return &Processor{
		users:    users,
		rounds:   rounds,
		store:    store,
		notifier: notifier,
		clock:    clock,
	}
}

// ExecuteTap applies one tap by userID against roundID.
//
// Preconditions run outside any lock: the user and round must exist
// (NotFound) and the round must be ACTIVE right now (InvalidState carrying
// the computed status). Transient contention - a held row lock, a lost
// version race, a duplicate first-tap insert - is retried up to the attempt
// budget and only then surfaced as Conflict. Every other failure propagates
// immediately.
func (p *Processor) ExecuteTap(ctx context.Context, userID, roundID uuid.UUID) (*Result, error) {
	user, err := p.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	round, err := p.rounds.GetRound(ctx, roundID)
	if err != nil {
		return nil, err
	}

	if status := roundclock.StatusOf(round, p.clock.Now()); status != models.RoundStatusActive {
		return nil, &apperr.RoundNotActiveError{Status: status}
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, err := p.attemptTap(ctx, user, roundID)
		if err == nil {
			p.notifyCommitted(ctx, user, roundID, result)
			return result, nil
		}
		if !isTransient(err) {
			return nil, err
		}

		lastErr = err
		log.Debug().
			Err(err).
			Str("user_id", userID.String()).
			Str("round_id", roundID.String()).
			Int("attempt", attempt).
			Msg("tap attempt hit contention")

		if attempt < maxAttempts {
			if err := p.waitBeforeRetry(ctx); err != nil {
				return nil, err
			}
		}
	}

	log.Warn().
		Err(lastErr).
		Str("user_id", userID.String()).
		Str("round_id", roundID.String()).
		Msg("tap retry budget exhausted")
	return nil, fmt.Errorf("tap temporarily unavailable after %d attempts (%v): %w", maxAttempts, lastErr, apperr.ErrConflict)
}

// attemptTap runs one full attempt as a single transaction. Either
// everything commits - the locked ledger write and the round-total
// increment - or the attempt leaves no trace.
func (p *Processor) attemptTap(ctx context.Context, user *models.User, roundID uuid.UUID) (*Result, error) {
	var result *Result

	err := p.store.RunTapTransaction(ctx, func(tx participants.Tx) error {
		participant, err := tx.ParticipantForUpdateNoWait(ctx, user.ID, roundID)
		if errors.Is(err, participants.ErrLedgerNotFound) {
			// An exempt tapper never gets a ledger row created for them.
			if user.IsExemptFromScoring() {
				result = &Result{}
				return nil
			}
			if _, err := tx.CreateParticipant(ctx, user.ID, roundID); err != nil {
				return err
			}
			// Re-acquire the lock on the row we just inserted. Losing the
			// insert race to a concurrent first tap surfaces above as
			// ErrDuplicateLedger and the whole attempt is retried.
			participant, err = tx.ParticipantForUpdateNoWait(ctx, user.ID, roundID)
			if err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		if user.IsExemptFromScoring() {
			result = &Result{}
			return nil
		}

		newTapsCount := participant.TapsCount + 1
		scoreEarned, bonusEarned := scoring.Contribution(newTapsCount)
		newScore := participant.Score + scoreEarned

		if _, err := tx.SaveParticipantScore(ctx, participant.ID, newScore, newTapsCount, participant.Version); err != nil {
			return err
		}
		if err := tx.AddToRoundTotal(ctx, roundID, scoreEarned); err != nil {
			return err
		}

		result = &Result{
			MyScore:     newScore,
			TapsCount:   newTapsCount,
			BonusEarned: bonusEarned,
			ScoreEarned: scoreEarned,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// isTransient classifies failures worth retrying: a held row lock, a lost
// version race, or a duplicate-ledger insert race. Everything else
// propagates on first occurrence.
func isTransient(err error) bool {
	return errors.Is(err, participants.ErrLockNotAvailable) ||
		errors.Is(err, participants.ErrVersionMismatch) ||
		errors.Is(err, participants.ErrDuplicateLedger)
}

// waitBeforeRetry sleeps the flat jittered backoff, honoring cancellation.
func (p *Processor) waitBeforeRetry(ctx context.Context) error {
	delay := baseRetryDelay + time.Duration(rand.Int64N(int64(maxRetryJitter)))
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.clock.After(delay):
		return nil
	}
}

// notifyCommitted pushes the per-user result and the round update after a
// successful commit. Failures are logged and dropped.
func (p *Processor) notifyCommitted(ctx context.Context, user *models.User, roundID uuid.UUID, result *Result) {
	if p.notifier == nil || result.ScoreEarned == 0 {
		return
	}

	now := p.clock.Now().UTC()
	if err := p.notifier.PublishTapApplied(ctx, events.TapAppliedPayload{
		RoundID:     roundID.String(),
		UserID:      user.ID.String(),
		MyScore:     result.MyScore,
		TapsCount:   result.TapsCount,
		BonusEarned: result.BonusEarned,
		ScoreEarned: result.ScoreEarned,
		AppliedAt:   now,
	}); err != nil {
		log.Error().Err(err).Str("round_id", roundID.String()).Msg("failed to publish TapApplied event")
	}

	if err := p.notifier.PublishRoundUpdated(ctx, events.RoundUpdatedPayload{
		RoundID:     roundID.String(),
		ScoreEarned: result.ScoreEarned,
		UpdatedAt:   now,
	}); err != nil {
		log.Error().Err(err).Str("round_id", roundID.String()).Msg("failed to publish RoundUpdated event")
	}
}
