package rounds

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/goosetap/goosetap/go/internal/apperr"
	"github.com/goosetap/goosetap/go/internal/events"
	"github.com/goosetap/goosetap/go/internal/models"
	"github.com/goosetap/goosetap/go/internal/roundclock"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// RoundsRepository defines what the app layer needs from the repository
type RoundsRepository interface {
	CreateRound(ctx context.Context, startTime, endTime time.Time) (*models.Round, error)
	GetRound(ctx context.Context, id uuid.UUID) (*models.Round, error)
	ListRounds(ctx context.Context) ([]models.Round, error)
	ListParticipants(ctx context.Context, roundID uuid.UUID) ([]ParticipantEntry, error)
	TopParticipant(ctx context.Context, roundID uuid.UUID) (*ParticipantEntry, error)
}

// OutboxApp defines what the app layer needs from the outbox
type OutboxApp interface {
	InsertRoundCreatedEvent(ctx context.Context, roundID uuid.UUID, payload []byte) error
}

// App handles round business logic: the round factory, detail queries and
// winner resolution. Tap processing lives in the tap package.
type App struct {
	repo   RoundsRepository
	outbox OutboxApp
	clock  clockwork.Clock
}

// NewApp creates a new rounds App
func NewApp(repo RoundsRepository, outbox OutboxApp, clock clockwork.Clock) *App {
	return &App{
		repo:   repo,
		outbox: outbox,
		clock:  clock,
	}
}

// CreateRound creates a round whose timing is fixed permanently at creation:
// startTime = now + cooldown, endTime = startTime + duration. Only an admin
// caller may create rounds.
func (a *App) CreateRound(ctx context.Context, caller *models.User, req CreateRoundRequest) (*models.Round, error) {
	if !caller.CanCreateRounds() {
		return nil, fmt.Errorf("user %s cannot create rounds: %w", caller.ID, apperr.ErrUnauthorized)
	}
	if req.CooldownSeconds < 0 || req.DurationSeconds <= 0 {
		return nil, fmt.Errorf("invalid round timing: cooldown=%ds duration=%ds", req.CooldownSeconds, req.DurationSeconds)
	}

	startTime := a.clock.Now().UTC().Add(time.Duration(req.CooldownSeconds) * time.Second)
	endTime := startTime.Add(time.Duration(req.DurationSeconds) * time.Second)

	round, err := a.repo.CreateRound(ctx, startTime, endTime)
	if err != nil {
		return nil, err
	}

	if err := a.emitRoundCreatedEvent(ctx, round); err != nil {
		log.Error().Err(err).Str("round_id", round.ID.String()).Msg("failed to emit RoundCreated event")
		// Don't fail the operation, just log
	}

	log.Info().
		Str("round_id", round.ID.String()).
		Time("start_time", round.StartTime).
		Time("end_time", round.EndTime).
		Msg("created round")

	return round, nil
}

// GetRound retrieves a round by ID
func (a *App) GetRound(ctx context.Context, id uuid.UUID) (*models.Round, error) {
	return a.repo.GetRound(ctx, id)
}

// ListRounds returns all rounds with their computed statuses, newest first.
func (a *App) ListRounds(ctx context.Context) ([]RoundSummary, error) {
	list, err := a.repo.ListRounds(ctx)
	if err != nil {
		return nil, err
	}

	now := a.clock.Now()
	summaries := make([]RoundSummary, len(list))
	for i, round := range list {
		summaries[i] = RoundSummary{
			Round:  round,
			Status: roundclock.StatusOf(&round, now),
		}
	}

	return summaries, nil
}

// GetRoundDetails assembles the full round view for a caller: computed
// status, the leaderboard, the caller's own participation if present, and
// the winner once the clock says the round is finished.
func (a *App) GetRoundDetails(ctx context.Context, roundID, callerUserID uuid.UUID) (*RoundDetails, error) {
	round, err := a.repo.GetRound(ctx, roundID)
	if err != nil {
		return nil, err
	}

	participants, err := a.repo.ListParticipants(ctx, roundID)
	if err != nil {
		return nil, err
	}

	details := &RoundDetails{
		Round:        *round,
		Status:       roundclock.StatusOf(round, a.clock.Now()),
		Participants: participants,
	}

	for i := range participants {
		if participants[i].UserID == callerUserID {
			details.MyParticipation = &participants[i]
			break
		}
	}

	if details.Status == models.RoundStatusFinished {
		winner, err := a.repo.TopParticipant(ctx, roundID)
		if err != nil {
			return nil, err
		}
		details.Winner = winner
	}

	return details, nil
}

// GetWinner resolves the winner of a finished round. For rounds that are not
// yet finished it returns InvalidState with the computed status.
func (a *App) GetWinner(ctx context.Context, roundID uuid.UUID) (*ParticipantEntry, error) {
	round, err := a.repo.GetRound(ctx, roundID)
	if err != nil {
		return nil, err
	}

	status := roundclock.StatusOf(round, a.clock.Now())
	if status != models.RoundStatusFinished {
		return nil, &apperr.RoundNotActiveError{Status: status}
	}

	return a.repo.TopParticipant(ctx, roundID)
}

// emitRoundCreatedEvent inserts a RoundCreated event into the outbox
func (a *App) emitRoundCreatedEvent(ctx context.Context, round *models.Round) error {
	payload := events.RoundCreatedPayload{
		RoundID:   round.ID.String(),
		StartTime: round.StartTime,
		EndTime:   round.EndTime,
		CreatedAt: round.CreatedAt,
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal RoundCreated payload: %w", err)
	}

	return a.outbox.InsertRoundCreatedEvent(ctx, round.ID, payloadBytes)
}
