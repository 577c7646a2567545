package outbox

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/goosetap/goosetap/go/internal/outbox/worker"
	"github.com/rs/zerolog/log"
)

// OutboxRepository defines what the app layer needs from the repository
type OutboxRepository interface {
	InsertOutboxRoundCreated(ctx context.Context, roundID uuid.UUID, payload []byte) error
	FetchUnsentOutbox(ctx context.Context, limit int32) ([]worker.OutboxEvent, error)
	MarkOutboxSent(ctx context.Context, id uuid.UUID) error
	FetchOutboxByID(ctx context.Context, id uuid.UUID) (*worker.OutboxEvent, error)
}

// App handles outbox business logic
type App struct {
	repo OutboxRepository
}

// NewApp creates a new outbox App
func NewApp(repo OutboxRepository) *App {
	return &App{
		repo: repo,
	}
}

// InsertRoundCreatedEvent inserts a RoundCreated event into the outbox
func (a *App) InsertRoundCreatedEvent(ctx context.Context, roundID uuid.UUID, payload []byte) error {
	if err := a.validateEventPayload(payload); err != nil {
		return fmt.Errorf("invalid RoundCreated payload: %w", err)
	}

	if err := a.repo.InsertOutboxRoundCreated(ctx, roundID, payload); err != nil {
		return fmt.Errorf("failed to insert RoundCreated event: %w", err)
	}

	log.Info().
		Str("round_id", roundID.String()).
		Str("event_type", "RoundCreated").
		Msg("outbox event inserted")

	return nil
}

// FetchUnsentEvents fetches unsent outbox events
func (a *App) FetchUnsentEvents(ctx context.Context, limit int32) ([]worker.OutboxEvent, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than 0")
	}

	events, err := a.repo.FetchUnsentOutbox(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unsent events: %w", err)
	}

	if len(events) > 0 {
		log.Debug().
			Int("count", len(events)).
			Msg("fetched unsent outbox events")
	}

	return events, nil
}

// MarkEventSent marks an outbox event as sent
func (a *App) MarkEventSent(ctx context.Context, eventID uuid.UUID) error {
	if err := a.repo.MarkOutboxSent(ctx, eventID); err != nil {
		return fmt.Errorf("failed to mark event as sent: %w", err)
	}

	log.Debug().
		Str("event_id", eventID.String()).
		Msg("marked outbox event as sent")

	return nil
}

// GetEventByID fetches a specific outbox event by ID
func (a *App) GetEventByID(ctx context.Context, eventID uuid.UUID) (*worker.OutboxEvent, error) {
	event, err := a.repo.FetchOutboxByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch event by ID: %w", err)
	}

	return event, nil
}

// validateEventPayload validates that the event payload is not empty
func (a *App) validateEventPayload(payload []byte) error {
	if len(payload) == 0 {
		return fmt.Errorf("event payload cannot be empty")
	}
	return nil
}
