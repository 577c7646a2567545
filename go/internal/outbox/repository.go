package outbox

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/goosetap/goosetap/go/internal/outbox/db"
	"github.com/goosetap/goosetap/go/internal/outbox/worker"
	"github.com/goosetap/goosetap/go/internal/sqlutil"
)

type Repository struct {
	queries *db.Queries
}

func NewRepository(queries *db.Queries) *Repository {
	return &Repository{
		queries: queries,
	}
}

func (r *Repository) InsertOutboxRoundCreated(ctx context.Context, roundID uuid.UUID, payload []byte) error {
	err := r.queries.InsertOutboxRoundCreated(ctx, db.InsertOutboxRoundCreatedParams{
		ID:      uuid.New(),
		RoundID: roundID,
		Payload: payload,
	})
	if err != nil {
		return fmt.Errorf("failed to insert RoundCreated outbox event: %w", err)
	}
	return nil
}

func (r *Repository) FetchUnsentOutbox(ctx context.Context, limit int32) ([]worker.OutboxEvent, error) {
	rows, err := r.queries.FetchUnsentOutbox(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unsent outbox events: %w", err)
	}

	events := make([]worker.OutboxEvent, len(rows))
	for i, row := range rows {
		events[i] = worker.OutboxEvent{
			ID:        row.ID,
			RoundID:   row.RoundID,
			EventType: row.EventType,
			Payload:   []byte(row.Payload),
			CreatedAt: row.CreatedAt,
			SentAt:    sqlutil.FromSqlTime(row.SentAt),
		}
	}

	return events, nil
}

func (r *Repository) MarkOutboxSent(ctx context.Context, id uuid.UUID) error {
	err := r.queries.MarkOutboxSent(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to mark outbox event as sent: %w", err)
	}
	return nil
}

func (r *Repository) FetchOutboxByID(ctx context.Context, id uuid.UUID) (*worker.OutboxEvent, error) {
	row, err := r.queries.FetchOutboxByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("outbox event not found or already sent")
		}
		return nil, fmt.Errorf("failed to fetch outbox event by ID: %w", err)
	}

	return &worker.OutboxEvent{
		ID:        row.ID,
		RoundID:   row.RoundID,
		EventType: row.EventType,
		Payload:   []byte(row.Payload),
		CreatedAt: row.CreatedAt,
		SentAt:    sqlutil.FromSqlTime(row.SentAt),
	}, nil
}
