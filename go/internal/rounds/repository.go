package rounds

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/goosetap/goosetap/go/internal/apperr"
	"github.com/goosetap/goosetap/go/internal/models"
	"github.com/goosetap/goosetap/go/internal/rounds/db"
)

// Querier defines what the repository needs from the database layer
type Querier interface {
	CreateRound(ctx context.Context, arg db.CreateRoundParams) (db.Round, error)
	GetRound(ctx context.Context, id uuid.UUID) (db.Round, error)
	ListRounds(ctx context.Context) ([]db.Round, error)
	ListParticipantsByRound(ctx context.Context, roundID uuid.UUID) ([]db.ListParticipantsByRoundRow, error)
	TopParticipantsByRound(ctx context.Context, arg db.TopParticipantsByRoundParams) ([]db.TopParticipantsByRoundRow, error)
	ListRoundTotalsSince(ctx context.Context, endTime time.Time) ([]db.ListRoundTotalsSinceRow, error)
}

// Repository implements round data access operations
type Repository struct {
	queries Querier
}

// NewRepository creates a new rounds repository
func NewRepository(querier Querier) *Repository {
	return &Repository{
		queries: querier,
	}
}

// CreateRound persists a round with the given fixed timing and a zero total.
func (r *Repository) CreateRound(ctx context.Context, startTime, endTime time.Time) (*models.Round, error) {
	round, err := r.queries.CreateRound(ctx, db.CreateRoundParams{
		ID:        uuid.New(),
		StartTime: startTime,
		EndTime:   endTime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create round: %w", err)
	}

	return r.dbRoundToModel(round), nil
}

// GetRound retrieves a round by ID
func (r *Repository) GetRound(ctx context.Context, id uuid.UUID) (*models.Round, error) {
	round, err := r.queries.GetRound(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("round %s: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get round: %w", err)
	}

	return r.dbRoundToModel(round), nil
}

// ListRounds retrieves all rounds, newest first.
func (r *Repository) ListRounds(ctx context.Context) ([]models.Round, error) {
	rows, err := r.queries.ListRounds(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds: %w", err)
	}

	result := make([]models.Round, len(rows))
	for i, row := range rows {
		result[i] = *r.dbRoundToModel(row)
	}

	return result, nil
}

// ListParticipants retrieves a round's leaderboard, ordered by descending
// score with the deterministic tie-break (earliest created, then lowest ID).
func (r *Repository) ListParticipants(ctx context.Context, roundID uuid.UUID) ([]ParticipantEntry, error) {
	rows, err := r.queries.ListParticipantsByRound(ctx, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}

	entries := make([]ParticipantEntry, len(rows))
	for i, row := range rows {
		entries[i] = ParticipantEntry{
			ID:        row.ID,
			UserID:    row.UserID,
			Username:  row.Username,
			Role:      models.UserRole(row.Role),
			Score:     row.Score,
			TapsCount: row.TapsCount,
		}
	}

	return entries, nil
}

// TopParticipant returns the highest-scoring participant of a round, or nil
// if the round has none. Ties resolve deterministically: highest score, then
// earliest ledger creation, then lowest participant ID.
func (r *Repository) TopParticipant(ctx context.Context, roundID uuid.UUID) (*ParticipantEntry, error) {
	rows, err := r.queries.TopParticipantsByRound(ctx, db.TopParticipantsByRoundParams{
		RoundID: roundID,
		Limit:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get top participant: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	row := rows[0]
	return &ParticipantEntry{
		ID:        row.ID,
		UserID:    row.UserID,
		Username:  row.Username,
		Role:      models.UserRole(row.Role),
		Score:     row.Score,
		TapsCount: row.TapsCount,
	}, nil
}

// RoundTotal pairs a round's stored total with the sum of its participant scores.
type RoundTotal struct {
	RoundID        uuid.UUID
	TotalScore     int64
	ParticipantSum int64
}

// ListRoundTotalsSince returns stored totals and participant sums for every
// round still running or ended at/after the cutoff. Used by the reconciler.
func (r *Repository) ListRoundTotalsSince(ctx context.Context, cutoff time.Time) ([]RoundTotal, error) {
	rows, err := r.queries.ListRoundTotalsSince(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list round totals: %w", err)
	}

	totals := make([]RoundTotal, len(rows))
	for i, row := range rows {
		totals[i] = RoundTotal{
			RoundID:        row.ID,
			TotalScore:     row.TotalScore,
			ParticipantSum: row.ParticipantSum,
		}
	}

	return totals, nil
}

// dbRoundToModel converts a database round to domain model
func (r *Repository) dbRoundToModel(dbRound db.Round) *models.Round {
	return &models.Round{
		ID:         dbRound.ID,
		StartTime:  dbRound.StartTime,
		EndTime:    dbRound.EndTime,
		TotalScore: dbRound.TotalScore,
		CreatedAt:  dbRound.CreatedAt,
	}
}
