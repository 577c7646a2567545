package participants

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/goosetap/goosetap/go/internal/models"
	"github.com/goosetap/goosetap/go/internal/participants/db"
	"github.com/goosetap/goosetap/go/internal/sqlutil"
	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres SQLSTATE codes the tap path classifies on.
const (
	pgLockNotAvailable = "55P03"
	pgUniqueViolation  = "23505"
)

var (
	// ErrLockNotAvailable means another transaction holds the ledger row
	// lock right now. Transient: the tap attempt should be retried.
	ErrLockNotAvailable = errors.New("ledger row locked")
	// ErrVersionMismatch means the conditional write lost a concurrency
	// race: the stored version no longer matches what was read. Transient.
	ErrVersionMismatch = errors.New("ledger version mismatch")
	// ErrDuplicateLedger means a concurrent first tap created the ledger row
	// first. Transient: the retry will find and lock the existing row.
	ErrDuplicateLedger = errors.New("ledger already exists")
	// ErrLedgerNotFound means no ledger row exists for the (user, round) pair.
	ErrLedgerNotFound = errors.New("ledger not found")
)

// Tx is the narrow persistence port available inside one tap transaction:
// try-lock load, lazy create, version-checked save and the commutative
// round-total increment. All four run against the same *sql.Tx.
type Tx interface {
	// ParticipantForUpdateNoWait loads the ledger row under a non-blocking
	// exclusive lock. Returns ErrLedgerNotFound if no row exists and
	// ErrLockNotAvailable if the row is locked by another transaction.
	ParticipantForUpdateNoWait(ctx context.Context, userID, roundID uuid.UUID) (*models.RoundParticipant, error)
	// CreateParticipant inserts a fresh zero ledger row. Returns
	// ErrDuplicateLedger if a concurrent first tap won the insert race.
	CreateParticipant(ctx context.Context, userID, roundID uuid.UUID) (*models.RoundParticipant, error)
	// SaveParticipantScore writes score and tap count conditioned on the
	// version read earlier. On success it returns the new version; if the
	// stored version moved on it returns ErrVersionMismatch.
	SaveParticipantScore(ctx context.Context, id uuid.UUID, score, tapsCount, expectedVersion int64) (int64, error)
	// AddToRoundTotal applies the score delta to the round total as a single
	// additive statement. Distinct users never conflict here.
	AddToRoundTotal(ctx context.Context, roundID uuid.UUID, delta int64) error
}

// Store runs tap transactions against Postgres.
type Store interface {
	RunTapTransaction(ctx context.Context, fn func(tx Tx) error) error
}

// Repository implements participant ledger access on Postgres
type Repository struct {
	sqlDB *sql.DB
}

// NewRepository creates a new participants repository
func NewRepository(sqlDB *sql.DB) *Repository {
	return &Repository{
		sqlDB: sqlDB,
	}
}

var _ Store = (*Repository)(nil)

// RunTapTransaction executes fn inside one transaction, binding the ledger
// operations to it. If fn returns an error the whole attempt rolls back.
func (r *Repository) RunTapTransaction(ctx context.Context, fn func(tx Tx) error) error {
	return sqlutil.Run(ctx, r.sqlDB,
		func(tx *sql.Tx) *db.Queries { return db.New(tx) },
		func(q *db.Queries) error { return fn(&txOps{queries: q}) },
	)
}

// txOps implements Tx over a transaction-bound query bundle.
type txOps struct {
	queries *db.Queries
}

func (t *txOps) ParticipantForUpdateNoWait(ctx context.Context, userID, roundID uuid.UUID) (*models.RoundParticipant, error) {
	row, err := t.queries.GetParticipantForUpdateNoWait(ctx, db.GetParticipantForUpdateNoWaitParams{
		UserID:  userID,
		RoundID: roundID,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLedgerNotFound
		}
		if isPgCode(err, pgLockNotAvailable) {
			return nil, fmt.Errorf("participant (%s, %s): %w", userID, roundID, ErrLockNotAvailable)
		}
		return nil, fmt.Errorf("failed to lock participant: %w", err)
	}

	return dbParticipantToModel(row), nil
}

func (t *txOps) CreateParticipant(ctx context.Context, userID, roundID uuid.UUID) (*models.RoundParticipant, error) {
	row, err := t.queries.CreateParticipant(ctx, db.CreateParticipantParams{
		ID:      uuid.New(),
		UserID:  userID,
		RoundID: roundID,
	})
	if err != nil {
		if isPgCode(err, pgUniqueViolation) {
			return nil, fmt.Errorf("participant (%s, %s): %w", userID, roundID, ErrDuplicateLedger)
		}
		return nil, fmt.Errorf("failed to create participant: %w", err)
	}

	return dbParticipantToModel(row), nil
}

func (t *txOps) SaveParticipantScore(ctx context.Context, id uuid.UUID, score, tapsCount, expectedVersion int64) (int64, error) {
	rowsAffected, err := t.queries.UpdateParticipantScore(ctx, db.UpdateParticipantScoreParams{
		ID:        id,
		Score:     score,
		TapsCount: tapsCount,
		Version:   expectedVersion,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to save participant score: %w", err)
	}
	if rowsAffected == 0 {
		return 0, fmt.Errorf("participant %s at version %d: %w", id, expectedVersion, ErrVersionMismatch)
	}
	return expectedVersion + 1, nil
}

func (t *txOps) AddToRoundTotal(ctx context.Context, roundID uuid.UUID, delta int64) error {
	if err := t.queries.IncrementRoundTotalScore(ctx, db.IncrementRoundTotalScoreParams{
		ID:    roundID,
		Delta: delta,
	}); err != nil {
		return fmt.Errorf("failed to increment round total: %w", err)
	}
	return nil
}

// isPgCode reports whether err carries the given Postgres SQLSTATE.
func isPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// dbParticipantToModel converts a database participant to domain model
func dbParticipantToModel(row db.RoundParticipant) *models.RoundParticipant {
	return &models.RoundParticipant{
		ID:        row.ID,
		UserID:    row.UserID,
		RoundID:   row.RoundID,
		Score:     row.Score,
		TapsCount: row.TapsCount,
		Version:   row.Version,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
