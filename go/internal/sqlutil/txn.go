package sqlutil

import (
	"context"
	"database/sql"
)

// Run executes fn inside a *sql.Tx.
// newQueries binds a query bundle to the transaction; if fn returns an
// error the tx rolls back, otherwise it commits. A tap attempt runs
// entirely inside one call so the row lock, the conditional ledger write
// and the round-total increment form a single atomic unit.
func Run[T any](
	ctx context.Context,
	db *sql.DB,
	newQueries func(*sql.Tx) *T,
	fn func(q *T) error,
) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(newQueries(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
