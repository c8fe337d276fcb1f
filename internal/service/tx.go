package service

import (
	"context"
	"database/sql"

	"github.com/iliyamo/hotel-reservation/internal/repository"
)

// maxTxAttempts bounds how often a workflow transaction is retried on
// transient lock errors (InnoDB deadlock, lock wait timeout) before
// the failure surfaces to the caller as ErrConflict.
const maxTxAttempts = 3

// runInTx executes fn inside a database transaction.  The transaction
// is rolled back unless fn returns nil and the commit succeeds.  When
// fn fails with a retryable lock error the whole transaction is
// replayed, up to maxTxAttempts times; exhaustion maps to
// repository.ErrConflict per the workflow contract.  Business errors
// from fn pass through unchanged.
func runInTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		committed := false
		err = func() error {
			defer func() {
				if !committed {
					_ = tx.Rollback()
				}
			}()
			if err := fn(tx); err != nil {
				return err
			}
			if err := tx.Commit(); err != nil {
				return err
			}
			committed = true
			return nil
		}()
		if err == nil {
			return nil
		}
		if !repository.IsRetryable(err) {
			return err
		}
	}
	return repository.ErrConflict
}
