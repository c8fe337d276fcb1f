package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// BalanceRepo provides data access to the balance_snapshots table:
// one cached balance row per user, reconciled against the ledger.
//
// Every balance mutation locks the user's row first (GetForUpdateTx),
// which serializes wallet operations per user while leaving other
// users' operations free to run in parallel.
type BalanceRepo struct {
	db *sql.DB
}

// NewBalanceRepo returns a new BalanceRepo bound to the given database.
func NewBalanceRepo(db *sql.DB) *BalanceRepo { return &BalanceRepo{db: db} }

// Get returns a user's snapshot.  A user without a snapshot row has a
// zero balance; found reports whether the row existed.
func (r *BalanceRepo) Get(ctx context.Context, userID uint64) (*model.BalanceSnapshot, bool, error) {
	const q = `SELECT user_id, current_balance, last_updated FROM balance_snapshots WHERE user_id = ?`
	var s model.BalanceSnapshot
	err := r.db.QueryRowContext(ctx, q, userID).Scan(&s.UserID, &s.CurrentBalance, &s.LastUpdated)
	if errors.Is(err, sql.ErrNoRows) {
		return &model.BalanceSnapshot{UserID: userID, CurrentBalance: decimal.Zero}, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &s, true, nil
}

// GetForUpdateTx reads and row-locks the user's snapshot within the
// caller's transaction.  This is the per-user serialization point:
// the balance check and the subsequent debit happen under this lock,
// closing the check-then-act race.  A user without a row yields a
// zero balance and found=false; the caller creates the row with
// UpsertTx under the same transaction.
func (r *BalanceRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, userID uint64) (decimal.Decimal, bool, error) {
	const q = `SELECT current_balance FROM balance_snapshots WHERE user_id = ? FOR UPDATE`
	var balance decimal.Decimal
	err := tx.QueryRowContext(ctx, q, userID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, err
	}
	return balance, true, nil
}

// UpsertTx writes the new cached balance within the caller's
// transaction, creating the row on first use.
func (r *BalanceRepo) UpsertTx(ctx context.Context, tx *sql.Tx, userID uint64, balance decimal.Decimal, at time.Time) error {
	const q = `INSERT INTO balance_snapshots (user_id, current_balance, last_updated)
	           VALUES (?, ?, ?)
	           ON DUPLICATE KEY UPDATE current_balance = VALUES(current_balance),
	                                   last_updated = VALUES(last_updated)`
	_, err := tx.ExecContext(ctx, q, userID, balance, at.UTC())
	return err
}
