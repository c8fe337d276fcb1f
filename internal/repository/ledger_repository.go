package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// LedgerRepo provides data access to the wallet_transactions table,
// the append-only ledger that is the source of truth for balances.
//
// Entries are never updated or deleted once written, with a single
// exception: a PENDING topup may be resolved to SUCCESS or FAILED
// exactly once via ResolveTx.  Corrections are new entries
// (ADMIN_ADJUSTMENT), never edits.
type LedgerRepo struct {
	db *sql.DB
}

// NewLedgerRepo returns a new LedgerRepo bound to the given database.
func NewLedgerRepo(db *sql.DB) *LedgerRepo { return &LedgerRepo{db: db} }

const transactionColumns = `id, user_id, type, amount, status, reference_id, reference_type,
	note, created_at, resolved_at`

// InsertTx appends a ledger entry within the caller's transaction and
// populates the generated ID and creation timestamp on the record.
func (r *LedgerRepo) InsertTx(ctx context.Context, tx *sql.Tx, t *model.Transaction) error {
	const q = `INSERT INTO wallet_transactions
	           (user_id, type, amount, status, reference_id, reference_type, note)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		t.UserID, string(t.Type), t.Amount, string(t.Status),
		t.ReferenceID, t.ReferenceType, t.Note,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	row := tx.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM wallet_transactions WHERE id = ?`, t.ID)
	return scanTransaction(row, t)
}

// GetByID returns a ledger entry by its primary key.
func (r *LedgerRepo) GetByID(ctx context.Context, id uint64) (*model.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM wallet_transactions WHERE id = ?`, id)
	var t model.Transaction
	if err := scanTransaction(row, &t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return &t, nil
}

// GetForUpdateTx loads a ledger entry and row-locks it.  Topup
// processing takes this lock so that two admins resolving the same
// request serialize; the loser sees the resolved status and fails
// with ErrAlreadyProcessed instead of crediting twice.
func (r *LedgerRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Transaction, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM wallet_transactions WHERE id = ? FOR UPDATE`, id)
	var t model.Transaction
	if err := scanTransaction(row, &t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return &t, nil
}

// ResolveTx flips a PENDING entry to SUCCESS or FAILED and stamps
// resolved_at.  The status guard in the WHERE clause makes the flip
// single-shot: zero affected rows means the entry was already
// resolved and yields ErrAlreadyProcessed.
func (r *LedgerRepo) ResolveTx(ctx context.Context, tx *sql.Tx, id uint64, status model.TransactionStatus, at time.Time) error {
	const q = `UPDATE wallet_transactions SET status = ?, resolved_at = ?
	           WHERE id = ? AND status = ?`
	res, err := tx.ExecContext(ctx, q, string(status), at.UTC(), id, string(model.TxPending))
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAlreadyProcessed
	}
	return nil
}

// SumPostedTx computes Σ(amount) over the user's SUCCESS entries
// within the caller's transaction.  This is the reconciliation target
// the snapshot cache must equal.
func (r *LedgerRepo) SumPostedTx(ctx context.Context, tx *sql.Tx, userID uint64) (decimal.Decimal, error) {
	const q = `SELECT COALESCE(SUM(amount), 0) FROM wallet_transactions
	           WHERE user_id = ? AND status = ?`
	var sum decimal.Decimal
	err := tx.QueryRowContext(ctx, q, userID, string(model.TxSuccess)).Scan(&sum)
	return sum, err
}

// SumPosted is the non-transactional variant of SumPostedTx, used by
// the read-only audit.
func (r *LedgerRepo) SumPosted(ctx context.Context, userID uint64) (decimal.Decimal, error) {
	const q = `SELECT COALESCE(SUM(amount), 0) FROM wallet_transactions
	           WHERE user_id = ? AND status = ?`
	var sum decimal.Decimal
	err := r.db.QueryRowContext(ctx, q, userID, string(model.TxSuccess)).Scan(&sum)
	return sum, err
}

// ListByUser returns a user's ledger entries, newest first.
func (r *LedgerRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Transaction, error) {
	const q = `SELECT ` + transactionColumns + ` FROM wallet_transactions
	           WHERE user_id = ? ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Transaction, 0)
	for rows.Next() {
		var t model.Transaction
		if err := scanTransaction(rows, &t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UserIDs returns every user that has a snapshot row or at least one
// ledger entry.  The audit walks this set.
func (r *LedgerRepo) UserIDs(ctx context.Context) ([]uint64, error) {
	const q = `SELECT user_id FROM balance_snapshots
	           UNION
	           SELECT DISTINCT user_id FROM wallet_transactions
	           ORDER BY user_id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

func scanTransaction(row rowScanner, t *model.Transaction) error {
	var txType, status string
	var refID, refType, note sql.NullString
	var resolvedAt sql.NullTime
	if err := row.Scan(
		&t.ID, &t.UserID, &txType, &t.Amount, &status,
		&refID, &refType, &note, &t.CreatedAt, &resolvedAt,
	); err != nil {
		return err
	}
	t.Type = model.TransactionType(txType)
	t.Status = model.TransactionStatus(status)
	if refID.Valid {
		v := refID.String
		t.ReferenceID = &v
	}
	if refType.Valid {
		v := refType.String
		t.ReferenceType = &v
	}
	if note.Valid {
		v := note.String
		t.Note = &v
	}
	if resolvedAt.Valid {
		v := resolvedAt.Time
		t.ResolvedAt = &v
	}
	return nil
}
