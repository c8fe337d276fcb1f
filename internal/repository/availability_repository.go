package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// dateLayout is how DATE columns are rendered into query arguments.
// Dates are handled date-only throughout; time-of-day never reaches
// the database.
const dateLayout = "2006-01-02"

// AvailabilityRepo provides data access to the room_availability
// table: one inventory row per (room, date) pair.  Creation is done by
// hotel management; unit counts are mutated exclusively by the
// reservation workflow through the ...Tx methods, inside the caller's
// transaction, after the rows have been locked with LockStayTx.
type AvailabilityRepo struct {
	db *sql.DB
}

// NewAvailabilityRepo returns a new AvailabilityRepo bound to the given database.
func NewAvailabilityRepo(db *sql.DB) *AvailabilityRepo { return &AvailabilityRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions
// spanning several repositories.
func (r *AvailabilityRepo) DB() *sql.DB { return r.db }

// Create inserts a single availability row with available_units =
// total_units and the status derived from the unit count.  A row that
// already exists for the (room, date) pair yields ErrConflict; the
// operation never overwrites existing inventory.
func (r *AvailabilityRepo) Create(ctx context.Context, roomID uint64, date time.Time, price decimal.Decimal, totalUnits uint32) error {
	const q = `INSERT INTO room_availability
	           (room_id, date, price_per_night, available_units, total_units, status)
	           VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q,
		roomID, date.Format(dateLayout), price, totalUnits, totalUnits,
		string(model.DeriveAvailabilityStatus(totalUnits)),
	)
	if err != nil {
		if IsDuplicateEntry(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

// CreateBulk inserts one availability row per date in the inclusive
// range [from, to], skipping dates that already have a row.  This is
// an additive operation, not an upsert: pre-existing rows inside the
// range keep their price, units and status untouched.  It returns the
// number of rows actually created.
func (r *AvailabilityRepo) CreateBulk(ctx context.Context, roomID uint64, from, to time.Time, price decimal.Decimal, totalUnits uint32) (int64, error) {
	if to.Before(from) {
		return 0, nil
	}
	// INSERT IGNORE leaves existing (room_id, date) rows untouched;
	// the unique key on the pair turns duplicates into no-ops.
	query := `INSERT IGNORE INTO room_availability
	          (room_id, date, price_per_night, available_units, total_units, status) VALUES `
	args := make([]interface{}, 0)
	first := true
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if !first {
			query += ","
		}
		first = false
		query += "(?, ?, ?, ?, ?, ?)"
		args = append(args, roomID, d.Format(dateLayout), price, totalUnits, totalUnits,
			string(model.DeriveAvailabilityStatus(totalUnits)))
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListRange returns the availability rows of a room for the half-open
// date range [from, to), ordered by date.  It does not lock and is
// intended for browse endpoints; the reservation workflow must use
// LockStayTx instead.
func (r *AvailabilityRepo) ListRange(ctx context.Context, roomID uint64, from, to time.Time) ([]model.RoomAvailability, error) {
	const q = `SELECT id, room_id, date, price_per_night, available_units, total_units, status,
	                  created_at, updated_at
	           FROM room_availability
	           WHERE room_id = ? AND date >= ? AND date < ?
	           ORDER BY date`
	rows, err := r.db.QueryContext(ctx, q, roomID, from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAvailabilityRows(rows)
}

// LockStayTx reads and row-locks (SELECT ... FOR UPDATE) every
// availability row of the room inside the half-open stay range
// [checkIn, checkOut), ordered by date.  Locking in a deterministic
// order keeps concurrent reservations for overlapping stays from
// deadlocking more than necessary; when they do, the caller retries.
// The caller owns the transaction and decides, from the returned
// rows, whether the stay is satisfiable before calling
// DecrementUnitsTx.
func (r *AvailabilityRepo) LockStayTx(ctx context.Context, tx *sql.Tx, roomID uint64, checkIn, checkOut time.Time) ([]model.RoomAvailability, error) {
	const q = `SELECT id, room_id, date, price_per_night, available_units, total_units, status,
	                  created_at, updated_at
	           FROM room_availability
	           WHERE room_id = ? AND date >= ? AND date < ?
	           ORDER BY date
	           FOR UPDATE`
	rows, err := tx.QueryContext(ctx, q, roomID, checkIn.Format(dateLayout), checkOut.Format(dateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAvailabilityRows(rows)
}

// DecrementUnitsTx subtracts units from every AVAILABLE row of the
// stay range.  Rows whose units hit zero flip to BOOKED; the status of
// MAINTENANCE/BLOCKED rows is never touched (they also never match the
// guard, so a concurrent owner block fails the reservation).  The
// number of updated rows must equal the number of nights; any shortfall
// means the in-transaction validation was bypassed and yields
// ErrConflict so the caller rolls back.
func (r *AvailabilityRepo) DecrementUnitsTx(ctx context.Context, tx *sql.Tx, roomID uint64, checkIn, checkOut time.Time, units uint32) error {
	const q = `UPDATE room_availability
	           SET available_units = available_units - ?,
	               status = CASE WHEN available_units = 0 THEN ? ELSE status END
	           WHERE room_id = ? AND date >= ? AND date < ?
	             AND status = ? AND available_units >= ?`
	res, err := tx.ExecContext(ctx, q,
		units, string(model.AvailabilityBooked),
		roomID, checkIn.Format(dateLayout), checkOut.Format(dateLayout),
		string(model.AvailabilityAvailable), units,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if nights := nightsBetween(checkIn, checkOut); affected != int64(nights) {
		return ErrConflict
	}
	return nil
}

// RestoreUnitsTx returns units to every row of the stay range, used on
// cancellation.  Restored counts are capped at total_units and rows
// that were BOOKED become AVAILABLE again; owner blocks survive the
// restore.
func (r *AvailabilityRepo) RestoreUnitsTx(ctx context.Context, tx *sql.Tx, roomID uint64, checkIn, checkOut time.Time, units uint32) error {
	const q = `UPDATE room_availability
	           SET available_units = LEAST(available_units + ?, total_units),
	               status = CASE WHEN status = ? THEN ? ELSE status END
	           WHERE room_id = ? AND date >= ? AND date < ?`
	_, err := tx.ExecContext(ctx, q,
		units,
		string(model.AvailabilityBooked), string(model.AvailabilityAvailable),
		roomID, checkIn.Format(dateLayout), checkOut.Format(dateLayout),
	)
	return err
}

// scanAvailabilityRows materializes query results into models.  The
// mysql driver parses DATE columns into time.Time thanks to
// parseTime=true in the DSN.
func scanAvailabilityRows(rows *sql.Rows) ([]model.RoomAvailability, error) {
	out := make([]model.RoomAvailability, 0)
	for rows.Next() {
		var a model.RoomAvailability
		var status string
		if err := rows.Scan(
			&a.ID, &a.RoomID, &a.Date, &a.PricePerNight,
			&a.AvailableUnits, &a.TotalUnits, &status,
			&a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		a.Status = model.AvailabilityStatus(status)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// nightsBetween returns the number of nights in the half-open range
// [checkIn, checkOut).
func nightsBetween(checkIn, checkOut time.Time) int {
	n := int(checkOut.Sub(checkIn).Hours() / 24)
	if n < 0 {
		return 0
	}
	return n
}
