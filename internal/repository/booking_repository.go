package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// BookingRepo provides data access to the bookings table.  A booking
// row is always created inside the same transaction as the
// availability decrement and the wallet debit; status changes go
// through the ...Tx methods so the workflow controls the atomic scope.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, hotel_id, room_id, user_id, check_in_date, check_out_date,
	number_of_guests, units_requested, total_price, paid_amount,
	status, payment_status, cancellation_reason, cancelled_at, confirmed_at,
	created_at, updated_at`

// CreateTx inserts a new booking within the scope of an existing
// transaction and populates the generated ID and timestamps on the
// provided record.  The caller must commit or roll back.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings
	           (hotel_id, room_id, user_id, check_in_date, check_out_date,
	            number_of_guests, units_requested, total_price, paid_amount,
	            status, payment_status)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		b.HotelID, b.RoomID, b.UserID,
		b.CheckInDate.Format(dateLayout), b.CheckOutDate.Format(dateLayout),
		b.NumberOfGuests, b.UnitsRequested, b.TotalPrice, b.PaidAmount,
		string(b.Status), string(b.PaymentStatus),
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	// Query back the full row to populate timestamps and defaults.
	row := tx.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, b.ID)
	return scanBooking(row, b)
}

// GetByID returns a booking by its primary key, or ErrBookingNotFound.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)
	var b model.Booking
	if err := scanBooking(row, &b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// GetForUpdateTx loads a booking and row-locks it for the remainder of
// the transaction.  Confirm and cancel take this lock first so that
// two concurrent transitions on the same booking serialize and the
// loser observes the new status instead of repeating the side effects.
func (r *BookingRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Booking, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ? FOR UPDATE`, id)
	var b model.Booking
	if err := scanBooking(row, &b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// MarkConfirmedTx transitions a booking to CONFIRMED and stamps
// confirmed_at.  The caller has already validated the transition on a
// locked row.
func (r *BookingRepo) MarkConfirmedTx(ctx context.Context, tx *sql.Tx, id uint64, at time.Time) error {
	const q = `UPDATE bookings SET status = ?, confirmed_at = ? WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, string(model.BookingConfirmed), at.UTC(), id)
	return err
}

// MarkCancelledTx transitions a booking to CANCELLED, records the
// refund tier's payment status, the reason and the cancellation time.
func (r *BookingRepo) MarkCancelledTx(ctx context.Context, tx *sql.Tx, id uint64, paymentStatus model.PaymentStatus, reason string, at time.Time) error {
	const q = `UPDATE bookings
	           SET status = ?, payment_status = ?, cancellation_reason = ?, cancelled_at = ?
	           WHERE id = ?`
	_, err := tx.ExecContext(ctx, q,
		string(model.BookingCancelled), string(paymentStatus), reason, at.UTC(), id)
	return err
}

// ListByUser returns all bookings of a customer, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBookingRows(rows)
}

// ListByHotelForOwner returns all bookings of a hotel when accessed by
// its owner.  It verifies ownership first: a missing hotel yields
// ErrHotelNotFound and a foreign hotel yields ErrForbidden.
func (r *BookingRepo) ListByHotelForOwner(ctx context.Context, hotelID, ownerID uint64) ([]model.Booking, error) {
	const checkQ = `SELECT owner_id FROM hotels WHERE id = ?`
	var actualOwnerID uint64
	if err := r.db.QueryRowContext(ctx, checkQ, hotelID).Scan(&actualOwnerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHotelNotFound
		}
		return nil, err
	}
	if actualOwnerID != ownerID {
		return nil, ErrForbidden
	}
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE hotel_id = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBookingRows(rows)
}

// rowScanner lets scanBooking serve both QueryRow and Rows results.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner, b *model.Booking) error {
	var status, paymentStatus string
	var reason sql.NullString
	var cancelledAt, confirmedAt sql.NullTime
	if err := row.Scan(
		&b.ID, &b.HotelID, &b.RoomID, &b.UserID,
		&b.CheckInDate, &b.CheckOutDate,
		&b.NumberOfGuests, &b.UnitsRequested, &b.TotalPrice, &b.PaidAmount,
		&status, &paymentStatus, &reason, &cancelledAt, &confirmedAt,
		&b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return err
	}
	b.Status = model.BookingStatus(status)
	b.PaymentStatus = model.PaymentStatus(paymentStatus)
	if reason.Valid {
		v := reason.String
		b.CancellationReason = &v
	}
	if cancelledAt.Valid {
		v := cancelledAt.Time
		b.CancelledAt = &v
	}
	if confirmedAt.Valid {
		v := confirmedAt.Time
		b.ConfirmedAt = &v
	}
	return nil
}

func scanBookingRows(rows *sql.Rows) ([]model.Booking, error) {
	out := make([]model.Booking, 0)
	for rows.Next() {
		var b model.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
