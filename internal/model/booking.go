package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus enumerates the lifecycle states of a booking.  The
// machine is strictly one-way:
//
//	Pending → Confirmed → {CheckedIn → CheckedOut | Completed | NoShow}
//	Pending | Confirmed → Cancelled
//
// Cancelled, Completed, CheckedOut and NoShow are terminal; no status
// or payment mutation is permitted once a booking reaches one of them.
type BookingStatus string

const (
	BookingPending    BookingStatus = "PENDING"
	BookingConfirmed  BookingStatus = "CONFIRMED"
	BookingCancelled  BookingStatus = "CANCELLED"
	BookingCompleted  BookingStatus = "COMPLETED"
	BookingCheckedIn  BookingStatus = "CHECKED_IN"
	BookingCheckedOut BookingStatus = "CHECKED_OUT"
	BookingNoShow     BookingStatus = "NO_SHOW"
)

// Terminal reports whether the status permits no further transitions.
func (s BookingStatus) Terminal() bool {
	switch s {
	case BookingCancelled, BookingCompleted, BookingCheckedOut, BookingNoShow:
		return true
	}
	return false
}

// CanTransition reports whether moving from s to next is a legal step
// of the booking state machine.  Illegal steps must be rejected by the
// workflow before any row is written.
func (s BookingStatus) CanTransition(next BookingStatus) bool {
	switch s {
	case BookingPending:
		return next == BookingConfirmed || next == BookingCancelled
	case BookingConfirmed:
		return next == BookingCheckedIn || next == BookingCompleted ||
			next == BookingNoShow || next == BookingCancelled
	case BookingCheckedIn:
		return next == BookingCheckedOut
	}
	return false
}

// Cancellable reports whether a booking in this status may still be
// cancelled.  Only the two pre-stay states qualify.
func (s BookingStatus) Cancellable() bool {
	return s == BookingPending || s == BookingConfirmed
}

// PaymentStatus enumerates the payment state attached to a booking.
type PaymentStatus string

const (
	PaymentPending       PaymentStatus = "PENDING"
	PaymentPaid          PaymentStatus = "PAID"
	PaymentRefunded      PaymentStatus = "REFUNDED"
	PaymentPartialRefund PaymentStatus = "PARTIAL_REFUND"
	PaymentFailed        PaymentStatus = "FAILED"
)

// Booking records a customer's stay at a hotel room.  The stay range
// is half-open: [CheckInDate, CheckOutDate); the check-out date is not
// a night of the stay.  TotalPrice is the nightly sum before the
// service fee, PaidAmount is what was actually debited from the
// customer's wallet.
//
// Fields:
//  ID                 – primary key identifier.
//  HotelID            – hotel being booked.
//  RoomID             – room being booked.
//  UserID             – customer who made the booking.
//  CheckInDate        – first night of the stay (date-only).
//  CheckOutDate       – day of departure, exclusive (date-only).
//  NumberOfGuests     – guests staying per the request.
//  UnitsRequested     – room units reserved per night (>= 1).
//  TotalPrice         – nightly total before fees.
//  PaidAmount         – amount debited (nightly total + service fee).
//  Status             – booking lifecycle status.
//  PaymentStatus      – payment state of the booking.
//  CancellationReason – reason supplied on cancellation (nullable).
//  CancelledAt        – when the booking was cancelled (nullable).
//  ConfirmedAt        – when the owner confirmed (nullable).
//  CreatedAt          – creation timestamp.
//  UpdatedAt          – last update timestamp.
type Booking struct {
	ID                 uint64          // bookings.id
	HotelID            uint64          // bookings.hotel_id
	RoomID             uint64          // bookings.room_id
	UserID             uint64          // bookings.user_id
	CheckInDate        time.Time       // bookings.check_in_date (DATE)
	CheckOutDate       time.Time       // bookings.check_out_date (DATE)
	NumberOfGuests     uint32          // bookings.number_of_guests
	UnitsRequested     uint32          // bookings.units_requested
	TotalPrice         decimal.Decimal // bookings.total_price
	PaidAmount         decimal.Decimal // bookings.paid_amount
	Status             BookingStatus   // bookings.status
	PaymentStatus      PaymentStatus   // bookings.payment_status
	CancellationReason *string         // bookings.cancellation_reason (nullable)
	CancelledAt        *time.Time      // bookings.cancelled_at (nullable)
	ConfirmedAt        *time.Time      // bookings.confirmed_at (nullable)
	CreatedAt          time.Time       // bookings.created_at
	UpdatedAt          time.Time       // bookings.updated_at
}

// Nights returns the number of nights in the stay range.
func (b Booking) Nights() int {
	return int(b.CheckOutDate.Sub(b.CheckInDate).Hours() / 24)
}
