// Package repository defines the error values shared across the data
// access layer.  Sentinel values let higher layers distinguish failure
// scenarios with errors.Is, while the structured types below carry
// enough detail for the caller to act (e.g. the exact dates that made
// a stay unbookable).  Handlers translate these into HTTP responses;
// services translate transient lock errors into bounded retries.
package repository

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
)

// Sentinel errors.  Use with errors.Is().
var (
	// ErrForbidden is returned when the caller attempts an operation
	// on a resource they do not own.  Handlers translate this into
	// an HTTP 403 response.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict is returned when an operation cannot proceed due to
	// conflicting state: an availability row that already exists, or
	// a transaction that lost the race after exhausting its retries.
	// Handlers translate this into an HTTP 409 response.
	ErrConflict = errors.New("conflict")

	// ErrHotelNotFound is returned when a referenced hotel does not exist.
	ErrHotelNotFound = errors.New("hotel not found")

	// ErrRoomNotFound is returned when a referenced room does not exist.
	ErrRoomNotFound = errors.New("room not found")

	// ErrBookingNotFound is returned when a referenced booking does not exist.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrUserNotFound is returned when a referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrTransactionNotFound is returned when a referenced ledger
	// entry does not exist.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrUnavailableDates is the sentinel wrapped by
	// UnavailableDatesError; some dates of a stay are not bookable.
	ErrUnavailableDates = errors.New("unavailable dates")

	// ErrInsufficientUnits is the sentinel wrapped by
	// InsufficientUnitsError; some dates lack enough free units.
	ErrInsufficientUnits = errors.New("insufficient units")

	// ErrInsufficientBalance is the sentinel wrapped by
	// InsufficientBalanceError; a debit would take the wallet below zero.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrAlreadyProcessed is returned when a topup request that has
	// already been approved or rejected is processed again.
	ErrAlreadyProcessed = errors.New("topup already processed")
)

// UnavailableDatesError reports the dates of a stay range that have no
// bookable availability row (missing, or not in AVAILABLE status).
type UnavailableDatesError struct {
	RoomID uint64
	Dates  []time.Time
}

func (e *UnavailableDatesError) Error() string {
	return fmt.Sprintf("room %d has no availability on %s", e.RoomID, formatDates(e.Dates))
}

func (e *UnavailableDatesError) Unwrap() error { return ErrUnavailableDates }

// InsufficientUnitsError reports the dates whose remaining units are
// below what the stay requested.
type InsufficientUnitsError struct {
	RoomID    uint64
	Requested uint32
	Dates     []time.Time
}

func (e *InsufficientUnitsError) Error() string {
	return fmt.Sprintf("room %d has fewer than %d free units on %s",
		e.RoomID, e.Requested, formatDates(e.Dates))
}

func (e *InsufficientUnitsError) Unwrap() error { return ErrInsufficientUnits }

// InsufficientBalanceError reports a wallet debit that would drive the
// balance negative.
type InsufficientBalanceError struct {
	UserID    uint64
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("user %d balance %s cannot cover %s",
		e.UserID, e.Available.StringFixed(2), e.Requested.StringFixed(2))
}

func (e *InsufficientBalanceError) Unwrap() error { return ErrInsufficientBalance }

// IsNotFound reports whether err indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrHotelNotFound) ||
		errors.Is(err, ErrRoomNotFound) ||
		errors.Is(err, ErrBookingNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrTransactionNotFound)
}

// MySQL server error numbers relevant to the workflow.
const (
	mysqlErrDuplicateEntry  = 1062
	mysqlErrLockWaitTimeout = 1205
	mysqlErrDeadlock        = 1213
)

// IsDuplicateEntry reports whether err is a MySQL duplicate-key error,
// e.g. inserting an availability row for a (room, date) pair that
// already exists.
func IsDuplicateEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlErrDuplicateEntry
}

// IsRetryable reports whether err is a transient lock error that may
// succeed on retry: an InnoDB deadlock or a lock wait timeout.  The
// workflow retries these a small fixed number of times before
// surfacing ErrConflict.
func IsRetryable(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == mysqlErrDeadlock || me.Number == mysqlErrLockWaitTimeout
	}
	return false
}

func formatDates(dates []time.Time) string {
	parts := make([]string, 0, len(dates))
	for _, d := range dates {
		parts = append(parts, d.Format("2006-01-02"))
	}
	return strings.Join(parts, ", ")
}
