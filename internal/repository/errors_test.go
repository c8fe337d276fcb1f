package repository

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnavailableDatesErrorUnwraps(t *testing.T) {
	err := fmt.Errorf("create booking: %w", &UnavailableDatesError{
		RoomID: 7,
		Dates: []time.Time{
			time.Date(2026, time.June, 11, 0, 0, 0, 0, time.UTC),
			time.Date(2026, time.June, 12, 0, 0, 0, 0, time.UTC),
		},
	})

	assert.True(t, errors.Is(err, ErrUnavailableDates))
	var uErr *UnavailableDatesError
	require.True(t, errors.As(err, &uErr))
	assert.Equal(t, uint64(7), uErr.RoomID)
	assert.Equal(t, "room 7 has no availability on 2026-06-11, 2026-06-12", uErr.Error())
}

func TestInsufficientUnitsErrorUnwraps(t *testing.T) {
	err := &InsufficientUnitsError{
		RoomID:    7,
		Requested: 3,
		Dates:     []time.Time{time.Date(2026, time.June, 11, 0, 0, 0, 0, time.UTC)},
	}

	assert.True(t, errors.Is(err, ErrInsufficientUnits))
	assert.Equal(t, "room 7 has fewer than 3 free units on 2026-06-11", err.Error())
}

func TestInsufficientBalanceErrorUnwraps(t *testing.T) {
	err := &InsufficientBalanceError{
		UserID:    4,
		Available: decimal.NewFromFloat(12.5),
		Requested: decimal.NewFromInt(110),
	}

	assert.True(t, errors.Is(err, ErrInsufficientBalance))
	assert.Equal(t, "user 4 balance 12.50 cannot cover 110.00", err.Error())
}

func TestIsNotFound(t *testing.T) {
	for _, err := range []error{
		ErrHotelNotFound, ErrRoomNotFound, ErrBookingNotFound, ErrUserNotFound, ErrTransactionNotFound,
	} {
		assert.True(t, IsNotFound(err), err.Error())
		assert.True(t, IsNotFound(fmt.Errorf("wrapped: %w", err)))
	}
	assert.False(t, IsNotFound(ErrConflict))
	assert.False(t, IsNotFound(errors.New("boom")))
}

func TestIsDuplicateEntry(t *testing.T) {
	assert.True(t, IsDuplicateEntry(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}))
	assert.True(t, IsDuplicateEntry(fmt.Errorf("insert: %w", &mysql.MySQLError{Number: 1062})))
	assert.False(t, IsDuplicateEntry(&mysql.MySQLError{Number: 1213}))
	assert.False(t, IsDuplicateEntry(errors.New("duplicate")))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&mysql.MySQLError{Number: 1213, Message: "Deadlock found"}))
	assert.True(t, IsRetryable(&mysql.MySQLError{Number: 1205, Message: "Lock wait timeout"}))
	assert.False(t, IsRetryable(&mysql.MySQLError{Number: 1062}))
	assert.False(t, IsRetryable(errors.New("deadlock")))
	assert.False(t, IsRetryable(nil))
}
