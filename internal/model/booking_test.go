package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatusCanTransition(t *testing.T) {
	cases := []struct {
		from, to BookingStatus
		want     bool
	}{
		{BookingPending, BookingConfirmed, true},
		{BookingPending, BookingCancelled, true},
		{BookingPending, BookingCheckedIn, false},
		{BookingPending, BookingCompleted, false},
		{BookingConfirmed, BookingCheckedIn, true},
		{BookingConfirmed, BookingCompleted, true},
		{BookingConfirmed, BookingNoShow, true},
		{BookingConfirmed, BookingCancelled, true},
		{BookingConfirmed, BookingPending, false},
		{BookingCheckedIn, BookingCheckedOut, true},
		{BookingCheckedIn, BookingCancelled, false},
		{BookingCancelled, BookingConfirmed, false},
		{BookingCompleted, BookingCancelled, false},
		{BookingCheckedOut, BookingCheckedIn, false},
		{BookingNoShow, BookingConfirmed, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.from.CanTransition(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestBookingStatusTerminal(t *testing.T) {
	assert.False(t, BookingPending.Terminal())
	assert.False(t, BookingConfirmed.Terminal())
	assert.False(t, BookingCheckedIn.Terminal())
	assert.True(t, BookingCancelled.Terminal())
	assert.True(t, BookingCompleted.Terminal())
	assert.True(t, BookingCheckedOut.Terminal())
	assert.True(t, BookingNoShow.Terminal())
}

func TestBookingStatusCancellable(t *testing.T) {
	assert.True(t, BookingPending.Cancellable())
	assert.True(t, BookingConfirmed.Cancellable())
	assert.False(t, BookingCheckedIn.Cancellable())
	assert.False(t, BookingCancelled.Cancellable())
	assert.False(t, BookingCompleted.Cancellable())
}

func TestBookingNights(t *testing.T) {
	b := Booking{
		CheckInDate:  time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC),
		CheckOutDate: time.Date(2026, time.June, 13, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, 3, b.Nights())
}
