package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveAvailabilityStatus(t *testing.T) {
	assert.Equal(t, AvailabilityAvailable, DeriveAvailabilityStatus(3))
	assert.Equal(t, AvailabilityAvailable, DeriveAvailabilityStatus(1))
	assert.Equal(t, AvailabilityBooked, DeriveAvailabilityStatus(0))
}

func TestAvailabilityStatusValid(t *testing.T) {
	for _, s := range []AvailabilityStatus{
		AvailabilityAvailable, AvailabilityBooked, AvailabilityMaintenance, AvailabilityBlocked,
	} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, AvailabilityStatus("SOLD_OUT").Valid())
	assert.False(t, AvailabilityStatus("").Valid())
}

func TestTransactionTypeValid(t *testing.T) {
	for _, ty := range []TransactionType{TxTopup, TxBookingPayment, TxRefund, TxAdminAdjustment} {
		assert.True(t, ty.Valid(), string(ty))
	}
	assert.False(t, TransactionType("WITHDRAWAL").Valid())
}
