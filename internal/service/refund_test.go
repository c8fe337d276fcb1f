package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestQuoteRefund_FullRefundWellBeforeCheckIn(t *testing.T) {
	// GIVEN a paid booking checking in three days from now
	paid := decimal.NewFromInt(100)
	checkIn := date(2026, time.March, 10)
	now := time.Date(2026, time.March, 7, 14, 0, 0, 0, time.UTC)

	// WHEN the refund is quoted
	q := QuoteRefund(paid, checkIn, now)

	// THEN the full amount comes back and the booking is REFUNDED
	assert.True(t, q.Amount.Equal(decimal.NewFromInt(100)), "got %s", q.Amount)
	assert.Equal(t, model.PaymentRefunded, q.PaymentStatus)
	assert.InDelta(t, 72.0, q.HoursToCheckIn, 0.01)
}

func TestQuoteRefund_ExactlyAtCutoff(t *testing.T) {
	// 24h before 14:00 on the check-in date is still a full refund.
	paid := decimal.NewFromInt(200)
	checkIn := date(2026, time.March, 10)
	now := time.Date(2026, time.March, 9, 14, 0, 0, 0, time.UTC)

	q := QuoteRefund(paid, checkIn, now)

	assert.True(t, q.Amount.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, model.PaymentRefunded, q.PaymentStatus)
}

func TestQuoteRefund_HalfRefundInsideCutoff(t *testing.T) {
	// Ten hours before check-in only half comes back.
	paid := decimal.NewFromInt(100)
	checkIn := date(2026, time.March, 10)
	now := time.Date(2026, time.March, 10, 4, 0, 0, 0, time.UTC)

	q := QuoteRefund(paid, checkIn, now)

	assert.True(t, q.Amount.Equal(decimal.NewFromInt(50)), "got %s", q.Amount)
	assert.Equal(t, model.PaymentPartialRefund, q.PaymentStatus)
}

func TestQuoteRefund_AfterCheckInStaysHalf(t *testing.T) {
	// Cancelling after the check-in instant resolves to the 50% tier,
	// not zero.
	paid := decimal.NewFromFloat(89.99)
	checkIn := date(2026, time.March, 10)
	now := time.Date(2026, time.March, 11, 9, 0, 0, 0, time.UTC)

	q := QuoteRefund(paid, checkIn, now)

	assert.True(t, q.Amount.Equal(decimal.NewFromFloat(45.00)), "got %s", q.Amount)
	assert.Equal(t, model.PaymentPartialRefund, q.PaymentStatus)
	assert.Negative(t, q.HoursToCheckIn)
}

func TestQuoteRefund_HalfRefundRoundsToCents(t *testing.T) {
	paid := decimal.NewFromFloat(99.99)
	checkIn := date(2026, time.March, 10)
	now := time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC)

	q := QuoteRefund(paid, checkIn, now)

	// 49.995 rounds to 50.00
	assert.Equal(t, "50.00", q.Amount.StringFixed(2))
}

func TestCheckInInstant(t *testing.T) {
	instant := CheckInInstant(date(2026, time.March, 10))
	require.Equal(t, time.Date(2026, time.March, 10, 14, 0, 0, 0, time.UTC), instant)
}
