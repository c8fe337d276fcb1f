package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// Check-in opens at 14:00 local time on the check-in date.  Refund
// tiers are keyed on the hours remaining until that instant.
const checkInHour = 14

// fullRefundCutoffHours is the boundary between the full-refund and
// half-refund tiers.
const fullRefundCutoffHours = 24.0

var halfRate = decimal.NewFromFloat(0.5)

// RefundQuote is the outcome of applying the cancellation policy to a
// paid booking at a given moment.
type RefundQuote struct {
	// Amount is what gets credited back to the wallet.
	Amount decimal.Decimal
	// PaymentStatus is the tier tag recorded on the booking:
	// REFUNDED for a full refund, PARTIAL_REFUND for the 50% tier.
	PaymentStatus model.PaymentStatus
	// HoursToCheckIn is the signed distance to the check-in instant;
	// negative once check-in has passed.
	HoursToCheckIn float64
}

// QuoteRefund applies the time-based refund policy.  It is a pure
// function of the paid amount, the check-in date and the cancellation
// instant:
//
//	>= 24h before check-in (14:00): full refund, REFUNDED
//	<  24h before check-in:         50% refund, PARTIAL_REFUND
//
// There is deliberately no special case for cancelling after the
// check-in instant has already passed; it resolves to the 50% tier.
func QuoteRefund(paidAmount decimal.Decimal, checkInDate time.Time, now time.Time) RefundQuote {
	instant := CheckInInstant(checkInDate)
	hours := instant.Sub(now).Hours()
	if hours < fullRefundCutoffHours {
		return RefundQuote{
			Amount:         paidAmount.Mul(halfRate).Round(2),
			PaymentStatus:  model.PaymentPartialRefund,
			HoursToCheckIn: hours,
		}
	}
	return RefundQuote{
		Amount:         paidAmount,
		PaymentStatus:  model.PaymentRefunded,
		HoursToCheckIn: hours,
	}
}

// CheckInInstant returns 14:00 local time on the given check-in date.
func CheckInInstant(checkInDate time.Time) time.Time {
	y, m, d := checkInDate.Date()
	return time.Date(y, m, d, checkInHour, 0, 0, 0, checkInDate.Location())
}
