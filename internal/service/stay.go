package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

// serviceFeeRate is the flat platform fee applied on top of the
// nightly total.
var serviceFeeRate = decimal.NewFromFloat(0.10)

// StayRequest is a customer's request to reserve units of a room for
// a half-open date range [CheckIn, CheckOut).
type StayRequest struct {
	HotelID        uint64
	RoomID         uint64
	CheckIn        time.Time
	CheckOut       time.Time
	NumberOfGuests uint32
	UnitsRequested uint32
}

// ValidateStay checks the request against the room and hotel it
// targets.  today must be a date-only value (midnight).  Violations
// return a ValidationError; the caller has already resolved room and
// hotel, so missing records never reach this function.
func ValidateStay(req StayRequest, room *model.Room, hotel *model.Hotel, today time.Time) error {
	if !req.CheckOut.After(req.CheckIn) {
		return validationf("check-out date must be after check-in date")
	}
	if req.CheckIn.Before(today) {
		return validationf("check-in date must not be in the past")
	}
	if req.UnitsRequested < 1 {
		return validationf("units_requested must be at least 1")
	}
	if req.NumberOfGuests < 1 {
		return validationf("number_of_guests must be at least 1")
	}
	if room.HotelID != hotel.ID {
		return validationf("room %d does not belong to hotel %d", room.ID, hotel.ID)
	}
	if !hotel.IsActive {
		return validationf("hotel is not accepting bookings")
	}
	if !room.IsActive {
		return validationf("room is not accepting bookings")
	}
	if req.NumberOfGuests > room.MaxOccupancy {
		return validationf("number_of_guests %d exceeds room occupancy %d",
			req.NumberOfGuests, room.MaxOccupancy)
	}
	return nil
}

// PlanStay decides whether the locked availability rows satisfy the
// stay and computes the nightly total.  rows must cover the half-open
// range [checkIn, checkOut); dates with no row, or whose row is not
// in AVAILABLE status, are reported via UnavailableDatesError, and
// dates with fewer free units than requested via
// InsufficientUnitsError.  On success it returns
// Σ(price_per_night over the range) * units.
func PlanStay(rows []model.RoomAvailability, roomID uint64, checkIn, checkOut time.Time, units uint32) (decimal.Decimal, error) {
	byDate := make(map[string]model.RoomAvailability, len(rows))
	for _, row := range rows {
		byDate[row.Date.Format("2006-01-02")] = row
	}

	var missing, short []time.Time
	total := decimal.Zero
	for d := checkIn; d.Before(checkOut); d = d.AddDate(0, 0, 1) {
		row, ok := byDate[d.Format("2006-01-02")]
		if !ok || row.Status != model.AvailabilityAvailable {
			missing = append(missing, d)
			continue
		}
		if row.AvailableUnits < units {
			short = append(short, d)
			continue
		}
		total = total.Add(row.PricePerNight)
	}
	if len(missing) > 0 {
		return decimal.Zero, &repository.UnavailableDatesError{RoomID: roomID, Dates: missing}
	}
	if len(short) > 0 {
		return decimal.Zero, &repository.InsufficientUnitsError{RoomID: roomID, Requested: units, Dates: short}
	}
	return total.Mul(decimal.NewFromInt(int64(units))), nil
}

// AddServiceFee returns the amount actually charged for a nightly
// total: total * 1.10, rounded to cents.
func AddServiceFee(total decimal.Decimal) decimal.Decimal {
	return total.Add(total.Mul(serviceFeeRate)).Round(2)
}

// DateOnly truncates t to midnight in its own location.  Stay ranges
// are date-only; every comparison in the workflow goes through this.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Today returns the current date at UTC midnight.  Request dates parse
// to UTC midnight and the database stores dates in UTC, so the
// same-day check-in comparison must use UTC too; deriving today from
// the server's local zone would reject valid same-day check-ins on any
// host west of UTC.
func Today() time.Time {
	return DateOnly(time.Now().UTC())
}
