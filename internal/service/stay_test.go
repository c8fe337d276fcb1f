package service

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

func testHotel() *model.Hotel {
	return &model.Hotel{ID: 1, OwnerID: 9, Name: "Seaside", City: "Lisbon", IsActive: true}
}

func testRoom() *model.Room {
	return &model.Room{ID: 2, HotelID: 1, Name: "Deluxe", MaxOccupancy: 3, TotalUnits: 5, IsActive: true}
}

func validStay() StayRequest {
	return StayRequest{
		HotelID:        1,
		RoomID:         2,
		CheckIn:        date(2026, time.June, 10),
		CheckOut:       date(2026, time.June, 13),
		NumberOfGuests: 2,
		UnitsRequested: 1,
	}
}

func TestValidateStay(t *testing.T) {
	today := date(2026, time.June, 1)

	cases := []struct {
		name    string
		mutate  func(*StayRequest, *model.Room, *model.Hotel)
		wantErr string
	}{
		{"valid", func(*StayRequest, *model.Room, *model.Hotel) {}, ""},
		{"check-out before check-in", func(r *StayRequest, _ *model.Room, _ *model.Hotel) {
			r.CheckOut = r.CheckIn.AddDate(0, 0, -1)
		}, "check-out date must be after check-in date"},
		{"zero-night stay", func(r *StayRequest, _ *model.Room, _ *model.Hotel) {
			r.CheckOut = r.CheckIn
		}, "check-out date must be after check-in date"},
		{"check-in in the past", func(r *StayRequest, _ *model.Room, _ *model.Hotel) {
			r.CheckIn = date(2026, time.May, 30)
			r.CheckOut = date(2026, time.June, 2)
		}, "check-in date must not be in the past"},
		{"zero units", func(r *StayRequest, _ *model.Room, _ *model.Hotel) {
			r.UnitsRequested = 0
		}, "units_requested must be at least 1"},
		{"zero guests", func(r *StayRequest, _ *model.Room, _ *model.Hotel) {
			r.NumberOfGuests = 0
		}, "number_of_guests must be at least 1"},
		{"room in different hotel", func(_ *StayRequest, rm *model.Room, _ *model.Hotel) {
			rm.HotelID = 42
		}, "does not belong to hotel"},
		{"inactive hotel", func(_ *StayRequest, _ *model.Room, h *model.Hotel) {
			h.IsActive = false
		}, "hotel is not accepting bookings"},
		{"inactive room", func(_ *StayRequest, rm *model.Room, _ *model.Hotel) {
			rm.IsActive = false
		}, "room is not accepting bookings"},
		{"too many guests", func(r *StayRequest, _ *model.Room, _ *model.Hotel) {
			r.NumberOfGuests = 4
		}, "exceeds room occupancy"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req, room, hotel := validStay(), testRoom(), testHotel()
			tc.mutate(&req, room, hotel)

			err := ValidateStay(req, room, hotel, today)

			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestValidateStay_CheckInTodayIsAllowed(t *testing.T) {
	req := validStay()
	req.CheckIn = date(2026, time.June, 1)
	req.CheckOut = date(2026, time.June, 3)

	err := ValidateStay(req, testRoom(), testHotel(), date(2026, time.June, 1))

	assert.NoError(t, err)
}

func availRow(d time.Time, price float64, units uint32, status model.AvailabilityStatus) model.RoomAvailability {
	return model.RoomAvailability{
		RoomID:         2,
		Date:           d,
		PricePerNight:  decimal.NewFromFloat(price),
		AvailableUnits: units,
		TotalUnits:     5,
		Status:         status,
	}
}

func TestPlanStay_TotalOverRange(t *testing.T) {
	// GIVEN three open nights at varying prices
	rows := []model.RoomAvailability{
		availRow(date(2026, time.June, 10), 100, 3, model.AvailabilityAvailable),
		availRow(date(2026, time.June, 11), 120, 3, model.AvailabilityAvailable),
		availRow(date(2026, time.June, 12), 80, 3, model.AvailabilityAvailable),
	}

	// WHEN two units are planned over the half-open range
	total, err := PlanStay(rows, 2, date(2026, time.June, 10), date(2026, time.June, 13), 2)

	// THEN the total is the nightly sum times the units
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(600)), "got %s", total)
}

func TestPlanStay_MissingDate(t *testing.T) {
	// June 11 has no row at all.
	rows := []model.RoomAvailability{
		availRow(date(2026, time.June, 10), 100, 3, model.AvailabilityAvailable),
		availRow(date(2026, time.June, 12), 100, 3, model.AvailabilityAvailable),
	}

	_, err := PlanStay(rows, 2, date(2026, time.June, 10), date(2026, time.June, 13), 1)

	require.Error(t, err)
	var uErr *repository.UnavailableDatesError
	require.True(t, errors.As(err, &uErr))
	require.Len(t, uErr.Dates, 1)
	assert.Equal(t, date(2026, time.June, 11), uErr.Dates[0])
	assert.True(t, errors.Is(err, repository.ErrUnavailableDates))
}

func TestPlanStay_BlockedDateIsUnavailable(t *testing.T) {
	rows := []model.RoomAvailability{
		availRow(date(2026, time.June, 10), 100, 3, model.AvailabilityAvailable),
		availRow(date(2026, time.June, 11), 100, 3, model.AvailabilityMaintenance),
	}

	_, err := PlanStay(rows, 2, date(2026, time.June, 10), date(2026, time.June, 12), 1)

	var uErr *repository.UnavailableDatesError
	require.True(t, errors.As(err, &uErr))
	assert.Equal(t, []time.Time{date(2026, time.June, 11)}, uErr.Dates)
}

func TestPlanStay_InsufficientUnits(t *testing.T) {
	rows := []model.RoomAvailability{
		availRow(date(2026, time.June, 10), 100, 3, model.AvailabilityAvailable),
		availRow(date(2026, time.June, 11), 100, 1, model.AvailabilityAvailable),
	}

	_, err := PlanStay(rows, 2, date(2026, time.June, 10), date(2026, time.June, 12), 2)

	var iErr *repository.InsufficientUnitsError
	require.True(t, errors.As(err, &iErr))
	assert.Equal(t, uint32(2), iErr.Requested)
	assert.Equal(t, []time.Time{date(2026, time.June, 11)}, iErr.Dates)
}

func TestPlanStay_ExcludesCheckOutDate(t *testing.T) {
	// Only the check-in night is charged; no row is needed for the
	// check-out date.
	rows := []model.RoomAvailability{
		availRow(date(2026, time.June, 10), 100, 1, model.AvailabilityAvailable),
	}

	total, err := PlanStay(rows, 2, date(2026, time.June, 10), date(2026, time.June, 11), 1)

	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(100)))
}

func TestAddServiceFee(t *testing.T) {
	cases := []struct {
		total string
		want  string
	}{
		{"100", "110.00"},
		{"0", "0.00"},
		{"99.99", "109.99"}, // 109.989 rounds to 109.99
		{"33.33", "36.66"},  // 36.663 rounds down
	}
	for _, tc := range cases {
		total, err := decimal.NewFromString(tc.total)
		require.NoError(t, err)
		assert.Equal(t, tc.want, AddServiceFee(total).StringFixed(2), "total %s", tc.total)
	}
}

func TestDateOnly(t *testing.T) {
	ts := time.Date(2026, time.June, 10, 17, 45, 12, 999, time.UTC)
	assert.Equal(t, date(2026, time.June, 10), DateOnly(ts))
}

func TestToday_IsUTCMidnight(t *testing.T) {
	today := Today()

	assert.Equal(t, time.UTC, today.Location())
	assert.Equal(t, 0, today.Hour())
	assert.Equal(t, 0, today.Minute())
}

func TestValidateStay_SameDayCheckInRegardlessOfServerZone(t *testing.T) {
	// Request dates parse to UTC midnight; the workflow must compare
	// them against a UTC today.  A local-zone today on a host west of
	// UTC sits hours after the parsed midnight and would wrongly
	// reject a check-in dated today.
	now := time.Now().UTC()
	req := validStay()
	checkIn, err := time.Parse("2006-01-02", now.Format("2006-01-02"))
	require.NoError(t, err)
	req.CheckIn = checkIn
	req.CheckOut = checkIn.AddDate(0, 0, 2)

	assert.NoError(t, ValidateStay(req, testRoom(), testHotel(), DateOnly(now)))
}
