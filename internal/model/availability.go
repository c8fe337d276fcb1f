package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AvailabilityStatus enumerates the bookable state of a single
// (room, date) inventory row.  The value is stored as a string in the
// database but handled as a closed set in code; repositories only
// accept the constants below.
type AvailabilityStatus string

const (
	// AvailabilityAvailable marks a date open for reservation.
	AvailabilityAvailable AvailabilityStatus = "AVAILABLE"
	// AvailabilityBooked marks a date whose units are exhausted.
	// The status is derived from inventory: a reservation flips it
	// only when available_units reaches zero, and a restore flips it
	// back as soon as units are positive again.
	AvailabilityBooked AvailabilityStatus = "BOOKED"
	// AvailabilityMaintenance blocks a date for maintenance work.
	AvailabilityMaintenance AvailabilityStatus = "MAINTENANCE"
	// AvailabilityBlocked blocks a date for any other owner reason.
	AvailabilityBlocked AvailabilityStatus = "BLOCKED"
)

// Valid reports whether s is one of the defined availability states.
func (s AvailabilityStatus) Valid() bool {
	switch s {
	case AvailabilityAvailable, AvailabilityBooked, AvailabilityMaintenance, AvailabilityBlocked:
		return true
	}
	return false
}

// DeriveAvailabilityStatus returns the inventory-derived status for a
// row that is not under an owner block: AVAILABLE while units remain,
// BOOKED once they are exhausted.  Maintenance and Blocked rows keep
// their status regardless of unit counts.
func DeriveAvailabilityStatus(availableUnits uint32) AvailabilityStatus {
	if availableUnits > 0 {
		return AvailabilityAvailable
	}
	return AvailabilityBooked
}

// RoomAvailability is the per-room, per-date inventory row.  There is
// at most one row per (room_id, date) pair; the date is stored as a
// DATE column and handled date-only (UTC midnight) in code.
//
// Invariant: 0 <= AvailableUnits <= TotalUnits.  Rows are created by
// hotel management, mutated only by the reservation workflow during
// reserve/restore, and never deleted except together with the room.
//
// Fields:
//  ID             – primary key identifier.
//  RoomID         – room this inventory row belongs to.
//  Date           – calendar date (date-only).
//  PricePerNight  – price for one unit for this night.
//  AvailableUnits – units still bookable on this date.
//  TotalUnits     – total units that exist on this date.
//  Status         – availability status, see AvailabilityStatus.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type RoomAvailability struct {
	ID             uint64             // room_availability.id
	RoomID         uint64             // room_availability.room_id
	Date           time.Time          // room_availability.date (DATE)
	PricePerNight  decimal.Decimal    // room_availability.price_per_night
	AvailableUnits uint32             // room_availability.available_units
	TotalUnits     uint32             // room_availability.total_units
	Status         AvailabilityStatus // room_availability.status
	CreatedAt      time.Time          // room_availability.created_at
	UpdatedAt      time.Time          // room_availability.updated_at
}
