package model

import "time"

// Room represents a bookable room type within a hotel.  A room row
// describes the type (name, occupancy, how many physical units of it
// exist); per-date pricing and remaining inventory live in the
// room_availability table, one row per calendar date.
//
// Fields:
//  ID           – primary key identifier.
//  HotelID      – hotel this room belongs to.
//  Name         – room name, unique per hotel (e.g. "Deluxe Twin").
//  MaxOccupancy – maximum number of guests per unit.
//  TotalUnits   – default number of physical units of this room type.
//  IsActive     – inactive rooms cannot receive new availability.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Room struct {
	ID           uint64    // rooms.id
	HotelID      uint64    // rooms.hotel_id
	Name         string    // rooms.name
	MaxOccupancy uint32    // rooms.max_occupancy
	TotalUnits   uint32    // rooms.total_units
	IsActive     bool      // rooms.is_active
	CreatedAt    time.Time // rooms.created_at
	UpdatedAt    time.Time // rooms.updated_at
}
