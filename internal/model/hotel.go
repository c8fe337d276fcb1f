package model

import "time"

// Hotel represents a property listed on the marketplace.  Hotels
// belong to an owner and contain rooms.  Bookings always reference a
// hotel and one of its rooms; the pair is validated on every stay
// request so a room can never be booked through a foreign hotel.
//
// Fields:
//  ID          – primary key identifier.
//  OwnerID     – user ID of the hotel owner.
//  Name        – hotel name, unique per owner.
//  City        – city the hotel is located in.
//  Address     – optional street address.
//  Description – optional free-form description.
//  IsActive    – inactive hotels cannot receive new bookings.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Hotel struct {
	ID          uint64    // hotels.id
	OwnerID     uint64    // hotels.owner_id
	Name        string    // hotels.name
	City        string    // hotels.city
	Address     *string   // hotels.address (nullable)
	Description *string   // hotels.description (nullable)
	IsActive    bool      // hotels.is_active
	CreatedAt   time.Time // hotels.created_at
	UpdatedAt   time.Time // hotels.updated_at
}
