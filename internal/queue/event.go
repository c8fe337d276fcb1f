// Package queue defines the notification payloads exchanged over the
// message broker and the background consumer that drains them.
// Everything here is fire-and-forget from the core's point of view:
// events are published strictly after the owning database transaction
// commits, and a publish failure is logged, never surfaced.
package queue

import "time"

// Notification types understood by downstream consumers.
const (
	TypeBookingCreated   = "booking.created"
	TypeBookingConfirmed = "booking.confirmed"
	TypeBookingCancelled = "booking.cancelled"
	TypeTopupResolved    = "topup.resolved"
)

// Notification is the envelope delivered to a single user.  Metadata
// carries event-specific detail (booking id, refund amount, ...) so
// consumers can render a message without querying the primary
// database.
type Notification struct {
	EventID   string            `json:"event_id"`
	UserID    uint64            `json:"user_id"`
	Type      string            `json:"type"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt string            `json:"created_at"`
}

// Now renders a timestamp the way notification payloads carry them.
func Now() string { return time.Now().UTC().Format(time.RFC3339) }
