package events

import (
	"time"

	"github.com/google/uuid"
)

// Topics used by the rental service.
const (
	TopicBookingEvents = "rental.booking.events"
)

// Event types published on the booking topic.
const (
	BookingCreated       = "booking.created"
	BookingStatusChanged = "booking.status_changed"
)

// BookingCreatedEvent is emitted when a renter creates a pending booking.
type BookingCreatedEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	CarID      uuid.UUID `json:"car_id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	RenterID   uuid.UUID `json:"renter_id"`
	PickupDate time.Time `json:"pickup_date"`
	ReturnDate time.Time `json:"return_date"`
	PriceCents int64     `json:"price_cents"`
	OccurredAt time.Time `json:"occurred_at"`
}

// BookingStatusChangedEvent is emitted when an owner transitions a booking.
type BookingStatusChangedEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	CarID      uuid.UUID `json:"car_id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	OldStatus  string    `json:"old_status"`
	NewStatus  string    `json:"new_status"`
	OccurredAt time.Time `json:"occurred_at"`
}
