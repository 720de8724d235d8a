package booking

import (
	"time"

	"github.com/gearbox-rentals/service-rental/internal/domain"
	"github.com/google/uuid"
)

// Booking is the aggregate root for the booking domain. The owner reference
// is a snapshot of the car's owner at creation time and is never re-synced;
// it exists so owner-side queries and the ownership guard do not need a
// join back to the car.
type Booking struct {
	id         uuid.UUID
	carID      uuid.UUID
	ownerID    uuid.UUID
	renterID   uuid.UUID
	period     RentalPeriod
	priceCents int64
	status     BookingStatus

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewBooking creates a new Booking aggregate with status=pending.
// The price is computed by the caller and immutable afterwards.
func NewBooking(carID, ownerID, renterID uuid.UUID, period RentalPeriod, priceCents int64) (*Booking, error) {
	if carID == uuid.Nil {
		return nil, domain.NewValidationError("car ID is required")
	}
	if ownerID == uuid.Nil {
		return nil, domain.NewValidationError("owner ID is required")
	}
	if renterID == uuid.Nil {
		return nil, domain.NewValidationError("renter ID is required")
	}
	if priceCents <= 0 {
		return nil, domain.NewValidationError("price must be positive")
	}

	now := time.Now().UTC()
	return &Booking{
		id:         uuid.New(),
		carID:      carID,
		ownerID:    ownerID,
		renterID:   renterID,
		period:     period,
		priceCents: priceCents,
		status:     StatusPending,
		version:    1,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id, carID, ownerID, renterID uuid.UUID,
	period RentalPeriod,
	priceCents int64,
	status BookingStatus,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:         id,
		carID:      carID,
		ownerID:    ownerID,
		renterID:   renterID,
		period:     period,
		priceCents: priceCents,
		status:     status,
		version:    version,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// CarID returns the booked car's identifier.
func (b *Booking) CarID() uuid.UUID { return b.carID }

// OwnerID returns the car owner's user ID as snapshotted at creation.
func (b *Booking) OwnerID() uuid.UUID { return b.ownerID }

// RenterID returns the renter's user ID.
func (b *Booking) RenterID() uuid.UUID { return b.renterID }

// Period returns the rental period.
func (b *Booking) Period() RentalPeriod { return b.period }

// PriceCents returns the total price in cents.
func (b *Booking) PriceCents() int64 { return b.priceCents }

// Status returns the current booking status.
func (b *Booking) Status() BookingStatus { return b.status }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// --- Behavior ---

// TransitionTo moves the booking to the target status, enforcing the
// transition table.
func (b *Booking) TransitionTo(target BookingStatus) error {
	if !b.status.CanTransitionTo(target) {
		return domain.NewInvalidStateError(string(b.status), string(target))
	}
	b.status = target
	b.updatedAt = time.Now().UTC()
	return nil
}

// Confirm transitions the booking from pending to confirmed.
func (b *Booking) Confirm() error {
	return b.TransitionTo(StatusConfirmed)
}

// Cancel transitions the booking to cancelled if it is not already terminal.
func (b *Booking) Cancel() error {
	return b.TransitionTo(StatusCancelled)
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
