package booking

import (
	"context"

	"github.com/google/uuid"
)

// BookingRepository defines the persistence contract for booking aggregates.
type BookingRepository interface {
	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByRenterID retrieves bookings created by a renter, newest first, with pagination.
	FindByRenterID(ctx context.Context, renterID uuid.UUID, page, limit int) ([]*Booking, int64, error)

	// FindByOwnerID retrieves bookings against an owner's cars, newest first, with pagination.
	FindByOwnerID(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]*Booking, int64, error)

	// CountConfirmedOverlapping counts confirmed bookings on the car whose
	// period overlaps the given one. excludeID is skipped when non-nil so a
	// booking being confirmed does not conflict with itself.
	CountConfirmedOverlapping(ctx context.Context, carID uuid.UUID, period RentalPeriod, excludeID uuid.UUID) (int64, error)

	// CreateIfAvailable persists a new booking after re-checking the
	// availability predicate inside the same transaction, serialized per car.
	// Returns a conflict error when a confirmed booking overlaps the period.
	CreateIfAvailable(ctx context.Context, booking *Booking) error

	// ConfirmIfAvailable persists a transition to confirmed after re-checking
	// the availability predicate inside the same transaction, serialized per
	// car like CreateIfAvailable. Returns a conflict error when another
	// confirmed booking overlaps the period.
	ConfirmIfAvailable(ctx context.Context, booking *Booking) error

	// Update persists changes to an existing booking with optimistic locking.
	Update(ctx context.Context, booking *Booking) error

	// CountByOwner returns the total number of bookings against an owner's cars.
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)

	// CountByOwnerAndStatus returns the number of an owner's bookings in the given status.
	CountByOwnerAndStatus(ctx context.Context, ownerID uuid.UUID, status BookingStatus) (int64, error)

	// SumConfirmedPriceByOwner sums the price of all confirmed bookings for an owner.
	SumConfirmedPriceByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)

	// FindRecentByOwner retrieves the owner's most recently created bookings.
	FindRecentByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]*Booking, error)
}
