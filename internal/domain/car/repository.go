package car

import (
	"context"

	"github.com/google/uuid"
)

// CarRepository defines persistence operations for car listings.
type CarRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Car, error)
	FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*Car, error)
	// FindAvailableByLocation returns listings at the location whose owner
	// switch is on; booking-level availability is checked separately.
	FindAvailableByLocation(ctx context.Context, location string) ([]*Car, error)
	FindAllAvailable(ctx context.Context) ([]*Car, error)
	CountByOwnerID(ctx context.Context, ownerID uuid.UUID) (int64, error)
	Save(ctx context.Context, car *Car) error
	Update(ctx context.Context, car *Car) error
	// Delete removes the listing. Bookings referencing the car are kept;
	// deletion does not cascade.
	Delete(ctx context.Context, id uuid.UUID) error
}
