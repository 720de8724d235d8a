package car

import (
	"time"

	"github.com/gearbox-rentals/service-rental/internal/domain"
	"github.com/google/uuid"
)

// Car is the aggregate root for a rentable car listing. The isAvailable
// flag is the owner's master switch and is independent of booking state;
// a car with the switch off never appears in searches even with an empty
// booking calendar.
type Car struct {
	id               uuid.UUID
	ownerID          uuid.UUID
	brand            string
	model            string
	year             int
	category         string
	seatingCapacity  int
	fuelType         string
	transmission     string
	pricePerDayCents int64
	location         string
	description      string
	imageURL         string
	isAvailable      bool
	createdAt        time.Time
	updatedAt        time.Time
}

// NewCar creates a new car listing with validated fields. Listings start
// available.
func NewCar(
	ownerID uuid.UUID,
	brand, model string,
	year int,
	category string,
	seatingCapacity int,
	fuelType, transmission string,
	pricePerDayCents int64,
	location, description, imageURL string,
) (*Car, error) {
	if ownerID == uuid.Nil {
		return nil, domain.NewValidationError("owner ID is required")
	}
	if brand == "" {
		return nil, domain.NewValidationError("brand is required")
	}
	if model == "" {
		return nil, domain.NewValidationError("model is required")
	}
	if pricePerDayCents <= 0 {
		return nil, domain.NewValidationError("price per day must be positive")
	}
	if location == "" {
		return nil, domain.NewValidationError("location is required")
	}

	now := time.Now().UTC()
	return &Car{
		id:               uuid.New(),
		ownerID:          ownerID,
		brand:            brand,
		model:            model,
		year:             year,
		category:         category,
		seatingCapacity:  seatingCapacity,
		fuelType:         fuelType,
		transmission:     transmission,
		pricePerDayCents: pricePerDayCents,
		location:         location,
		description:      description,
		imageURL:         imageURL,
		isAvailable:      true,
		createdAt:        now,
		updatedAt:        now,
	}, nil
}

// Reconstruct rebuilds a Car from persistence data (no validation).
func Reconstruct(
	id, ownerID uuid.UUID,
	brand, model string,
	year int,
	category string,
	seatingCapacity int,
	fuelType, transmission string,
	pricePerDayCents int64,
	location, description, imageURL string,
	isAvailable bool,
	createdAt, updatedAt time.Time,
) *Car {
	return &Car{
		id:               id,
		ownerID:          ownerID,
		brand:            brand,
		model:            model,
		year:             year,
		category:         category,
		seatingCapacity:  seatingCapacity,
		fuelType:         fuelType,
		transmission:     transmission,
		pricePerDayCents: pricePerDayCents,
		location:         location,
		description:      description,
		imageURL:         imageURL,
		isAvailable:      isAvailable,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

// ID returns the car's unique identifier.
func (c *Car) ID() uuid.UUID { return c.id }

// OwnerID returns the listing owner's user ID.
func (c *Car) OwnerID() uuid.UUID { return c.ownerID }

// Brand returns the car brand.
func (c *Car) Brand() string { return c.brand }

// Model returns the car model.
func (c *Car) Model() string { return c.model }

// Year returns the model year.
func (c *Car) Year() int { return c.year }

// Category returns the listing category (sedan, SUV, ...).
func (c *Car) Category() string { return c.category }

// SeatingCapacity returns the number of seats.
func (c *Car) SeatingCapacity() int { return c.seatingCapacity }

// FuelType returns the fuel type.
func (c *Car) FuelType() string { return c.fuelType }

// Transmission returns the transmission type.
func (c *Car) Transmission() string { return c.transmission }

// PricePerDayCents returns the per-day rental rate in cents.
func (c *Car) PricePerDayCents() int64 { return c.pricePerDayCents }

// Location returns the pickup location.
func (c *Car) Location() string { return c.location }

// Description returns the listing description.
func (c *Car) Description() string { return c.description }

// ImageURL returns the listing image reference.
func (c *Car) ImageURL() string { return c.imageURL }

// IsAvailable returns the owner-controlled availability switch.
func (c *Car) IsAvailable() bool { return c.isAvailable }

// CreatedAt returns the creation timestamp.
func (c *Car) CreatedAt() time.Time { return c.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (c *Car) UpdatedAt() time.Time { return c.updatedAt }

// ToggleAvailability flips the owner's master availability switch.
func (c *Car) ToggleAvailability() {
	c.isAvailable = !c.isAvailable
	c.updatedAt = time.Now().UTC()
}

// IsOwnedBy reports whether the given user owns this listing.
func (c *Car) IsOwnedBy(userID uuid.UUID) bool {
	return c.ownerID == userID
}
