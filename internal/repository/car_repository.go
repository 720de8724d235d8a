package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gearbox-rentals/service-rental/internal/domain"
	carDomain "github.com/gearbox-rentals/service-rental/internal/domain/car"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CarModel is the GORM model for the cars table.
type CarModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID          uuid.UUID `gorm:"type:uuid;index;not null"`
	Brand            string    `gorm:"not null;size:100"`
	Model            string    `gorm:"not null;size:100"`
	Year             int       `gorm:"not null"`
	Category         string    `gorm:"size:50"`
	SeatingCapacity  int       `gorm:"not null;default:4"`
	FuelType         string    `gorm:"size:30"`
	Transmission     string    `gorm:"size:30"`
	PricePerDayCents int64     `gorm:"not null"`
	Location         string    `gorm:"not null;size:100;index"`
	Description      string    `gorm:"size:1000"`
	ImageURL         string    `gorm:"size:500"`
	IsAvailable      bool      `gorm:"not null;default:true"`
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (CarModel) TableName() string {
	return "cars"
}

// GormCarRepository is the GORM-based implementation of CarRepository.
type GormCarRepository struct {
	db *gorm.DB
}

// NewGormCarRepository creates a new GormCarRepository.
func NewGormCarRepository(db *gorm.DB) *GormCarRepository {
	return &GormCarRepository{db: db}
}

// FindByID retrieves a car by its unique identifier.
func (r *GormCarRepository) FindByID(ctx context.Context, id uuid.UUID) (*carDomain.Car, error) {
	var model CarModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Car", id.String())
		}
		return nil, fmt.Errorf("failed to find car by ID: %w", err)
	}
	return toDomainCar(&model), nil
}

// FindByOwnerID retrieves all cars listed by an owner.
func (r *GormCarRepository) FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*carDomain.Car, error) {
	return r.findAll(ctx, "owner_id = ?", ownerID)
}

// FindAvailableByLocation retrieves listings at a location with the owner
// switch on.
func (r *GormCarRepository) FindAvailableByLocation(ctx context.Context, location string) ([]*carDomain.Car, error) {
	return r.findAll(ctx, "location = ? AND is_available = ?", location, true)
}

// FindAllAvailable retrieves every listing with the owner switch on.
func (r *GormCarRepository) FindAllAvailable(ctx context.Context) ([]*carDomain.Car, error) {
	return r.findAll(ctx, "is_available = ?", true)
}

func (r *GormCarRepository) findAll(ctx context.Context, cond string, args ...interface{}) ([]*carDomain.Car, error) {
	var models []CarModel
	if err := r.db.WithContext(ctx).
		Where(cond, args...).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find cars: %w", err)
	}

	cars := make([]*carDomain.Car, len(models))
	for i, m := range models {
		cars[i] = toDomainCar(&m)
	}
	return cars, nil
}

// CountByOwnerID returns the number of cars listed by an owner.
func (r *GormCarRepository) CountByOwnerID(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&CarModel{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count cars: %w", err)
	}
	return count, nil
}

// Save persists a new car listing.
func (r *GormCarRepository) Save(ctx context.Context, c *carDomain.Car) error {
	if err := r.db.WithContext(ctx).Create(toCarModel(c)).Error; err != nil {
		return fmt.Errorf("failed to save car: %w", err)
	}
	return nil
}

// Update persists changes to an existing car listing.
func (r *GormCarRepository) Update(ctx context.Context, c *carDomain.Car) error {
	model := toCarModel(c)
	result := r.db.WithContext(ctx).
		Model(&CarModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"brand":               model.Brand,
			"model":               model.Model,
			"year":                model.Year,
			"category":            model.Category,
			"seating_capacity":    model.SeatingCapacity,
			"fuel_type":           model.FuelType,
			"transmission":        model.Transmission,
			"price_per_day_cents": model.PricePerDayCents,
			"location":            model.Location,
			"description":         model.Description,
			"image_url":           model.ImageURL,
			"is_available":        model.IsAvailable,
			"updated_at":          model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update car: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Car", model.ID.String())
	}
	return nil
}

// Delete removes a listing. Bookings referencing it are intentionally left
// untouched.
func (r *GormCarRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&CarModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete car: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Car", id.String())
	}
	return nil
}

// --- Conversion Helpers ---

func toCarModel(c *carDomain.Car) *CarModel {
	return &CarModel{
		ID:               c.ID(),
		OwnerID:          c.OwnerID(),
		Brand:            c.Brand(),
		Model:            c.Model(),
		Year:             c.Year(),
		Category:         c.Category(),
		SeatingCapacity:  c.SeatingCapacity(),
		FuelType:         c.FuelType(),
		Transmission:     c.Transmission(),
		PricePerDayCents: c.PricePerDayCents(),
		Location:         c.Location(),
		Description:      c.Description(),
		ImageURL:         c.ImageURL(),
		IsAvailable:      c.IsAvailable(),
		CreatedAt:        c.CreatedAt(),
		UpdatedAt:        c.UpdatedAt(),
	}
}

func toDomainCar(m *CarModel) *carDomain.Car {
	return carDomain.Reconstruct(
		m.ID,
		m.OwnerID,
		m.Brand,
		m.Model,
		m.Year,
		m.Category,
		m.SeatingCapacity,
		m.FuelType,
		m.Transmission,
		m.PricePerDayCents,
		m.Location,
		m.Description,
		m.ImageURL,
		m.IsAvailable,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
