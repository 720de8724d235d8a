package application

import (
	"context"
	"fmt"
	"time"

	"github.com/gearbox-rentals/service-rental/internal/domain"
	carDomain "github.com/gearbox-rentals/service-rental/internal/domain/car"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AddCarRequest is the request DTO for listing a new car. The image URL is
// an opaque reference into the external image store; this service never
// touches image bytes.
type AddCarRequest struct {
	Brand            string `json:"brand" binding:"required" validate:"required"`
	Model            string `json:"model" binding:"required" validate:"required"`
	Year             int    `json:"year" binding:"required" validate:"gte=1950"`
	Category         string `json:"category" validate:"omitempty,max=50"`
	SeatingCapacity  int    `json:"seating_capacity" validate:"omitempty,gte=1,lte=20"`
	FuelType         string `json:"fuel_type"`
	Transmission     string `json:"transmission"`
	PricePerDayCents int64  `json:"price_per_day_cents" binding:"required" validate:"gt=0"`
	Location         string `json:"location" binding:"required" validate:"required"`
	Description      string `json:"description" validate:"omitempty,max=1000"`
	ImageURL         string `json:"image_url" validate:"omitempty,url"`
}

// CarDTO is the API response representation of a car listing.
type CarDTO struct {
	ID               uuid.UUID `json:"id"`
	OwnerID          uuid.UUID `json:"owner_id"`
	Brand            string    `json:"brand"`
	Model            string    `json:"model"`
	Year             int       `json:"year"`
	Category         string    `json:"category"`
	SeatingCapacity  int       `json:"seating_capacity"`
	FuelType         string    `json:"fuel_type"`
	Transmission     string    `json:"transmission"`
	PricePerDayCents int64     `json:"price_per_day_cents"`
	Location         string    `json:"location"`
	Description      string    `json:"description"`
	ImageURL         string    `json:"image_url"`
	IsAvailable      bool      `json:"is_available"`
	CreatedAt        time.Time `json:"created_at"`
}

// CarService is the application service for car listing use cases.
type CarService struct {
	cars     carDomain.CarRepository
	validate *validator.Validate
	logger   *zap.Logger
}

// NewCarService creates a new CarService.
func NewCarService(cars carDomain.CarRepository, validate *validator.Validate, logger *zap.Logger) *CarService {
	return &CarService{
		cars:     cars,
		validate: validate,
		logger:   logger,
	}
}

// AddCar lists a new car for the owner.
func (s *CarService) AddCar(ctx context.Context, ownerID uuid.UUID, req AddCarRequest) (*CarDTO, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid car data: %v", err))
	}

	c, err := carDomain.NewCar(
		ownerID,
		req.Brand, req.Model,
		req.Year,
		req.Category,
		req.SeatingCapacity,
		req.FuelType, req.Transmission,
		req.PricePerDayCents,
		req.Location, req.Description, req.ImageURL,
	)
	if err != nil {
		return nil, err
	}

	if err := s.cars.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to save car: %w", err)
	}

	s.logger.Info("car listed",
		zap.String("car_id", c.ID().String()),
		zap.String("owner_id", ownerID.String()),
	)

	result := toCarDTO(c)
	return &result, nil
}

// GetCar retrieves a single car listing.
func (s *CarService) GetCar(ctx context.Context, carID uuid.UUID) (*CarDTO, error) {
	c, err := s.cars.FindByID(ctx, carID)
	if err != nil {
		return nil, err
	}
	result := toCarDTO(c)
	return &result, nil
}

// GetOwnerCars retrieves all listings belonging to an owner.
func (s *CarService) GetOwnerCars(ctx context.Context, ownerID uuid.UUID) ([]CarDTO, error) {
	cars, err := s.cars.FindByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list owner cars: %w", err)
	}
	return toCarDTOs(cars), nil
}

// GetPublicCars retrieves every listing whose owner switch is on.
func (s *CarService) GetPublicCars(ctx context.Context) ([]CarDTO, error) {
	cars, err := s.cars.FindAllAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list cars: %w", err)
	}
	return toCarDTOs(cars), nil
}

// ToggleAvailability flips the owner's master switch on a listing.
func (s *CarService) ToggleAvailability(ctx context.Context, actorID, carID uuid.UUID) (*CarDTO, error) {
	c, err := s.cars.FindByID(ctx, carID)
	if err != nil {
		return nil, err
	}
	if !c.IsOwnedBy(actorID) {
		return nil, domain.NewUnauthorizedError("only the car's owner can change its availability")
	}

	c.ToggleAvailability()
	if err := s.cars.Update(ctx, c); err != nil {
		return nil, err
	}

	result := toCarDTO(c)
	return &result, nil
}

// DeleteCar removes a listing. Existing bookings keep their car reference
// for history; deletion never cascades.
func (s *CarService) DeleteCar(ctx context.Context, actorID, carID uuid.UUID) error {
	c, err := s.cars.FindByID(ctx, carID)
	if err != nil {
		return err
	}
	if !c.IsOwnedBy(actorID) {
		return domain.NewUnauthorizedError("only the car's owner can delete it")
	}

	if err := s.cars.Delete(ctx, carID); err != nil {
		return err
	}

	s.logger.Info("car deleted",
		zap.String("car_id", carID.String()),
		zap.String("owner_id", actorID.String()),
	)
	return nil
}

func toCarDTO(c *carDomain.Car) CarDTO {
	return CarDTO{
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
	}
}

func toCarDTOs(cars []*carDomain.Car) []CarDTO {
	dtos := make([]CarDTO, len(cars))
	for i, c := range cars {
		dtos[i] = toCarDTO(c)
	}
	return dtos
}
