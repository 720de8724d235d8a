package application

import (
	"context"
	"fmt"
	"time"

	"github.com/gearbox-rentals/service-rental/internal/domain"
	bookingDomain "github.com/gearbox-rentals/service-rental/internal/domain/booking"
	carDomain "github.com/gearbox-rentals/service-rental/internal/domain/car"
	userDomain "github.com/gearbox-rentals/service-rental/internal/domain/user"
	"github.com/gearbox-rentals/service-rental/internal/events"
	"github.com/gearbox-rentals/service-rental/internal/kafka"
	"github.com/gearbox-rentals/service-rental/internal/observability"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// eventPublisher is the slice of the Kafka producer the services need.
type eventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error
}

// CreateBookingRequest holds the data needed to create a new booking.
// Dates are calendar-date strings; time-of-day is ignored.
type CreateBookingRequest struct {
	CarID      uuid.UUID `json:"car_id" binding:"required"`
	PickupDate string    `json:"pickup_date" binding:"required"`
	ReturnDate string    `json:"return_date" binding:"required"`
}

// SearchCarsRequest holds the availability search criteria.
type SearchCarsRequest struct {
	Location   string `json:"location" binding:"required"`
	PickupDate string `json:"pickup_date" binding:"required"`
	ReturnDate string `json:"return_date" binding:"required"`
}

// ChangeStatusRequest holds the target status for a booking transition.
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID         uuid.UUID `json:"id"`
	CarID      uuid.UUID `json:"car_id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	RenterID   uuid.UUID `json:"renter_id"`
	PickupDate time.Time `json:"pickup_date"`
	ReturnDate time.Time `json:"return_date"`
	PriceCents int64     `json:"price_cents"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Car        *CarDTO   `json:"car,omitempty"`
	Renter     *UserDTO  `json:"renter,omitempty"`
}

// BookingService is the application service orchestrating booking use cases.
type BookingService struct {
	bookings bookingDomain.BookingRepository
	cars     carDomain.CarRepository
	users    userDomain.UserRepository
	pricing  bookingDomain.PricingStrategy
	producer eventPublisher
	logger   *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookings bookingDomain.BookingRepository,
	cars carDomain.CarRepository,
	users userDomain.UserRepository,
	pricing bookingDomain.PricingStrategy,
	producer eventPublisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings: bookings,
		cars:     cars,
		users:    users,
		pricing:  pricing,
		producer: producer,
		logger:   logger,
	}
}

// CheckAvailability reports whether the car is free over the period.
// Only confirmed bookings block; pending holds may coexist.
func (s *BookingService) CheckAvailability(ctx context.Context, carID uuid.UUID, period bookingDomain.RentalPeriod) (bool, error) {
	count, err := s.bookings.CountConfirmedOverlapping(ctx, carID, period, uuid.Nil)
	if err != nil {
		return false, fmt.Errorf("failed to check availability: %w", err)
	}
	return count == 0, nil
}

// SearchAvailableCars returns cars at the location whose owner switch is on
// and that have no confirmed booking overlapping the requested period.
func (s *BookingService) SearchAvailableCars(ctx context.Context, req SearchCarsRequest) ([]CarDTO, error) {
	period, err := parsePeriod(req.PickupDate, req.ReturnDate)
	if err != nil {
		return nil, err
	}

	cars, err := s.cars.FindAvailableByLocation(ctx, req.Location)
	if err != nil {
		return nil, fmt.Errorf("failed to search cars: %w", err)
	}

	available := make([]CarDTO, 0, len(cars))
	for _, c := range cars {
		free, err := s.CheckAvailability(ctx, c.ID(), period)
		if err != nil {
			return nil, err
		}
		if free {
			available = append(available, toCarDTO(c))
		}
	}
	return available, nil
}

// CreateBooking creates a pending booking for the renter. The availability
// predicate is re-checked inside the repository transaction, serialized per
// car, so two overlapping requests cannot both pass the check.
func (s *BookingService) CreateBooking(ctx context.Context, renterID uuid.UUID, req CreateBookingRequest) (*BookingDTO, error) {
	period, err := parsePeriod(req.PickupDate, req.ReturnDate)
	if err != nil {
		return nil, err
	}

	carData, err := s.cars.FindByID(ctx, req.CarID)
	if err != nil {
		return nil, err
	}

	priceCents, err := s.pricing.Calculate(carData.PricePerDayCents(), period)
	if err != nil {
		return nil, domain.NewValidationError(fmt.Sprintf("pricing error: %v", err))
	}

	bk, err := bookingDomain.NewBooking(carData.ID(), carData.OwnerID(), renterID, period, priceCents)
	if err != nil {
		return nil, err
	}

	if err := s.bookings.CreateIfAvailable(ctx, bk); err != nil {
		if domain.IsKind(err, domain.KindConflict) {
			observability.BookingConflictsTotal.Inc()
		}
		return nil, err
	}
	observability.BookingsCreatedTotal.Inc()

	s.publishBookingCreated(ctx, bk)

	result := toBookingDTO(bk)
	return &result, nil
}

// ChangeBookingStatus transitions a booking on behalf of the car's owner.
// Confirmation is arbitrated: the first confirmed booking for a date range
// wins, a later conflicting confirmation fails with a conflict error.
func (s *BookingService) ChangeBookingStatus(ctx context.Context, actorID, bookingID uuid.UUID, statusStr string) (*BookingDTO, error) {
	target, err := bookingDomain.ParseBookingStatus(statusStr)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if bk.OwnerID() != actorID {
		return nil, domain.NewUnauthorizedError("only the car's owner can change this booking")
	}

	oldStatus := bk.Status()
	if err := bk.TransitionTo(target); err != nil {
		return nil, err
	}
	bk.IncrementVersion()

	// Confirmation is arbitrated inside the repository transaction: the
	// overlap re-count and the status update run under the car-row lock, so
	// a losing confirmation never reaches the store.
	var persistErr error
	if target == bookingDomain.StatusConfirmed {
		persistErr = s.bookings.ConfirmIfAvailable(ctx, bk)
	} else {
		persistErr = s.bookings.Update(ctx, bk)
	}
	if persistErr != nil {
		if domain.IsKind(persistErr, domain.KindConflict) {
			observability.BookingConflictsTotal.Inc()
		}
		return nil, persistErr
	}
	observability.StatusTransitionsTotal.WithLabelValues(oldStatus.String(), target.String()).Inc()

	s.publishStatusChanged(ctx, bk, oldStatus)

	result := toBookingDTO(bk)
	return &result, nil
}

// GetRenterBookings retrieves paginated bookings created by a renter,
// newest first, with car details attached.
func (s *BookingService) GetRenterBookings(ctx context.Context, renterID uuid.UUID, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	bookings, total, err := s.bookings.FindByRenterID(ctx, renterID, page, limit)
	if err != nil {
		return nil, err
	}

	dtos, err := s.attachDetails(ctx, bookings, false)
	if err != nil {
		return nil, err
	}

	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// GetOwnerBookings retrieves paginated bookings against an owner's cars,
// newest first, with car and renter details attached. Renter credentials
// are never exposed.
func (s *BookingService) GetOwnerBookings(ctx context.Context, ownerID uuid.UUID, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	bookings, total, err := s.bookings.FindByOwnerID(ctx, ownerID, page, limit)
	if err != nil {
		return nil, err
	}

	dtos, err := s.attachDetails(ctx, bookings, true)
	if err != nil {
		return nil, err
	}

	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// attachDetails decorates booking DTOs with car (and optionally renter)
// data. A car deleted after booking leaves the reference nil rather than
// failing the listing.
func (s *BookingService) attachDetails(ctx context.Context, bookings []*bookingDomain.Booking, withRenter bool) ([]BookingDTO, error) {
	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dto := toBookingDTO(bk)

		if c, err := s.cars.FindByID(ctx, bk.CarID()); err == nil {
			carDTO := toCarDTO(c)
			dto.Car = &carDTO
		} else if !domain.IsKind(err, domain.KindNotFound) {
			return nil, err
		}

		if withRenter {
			if u, err := s.users.FindByID(ctx, bk.RenterID()); err == nil {
				userDTO := toUserDTO(u)
				dto.Renter = &userDTO
			} else if !domain.IsKind(err, domain.KindNotFound) {
				return nil, err
			}
		}

		dtos[i] = dto
	}
	return dtos, nil
}

// --- Helpers ---

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:         bk.ID(),
		CarID:      bk.CarID(),
		OwnerID:    bk.OwnerID(),
		RenterID:   bk.RenterID(),
		PickupDate: bk.Period().PickupDate(),
		ReturnDate: bk.Period().ReturnDate(),
		PriceCents: bk.PriceCents(),
		Status:     bk.Status().String(),
		CreatedAt:  bk.CreatedAt(),
		UpdatedAt:  bk.UpdatedAt(),
	}
}

// parseDate accepts calendar dates with or without a time component.
func parseDate(field, value string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, domain.NewValidationError(fmt.Sprintf("invalid %s: %q is not a date", field, value))
}

func parsePeriod(pickup, ret string) (bookingDomain.RentalPeriod, error) {
	p, err := parseDate("pickup_date", pickup)
	if err != nil {
		return bookingDomain.RentalPeriod{}, err
	}
	r, err := parseDate("return_date", ret)
	if err != nil {
		return bookingDomain.RentalPeriod{}, err
	}
	return bookingDomain.NewRentalPeriod(p, r)
}

func (s *BookingService) publishBookingCreated(ctx context.Context, bk *bookingDomain.Booking) {
	evt := events.BookingCreatedEvent{
		BookingID:  bk.ID(),
		CarID:      bk.CarID(),
		OwnerID:    bk.OwnerID(),
		RenterID:   bk.RenterID(),
		PickupDate: bk.Period().PickupDate(),
		ReturnDate: bk.Period().ReturnDate(),
		PriceCents: bk.PriceCents(),
		OccurredAt: time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingCreated, evt)
}

func (s *BookingService) publishStatusChanged(ctx context.Context, bk *bookingDomain.Booking, old bookingDomain.BookingStatus) {
	evt := events.BookingStatusChangedEvent{
		BookingID:  bk.ID(),
		CarID:      bk.CarID(),
		OwnerID:    bk.OwnerID(),
		OldStatus:  old.String(),
		NewStatus:  bk.Status().String(),
		OccurredAt: time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingStatusChanged, evt)
}

func (s *BookingService) publishEvent(ctx context.Context, topic, eventType string, data interface{}) {
	if s.producer == nil {
		return
	}

	cloudEvent, err := kafka.NewCloudEvent("service-rental", eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.producer.PublishEvent(ctx, topic, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
