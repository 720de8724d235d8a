package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gearbox-rentals/service-rental/internal/cache"
	"github.com/gearbox-rentals/service-rental/internal/domain"
	bookingDomain "github.com/gearbox-rentals/service-rental/internal/domain/booking"
	carDomain "github.com/gearbox-rentals/service-rental/internal/domain/car"
	userDomain "github.com/gearbox-rentals/service-rental/internal/domain/user"
	"github.com/gearbox-rentals/service-rental/internal/events"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const recentBookingsLimit = 3

// DashboardDTO is the owner dashboard aggregate.
type DashboardDTO struct {
	TotalCars           int64        `json:"total_cars"`
	TotalBookings       int64        `json:"total_bookings"`
	PendingBookings     int64        `json:"pending_bookings"`
	CompletedBookings   int64        `json:"completed_bookings"`
	RecentBookings      []BookingDTO `json:"recent_bookings"`
	MonthlyRevenueCents int64        `json:"monthly_revenue_cents"`
}

// DashboardService aggregates an owner's fleet and booking figures. Results
// are cached; booking events invalidate the cache so reads after a change
// re-aggregate.
type DashboardService struct {
	bookings bookingDomain.BookingRepository
	cars     carDomain.CarRepository
	users    userDomain.UserRepository
	cache    cache.Cache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewDashboardService creates a new DashboardService. cache may be nil, in
// which case every read aggregates from the database.
func NewDashboardService(
	bookings bookingDomain.BookingRepository,
	cars carDomain.CarRepository,
	users userDomain.UserRepository,
	c cache.Cache,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		bookings: bookings,
		cars:     cars,
		users:    users,
		cache:    c,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// GetOwnerDashboard returns the dashboard aggregate for the actor. Only
// owner accounts have a dashboard.
func (s *DashboardService) GetOwnerDashboard(ctx context.Context, actorID uuid.UUID) (*DashboardDTO, error) {
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor.Role() != userDomain.RoleOwner {
		return nil, domain.NewUnauthorizedError("only owners have a dashboard")
	}

	if dto, ok := s.fromCache(ctx, actorID); ok {
		return dto, nil
	}

	dto, err := s.aggregate(ctx, actorID)
	if err != nil {
		return nil, err
	}

	s.toCache(ctx, actorID, dto)
	return dto, nil
}

func (s *DashboardService) aggregate(ctx context.Context, ownerID uuid.UUID) (*DashboardDTO, error) {
	totalCars, err := s.cars.CountByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to count cars: %w", err)
	}

	totalBookings, err := s.bookings.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}

	pending, err := s.bookings.CountByOwnerAndStatus(ctx, ownerID, bookingDomain.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending bookings: %w", err)
	}

	confirmed, err := s.bookings.CountByOwnerAndStatus(ctx, ownerID, bookingDomain.StatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("failed to count confirmed bookings: %w", err)
	}

	revenue, err := s.bookings.SumConfirmedPriceByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}

	recent, err := s.bookings.FindRecentByOwner(ctx, ownerID, recentBookingsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent bookings: %w", err)
	}

	recentDTOs := make([]BookingDTO, len(recent))
	for i, bk := range recent {
		dto := toBookingDTO(bk)
		if c, err := s.cars.FindByID(ctx, bk.CarID()); err == nil {
			carDTO := toCarDTO(c)
			dto.Car = &carDTO
		} else if !domain.IsKind(err, domain.KindNotFound) {
			return nil, err
		}
		recentDTOs[i] = dto
	}

	return &DashboardDTO{
		TotalCars:           totalCars,
		TotalBookings:       totalBookings,
		PendingBookings:     pending,
		CompletedBookings:   confirmed,
		RecentBookings:      recentDTOs,
		MonthlyRevenueCents: revenue,
	}, nil
}

func (s *DashboardService) fromCache(ctx context.Context, ownerID uuid.UUID) (*DashboardDTO, bool) {
	if s.cache == nil {
		return nil, false
	}

	raw, err := s.cache.Get(ctx, events.DashboardCacheKey(ownerID))
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("dashboard cache read failed",
				zap.String("owner_id", ownerID.String()),
				zap.Error(err),
			)
		}
		return nil, false
	}

	var dto DashboardDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		s.logger.Warn("dashboard cache entry is corrupt, dropping it",
			zap.String("owner_id", ownerID.String()),
			zap.Error(err),
		)
		_ = s.cache.Delete(ctx, events.DashboardCacheKey(ownerID))
		return nil, false
	}
	return &dto, true
}

func (s *DashboardService) toCache(ctx context.Context, ownerID uuid.UUID, dto *DashboardDTO) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(dto)
	if err != nil {
		s.logger.Warn("failed to marshal dashboard for cache", zap.Error(err))
		return
	}

	if err := s.cache.Set(ctx, events.DashboardCacheKey(ownerID), raw, s.cacheTTL); err != nil {
		s.logger.Warn("dashboard cache write failed",
			zap.String("owner_id", ownerID.String()),
			zap.Error(err),
		)
	}
}
