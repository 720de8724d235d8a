package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gearbox-rentals/service-rental/internal/domain"
	bookingDomain "github.com/gearbox-rentals/service-rental/internal/domain/booking"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookingModel is the GORM model for the bookings table. Pickup and return
// are stored as midnight-UTC timestamps; the overlap predicate compares the
// stored pickup against the query period's end-of-day bound and vice versa.
type BookingModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	CarID      uuid.UUID `gorm:"type:uuid;not null;index:idx_bookings_car_status"`
	OwnerID    uuid.UUID `gorm:"type:uuid;index;not null"`
	RenterID   uuid.UUID `gorm:"type:uuid;index;not null"`
	PickupDate time.Time `gorm:"not null"`
	ReturnDate time.Time `gorm:"not null"`
	PriceCents int64     `gorm:"not null"`
	Status     string    `gorm:"not null;size:20;index:idx_bookings_car_status"`
	Version    int64     `gorm:"not null;default:1"`
	CreatedAt  time.Time `gorm:"not null;index"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model), nil
}

// FindByRenterID retrieves bookings created by a renter, newest first.
func (r *GormBookingRepository) FindByRenterID(ctx context.Context, renterID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	return r.findPaged(ctx, "renter_id = ?", renterID, page, limit)
}

// FindByOwnerID retrieves bookings against an owner's cars, newest first.
func (r *GormBookingRepository) FindByOwnerID(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	return r.findPaged(ctx, "owner_id = ?", ownerID, page, limit)
}

func (r *GormBookingRepository) findPaged(ctx context.Context, cond string, id uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Where(cond, id).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Where(cond, id).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find bookings: %w", err)
	}

	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		bookings[i] = toDomainBooking(&m)
	}
	return bookings, total, nil
}

// CountConfirmedOverlapping counts confirmed bookings on the car overlapping
// the period. The predicate is inclusive on both ends, so bookings that
// merely share a calendar day conflict.
func (r *GormBookingRepository) CountConfirmedOverlapping(ctx context.Context, carID uuid.UUID, period bookingDomain.RentalPeriod, excludeID uuid.UUID) (int64, error) {
	return countConfirmedOverlapping(r.db.WithContext(ctx), carID, period, excludeID)
}

func countConfirmedOverlapping(tx *gorm.DB, carID uuid.UUID, period bookingDomain.RentalPeriod, excludeID uuid.UUID) (int64, error) {
	q := tx.Model(&BookingModel{}).
		Where("car_id = ? AND status = ?", carID, bookingDomain.StatusConfirmed.String()).
		Where("pickup_date <= ? AND return_date >= ?", period.End(), period.Start())
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count overlapping bookings: %w", err)
	}
	return count, nil
}

// CreateIfAvailable inserts the booking after re-running the availability
// predicate inside one transaction. The car row is locked FOR UPDATE first,
// so concurrent creations for the same car serialize and the check-then-act
// window is closed.
func (r *GormBookingRepository) CreateIfAvailable(ctx context.Context, bk *bookingDomain.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var carRow CarModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", bk.CarID()).
			First(&carRow).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NewNotFoundError("Car", bk.CarID().String())
			}
			return fmt.Errorf("failed to lock car row: %w", err)
		}

		count, err := countConfirmedOverlapping(tx, bk.CarID(), bk.Period(), uuid.Nil)
		if err != nil {
			return err
		}
		if count > 0 {
			return domain.NewConflictError("car is not available for the selected dates")
		}

		if err := tx.Create(toBookingModel(bk)).Error; err != nil {
			return fmt.Errorf("failed to save booking: %w", err)
		}
		return nil
	})
}

// ConfirmIfAvailable persists a booking's transition to confirmed after
// re-running the availability predicate under the same per-car row lock used
// by CreateIfAvailable. Concurrent confirmations of overlapping bookings
// serialize on the lock, so only the first one finds zero overlaps.
func (r *GormBookingRepository) ConfirmIfAvailable(ctx context.Context, bk *bookingDomain.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var carRow CarModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", bk.CarID()).
			First(&carRow).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NewNotFoundError("Car", bk.CarID().String())
			}
			return fmt.Errorf("failed to lock car row: %w", err)
		}

		count, err := countConfirmedOverlapping(tx, bk.CarID(), bk.Period(), bk.ID())
		if err != nil {
			return err
		}
		if count > 0 {
			return domain.NewConflictError("another booking was already confirmed for these dates")
		}

		return updateWithVersion(tx, bk)
	})
}

// Update persists changes to an existing booking with optimistic locking.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	return updateWithVersion(r.db.WithContext(ctx), bk)
}

func updateWithVersion(tx *gorm.DB, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)

	// The aggregate bumped its version before this call; match on the
	// previous one.
	expectedVersion := bk.Version() - 1
	result := tx.Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":     model.Status,
			"version":    model.Version,
			"updated_at": model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}
	return nil
}

// CountByOwner returns the total number of bookings against an owner's cars.
func (r *GormBookingRepository) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count owner bookings: %w", err)
	}
	return count, nil
}

// CountByOwnerAndStatus returns the number of an owner's bookings in the given status.
func (r *GormBookingRepository) CountByOwnerAndStatus(ctx context.Context, ownerID uuid.UUID, status bookingDomain.BookingStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Where("owner_id = ? AND status = ?", ownerID, status.String()).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count owner bookings by status: %w", err)
	}
	return count, nil
}

// SumConfirmedPriceByOwner sums the price of all confirmed bookings for an
// owner, regardless of creation date.
func (r *GormBookingRepository) SumConfirmedPriceByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var sum int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("COALESCE(SUM(price_cents), 0)").
		Where("owner_id = ? AND status = ?", ownerID, bookingDomain.StatusConfirmed.String()).
		Scan(&sum).Error; err != nil {
		return 0, fmt.Errorf("failed to sum confirmed booking prices: %w", err)
	}
	return sum, nil
}

// FindRecentByOwner retrieves the owner's most recently created bookings.
func (r *GormBookingRepository) FindRecentByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find recent bookings: %w", err)
	}

	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		bookings[i] = toDomainBooking(&m)
	}
	return bookings, nil
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		ID:         bk.ID(),
		CarID:      bk.CarID(),
		OwnerID:    bk.OwnerID(),
		RenterID:   bk.RenterID(),
		PickupDate: bk.Period().PickupDate(),
		ReturnDate: bk.Period().ReturnDate(),
		PriceCents: bk.PriceCents(),
		Status:     bk.Status().String(),
		Version:    bk.Version(),
		CreatedAt:  bk.CreatedAt(),
		UpdatedAt:  bk.UpdatedAt(),
	}
}

func toDomainBooking(m *BookingModel) *bookingDomain.Booking {
	return bookingDomain.ReconstructBooking(
		m.ID,
		m.CarID,
		m.OwnerID,
		m.RenterID,
		bookingDomain.ReconstructRentalPeriod(m.PickupDate, m.ReturnDate),
		m.PriceCents,
		bookingDomain.BookingStatus(m.Status),
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
