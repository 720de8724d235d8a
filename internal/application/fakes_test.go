package application

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gearbox-rentals/service-rental/internal/cache"
	"github.com/gearbox-rentals/service-rental/internal/domain"
	bookingDomain "github.com/gearbox-rentals/service-rental/internal/domain/booking"
	carDomain "github.com/gearbox-rentals/service-rental/internal/domain/car"
	userDomain "github.com/gearbox-rentals/service-rental/internal/domain/user"
	"github.com/gearbox-rentals/service-rental/internal/kafka"
	"github.com/google/uuid"
)

func mustParseDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func newTestUser(name, email string) (*userDomain.User, error) {
	return userDomain.NewUser(name, email, "$2a$10$test-hash")
}

// In-memory repository fakes. They reproduce the persistence contracts,
// including the availability re-check inside CreateIfAvailable and
// ConfirmIfAvailable, so service tests exercise the same conflict paths as
// the real store. Reads reconstruct a fresh aggregate, like the row mapper
// does, so mutating a returned booking never touches the stored one.

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*bookingDomain.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: map[uuid.UUID]*bookingDomain.Booking{}}
}

func copyBooking(bk *bookingDomain.Booking) *bookingDomain.Booking {
	return bookingDomain.ReconstructBooking(
		bk.ID(), bk.CarID(), bk.OwnerID(), bk.RenterID(),
		bk.Period(), bk.PriceCents(), bk.Status(), bk.Version(),
		bk.CreatedAt(), bk.UpdatedAt(),
	)
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bk, ok := r.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError("Booking", id.String())
	}
	return copyBooking(bk), nil
}

func (r *fakeBookingRepo) FindByRenterID(_ context.Context, renterID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	return r.findPaged(func(bk *bookingDomain.Booking) bool { return bk.RenterID() == renterID }, page, limit)
}

func (r *fakeBookingRepo) FindByOwnerID(_ context.Context, ownerID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	return r.findPaged(func(bk *bookingDomain.Booking) bool { return bk.OwnerID() == ownerID }, page, limit)
}

func (r *fakeBookingRepo) findPaged(match func(*bookingDomain.Booking) bool, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var all []*bookingDomain.Booking
	for _, bk := range r.bookings {
		if match(bk) {
			all = append(all, copyBooking(bk))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt().After(all[j].CreatedAt()) })

	total := int64(len(all))
	start := (page - 1) * limit
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *fakeBookingRepo) CountConfirmedOverlapping(_ context.Context, carID uuid.UUID, period bookingDomain.RentalPeriod, excludeID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.countConfirmedOverlappingLocked(carID, period, excludeID), nil
}

func (r *fakeBookingRepo) countConfirmedOverlappingLocked(carID uuid.UUID, period bookingDomain.RentalPeriod, excludeID uuid.UUID) int64 {
	var count int64
	for _, bk := range r.bookings {
		if bk.CarID() != carID || bk.ID() == excludeID {
			continue
		}
		if bk.Status().Blocks() && bk.Period().Overlaps(period) {
			count++
		}
	}
	return count
}

func (r *fakeBookingRepo) CreateIfAvailable(_ context.Context, bk *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.countConfirmedOverlappingLocked(bk.CarID(), bk.Period(), uuid.Nil) > 0 {
		return domain.NewConflictError("car is not available for the selected dates")
	}
	r.bookings[bk.ID()] = copyBooking(bk)
	return nil
}

func (r *fakeBookingRepo) ConfirmIfAvailable(_ context.Context, bk *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[bk.ID()]; !ok {
		return domain.NewNotFoundError("Booking", bk.ID().String())
	}
	if r.countConfirmedOverlappingLocked(bk.CarID(), bk.Period(), bk.ID()) > 0 {
		return domain.NewConflictError("another booking was already confirmed for these dates")
	}
	r.bookings[bk.ID()] = copyBooking(bk)
	return nil
}

func (r *fakeBookingRepo) Update(_ context.Context, bk *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[bk.ID()]; !ok {
		return domain.NewConflictError("booking was modified by another transaction")
	}
	r.bookings[bk.ID()] = copyBooking(bk)
	return nil
}

func (r *fakeBookingRepo) CountByOwner(_ context.Context, ownerID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, bk := range r.bookings {
		if bk.OwnerID() == ownerID {
			count++
		}
	}
	return count, nil
}

func (r *fakeBookingRepo) CountByOwnerAndStatus(_ context.Context, ownerID uuid.UUID, status bookingDomain.BookingStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, bk := range r.bookings {
		if bk.OwnerID() == ownerID && bk.Status() == status {
			count++
		}
	}
	return count, nil
}

func (r *fakeBookingRepo) SumConfirmedPriceByOwner(_ context.Context, ownerID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum int64
	for _, bk := range r.bookings {
		if bk.OwnerID() == ownerID && bk.Status() == bookingDomain.StatusConfirmed {
			sum += bk.PriceCents()
		}
	}
	return sum, nil
}

func (r *fakeBookingRepo) FindRecentByOwner(_ context.Context, ownerID uuid.UUID, limit int) ([]*bookingDomain.Booking, error) {
	items, _, err := r.FindByOwnerID(context.Background(), ownerID, 1, limit)
	return items, err
}

type fakeCarRepo struct {
	mu   sync.Mutex
	cars map[uuid.UUID]*carDomain.Car
}

func newFakeCarRepo() *fakeCarRepo {
	return &fakeCarRepo{cars: map[uuid.UUID]*carDomain.Car{}}
}

func (r *fakeCarRepo) FindByID(_ context.Context, id uuid.UUID) (*carDomain.Car, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cars[id]
	if !ok {
		return nil, domain.NewNotFoundError("Car", id.String())
	}
	return c, nil
}

func (r *fakeCarRepo) FindByOwnerID(_ context.Context, ownerID uuid.UUID) ([]*carDomain.Car, error) {
	return r.findAll(func(c *carDomain.Car) bool { return c.OwnerID() == ownerID })
}

func (r *fakeCarRepo) FindAvailableByLocation(_ context.Context, location string) ([]*carDomain.Car, error) {
	return r.findAll(func(c *carDomain.Car) bool { return c.IsAvailable() && c.Location() == location })
}

func (r *fakeCarRepo) FindAllAvailable(_ context.Context) ([]*carDomain.Car, error) {
	return r.findAll(func(c *carDomain.Car) bool { return c.IsAvailable() })
}

func (r *fakeCarRepo) findAll(match func(*carDomain.Car) bool) ([]*carDomain.Car, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*carDomain.Car
	for _, c := range r.cars {
		if match(c) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCarRepo) CountByOwnerID(_ context.Context, ownerID uuid.UUID) (int64, error) {
	cars, _ := r.FindByOwnerID(context.Background(), ownerID)
	return int64(len(cars)), nil
}

func (r *fakeCarRepo) Save(_ context.Context, c *carDomain.Car) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cars[c.ID()] = c
	return nil
}

func (r *fakeCarRepo) Update(_ context.Context, c *carDomain.Car) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cars[c.ID()]; !ok {
		return domain.NewNotFoundError("Car", c.ID().String())
	}
	r.cars[c.ID()] = c
	return nil
}

func (r *fakeCarRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cars[id]; !ok {
		return domain.NewNotFoundError("Car", id.String())
	}
	delete(r.cars, id)
	return nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*userDomain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*userDomain.User{}}
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*userDomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.NewNotFoundError("User", id.String())
	}
	return u, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*userDomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email(), email) {
			return u, nil
		}
	}
	return nil, domain.NewNotFoundError("User", email)
}

func (r *fakeUserRepo) Save(_ context.Context, u *userDomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID()] = u
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *userDomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID()]; !ok {
		return domain.NewNotFoundError("User", u.ID().String())
	}
	r.users[u.ID()] = u
	return nil
}

// fakePublisher records published events instead of hitting Kafka.
type fakePublisher struct {
	mu     sync.Mutex
	events []kafka.CloudEvent
}

func (p *fakePublisher) PublishEvent(_ context.Context, _ string, event kafka.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) published() []kafka.CloudEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]kafka.CloudEvent, len(p.events))
	copy(out, p.events)
	return out
}

// fakeCache is an in-memory Cache; TTLs are ignored.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	deletes []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]byte{}}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return v, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	c.deletes = append(c.deletes, key)
	return nil
}
