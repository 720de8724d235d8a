package booking

import (
	"time"

	"github.com/gearbox-rentals/service-rental/internal/domain"
)

const dayDuration = 24 * time.Hour

// RentalPeriod is an immutable value object representing the calendar-day
// range of a rental. All day math is done in UTC so availability and pricing
// agree on day boundaries regardless of server timezone.
type RentalPeriod struct {
	pickup     time.Time
	returnDate time.Time
}

// NewRentalPeriod builds a RentalPeriod from pickup and return dates.
// Both are truncated to their UTC calendar day; the pickup day must be
// strictly before the return day.
func NewRentalPeriod(pickup, returnDate time.Time) (RentalPeriod, error) {
	p := truncateToUTCDay(pickup)
	r := truncateToUTCDay(returnDate)
	if !p.Before(r) {
		return RentalPeriod{}, domain.NewValidationError("pickup date must be before return date")
	}
	return RentalPeriod{pickup: p, returnDate: r}, nil
}

// ReconstructRentalPeriod rebuilds a RentalPeriod from persisted dates
// without validation.
func ReconstructRentalPeriod(pickup, returnDate time.Time) RentalPeriod {
	return RentalPeriod{
		pickup:     truncateToUTCDay(pickup),
		returnDate: truncateToUTCDay(returnDate),
	}
}

// PickupDate returns the pickup day at midnight UTC.
func (p RentalPeriod) PickupDate() time.Time { return p.pickup }

// ReturnDate returns the return day at midnight UTC.
func (p RentalPeriod) ReturnDate() time.Time { return p.returnDate }

// Start returns the inclusive lower bound used for overlap checks:
// the start of the pickup day.
func (p RentalPeriod) Start() time.Time { return p.pickup }

// End returns the inclusive upper bound used for overlap checks:
// the last instant of the return day. A booking occupies the whole return
// day, so back-to-back rentals sharing a day conflict.
func (p RentalPeriod) End() time.Time {
	return p.returnDate.Add(dayDuration - time.Nanosecond)
}

// Days returns the number of chargeable whole days, never less than one.
func (p RentalPeriod) Days() int {
	days := int(p.returnDate.Sub(p.pickup) / dayDuration)
	if days < 1 {
		return 1
	}
	return days
}

// Overlaps reports whether two periods share at least one calendar day.
// Closed intervals [a,b] and [c,d] overlap iff a <= d and c <= b.
func (p RentalPeriod) Overlaps(other RentalPeriod) bool {
	return !p.Start().After(other.End()) && !other.Start().After(p.End())
}

func truncateToUTCDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
