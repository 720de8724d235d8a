package booking

import (
	"testing"
	"time"

	"github.com/gearbox-rentals/service-rental/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustPeriod(t *testing.T, pickup, ret time.Time) RentalPeriod {
	t.Helper()
	p, err := NewRentalPeriod(pickup, ret)
	require.NoError(t, err)
	return p
}

func TestNewRentalPeriod_Validation(t *testing.T) {
	t.Run("pickup before return is valid", func(t *testing.T) {
		p, err := NewRentalPeriod(date(2025, 1, 1), date(2025, 1, 3))
		require.NoError(t, err)
		assert.Equal(t, date(2025, 1, 1), p.PickupDate())
		assert.Equal(t, date(2025, 1, 3), p.ReturnDate())
	})

	t.Run("same day is rejected", func(t *testing.T) {
		_, err := NewRentalPeriod(date(2025, 1, 1), date(2025, 1, 1))
		require.Error(t, err)
		assert.True(t, domain.IsKind(err, domain.KindValidation))
	})

	t.Run("pickup after return is rejected", func(t *testing.T) {
		_, err := NewRentalPeriod(date(2025, 1, 5), date(2025, 1, 1))
		require.Error(t, err)
		assert.True(t, domain.IsKind(err, domain.KindValidation))
	})

	t.Run("time of day is ignored", func(t *testing.T) {
		p, err := NewRentalPeriod(
			time.Date(2025, 1, 1, 23, 59, 0, 0, time.UTC),
			time.Date(2025, 1, 3, 0, 1, 0, 0, time.UTC),
		)
		require.NoError(t, err)
		assert.Equal(t, date(2025, 1, 1), p.PickupDate())
		assert.Equal(t, date(2025, 1, 3), p.ReturnDate())
	})
}

func TestRentalPeriod_Days(t *testing.T) {
	tests := []struct {
		name   string
		pickup time.Time
		ret    time.Time
		want   int
	}{
		{"two days", date(2025, 1, 1), date(2025, 1, 3), 2},
		{"single day minimum", date(2025, 1, 1), date(2025, 1, 2), 1},
		{"week", date(2025, 1, 1), date(2025, 1, 8), 7},
		{"across month boundary", date(2025, 1, 30), date(2025, 2, 2), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mustPeriod(t, tt.pickup, tt.ret)
			assert.Equal(t, tt.want, p.Days())
		})
	}
}

func TestRentalPeriod_Overlaps(t *testing.T) {
	base := mustPeriod(t, date(2025, 1, 5), date(2025, 1, 10))

	tests := []struct {
		name  string
		other RentalPeriod
		want  bool
	}{
		{"identical", mustPeriod(t, date(2025, 1, 5), date(2025, 1, 10)), true},
		{"contained", mustPeriod(t, date(2025, 1, 6), date(2025, 1, 8)), true},
		{"overlaps start", mustPeriod(t, date(2025, 1, 1), date(2025, 1, 6)), true},
		{"overlaps end", mustPeriod(t, date(2025, 1, 9), date(2025, 1, 15)), true},
		// Back-to-back rentals share a handover day and therefore conflict.
		{"starts on return day", mustPeriod(t, date(2025, 1, 10), date(2025, 1, 12)), true},
		{"ends on pickup day", mustPeriod(t, date(2025, 1, 1), date(2025, 1, 5)), true},
		{"entirely before", mustPeriod(t, date(2025, 1, 1), date(2025, 1, 4)), false},
		{"entirely after", mustPeriod(t, date(2025, 1, 11), date(2025, 1, 15)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Overlaps(tt.other))
			assert.Equal(t, tt.want, tt.other.Overlaps(base), "overlap must be symmetric")
		})
	}
}

func TestRentalPeriod_Bounds(t *testing.T) {
	p := mustPeriod(t, date(2025, 1, 1), date(2025, 1, 3))

	assert.Equal(t, date(2025, 1, 1), p.Start())
	// End is the last instant of the return day.
	assert.Equal(t, date(2025, 1, 4).Add(-time.Nanosecond), p.End())
}
