package booking

import (
	"testing"
	"time"

	"github.com/gearbox-rentals/service-rental/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBooking(t *testing.T) *Booking {
	t.Helper()
	period := mustPeriod(t, date(2025, 3, 1), date(2025, 3, 5))
	bk, err := NewBooking(uuid.New(), uuid.New(), uuid.New(), period, 20000)
	require.NoError(t, err)
	return bk
}

func TestNewBooking(t *testing.T) {
	t.Run("starts pending at version 1", func(t *testing.T) {
		bk := newTestBooking(t)
		assert.Equal(t, StatusPending, bk.Status())
		assert.Equal(t, int64(1), bk.Version())
		assert.NotEqual(t, uuid.Nil, bk.ID())
	})

	period := mustPeriod(t, date(2025, 3, 1), date(2025, 3, 5))

	t.Run("requires car ID", func(t *testing.T) {
		_, err := NewBooking(uuid.Nil, uuid.New(), uuid.New(), period, 20000)
		assert.True(t, domain.IsKind(err, domain.KindValidation))
	})

	t.Run("requires owner ID", func(t *testing.T) {
		_, err := NewBooking(uuid.New(), uuid.Nil, uuid.New(), period, 20000)
		assert.True(t, domain.IsKind(err, domain.KindValidation))
	})

	t.Run("requires renter ID", func(t *testing.T) {
		_, err := NewBooking(uuid.New(), uuid.New(), uuid.Nil, period, 20000)
		assert.True(t, domain.IsKind(err, domain.KindValidation))
	})

	t.Run("requires positive price", func(t *testing.T) {
		_, err := NewBooking(uuid.New(), uuid.New(), uuid.New(), period, 0)
		assert.True(t, domain.IsKind(err, domain.KindValidation))
	})
}

func TestBookingStatus_Transitions(t *testing.T) {
	tests := []struct {
		from    BookingStatus
		to      BookingStatus
		allowed bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusPending, StatusPending, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestBookingStatus_Properties(t *testing.T) {
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())

	assert.True(t, StatusConfirmed.Blocks())
	assert.False(t, StatusPending.Blocks())
	assert.False(t, StatusCancelled.Blocks())
}

func TestParseBookingStatus(t *testing.T) {
	s, err := ParseBookingStatus("confirmed")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, s)

	_, err = ParseBookingStatus("completed")
	assert.Error(t, err)

	_, err = ParseBookingStatus("")
	assert.Error(t, err)
}

func TestBooking_TransitionTo(t *testing.T) {
	t.Run("pending to confirmed", func(t *testing.T) {
		bk := newTestBooking(t)
		require.NoError(t, bk.Confirm())
		assert.Equal(t, StatusConfirmed, bk.Status())
	})

	t.Run("confirmed to cancelled", func(t *testing.T) {
		bk := newTestBooking(t)
		require.NoError(t, bk.Confirm())
		require.NoError(t, bk.Cancel())
		assert.Equal(t, StatusCancelled, bk.Status())
	})

	t.Run("confirmed back to pending is rejected", func(t *testing.T) {
		bk := newTestBooking(t)
		require.NoError(t, bk.Confirm())

		err := bk.TransitionTo(StatusPending)
		require.Error(t, err)
		assert.True(t, domain.IsKind(err, domain.KindInvalidState))
		assert.Equal(t, StatusConfirmed, bk.Status(), "failed transition must not change state")
	})

	t.Run("cancelled is terminal", func(t *testing.T) {
		bk := newTestBooking(t)
		require.NoError(t, bk.Cancel())

		err := bk.Confirm()
		require.Error(t, err)
		assert.True(t, domain.IsKind(err, domain.KindInvalidState))
	})
}

func TestBooking_IncrementVersion(t *testing.T) {
	bk := newTestBooking(t)
	before := bk.Version()
	bk.IncrementVersion()
	assert.Equal(t, before+1, bk.Version())
}

func TestReconstructBooking(t *testing.T) {
	id := uuid.New()
	period := ReconstructRentalPeriod(date(2025, 3, 1), date(2025, 3, 5))
	now := time.Now().UTC()

	bk := ReconstructBooking(id, uuid.New(), uuid.New(), uuid.New(), period, 20000, StatusConfirmed, 3, now, now)
	assert.Equal(t, id, bk.ID())
	assert.Equal(t, StatusConfirmed, bk.Status())
	assert.Equal(t, int64(3), bk.Version())
}
