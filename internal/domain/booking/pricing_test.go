package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerDayPricingStrategy_Calculate(t *testing.T) {
	strategy := NewPerDayPricingStrategy()

	tests := []struct {
		name       string
		ratePerDay int64
		pickup     time.Time
		ret        time.Time
		want       int64
	}{
		{"two days", 5000, date(2025, 1, 1), date(2025, 1, 3), 10000},
		{"one day minimum", 5000, date(2025, 1, 1), date(2025, 1, 2), 5000},
		{"week", 9900, date(2025, 1, 1), date(2025, 1, 8), 69300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			period := mustPeriod(t, tt.pickup, tt.ret)
			total, err := strategy.Calculate(tt.ratePerDay, period)
			require.NoError(t, err)
			assert.Equal(t, tt.want, total)
		})
	}

	t.Run("rejects non-positive rate", func(t *testing.T) {
		period := mustPeriod(t, date(2025, 1, 1), date(2025, 1, 3))
		_, err := strategy.Calculate(0, period)
		assert.Error(t, err)
		_, err = strategy.Calculate(-100, period)
		assert.Error(t, err)
	})
}
