package booking

import "fmt"

// PricingStrategy defines the interface for calculating booking prices.
type PricingStrategy interface {
	// Calculate returns the total price in cents for renting at the given
	// per-day rate over the period.
	Calculate(pricePerDayCents int64, period RentalPeriod) (int64, error)
}

// PerDayPricingStrategy implements the marketplace pricing rule:
// total = per-day rate x whole calendar days, with a one-day minimum.
// Day counting truncates both dates to midnight, unlike the end-of-day
// bound used for overlap checks: overlap is inclusive of partial days,
// pricing charges whole days only.
type PerDayPricingStrategy struct{}

// NewPerDayPricingStrategy creates a new PerDayPricingStrategy.
func NewPerDayPricingStrategy() *PerDayPricingStrategy {
	return &PerDayPricingStrategy{}
}

// Calculate computes the total price in cents.
func (s *PerDayPricingStrategy) Calculate(pricePerDayCents int64, period RentalPeriod) (int64, error) {
	if pricePerDayCents <= 0 {
		return 0, fmt.Errorf("price per day must be positive, got %d", pricePerDayCents)
	}
	return pricePerDayCents * int64(period.Days()), nil
}
