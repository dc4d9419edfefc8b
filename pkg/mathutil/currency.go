// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/npv-calc/pkg/constants"
)

// IsZero checks if a value is effectively zero (within tolerance)
func IsZero(val float64) bool {
	return WithinTolerance(val, 0, constants.CurrencyTolerance)
}

// IsPositive checks if a value is positive (greater than tolerance)
func IsPositive(val float64) bool {
	return val > constants.CurrencyTolerance
}

// IsNegative checks if a value is negative (less than negative tolerance)
func IsNegative(val float64) bool {
	return val < -constants.CurrencyTolerance
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// PercentToFraction converts a percentage such as 12.5 into 0.125.
func PercentToFraction(percent float64) float64 {
	return percent / constants.PercentageMultiplier
}

// FractionToPercent converts a fraction such as 0.125 into 12.5.
func FractionToPercent(fraction float64) float64 {
	return fraction * constants.PercentageMultiplier
}
