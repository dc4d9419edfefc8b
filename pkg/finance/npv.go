// Package finance holds the discounted-cash-flow arithmetic and the parsing
// of user-entered cash-flow lists.
package finance

import (
	"fmt"
	"math"
)

// ComputeNPV returns the net present value of cashFlows at the given
// per-period discount rate. cashFlows[0] is the initial outlay and is added
// undiscounted; cashFlows[t] is divided by (1+rate)^t.
func ComputeNPV(cashFlows []float64, rate float64) (float64, error) {
	if len(cashFlows) == 0 {
		return 0, ErrEmptyCashFlows
	}
	if math.IsNaN(rate) || rate <= -1 {
		return 0, fmt.Errorf("%w: got %v", ErrInvalidDiscountRate, rate)
	}

	npv := cashFlows[0]
	for t := 1; t < len(cashFlows); t++ {
		npv += cashFlows[t] / math.Pow(1+rate, float64(t))
	}
	return npv, nil
}
