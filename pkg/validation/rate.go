package validation

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/npv-calc/pkg/constants"
)

// ErrRateOutOfRange is returned for a discount rate percentage outside the
// range a user may enter.
var ErrRateOutOfRange = errors.New("discount rate out of range")

// ValidateDiscountRatePercent checks that percent lies within
// [MinDiscountRatePercent, MaxDiscountRatePercent].
func ValidateDiscountRatePercent(percent float64) error {
	if math.IsNaN(percent) || percent < constants.MinDiscountRatePercent || percent > constants.MaxDiscountRatePercent {
		return fmt.Errorf("%w: expected %g%% to %g%%, got %g%%", ErrRateOutOfRange,
			constants.MinDiscountRatePercent, constants.MaxDiscountRatePercent, percent)
	}
	return nil
}
