package finance

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is the parent of every input rejection raised while
	// parsing or valuing cash flows.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyCashFlows is returned for a cash-flow list with no initial outlay.
	ErrEmptyCashFlows = fmt.Errorf("%w: cash flow list is empty", ErrInvalidInput)

	// ErrMalformedCashFlows is returned when a cash-flow string cannot be parsed.
	ErrMalformedCashFlows = fmt.Errorf("%w: malformed cash flow list", ErrInvalidInput)

	// ErrInvalidDiscountRate is returned for a NaN rate or a rate at or below -1.
	ErrInvalidDiscountRate = fmt.Errorf("%w: discount rate must be greater than -1", ErrInvalidInput)
)
