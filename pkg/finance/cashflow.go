package finance

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/iwvelando/npv-calc/pkg/constants"
)

// ParseCashFlows converts a comma-separated list such as "-20, 10, 10" into
// its amounts. Every token is trimmed before parsing; a single bad token
// rejects the whole list.
func ParseCashFlows(input string) ([]float64, error) {
	if strings.TrimSpace(input) == "" {
		return nil, fmt.Errorf("%w: no amounts given", ErrMalformedCashFlows)
	}

	tokens := strings.Split(input, constants.CashFlowSeparator)
	flows := make([]float64, 0, len(tokens))
	for i, token := range tokens {
		trimmed := strings.TrimSpace(token)
		value, err := strconv.ParseFloat(trimmed, 64)
		// Out-of-range literals saturate to ±Inf rather than failing.
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return nil, fmt.Errorf("%w: amount %d (%q) is not a number", ErrMalformedCashFlows, i+1, trimmed)
		}
		flows = append(flows, value)
	}
	return flows, nil
}

// FormatCashFlows renders amounts back into the comma-separated form accepted
// by ParseCashFlows.
func FormatCashFlows(flows []float64) string {
	parts := make([]string, len(flows))
	for i, flow := range flows {
		parts[i] = strconv.FormatFloat(flow, 'f', -1, 64)
	}
	return strings.Join(parts, constants.CashFlowSeparator+" ")
}
