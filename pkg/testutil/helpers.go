// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/npv-calc/internal/valuation"
)

// FindResult finds a project result by name in the results slice.
// Returns a pointer to the result if found, nil otherwise.
func FindResult(results []valuation.Result, name string) *valuation.Result {
	for i := range results {
		if results[i].Name == name {
			return &results[i]
		}
	}
	return nil
}
