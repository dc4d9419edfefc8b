package mathutil

import (
	"testing"
)

func TestSignHelpers(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		zero     bool
		positive bool
		negative bool
	}{
		{"Exactly zero", 0, true, false, false},
		{"Floating residue", 1e-12, true, false, false},
		{"Exactly one cent", 0.01, true, false, false},
		{"Just above a cent", 0.011, false, true, false},
		{"Just below minus a cent", -0.011, false, false, true},
		{"Large loss", -1500, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsZero(tt.input); got != tt.zero {
				t.Errorf("IsZero(%v) = %v, expected %v", tt.input, got, tt.zero)
			}
			if got := IsPositive(tt.input); got != tt.positive {
				t.Errorf("IsPositive(%v) = %v, expected %v", tt.input, got, tt.positive)
			}
			if got := IsNegative(tt.input); got != tt.negative {
				t.Errorf("IsNegative(%v) = %v, expected %v", tt.input, got, tt.negative)
			}
		})
	}
}

func TestWithinTolerance(t *testing.T) {
	if !WithinTolerance(288.548, 288.55, 0.01) {
		t.Error("expected values one fifth of a cent apart to be within a cent")
	}
	if WithinTolerance(288.99, 288.55, 0.01) {
		t.Error("expected values 44 cents apart to fall outside a cent")
	}
	if !WithinTolerance(-5, -5, 0) {
		t.Error("expected identical values to match with zero tolerance")
	}
}

func TestPercentConversions(t *testing.T) {
	tests := []struct {
		percent  float64
		fraction float64
	}{
		{0, 0},
		{10, 0.10},
		{8, 0.08},
		{12.5, 0.125},
		{100, 1},
	}

	for _, tt := range tests {
		if got := PercentToFraction(tt.percent); !WithinTolerance(got, tt.fraction, 1e-12) {
			t.Errorf("PercentToFraction(%v) = %v, expected %v", tt.percent, got, tt.fraction)
		}
		if got := FractionToPercent(tt.fraction); !WithinTolerance(got, tt.percent, 1e-9) {
			t.Errorf("FractionToPercent(%v) = %v, expected %v", tt.fraction, got, tt.percent)
		}
	}
}
