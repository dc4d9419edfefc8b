// Package format renders monetary amounts for display.
package format

import (
	"math"

	"github.com/iwvelando/npv-calc/pkg/constants"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	if special, ok := nonFinite(amount); ok {
		return special
	}
	formatted, negative := formatPositiveCurrency(amount)
	if negative {
		return "-$" + formatted
	}
	return "$" + formatted
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	if special, ok := nonFinite(amount); ok {
		return special
	}
	formatted, negative := formatPositiveCurrency(amount)
	if negative {
		return "-" + formatted
	}
	return formatted
}

// Plain returns the amount rounded to cents without separators, suitable for CSV.
func Plain(amount float64) string {
	if special, ok := nonFinite(amount); ok {
		return special
	}
	return decimal.NewFromFloat(amount).StringFixed(constants.DecimalPlaces)
}

func nonFinite(amount float64) (string, bool) {
	switch {
	case math.IsNaN(amount):
		return "NaN", true
	case math.IsInf(amount, 1):
		return "+Inf", true
	case math.IsInf(amount, -1):
		return "-Inf", true
	}
	return "", false
}

// formatPositiveCurrency rounds to cents and reports whether the rounded
// value is negative, so -0.001 renders as "0.00" rather than "-0.00".
func formatPositiveCurrency(amount float64) (string, bool) {
	rounded := decimal.NewFromFloat(amount).Round(constants.DecimalPlaces)
	p := message.NewPrinter(language.English)
	return p.Sprintf("%.2f", rounded.Abs().InexactFloat64()), rounded.IsNegative()
}
