// Package constants provides shared constants for the npv-calc application.
package constants

// Valuation constants
const (
	// DefaultDiscountRatePercent is the discount rate used when none is configured.
	DefaultDiscountRatePercent = 10.0

	// MinDiscountRatePercent is the lowest discount rate a shell accepts.
	MinDiscountRatePercent = 0.0

	// MaxDiscountRatePercent is the highest discount rate a shell accepts.
	MaxDiscountRatePercent = 100.0

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// CashFlowSeparator separates individual amounts in a cash-flow string.
	CashFlowSeparator = ","
)

// Numeric constants
const (
	// DecimalPlaces is the number of decimals used when rendering currency.
	DecimalPlaces = 2

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01
)

// Interactive session constants
const (
	// MaxInputLineBytes bounds a single command line read by the interactive shell.
	MaxInputLineBytes = 1 << 20
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the web UI
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML configs (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultSessionTTL is how long an idle web session keeps its registry.
	DefaultSessionTTL = "2h"

	// SessionCookieName names the cookie carrying the session id.
	SessionCookieName = "npv_session"

	// ServerAddressEnv overrides the configured listen address.
	ServerAddressEnv = "NPV_SERVER_ADDRESS"
)
