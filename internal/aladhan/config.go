// Package aladhan provides the Aladhan prayer-times API client used as the
// schedule provider.
package aladhan

import "time"

// Config holds the configuration for Aladhan API access.
type Config struct {
	// BaseURL is the API root, without a trailing slash
	BaseURL string

	// Country is sent with city lookups
	Country string

	// Method is the Aladhan calculation method id
	Method int

	// Tune is passed through verbatim as minute offsets
	Tune string

	// UseCoordinates queries by latitude/longitude for catalog cities
	UseCoordinates bool

	// Timeout for API requests
	Timeout time.Duration

	// BreakerFailures is the number of consecutive failures that opens the breaker
	BreakerFailures uint32

	// BreakerCooldown is how long the breaker stays open
	BreakerCooldown time.Duration
}

// DefaultConfig returns the configuration used for Indonesian cities.
func DefaultConfig() Config {
	return Config{
		BaseURL:         "https://api.aladhan.com/v1",
		Country:         "Indonesia",
		Method:          20,
		Tune:            "0,1,0,2,3,2,0,1,0",
		UseCoordinates:  true,
		Timeout:         15 * time.Second,
		BreakerFailures: 5,
		BreakerCooldown: time.Minute,
	}
}
