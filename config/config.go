package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: Authentication configuration
//   - redis.go: Redis configuration
//   - http.go: HTTP server configuration
//   - upstream.go: Upstream Tourprism API configuration
//   - geo.go: Geolocation and reverse-geocoding configuration
//   - actionhub.go: Action Hub webhook configuration
//   - observability.go: Metrics configuration
type AppConfig struct {
	// IsDev controls development mode behavior.
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Authentication configuration
	Auth AuthConfig

	// Redis configuration (sessions and location records)
	Redis RedisConfig `envPrefix:"REDIS_"`

	// HTTP server configuration
	HTTP HTTPConfig

	// Upstream Tourprism alerts API configuration
	Upstream UpstreamConfig `envPrefix:"UPSTREAM_"`

	// Geolocation and reverse-geocoding configuration
	Geo GeoConfig `envPrefix:"GEO_"`

	// Action Hub webhook configuration
	ActionHub ActionHubConfig `envPrefix:"ACTION_HUB_"`

	// Observability configuration
	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.HTTP.Sanitize()
	c.Upstream.Sanitize()
	c.Geo.Sanitize()
	c.ActionHub.Sanitize()
	c.Observability.Sanitize()

	c.detectDevMode()
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}
