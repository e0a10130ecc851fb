package config

import "time"

// GeoConfig contains configuration for positioning and reverse geocoding.
type GeoConfig struct {
	// LocateBaseURL is the root of the positioning provider. Empty disables
	// server-side positioning; browser-reported fixes still work.
	LocateBaseURL string `env:"LOCATE_BASE_URL" envDefault:""`

	// LocateAPIKey authenticates against the positioning provider.
	LocateAPIKey string `env:"LOCATE_API_KEY" envDefault:""`

	// GeocodeBaseURL is the root of the Nominatim-compatible reverse geocoder.
	GeocodeBaseURL string `env:"GEOCODE_BASE_URL" envDefault:"https://nominatim.openstreetmap.org"`

	// GeocodeUserAgent identifies this service to the geocoder.
	// Nominatim's usage policy requires a real identifying value.
	GeocodeUserAgent string `env:"GEOCODE_USER_AGENT" envDefault:"tp-ui-api/1.0"`

	// HighAccuracyThresholdM is the accuracy radius in meters at or under
	// which a fix counts as high accuracy.
	HighAccuracyThresholdM float64 `env:"HIGH_ACCURACY_THRESHOLD_M" envDefault:"100"`

	// AttemptTimeout bounds each positioning attempt.
	AttemptTimeout time.Duration `env:"ATTEMPT_TIMEOUT" envDefault:"10s"`

	// StoreTTL is how long a resolved location persists per client.
	StoreTTL time.Duration `env:"STORE_TTL" envDefault:"24h"`
}

// Sanitize applies guardrails to geo configuration values.
func (g *GeoConfig) Sanitize() {
	if g.HighAccuracyThresholdM <= 0 {
		g.HighAccuracyThresholdM = 100
	}
	if g.AttemptTimeout <= 0 {
		g.AttemptTimeout = 10 * time.Second
	}
	if g.StoreTTL <= 0 {
		g.StoreTTL = 24 * time.Hour
	}
}
