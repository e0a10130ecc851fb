package config

import "time"

// UpstreamConfig contains connection settings for the Tourprism alerts API.
type UpstreamConfig struct {
	// BaseURL is the root of the upstream alerts API.
	BaseURL string `env:"BASE_URL" envDefault:"https://api.tourprism.com"`

	// APIKey authenticates the gateway against the upstream.
	APIKey string `env:"API_KEY" envDefault:""`

	// Timeout bounds each upstream request.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"15s"`
}

// Sanitize applies guardrails to upstream configuration values.
func (u *UpstreamConfig) Sanitize() {
	if u.Timeout <= 0 {
		u.Timeout = 15 * time.Second
	}
}
