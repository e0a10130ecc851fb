package config

import (
	"strings"
	"time"
)

// ActionHubConfig controls outbound flagged-alert notifications.
type ActionHubConfig struct {
	// WebhookURL receives flagged-alert events. Empty disables notification
	// fan-out; flags are still recorded upstream.
	WebhookURL string `env:"WEBHOOK_URL" envDefault:""`

	// Timeout bounds each webhook delivery attempt.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"5s"`

	// RetryLimit is the number of delivery retries after the first attempt.
	RetryLimit int `env:"RETRY_LIMIT" envDefault:"3"`

	// AllowedDomains lists registrable domains the webhook URL may resolve
	// to. Empty accepts any host.
	AllowedDomains []string `env:"ALLOWED_DOMAINS" envDefault:"" envSeparator:";"`
}

// Sanitize applies guardrails to action hub configuration values.
func (a *ActionHubConfig) Sanitize() {
	a.WebhookURL = strings.TrimSpace(a.WebhookURL)
	if a.Timeout <= 0 {
		a.Timeout = 5 * time.Second
	}
	if a.RetryLimit < 0 {
		a.RetryLimit = 0
	}
}

// IsEnabled returns true when webhook fan-out is active after sanitisation.
func (a *ActionHubConfig) IsEnabled() bool {
	return a.WebhookURL != ""
}
