// Package webhook delivers Action Hub flag notifications to an outbound
// webhook. Delivery targets are restricted to an allowlist of registrable
// domains so a misconfigured URL cannot leak alert data to an arbitrary host.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/tourprism/tp-ui-api/internal/domain/model"
)

// Config captures the subset of webhook behaviour we need.
type Config struct {
	URL        string
	Timeout    time.Duration
	RetryLimit int
	Client     *http.Client
	// AllowedDomains lists registrable domains (eTLD+1) the webhook URL may
	// resolve to. Empty means any host is accepted.
	AllowedDomains []string
}

// Notifier posts flagged-alert events to a webhook endpoint.
type Notifier struct {
	url        string
	retryLimit int
	client     *http.Client
}

// NewNotifier builds a webhook notifier. Callers should pass a validated config.
func NewNotifier(cfg Config) (*Notifier, error) {
	rawURL := strings.TrimSpace(cfg.URL)
	if rawURL == "" {
		return nil, errors.New("webhook url is required")
	}
	if err := checkDomainAllowed(rawURL, cfg.AllowedDomains); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	retries := cfg.RetryLimit
	if retries < 0 {
		retries = 0
	}

	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	return &Notifier{
		url:        rawURL,
		retryLimit: retries,
		client:     hc,
	}, nil
}

// checkDomainAllowed verifies the URL's host resolves to an allowlisted
// registrable domain. Subdomains of an allowed domain pass.
func checkDomainAllowed(rawURL string, allowed []string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse webhook url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("webhook url scheme %q is not supported", u.Scheme)
	}
	if u.Hostname() == "" {
		return errors.New("webhook url has no host")
	}
	if len(allowed) == 0 {
		return nil
	}

	host := registrableDomain(u.Hostname())
	for _, entry := range allowed {
		if host != "" && host == registrableDomain(entry) {
			return nil
		}
	}
	return fmt.Errorf("webhook host %q is not in the allowed domain list", u.Hostname())
}

// registrableDomain extracts the eTLD+1 using the public suffix list.
func registrableDomain(host string) string {
	host = strings.TrimSpace(strings.ToLower(host))
	if host == "" {
		return ""
	}
	etld1, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return ""
	}
	return etld1
}

type flaggedEvent struct {
	Event        string    `json:"event"`
	AlertID      string    `json:"alert_id"`
	AlertTitle   string    `json:"alert_title"`
	IncidentType string    `json:"incident_type"`
	City         string    `json:"city"`
	FlagCount    int       `json:"flag_count"`
	FlaggedBy    string    `json:"flagged_by"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// NotifyFlagged posts a flagged-alert event, retrying with linear backoff.
func (n *Notifier) NotifyFlagged(ctx context.Context, alert model.Alert, flaggedBy string) error {
	body, err := json.Marshal(flaggedEvent{
		Event:        "alert.flagged",
		AlertID:      alert.ID,
		AlertTitle:   alert.Title,
		IncidentType: alert.IncidentType,
		City:         alert.City,
		FlagCount:    alert.FlagCount,
		FlaggedBy:    flaggedBy,
		OccurredAt:   time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode flagged event: %w", err)
	}

	attempts := n.retryLimit + 1
	var lastErr error
	for attempt := range attempts {
		err = n.post(ctx, body)
		if err == nil {
			return nil
		}
		lastErr = err
		if attempt < attempts-1 {
			// Simple linear backoff to avoid thundering retries.
			delay := time.Duration(attempt+1) * 200 * time.Millisecond
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				if !timer.Stop() {
					<-timer.C
				}
				return ctx.Err()
			case <-timer.C:
			}
		}
	}

	return lastErr
}

func (n *Notifier) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return handleErrorResponse(resp)
	}

	return drainSuccess(resp)
}

func drainSuccess(resp *http.Response) error {
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			return errors.Join(
				fmt.Errorf("drain webhook response body: %w", err),
				fmt.Errorf("close response body: %w", closeErr),
			)
		}
		return fmt.Errorf("drain webhook response body: %w", err)
	}
	if err := resp.Body.Close(); err != nil {
		return fmt.Errorf("close response body: %w", err)
	}
	return nil
}

func handleErrorResponse(resp *http.Response) error {
	respBody, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			return errors.Join(
				fmt.Errorf("read webhook error response: %w", readErr),
				fmt.Errorf("close response body: %w", closeErr),
			)
		}
		return fmt.Errorf("read webhook error response: %w", readErr)
	}
	if err := resp.Body.Close(); err != nil {
		return fmt.Errorf("close response body: %w", err)
	}

	return fmt.Errorf("webhook %s: %s", resp.Status, strings.TrimSpace(string(respBody)))
}
