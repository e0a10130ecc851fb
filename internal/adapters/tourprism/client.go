// Package tourprism is the HTTP client for the upstream Tourprism REST
// API. The gateway consumes the alert listing, stats, and flag endpoints;
// it never owns alert storage.
package tourprism

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tourprism/tp-ui-api/internal/domain/model"
	apperrors "github.com/tourprism/tp-ui-api/internal/errors"
)

// Config captures the upstream API behaviour we need.
type Config struct {
	BaseURL string // e.g. "https://api.tourprism.com"
	APIKey  string
	Timeout time.Duration
	Client  *http.Client
}

// Client implements the AlertFeed port against the upstream API.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient builds an upstream API client.
func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimSuffix(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("upstream base URL is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  strings.TrimSpace(cfg.APIKey),
		client:  hc,
	}, nil
}

// List fetches one page of alerts matching the query parameters.
func (c *Client) List(ctx context.Context, params model.AlertQueryParams) (model.FeedPage, error) {
	var page model.FeedPage
	err := c.getJSON(ctx, "/api/alerts?"+params.Values().Encode(), &page)
	if err != nil {
		return model.FeedPage{}, fmt.Errorf("list alerts: %w", err)
	}
	return page, nil
}

// Get fetches a single alert by ID.
func (c *Client) Get(ctx context.Context, alertID string) (model.Alert, error) {
	if alertID == "" {
		return model.Alert{}, apperrors.Validation("alert ID is required")
	}

	var alert model.Alert
	if err := c.getJSON(ctx, "/api/alerts/"+alertID, &alert); err != nil {
		return model.Alert{}, fmt.Errorf("get alert: %w", err)
	}
	return alert, nil
}

// Stats fetches aggregate alert statistics.
func (c *Client) Stats(ctx context.Context) (model.AlertStats, error) {
	var stats model.AlertStats
	if err := c.getJSON(ctx, "/api/alerts/stats", &stats); err != nil {
		return model.AlertStats{}, fmt.Errorf("alert stats: %w", err)
	}
	return stats, nil
}

// Flag marks an alert as flagged by the given user.
func (c *Client) Flag(ctx context.Context, alertID, userID string) error {
	if alertID == "" {
		return apperrors.Validation("alert ID is required")
	}

	body, err := json.Marshal(map[string]string{"user_id": userID})
	if err != nil {
		return fmt.Errorf("encode flag request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/alerts/"+alertID+"/flag", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeUpstream, "flag alert")
	}
	defer func() { _ = resp.Body.Close() }()
	drainOnClose(resp)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.NotFoundf("alert %s not found", alertID)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return apperrors.Upstreamf("flag alert: status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	return req, nil
}

func (c *Client) getJSON(ctx context.Context, path string, dst any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeUpstream, "upstream request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		drainOnClose(resp)
		if resp.StatusCode == http.StatusNotFound {
			return apperrors.NotFound("not found upstream")
		}
		return apperrors.Upstreamf("upstream status %d", resp.StatusCode)
	}

	if decodeErr := json.NewDecoder(resp.Body).Decode(dst); decodeErr != nil {
		return apperrors.Wrap(decodeErr, apperrors.ErrCodeUpstream, "decode upstream response")
	}
	return nil
}

func drainOnClose(resp *http.Response) {
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096)) //nolint:errcheck // drain for connection reuse
}
