// Package geolocate implements the Geolocator port. Client talks to an
// HTTP positioning provider (IP/wifi based); Reported replays fixes the
// browser already obtained on the device.
package geolocate

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
	"github.com/tourprism/tp-ui-api/internal/ports"
)

// DefaultTimeout bounds a positioning attempt when the caller does not.
const DefaultTimeout = 10 * time.Second

// Config captures the positioning provider behaviour we need.
type Config struct {
	BaseURL string // e.g. "https://location.tourprism.com"
	APIKey  string
	Client  *http.Client
}

// Client requests a position fix from the provider's /v1/locate endpoint.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient builds a positioning provider client.
func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimSuffix(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("geolocate base URL is required")
	}

	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: DefaultTimeout}
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  strings.TrimSpace(cfg.APIKey),
		client:  hc,
	}, nil
}

type locateRequest struct {
	HighAccuracy  bool  `json:"high_accuracy"`
	MaxCacheAgeMS int64 `json:"max_cache_age_ms,omitempty"`
}

type locateResponse struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	AccuracyMeters float64 `json:"accuracy_meters"`
	Error          string  `json:"error,omitempty"`
}

// Locate asks the provider for a fix. Failures come back categorized so
// the resolver can branch on them; every category is recoverable.
func (c *Client) Locate(ctx context.Context, opts ports.LocateOptions) (model.GeoFix, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := json.Marshal(locateRequest{
		HighAccuracy:  opts.HighAccuracy,
		MaxCacheAgeMS: opts.MaxCacheAge.Milliseconds(),
	})
	if err != nil {
		return model.GeoFix{}, fmt.Errorf("encode locate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/locate", bytes.NewReader(body))
	if err != nil {
		return model.GeoFix{}, fmt.Errorf("build locate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return model.GeoFix{}, apperrors.GeoTimeout("positioning provider timed out")
		}
		return model.GeoFix{}, apperrors.PositionUnavailable(fmt.Sprintf("positioning provider unreachable: %v", err))
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096)) //nolint:errcheck // drain for connection reuse
		return model.GeoFix{}, apperrors.PermissionDenied("positioning provider rejected the request")
	case http.StatusNotFound, http.StatusUnprocessableEntity:
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096)) //nolint:errcheck // drain for connection reuse
		return model.GeoFix{}, apperrors.PositionUnavailable("positioning provider found no fix")
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096)) //nolint:errcheck // drain for connection reuse
		return model.GeoFix{}, apperrors.GeoTimeout("positioning provider timed out")
	default:
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096)) //nolint:errcheck // drain for connection reuse
		return model.GeoFix{}, apperrors.PositionUnavailable(fmt.Sprintf("positioning provider status %d", resp.StatusCode))
	}

	var out locateResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&out); decodeErr != nil {
		return model.GeoFix{}, apperrors.PositionUnavailable(fmt.Sprintf("decode locate response: %v", decodeErr))
	}
	if out.Error != "" {
		return model.GeoFix{}, CategorizedError(out.Error)
	}

	fix := model.GeoFix{
		Latitude:       out.Latitude,
		Longitude:      out.Longitude,
		AccuracyMeters: out.AccuracyMeters,
	}
	if !fix.Valid() {
		return model.GeoFix{}, apperrors.PositionUnavailable("positioning provider returned out-of-range coordinates")
	}
	return fix, nil
}

// CategorizedError maps a wire failure category to the matching AppError.
func CategorizedError(category string) error {
	switch category {
	case "permission-denied", "permission_denied":
		return apperrors.PermissionDenied("location permission denied")
	case "timeout":
		return apperrors.GeoTimeout("location request timed out")
	case "unsupported":
		return apperrors.Unsupported("device lacks geolocation capability")
	case "position-unavailable", "position_unavailable":
		return apperrors.PositionUnavailable("position unavailable")
	default:
		// Unknown categories keep their own bucket so the UI can show the
		// generic fallback message.
		return fmt.Errorf("geolocation failed (%s)", category)
	}
}
