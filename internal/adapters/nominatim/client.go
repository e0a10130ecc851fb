// Package nominatim reverse-geocodes coordinates to city names using an
// OSM Nominatim-compatible endpoint.
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"
	"github.com/tourprism/tp-ui-api/internal/domain/model"
)

// cityExpr picks the best available locality name from Nominatim's nested
// address document; villages and hamlets fall back to coarser divisions.
const cityExpr = "address.city || address.town || address.village || address.municipality || address.county"

// Config captures the Nominatim endpoint behaviour we need.
type Config struct {
	BaseURL   string // e.g. "https://nominatim.openstreetmap.org"
	UserAgent string // Nominatim requires an identifying User-Agent
	Timeout   time.Duration
	Client    *http.Client
}

// Client resolves coordinates to a human-readable city name.
type Client struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// NewClient builds a Nominatim reverse-geocoding client.
func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimSuffix(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("nominatim base URL is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	if _, err := jmespath.Compile(cityExpr); err != nil {
		return nil, fmt.Errorf("compile city expression: %w", err)
	}

	return &Client{
		baseURL:   baseURL,
		userAgent: fallbackString(strings.TrimSpace(cfg.UserAgent), "tp-ui-api"),
		client:    hc,
	}, nil
}

// CityFor resolves (lat, lon) to a city name. An empty result or any
// transport failure is an error; the caller decides how to degrade.
func (c *Client) CityFor(ctx context.Context, lat, lon float64) (string, error) {
	if !model.ValidCoordinates(lat, lon) {
		return "", fmt.Errorf("coordinates out of range: %f, %f", lat, lon)
	}

	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("zoom", "10") // city-level detail
	q.Set("addressdetails", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build reverse geocode request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("reverse geocode: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096)) //nolint:errcheck // drain for connection reuse
		return "", fmt.Errorf("reverse geocode status %d", resp.StatusCode)
	}

	var doc any
	if decodeErr := json.NewDecoder(resp.Body).Decode(&doc); decodeErr != nil {
		return "", fmt.Errorf("decode reverse geocode response: %w", decodeErr)
	}

	result, err := jmespath.Search(cityExpr, doc)
	if err != nil {
		return "", fmt.Errorf("extract city: %w", err)
	}

	city, ok := result.(string)
	if !ok || strings.TrimSpace(city) == "" {
		return "", fmt.Errorf("no locality in reverse geocode response")
	}

	return strings.TrimSpace(city), nil
}

func fallbackString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
