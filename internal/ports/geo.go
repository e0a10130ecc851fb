package ports

import (
	"context"
	"time"

	"github.com/tourprism/tp-ui-api/internal/domain/model"
)

// LocateOptions mirror the knobs a geolocation source accepts. Timeout
// bounds the whole attempt; a zero value means the adapter's default.
type LocateOptions struct {
	HighAccuracy bool
	Timeout      time.Duration
	MaxCacheAge  time.Duration
}

// Geolocator yields a raw position fix or a categorized failure
// (permission_denied, position_unavailable, timeout, unsupported; see
// internal/errors). Every failure is recoverable by the caller.
type Geolocator interface {
	Locate(ctx context.Context, opts LocateOptions) (model.GeoFix, error)
}

// ReverseGeocoder resolves coordinates to a human-readable city name.
type ReverseGeocoder interface {
	CityFor(ctx context.Context, lat, lon float64) (string, error)
}

// LocationStore persists the chosen location per session key. Save must be
// atomic from the caller's perspective: the record is written or removed as
// a whole, never field by field.
type LocationStore interface {
	Save(ctx context.Context, key string, loc model.ResolvedLocation) error
	Get(ctx context.Context, key string) (model.ResolvedLocation, error)
	Delete(ctx context.Context, key string) error
}
