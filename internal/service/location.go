package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tourprism/tp-ui-api/internal/domain/model"
	apperrors "github.com/tourprism/tp-ui-api/internal/errors"
	"github.com/tourprism/tp-ui-api/internal/observability/metrics"
	"github.com/tourprism/tp-ui-api/internal/observability/statsd"
	"github.com/tourprism/tp-ui-api/internal/ports"
)

const (
	// DefaultHighAccuracyThreshold is the accuracy (metres) at or below which
	// a fix counts as precise.
	DefaultHighAccuracyThreshold = 100.0
	// DefaultAttemptTimeout bounds a single geolocation attempt.
	DefaultAttemptTimeout = 10 * time.Second
)

// ResolveStatus is the outcome of a resolution attempt.
type ResolveStatus string

const (
	// StatusResolved means a location was determined and persisted.
	StatusResolved ResolveStatus = "resolved"
	// StatusAwaitingManualChoice means acquisition failed and the user must
	// pick a city. The manual path is always available from this state.
	StatusAwaitingManualChoice ResolveStatus = "awaiting_manual_choice"
)

// ResolveResult is what a resolution attempt produced.
type ResolveResult struct {
	Status   ResolveStatus
	Location *model.ResolvedLocation
	// Message is a user-facing explanation, set when awaiting manual choice.
	Message string
	// Reason is the failure category, set when awaiting manual choice.
	Reason apperrors.ErrorCode
}

// LocationServiceOptions groups dependencies for LocationService.
type LocationServiceOptions struct {
	Locator  ports.Geolocator
	Geocoder ports.ReverseGeocoder
	Store    ports.LocationStore
	Logger   *slog.Logger
	Metrics  statsd.Sink

	// HighAccuracyThreshold in metres; zero means DefaultHighAccuracyThreshold.
	HighAccuracyThreshold float64
	// AttemptTimeout per geolocation attempt; zero means DefaultAttemptTimeout.
	AttemptTimeout time.Duration
}

// LocationService drives location acquisition: stored record first, then a
// high-accuracy attempt, then a low-accuracy retry, then manual fallback.
// Every failure is recoverable; the machine never moves backward on a
// geocoding miss.
type LocationService struct {
	locator   ports.Geolocator
	geocoder  ports.ReverseGeocoder
	store     ports.LocationStore
	logger    *slog.Logger
	metrics   statsd.Sink
	threshold float64
	timeout   time.Duration
}

// NewLocationService constructs a LocationService.
func NewLocationService(opts LocationServiceOptions) (*LocationService, error) {
	if opts.Locator == nil {
		return nil, errors.New("geolocator is required")
	}
	if opts.Geocoder == nil {
		return nil, errors.New("reverse geocoder is required")
	}
	if opts.Store == nil {
		return nil, errors.New("location store is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	threshold := opts.HighAccuracyThreshold
	if threshold <= 0 {
		threshold = DefaultHighAccuracyThreshold
	}

	timeout := opts.AttemptTimeout
	if timeout <= 0 {
		timeout = DefaultAttemptTimeout
	}

	return &LocationService{
		locator:   opts.Locator,
		geocoder:  opts.Geocoder,
		store:     opts.Store,
		logger:    logger,
		metrics:   opts.Metrics,
		threshold: threshold,
		timeout:   timeout,
	}, nil
}

// ResolveOptions tune a resolution attempt.
type ResolveOptions struct {
	// MaxCacheAge allows the locator to serve a cached fix this recent.
	MaxCacheAge time.Duration
	// Locator overrides the service's locator for this attempt. Callers
	// replaying device-reported outcomes set this; nil keeps the default.
	Locator ports.Geolocator
}

// Resolve determines the session's location.
//
// A well-formed stored record resolves immediately with source "stored". Else
// a high-accuracy attempt runs: a precise fix resolves as "gps-high"; an
// imprecise one resolves as "gps-high" with a low-accuracy warning. On
// failure one low-accuracy retry runs; its success resolves as "gps-low"
// with the warning. When both attempts fail the result is awaiting manual
// choice with a message specific to the failure category; a permission
// denial on the first attempt outranks the retry's category.
func (s *LocationService) Resolve(ctx context.Context, sessionKey string, opts ResolveOptions) (ResolveResult, error) {
	if strings.TrimSpace(sessionKey) == "" {
		return ResolveResult{}, apperrors.Validation("session key is required")
	}

	if stored, err := s.store.Get(ctx, sessionKey); err == nil && stored.WellFormed() {
		stored.Source = model.SourceStored
		metrics.EmitLocationResolution(s.metrics, metrics.LocationMetric{
			Source: model.SourceStored.String(), Result: metrics.ResultSuccess,
		})
		return ResolveResult{Status: StatusResolved, Location: &stored}, nil
	}

	started := time.Now()

	locator := s.locator
	if opts.Locator != nil {
		locator = opts.Locator
	}

	fix, err := locator.Locate(ctx, ports.LocateOptions{
		HighAccuracy: true,
		Timeout:      s.timeout,
		MaxCacheAge:  opts.MaxCacheAge,
	})
	if err == nil {
		loc := s.finishFix(ctx, sessionKey, fix, model.SourceGPSHigh, fix.AccuracyMeters > s.threshold)
		metrics.EmitLocationResolution(s.metrics, metrics.LocationMetric{
			Source: model.SourceGPSHigh.String(), Result: metrics.ResultSuccess, Duration: time.Since(started),
		})
		return ResolveResult{Status: StatusResolved, Location: loc}, nil
	}
	highErr := err
	s.logger.InfoContext(ctx, "high accuracy attempt failed, retrying with low accuracy",
		slog.String("session_key", sessionKey),
		slog.String("reason", string(apperrors.GetCode(highErr))))

	fix, err = locator.Locate(ctx, ports.LocateOptions{
		HighAccuracy: false,
		Timeout:      s.timeout,
		MaxCacheAge:  opts.MaxCacheAge,
	})
	if err == nil {
		loc := s.finishFix(ctx, sessionKey, fix, model.SourceGPSLow, true)
		metrics.EmitLocationResolution(s.metrics, metrics.LocationMetric{
			Source: model.SourceGPSLow.String(), Result: metrics.ResultSuccess, Duration: time.Since(started),
		})
		return ResolveResult{Status: StatusResolved, Location: loc}, nil
	}

	// A denial on the first attempt is the user's answer; the retry's
	// failure category must not mask it.
	failure := err
	if apperrors.GetCode(highErr) == apperrors.ErrCodePermissionDenied {
		failure = highErr
	}

	reason := apperrors.GetCode(failure)
	s.logger.InfoContext(ctx, "location acquisition failed, awaiting manual choice",
		slog.String("session_key", sessionKey),
		slog.String("reason", string(reason)))
	metrics.EmitLocationResolution(s.metrics, metrics.LocationMetric{
		Source: "none", Result: metrics.ResultError, Duration: time.Since(started), Err: failure,
	})

	return ResolveResult{
		Status:  StatusAwaitingManualChoice,
		Message: apperrors.GeoMessage(failure),
		Reason:  reason,
	}, nil
}

// finishFix reverse-geocodes a fix, builds the resolved record, and persists
// it. A geocoding miss keeps the coordinates and names the city "Unknown
// location". Persistence failures are logged, never surfaced: the resolution
// itself succeeded.
func (s *LocationService) finishFix(ctx context.Context, sessionKey string, fix model.GeoFix, source model.LocationSource, lowAccuracy bool) *model.ResolvedLocation {
	city, err := s.geocoder.CityFor(ctx, fix.Latitude, fix.Longitude)
	if err != nil || strings.TrimSpace(city) == "" {
		s.logger.WarnContext(ctx, "reverse geocoding failed, keeping coordinates",
			slog.String("session_key", sessionKey),
			slog.Any("error", err))
		city = model.UnknownCity
	}

	lat, lon, acc := fix.Latitude, fix.Longitude, fix.AccuracyMeters
	loc := &model.ResolvedLocation{
		City:               city,
		Latitude:           &lat,
		Longitude:          &lon,
		AccuracyMeters:     &acc,
		Source:             source,
		LowAccuracyWarning: lowAccuracy,
	}

	if saveErr := s.store.Save(ctx, sessionKey, *loc); saveErr != nil {
		s.logger.WarnContext(ctx, "persist resolved location failed",
			slog.String("session_key", sessionKey),
			slog.Any("error", saveErr))
	}

	return loc
}

// ConfirmManual records a manually chosen city. An empty city falls back to
// the default. When the stored record already names the confirmed city its
// coordinates are kept.
func (s *LocationService) ConfirmManual(ctx context.Context, sessionKey, city string) (*model.ResolvedLocation, error) {
	if strings.TrimSpace(sessionKey) == "" {
		return nil, apperrors.Validation("session key is required")
	}

	city = strings.TrimSpace(city)
	if city == "" {
		city = model.DefaultCity
	}

	loc := model.ResolvedLocation{
		City:   city,
		Source: model.SourceManual,
	}

	// Confirming the city the device already detected keeps its coordinates.
	if stored, err := s.store.Get(ctx, sessionKey); err == nil && stored.City == city && stored.HasCoordinates() {
		loc.Latitude = stored.Latitude
		loc.Longitude = stored.Longitude
		loc.AccuracyMeters = stored.AccuracyMeters
	}

	if err := s.store.Save(ctx, sessionKey, loc); err != nil {
		return nil, fmt.Errorf("save manual location: %w", err)
	}

	metrics.EmitLocationResolution(s.metrics, metrics.LocationMetric{
		Source: model.SourceManual.String(), Result: metrics.ResultSuccess,
	})

	return &loc, nil
}

// Current returns the persisted location for the session, if any.
func (s *LocationService) Current(ctx context.Context, sessionKey string) (*model.ResolvedLocation, error) {
	if strings.TrimSpace(sessionKey) == "" {
		return nil, apperrors.Validation("session key is required")
	}

	loc, err := s.store.Get(ctx, sessionKey)
	if err != nil {
		return nil, fmt.Errorf("get location: %w", err)
	}
	return &loc, nil
}

// Reset removes the persisted location so the next Resolve re-acquires.
func (s *LocationService) Reset(ctx context.Context, sessionKey string) error {
	if strings.TrimSpace(sessionKey) == "" {
		return apperrors.Validation("session key is required")
	}

	if err := s.store.Delete(ctx, sessionKey); err != nil {
		return fmt.Errorf("delete location: %w", err)
	}
	return nil
}
