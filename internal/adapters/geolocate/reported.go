package geolocate

import (
	"context"

	"github.com/tourprism/tp-ui-api/internal/domain/model"
	"github.com/tourprism/tp-ui-api/internal/ports"
)

// ReportedAttempt is one browser geolocation outcome the SPA observed on
// the device: either a fix or a failure category.
type ReportedAttempt struct {
	Fix     *model.GeoFix `json:"fix,omitempty"`
	Failure string        `json:"failure,omitempty"`
}

// Reported is a Geolocator backed by outcomes the browser already
// produced. The SPA runs the device geolocation itself and posts what it
// saw; Reported replays those outcomes to the resolver so the same state
// machine drives both device-reported and provider-side positioning.
type Reported struct {
	HighAccuracy *ReportedAttempt `json:"high_accuracy,omitempty"`
	LowAccuracy  *ReportedAttempt `json:"low_accuracy,omitempty"`
}

// Locate returns the reported outcome matching the requested accuracy
// mode. A missing attempt means the device never ran one, which reads as
// unsupported.
func (r Reported) Locate(_ context.Context, opts ports.LocateOptions) (model.GeoFix, error) {
	attempt := r.LowAccuracy
	if opts.HighAccuracy {
		attempt = r.HighAccuracy
	}
	if attempt == nil {
		return model.GeoFix{}, CategorizedError("unsupported")
	}
	if attempt.Failure != "" {
		return model.GeoFix{}, CategorizedError(attempt.Failure)
	}
	if attempt.Fix == nil || !attempt.Fix.Valid() {
		return model.GeoFix{}, CategorizedError("position-unavailable")
	}
	return *attempt.Fix, nil
}
