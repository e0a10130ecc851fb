// Package metrics provides standardised metric emission helpers for the
// gateway's location and feed pipelines.
package metrics

import (
	"time"

	obserrors "github.com/tourprism/tp-ui-api/internal/observability/errors"
	"github.com/tourprism/tp-ui-api/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultStale   = "stale"
)

// LocationMetric captures a location resolution outcome for metric emission.
type LocationMetric struct {
	Source   string // stored, gps-high, gps-low, manual, none
	Result   string
	Duration time.Duration
	Err      error
}

// EmitLocationResolution emits standardised location resolution metrics.
func EmitLocationResolution(sink statsd.Sink, in LocationMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"source": in.Source,
		"result": in.Result,
	}
	if in.Err != nil && in.Result == ResultError {
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count("location.resolution", 1, tags)

	if in.Duration > 0 {
		sink.Timing("location.duration", in.Duration, CloneTags(tags))
	}
}

// FeedMetric captures an alert feed fetch for metric emission.
type FeedMetric struct {
	Operation string // fetch, load_more
	Result    string
	Anonymous bool
	Duration  time.Duration
	Err       error
}

// EmitFeedFetch emits standardised feed fetch metrics.
func EmitFeedFetch(sink statsd.Sink, in FeedMetric) {
	if sink == nil {
		return
	}

	anon := "false"
	if in.Anonymous {
		anon = "true"
	}
	tags := map[string]string{
		"operation": in.Operation,
		"result":    in.Result,
		"anonymous": anon,
	}
	if in.Err != nil && in.Result == ResultError {
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count("feed.fetch", 1, tags)

	if in.Duration > 0 {
		sink.Timing("feed.duration", in.Duration, CloneTags(tags))
	}
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
