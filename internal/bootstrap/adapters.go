package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/tourprism/tp-ui-api/config"
	"github.com/tourprism/tp-ui-api/internal/adapters/geolocate"
	"github.com/tourprism/tp-ui-api/internal/adapters/nominatim"
	"github.com/tourprism/tp-ui-api/internal/adapters/tourprism"
	"github.com/tourprism/tp-ui-api/internal/adapters/webhook"
	"github.com/tourprism/tp-ui-api/internal/observability/statsd"
	"github.com/tourprism/tp-ui-api/internal/ports"
)

// AdapterSet groups the outbound adapters the services are built on.
type AdapterSet struct {
	Feed     *tourprism.Client
	Locator  ports.Geolocator
	Geocoder *nominatim.Client

	// Notifier is nil when webhook fan-out is disabled.
	Notifier *webhook.Notifier

	// Metrics is nil when metrics emission is disabled.
	Metrics *statsd.Client
}

// BuildAdapters constructs outbound adapters from configuration. The feed
// and geocoder adapters are required; the notifier and metrics sink degrade
// to nil when unconfigured.
func BuildAdapters(cfg *config.AppConfig, logger *slog.Logger) (AdapterSet, error) {
	if logger == nil {
		logger = slog.Default()
	}

	feed, err := tourprism.NewClient(tourprism.Config{
		BaseURL: cfg.Upstream.BaseURL,
		APIKey:  cfg.Upstream.APIKey,
		Timeout: cfg.Upstream.Timeout,
	})
	if err != nil {
		return AdapterSet{}, fmt.Errorf("build upstream client: %w", err)
	}

	geocoder, err := nominatim.NewClient(nominatim.Config{
		BaseURL:   cfg.Geo.GeocodeBaseURL,
		UserAgent: cfg.Geo.GeocodeUserAgent,
	})
	if err != nil {
		return AdapterSet{}, fmt.Errorf("build geocoder client: %w", err)
	}

	set := AdapterSet{
		Feed:     feed,
		Locator:  buildLocator(cfg.Geo, logger),
		Geocoder: geocoder,
		Notifier: buildNotifier(cfg.ActionHub, logger),
		Metrics:  buildMetricsSink(cfg.Observability.Metrics, logger),
	}

	return set, nil
}

// buildLocator picks the positioning source. Without a provider every
// server-side attempt reads as unsupported, so resolution relies on
// browser-reported outcomes or manual selection.
//
//nolint:ireturn // callers program against the Geolocator port.
func buildLocator(cfg config.GeoConfig, logger *slog.Logger) ports.Geolocator {
	if cfg.LocateBaseURL == "" {
		logger.Info("no positioning provider configured; relying on device-reported fixes")
		return geolocate.Reported{}
	}

	locator, err := geolocate.NewClient(geolocate.Config{
		BaseURL: cfg.LocateBaseURL,
		APIKey:  cfg.LocateAPIKey,
	})
	if err != nil {
		logger.Warn("failed to create positioning client; relying on device-reported fixes", "error", err)
		return geolocate.Reported{}
	}
	return locator
}

func buildNotifier(cfg config.ActionHubConfig, logger *slog.Logger) *webhook.Notifier {
	if !cfg.IsEnabled() {
		return nil
	}

	notifier, err := webhook.NewNotifier(webhook.Config{
		URL:            cfg.WebhookURL,
		Timeout:        cfg.Timeout,
		RetryLimit:     cfg.RetryLimit,
		AllowedDomains: cfg.AllowedDomains,
	})
	if err != nil {
		logger.Warn("failed to create webhook notifier; flag notifications disabled", "error", err)
		return nil
	}
	return notifier
}

func buildMetricsSink(cfg config.ObservabilityMetricsConfig, logger *slog.Logger) *statsd.Client {
	if !cfg.IsEnabled() {
		return nil
	}

	sink, err := statsd.NewClient(statsd.Config{
		Enabled: true,
		Address: cfg.StatsdAddress,
		Prefix:  cfg.StatsdPrefix,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to initialise statsd client", "error", err)
		return nil
	}
	return sink
}
