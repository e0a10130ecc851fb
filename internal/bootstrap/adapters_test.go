package bootstrap

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/tourprism/tp-ui-api/config"
	"github.com/tourprism/tp-ui-api/internal/adapters/geolocate"
)

func testAppConfig() *config.AppConfig {
	cfg := &config.AppConfig{
		Upstream: config.UpstreamConfig{
			BaseURL: "https://api.tourprism.example.com",
			Timeout: 15 * time.Second,
		},
		Geo: config.GeoConfig{
			GeocodeBaseURL:   "https://nominatim.example.com",
			GeocodeUserAgent: "tp-ui-api-test/1.0",
		},
	}
	cfg.Sanitize()
	return cfg
}

func TestBuildAdapters_MinimalConfig(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	set, err := BuildAdapters(testAppConfig(), logger)
	if err != nil {
		t.Fatalf("BuildAdapters error: %v", err)
	}

	if set.Feed == nil {
		t.Error("expected upstream client")
	}
	if set.Geocoder == nil {
		t.Error("expected geocoder client")
	}
	if _, ok := set.Locator.(geolocate.Reported); !ok {
		t.Errorf("expected reported-fix locator without a provider, got %T", set.Locator)
	}
	if set.Notifier != nil {
		t.Error("expected nil notifier without a webhook URL")
	}
	if set.Metrics != nil {
		t.Error("expected nil metrics sink when disabled")
	}
}

func TestBuildAdapters_RequiresUpstream(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := testAppConfig()
	cfg.Upstream.BaseURL = ""

	if _, err := BuildAdapters(cfg, logger); err == nil {
		t.Fatal("expected error without upstream base URL")
	}
}

func TestBuildAdapters_ProviderLocator(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := testAppConfig()
	cfg.Geo.LocateBaseURL = "https://locate.example.com"

	set, err := BuildAdapters(cfg, logger)
	if err != nil {
		t.Fatalf("BuildAdapters error: %v", err)
	}

	if _, ok := set.Locator.(*geolocate.Client); !ok {
		t.Errorf("expected provider-backed locator, got %T", set.Locator)
	}
}

func TestBuildAdapters_DisallowedWebhookDomain(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := testAppConfig()
	cfg.ActionHub = config.ActionHubConfig{
		WebhookURL:     "https://hooks.evil.example.net/x",
		Timeout:        5 * time.Second,
		AllowedDomains: []string{"example.com"},
	}

	set, err := BuildAdapters(cfg, logger)
	if err != nil {
		t.Fatalf("BuildAdapters error: %v", err)
	}

	if set.Notifier != nil {
		t.Error("expected nil notifier for a disallowed webhook domain")
	}
}
