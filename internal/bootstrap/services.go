package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/tourprism/tp-ui-api/config"
	redisadapter "github.com/tourprism/tp-ui-api/internal/adapters/redis"
	"github.com/tourprism/tp-ui-api/internal/observability/statsd"
	"github.com/tourprism/tp-ui-api/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth      *service.AuthService
	Feed      *service.FeedService
	Locations *service.LocationService
	ActionHub *service.ActionHubService
	Dashboard *service.DashboardService

	// MetricsSink is retained for shutdown; nil when metrics are disabled.
	MetricsSink *statsd.Client
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// BuildServices wires adapters into the application services.
func BuildServices(deps ServiceDeps) (ServiceContainer, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	adapters, err := BuildAdapters(deps.Config, logger)
	if err != nil {
		return ServiceContainer{}, err
	}

	locationStore := redisadapter.NewLocationStoreWithTTL(deps.RedisClient, deps.Config.Geo.StoreTTL)

	locations, err := service.NewLocationService(service.LocationServiceOptions{
		Locator:               adapters.Locator,
		Geocoder:              adapters.Geocoder,
		Store:                 locationStore,
		Logger:                logger,
		Metrics:               adapters.Metrics,
		HighAccuracyThreshold: deps.Config.Geo.HighAccuracyThresholdM,
		AttemptTimeout:        deps.Config.Geo.AttemptTimeout,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build location service: %w", err)
	}

	feed, err := service.NewFeedService(service.FeedServiceOptions{
		Feed:    adapters.Feed,
		Logger:  logger,
		Metrics: adapters.Metrics,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build feed service: %w", err)
	}

	actionHubOpts := service.ActionHubServiceOptions{
		Feed:   adapters.Feed,
		Logger: logger,
	}
	if adapters.Notifier != nil {
		actionHubOpts.Notifier = adapters.Notifier
	}
	actionHub, err := service.NewActionHubService(actionHubOpts)
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build action hub service: %w", err)
	}

	dashboard, err := service.NewDashboardService(service.DashboardServiceOptions{
		Feed:   adapters.Feed,
		Logger: logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build dashboard service: %w", err)
	}

	auth := BuildAuthService(AuthConfig{
		Auth:        deps.Config.Auth,
		RedisClient: deps.RedisClient,
		Logger:      logger,
	})

	return ServiceContainer{
		Auth:        auth,
		Feed:        feed,
		Locations:   locations,
		ActionHub:   actionHub,
		Dashboard:   dashboard,
		MetricsSink: adapters.Metrics,
	}, nil
}
