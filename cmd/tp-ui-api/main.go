package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tourprism/tp-ui-api/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "starting tp-ui-api",
		"addr", cfg.HTTP.Addr,
		"auth_mode", cfg.Auth.Mode,
		"upstream", cfg.Upstream.BaseURL,
		"dev", cfg.IsDev)

	redisClient, err := bootstrap.ConnectRedis(bootstrap.RedisOptions{
		Config: cfg.Redis,
		Logger: logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := redisClient.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close redis failed", "error", cerr)
		}
	}()

	services, err := bootstrap.BuildServices(bootstrap.ServiceDeps{
		Config:      &cfg,
		RedisClient: redisClient,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	server := bootstrap.StartHTTPServer(&bootstrap.HTTPServerConfig{
		Config:   &cfg,
		Services: services,
		Logger:   logger,
	})

	// Block until asked to stop.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	sig := <-stop
	logger.InfoContext(ctx, "shutdown signal received", "signal", sig.String())

	return bootstrap.ShutdownHTTPServer(bootstrap.ShutdownConfig{
		Context:  ctx,
		Server:   server,
		Services: services,
		Logger:   logger,
	})
}
