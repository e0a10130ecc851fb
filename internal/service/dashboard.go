package service

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/tourprism/tp-ui-api/internal/domain/model"
	"github.com/tourprism/tp-ui-api/internal/ports"
)

const dashboardRecentLimit = 5

// DashboardServiceOptions groups dependencies for DashboardService.
type DashboardServiceOptions struct {
	Feed   ports.AlertFeed
	Logger *slog.Logger
}

// DashboardService assembles the operator dashboard from concurrent upstream
// fetches. A failed section degrades to empty rather than failing the page.
type DashboardService struct {
	feed   ports.AlertFeed
	logger *slog.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(opts DashboardServiceOptions) (*DashboardService, error) {
	if opts.Feed == nil {
		return nil, errors.New("alert feed is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &DashboardService{
		feed:   opts.Feed,
		logger: logger,
	}, nil
}

// Dashboard is the aggregated view for operators.
type Dashboard struct {
	Recent []model.Alert    `json:"recent"`
	Stats  model.AlertStats `json:"stats"`
	// Degraded lists sections that failed and were replaced with empty data.
	Degraded []string `json:"degraded,omitempty"`
}

// Load fetches recent alerts and stats concurrently. A section failure never
// cancels its sibling; the section comes back empty and is reported in
// Degraded.
func (s *DashboardService) Load(ctx context.Context) (Dashboard, error) {
	g, gctx := errgroup.WithContext(ctx)

	var (
		recent    model.FeedPage
		stats     model.AlertStats
		recentErr error
		statsErr  error
	)

	g.Go(func() error {
		recent, recentErr = s.feed.List(gctx, model.AlertQueryParams{
			Page:   1,
			Limit:  dashboardRecentLimit,
			SortBy: model.SortNewest,
		})
		return nil
	})

	g.Go(func() error {
		stats, statsErr = s.feed.Stats(gctx)
		return nil
	})

	// Goroutines always return nil; per-section errors degrade below.
	_ = g.Wait()

	dash := Dashboard{
		Recent: recent.Alerts,
		Stats:  stats,
	}
	if dash.Recent == nil {
		dash.Recent = []model.Alert{}
	}

	if recentErr != nil {
		dash.Recent = []model.Alert{}
		dash.Degraded = append(dash.Degraded, "recent")
		s.logger.WarnContext(ctx, "dashboard recent alerts degraded", slog.Any("error", recentErr))
	}
	if statsErr != nil {
		dash.Stats = model.AlertStats{}
		dash.Degraded = append(dash.Degraded, "stats")
		s.logger.WarnContext(ctx, "dashboard stats degraded", slog.Any("error", statsErr))
	}

	if recentErr != nil && statsErr != nil {
		// Nothing usable came back.
		return dash, errors.Join(recentErr, statsErr)
	}

	return dash, nil
}
