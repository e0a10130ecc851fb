package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourprism/tp-ui-api/internal/domain/model"
	apperrors "github.com/tourprism/tp-ui-api/internal/errors"
	"github.com/tourprism/tp-ui-api/internal/testutil"
)

func newTestDashboardService(t *testing.T, feed *mockAlertFeed) *DashboardService {
	t.Helper()
	svc, err := NewDashboardService(DashboardServiceOptions{Feed: feed})
	require.NoError(t, err)
	return svc
}

func TestNewDashboardService_RequiresFeed(t *testing.T) {
	_, err := NewDashboardService(DashboardServiceOptions{})
	assert.Error(t, err)
}

func TestDashboardLoad(t *testing.T) {
	feed := &mockAlertFeed{
		listFunc: func(_ context.Context, params model.AlertQueryParams) (model.FeedPage, error) {
			return model.FeedPage{Alerts: testutil.Alerts(5), TotalCount: 42}, nil
		},
		statsFunc: func(_ context.Context) (model.AlertStats, error) {
			return model.AlertStats{Total: 42, Active: 7}, nil
		},
	}
	svc := newTestDashboardService(t, feed)

	dash, err := svc.Load(context.Background())

	require.NoError(t, err)
	assert.Len(t, dash.Recent, 5)
	assert.Equal(t, 42, dash.Stats.Total)
	assert.Empty(t, dash.Degraded)

	// Recent section asks for the newest alerts.
	params := feed.lastCall(t)
	assert.Equal(t, model.SortNewest, params.SortBy)
	assert.Equal(t, dashboardRecentLimit, params.Limit)
}

func TestDashboardLoad_RecentDegrades(t *testing.T) {
	feed := &mockAlertFeed{
		listFunc: func(_ context.Context, _ model.AlertQueryParams) (model.FeedPage, error) {
			return model.FeedPage{}, apperrors.Upstream("listing down")
		},
		statsFunc: func(_ context.Context) (model.AlertStats, error) {
			return model.AlertStats{Total: 42}, nil
		},
	}
	svc := newTestDashboardService(t, feed)

	dash, err := svc.Load(context.Background())

	require.NoError(t, err, "partial failure degrades, it does not fail the page")
	assert.Empty(t, dash.Recent)
	assert.Equal(t, 42, dash.Stats.Total)
	assert.Equal(t, []string{"recent"}, dash.Degraded)
}

func TestDashboardLoad_StatsDegrade(t *testing.T) {
	feed := &mockAlertFeed{
		listFunc: func(_ context.Context, _ model.AlertQueryParams) (model.FeedPage, error) {
			return model.FeedPage{Alerts: testutil.Alerts(2), TotalCount: 2}, nil
		},
		statsFunc: func(_ context.Context) (model.AlertStats, error) {
			return model.AlertStats{}, apperrors.Upstream("stats down")
		},
	}
	svc := newTestDashboardService(t, feed)

	dash, err := svc.Load(context.Background())

	require.NoError(t, err)
	assert.Len(t, dash.Recent, 2)
	assert.Equal(t, []string{"stats"}, dash.Degraded)
}

func TestDashboardLoad_TotalFailure(t *testing.T) {
	feed := &mockAlertFeed{
		listFunc: func(_ context.Context, _ model.AlertQueryParams) (model.FeedPage, error) {
			return model.FeedPage{}, apperrors.Upstream("listing down")
		},
		statsFunc: func(_ context.Context) (model.AlertStats, error) {
			return model.AlertStats{}, apperrors.Upstream("stats down")
		},
	}
	svc := newTestDashboardService(t, feed)

	_, err := svc.Load(context.Background())

	require.Error(t, err)
	assert.True(t, apperrors.IsUpstream(err))
}
