package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourprism/tp-ui-api/internal/domain/model"
	apperrors "github.com/tourprism/tp-ui-api/internal/errors"
	"github.com/tourprism/tp-ui-api/internal/testutil"
)

// mockAlertFeed is a test helper implementing the AlertFeed port.
type mockAlertFeed struct {
	listFunc  func(context.Context, model.AlertQueryParams) (model.FeedPage, error)
	getFunc   func(context.Context, string) (model.Alert, error)
	statsFunc func(context.Context) (model.AlertStats, error)
	flagFunc  func(context.Context, string, string) error

	mu    sync.Mutex
	calls []model.AlertQueryParams
}

func (m *mockAlertFeed) List(ctx context.Context, params model.AlertQueryParams) (model.FeedPage, error) {
	m.mu.Lock()
	m.calls = append(m.calls, params)
	m.mu.Unlock()
	if m.listFunc != nil {
		return m.listFunc(ctx, params)
	}
	return model.FeedPage{}, nil
}

func (m *mockAlertFeed) Get(ctx context.Context, alertID string) (model.Alert, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, alertID)
	}
	return model.Alert{ID: alertID}, nil
}

func (m *mockAlertFeed) Stats(ctx context.Context) (model.AlertStats, error) {
	if m.statsFunc != nil {
		return m.statsFunc(ctx)
	}
	return model.AlertStats{}, nil
}

func (m *mockAlertFeed) Flag(ctx context.Context, alertID, userID string) error {
	if m.flagFunc != nil {
		return m.flagFunc(ctx, alertID, userID)
	}
	return nil
}

func (m *mockAlertFeed) lastCall(t *testing.T) model.AlertQueryParams {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.calls)
	return m.calls[len(m.calls)-1]
}

func newTestFeedService(t *testing.T, feed *mockAlertFeed) *FeedService {
	t.Helper()
	svc, err := NewFeedService(FeedServiceOptions{Feed: feed})
	require.NoError(t, err)
	return svc
}

func TestNewFeedService_RequiresFeed(t *testing.T) {
	_, err := NewFeedService(FeedServiceOptions{})
	assert.Error(t, err)
}

func TestFetch_AuthenticatedFirstPage(t *testing.T) {
	feed := &mockAlertFeed{
		listFunc: func(_ context.Context, _ model.AlertQueryParams) (model.FeedPage, error) {
			return model.FeedPage{Alerts: testutil.Alerts(10), TotalCount: 25}, nil
		},
	}
	svc := newTestFeedService(t, feed)

	view, err := svc.Fetch(context.Background(), "sess-1", FetchInput{
		Filters:  model.FilterOptions{SortBy: model.SortRelevant},
		Location: model.ResolvedLocation{City: "Edinburgh"},
	})

	require.NoError(t, err)
	assert.Len(t, view.Alerts, 10)
	assert.Equal(t, 25, view.TotalCount)
	assert.True(t, view.HasMore)
	assert.Equal(t, 1, view.Page)

	params := feed.lastCall(t)
	assert.Equal(t, 1, params.Page)
	assert.Equal(t, model.DefaultPageSize, params.Limit)
	assert.Equal(t, "Edinburgh", params.City)
}

func TestFetch_AnonymousTruncatesAndDisablesPaging(t *testing.T) {
	feed := &mockAlertFeed{
		listFunc: func(_ context.Context, _ model.AlertQueryParams) (model.FeedPage, error) {
			return model.FeedPage{Alerts: testutil.Alerts(3), TotalCount: 40}, nil
		},
	}
	svc := newTestFeedService(t, feed)

	view, err := svc.Fetch(context.Background(), "anon-1", FetchInput{Anonymous: true})

	require.NoError(t, err)
	assert.Len(t, view.Alerts, 3)
	assert.False(t, view.HasMore, "anonymous sessions never page")

	params := feed.lastCall(t)
	assert.Equal(t, model.AnonymousPageSize, params.Limit)

	// LoadMore is a no-op for anonymous sessions.
	view, err = svc.LoadMore(context.Background(), "anon-1")
	require.NoError(t, err)
	assert.Len(t, view.Alerts, 3)
	assert.False(t, view.HasMore)
}

func TestFetch_DeduplicatesWithinPage(t *testing.T) {
	a := testutil.NewAlert().WithID("a-1").Build()
	b := testutil.NewAlert().WithID("a-2").Build()
	feed := &mockAlertFeed{
		listFunc: func(_ context.Context, _ model.AlertQueryParams) (model.FeedPage, error) {
			return model.FeedPage{Alerts: []model.Alert{a, b, a}, TotalCount: 2}, nil
		},
	}
	svc := newTestFeedService(t, feed)

	view, err := svc.Fetch(context.Background(), "sess-1", FetchInput{})

	require.NoError(t, err)
	require.Len(t, view.Alerts, 2)
	assert.Equal(t, "a-1", view.Alerts[0].ID)
	assert.Equal(t, "a-2", view.Alerts[1].ID)
}

func TestLoadMore_AppendsOnlyUnseen(t *testing.T) {
	pageOne := testutil.Alerts(10)
	// Second page overlaps the first by two alerts.
	pageTwo := append([]model.Alert{pageOne[8], pageOne[9]}, testutil.Alerts(3)...)
	for i := range pageTwo[2:] {
		pageTwo[i+2].ID = "b-" + pageTwo[i+2].ID
	}

	feed := &mockAlertFeed{
		listFunc: func(_ context.Context, params model.AlertQueryParams) (model.FeedPage, error) {
			if params.Page == 1 {
				return model.FeedPage{Alerts: pageOne, TotalCount: 13}, nil
			}
			return model.FeedPage{Alerts: pageTwo, TotalCount: 13}, nil
		},
	}
	svc := newTestFeedService(t, feed)
	ctx := context.Background()

	_, err := svc.Fetch(ctx, "sess-1", FetchInput{})
	require.NoError(t, err)

	view, err := svc.LoadMore(ctx, "sess-1")
	require.NoError(t, err)

	assert.Len(t, view.Alerts, 13, "overlapping alerts appended once")
	assert.Equal(t, 2, view.Page)
	assert.False(t, view.HasMore)

	// First-seen order is preserved.
	assert.Equal(t, pageOne[0].ID, view.Alerts[0].ID)
	assert.Equal(t, "b-a-0", view.Alerts[10].ID)
}

func TestLoadMore_WithoutFetchFails(t *testing.T) {
	svc := newTestFeedService(t, &mockAlertFeed{})

	_, err := svc.LoadMore(context.Background(), "sess-1")

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestFetch_ErrorClearsListAndHasMore(t *testing.T) {
	calls := 0
	feed := &mockAlertFeed{
		listFunc: func(_ context.Context, _ model.AlertQueryParams) (model.FeedPage, error) {
			calls++
			if calls == 2 {
				return model.FeedPage{}, apperrors.Upstream("boom")
			}
			return model.FeedPage{Alerts: testutil.Alerts(10), TotalCount: 20}, nil
		},
	}
	svc := newTestFeedService(t, feed)
	ctx := context.Background()

	view, err := svc.Fetch(ctx, "sess-1", FetchInput{})
	require.NoError(t, err)
	assert.Len(t, view.Alerts, 10)

	view, err = svc.Fetch(ctx, "sess-1", FetchInput{})
	require.Error(t, err)
	assert.True(t, apperrors.IsUpstream(err))
	assert.Empty(t, view.Alerts)
	assert.False(t, view.HasMore)

	// Retry is idempotent: the next fetch rebuilds the list.
	view, err = svc.Fetch(ctx, "sess-1", FetchInput{})
	require.NoError(t, err)
	assert.Len(t, view.Alerts, 10)
	assert.True(t, view.HasMore)
}

func TestFetch_StaleResponseDiscarded(t *testing.T) {
	release := make(chan struct{})
	slowStarted := make(chan struct{})
	slow := testutil.NewAlert().WithID("slow").Build()
	fast := testutil.NewAlert().WithID("fast").Build()

	first := true
	feed := &mockAlertFeed{
		listFunc: func(_ context.Context, _ model.AlertQueryParams) (model.FeedPage, error) {
			if first {
				first = false
				close(slowStarted)
				<-release
				return model.FeedPage{Alerts: []model.Alert{slow}, TotalCount: 1}, nil
			}
			return model.FeedPage{Alerts: []model.Alert{fast}, TotalCount: 1}, nil
		},
	}
	svc := newTestFeedService(t, feed)
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(1)
	var slowView FeedView
	go func() {
		defer wg.Done()
		slowView, _ = svc.Fetch(ctx, "sess-1", FetchInput{})
	}()

	<-slowStarted

	// A second fetch starts while the first is still in flight.
	fastView, err := svc.Fetch(ctx, "sess-1", FetchInput{})
	require.NoError(t, err)
	require.Len(t, fastView.Alerts, 1)
	assert.Equal(t, "fast", fastView.Alerts[0].ID)

	close(release)
	wg.Wait()

	// The slow response arrived late and was discarded.
	require.Len(t, slowView.Alerts, 1)
	assert.Equal(t, "fast", slowView.Alerts[0].ID)

	view := svc.View("sess-1")
	require.Len(t, view.Alerts, 1)
	assert.Equal(t, "fast", view.Alerts[0].ID)
}

func TestView_UnknownSessionIsEmpty(t *testing.T) {
	svc := newTestFeedService(t, &mockAlertFeed{})

	view := svc.View("nope")

	assert.Empty(t, view.Alerts)
	assert.False(t, view.HasMore)
}

func TestForget_DropsState(t *testing.T) {
	feed := &mockAlertFeed{
		listFunc: func(_ context.Context, _ model.AlertQueryParams) (model.FeedPage, error) {
			return model.FeedPage{Alerts: testutil.Alerts(2), TotalCount: 2}, nil
		},
	}
	svc := newTestFeedService(t, feed)
	ctx := context.Background()

	_, err := svc.Fetch(ctx, "sess-1", FetchInput{})
	require.NoError(t, err)

	svc.Forget("sess-1")

	view := svc.View("sess-1")
	assert.Empty(t, view.Alerts)
}
