package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/tourprism/tp-ui-api/internal/domain/model"
	apperrors "github.com/tourprism/tp-ui-api/internal/errors"
	"github.com/tourprism/tp-ui-api/internal/observability/metrics"
	"github.com/tourprism/tp-ui-api/internal/observability/statsd"
	"github.com/tourprism/tp-ui-api/internal/ports"
)

// FeedServiceOptions groups dependencies for FeedService.
type FeedServiceOptions struct {
	Feed    ports.AlertFeed
	Logger  *slog.Logger
	Metrics statsd.Sink
}

// FeedService assembles the alert feed per session: it builds upstream
// queries from filter state plus the resolved location, deduplicates pages by
// alert ID in first-seen order, truncates anonymous views, and discards
// responses that a newer fetch has superseded.
type FeedService struct {
	feed    ports.AlertFeed
	logger  *slog.Logger
	metrics statsd.Sink

	mu       sync.Mutex
	sessions map[string]*feedState
}

// feedState is the per-session feed accumulator.
type feedState struct {
	generation uint64
	filters    model.FilterOptions
	location   model.ResolvedLocation
	anonymous  bool
	page       int
	seen       map[string]struct{}
	alerts     []model.Alert
	totalCount int
	hasMore    bool
}

// NewFeedService constructs a FeedService.
func NewFeedService(opts FeedServiceOptions) (*FeedService, error) {
	if opts.Feed == nil {
		return nil, errors.New("alert feed is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &FeedService{
		feed:     opts.Feed,
		logger:   logger,
		metrics:  opts.Metrics,
		sessions: make(map[string]*feedState),
	}, nil
}

// FetchInput carries the filter and location state for a fresh feed fetch.
type FetchInput struct {
	Filters   model.FilterOptions
	Location  model.ResolvedLocation
	Anonymous bool
}

// FeedView is the feed snapshot returned to the HTTP layer.
type FeedView struct {
	Alerts     []model.Alert `json:"alerts"`
	TotalCount int           `json:"totalCount"`
	HasMore    bool          `json:"hasMore"`
	Page       int           `json:"page"`
}

// Fetch starts a fresh feed for the session: page one, empty seen set. A
// fetch that finishes after a newer one has started is discarded and the
// newer snapshot returned instead. On upstream failure the list is cleared
// and HasMore forced false; retrying with the same input is safe.
func (s *FeedService) Fetch(ctx context.Context, sessionKey string, in FetchInput) (FeedView, error) {
	if strings.TrimSpace(sessionKey) == "" {
		return FeedView{}, apperrors.Validation("session key is required")
	}

	s.mu.Lock()
	state := s.sessions[sessionKey]
	if state == nil {
		state = &feedState{}
		s.sessions[sessionKey] = state
	}
	state.generation++
	gen := state.generation
	state.filters = in.Filters
	state.location = in.Location
	state.anonymous = in.Anonymous
	s.mu.Unlock()

	params := model.BuildQuery(model.BuildQueryInput{
		Filters:   in.Filters,
		Location:  in.Location,
		Page:      1,
		Anonymous: in.Anonymous,
	})

	started := time.Now()
	page, err := s.feed.List(ctx, params)
	outcome := s.apply(sessionKey, gen, 1, page, err)
	s.emitFetch(outcome, "fetch", in.Anonymous, time.Since(started), err)

	if outcome.stale {
		return outcome.view, nil
	}
	if err != nil {
		return outcome.view, fmt.Errorf("fetch feed: %w", err)
	}
	return outcome.view, nil
}

// LoadMore fetches the next page for the session and appends only alerts not
// seen before. Anonymous sessions never page: the truncated view is returned
// as-is.
func (s *FeedService) LoadMore(ctx context.Context, sessionKey string) (FeedView, error) {
	if strings.TrimSpace(sessionKey) == "" {
		return FeedView{}, apperrors.Validation("session key is required")
	}

	s.mu.Lock()
	state := s.sessions[sessionKey]
	if state == nil {
		s.mu.Unlock()
		return FeedView{}, apperrors.Validation("no feed to continue; fetch first")
	}
	if state.anonymous || !state.hasMore {
		view := state.snapshot()
		s.mu.Unlock()
		return view, nil
	}
	state.generation++
	gen := state.generation
	nextPage := state.page + 1
	filters := state.filters
	location := state.location
	s.mu.Unlock()

	params := model.BuildQuery(model.BuildQueryInput{
		Filters:  filters,
		Location: location,
		Page:     nextPage,
		PageSize: model.DefaultPageSize,
	})

	started := time.Now()
	page, err := s.feed.List(ctx, params)
	outcome := s.apply(sessionKey, gen, nextPage, page, err)
	s.emitFetch(outcome, "load_more", false, time.Since(started), err)

	if outcome.stale {
		return outcome.view, nil
	}
	if err != nil {
		return outcome.view, fmt.Errorf("load more: %w", err)
	}
	return outcome.view, nil
}

// View returns the current snapshot without fetching.
func (s *FeedService) View(sessionKey string) FeedView {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.sessions[sessionKey]
	if state == nil {
		return FeedView{Alerts: []model.Alert{}}
	}
	return state.snapshot()
}

// Forget drops the per-session feed state, e.g. on logout.
func (s *FeedService) Forget(sessionKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionKey)
}

type fetchOutcome struct {
	view  FeedView
	stale bool
}

// apply folds a finished upstream response into the session state, unless a
// newer fetch has bumped the generation since this one started.
func (s *FeedService) apply(sessionKey string, gen uint64, page int, result model.FeedPage, fetchErr error) fetchOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.sessions[sessionKey]
	if state == nil || state.generation != gen {
		// A newer fetch superseded this one; its result stands.
		if state == nil {
			return fetchOutcome{view: FeedView{Alerts: []model.Alert{}}, stale: true}
		}
		return fetchOutcome{view: state.snapshot(), stale: true}
	}

	if fetchErr != nil {
		state.alerts = nil
		state.seen = nil
		state.hasMore = false
		state.totalCount = 0
		state.page = 0
		return fetchOutcome{view: state.snapshot()}
	}

	if page == 1 {
		state.alerts = nil
		state.seen = make(map[string]struct{}, len(result.Alerts))
	} else if state.seen == nil {
		state.seen = make(map[string]struct{})
	}

	for _, alert := range result.Alerts {
		if _, dup := state.seen[alert.ID]; dup {
			continue
		}
		state.seen[alert.ID] = struct{}{}
		state.alerts = append(state.alerts, alert)
	}

	state.page = page
	state.totalCount = result.TotalCount
	state.hasMore = !state.anonymous && len(state.alerts) < result.TotalCount && len(result.Alerts) > 0

	return fetchOutcome{view: state.snapshot()}
}

// snapshot renders the state for callers. Anonymous views are truncated to
// the anonymous page size with paging disabled. Callers must hold s.mu.
func (st *feedState) snapshot() FeedView {
	alerts := st.alerts
	hasMore := st.hasMore
	if st.anonymous {
		if len(alerts) > model.AnonymousPageSize {
			alerts = alerts[:model.AnonymousPageSize]
		}
		hasMore = false
	}

	// Copy so later appends never alias a returned view.
	out := make([]model.Alert, len(alerts))
	copy(out, alerts)

	return FeedView{
		Alerts:     out,
		TotalCount: st.totalCount,
		HasMore:    hasMore,
		Page:       st.page,
	}
}

func (s *FeedService) emitFetch(outcome fetchOutcome, operation string, anonymous bool, elapsed time.Duration, err error) {
	result := metrics.ResultSuccess
	switch {
	case outcome.stale:
		result = metrics.ResultStale
	case err != nil:
		result = metrics.ResultError
	}
	metrics.EmitFeedFetch(s.metrics, metrics.FeedMetric{
		Operation: operation,
		Result:    result,
		Anonymous: anonymous,
		Duration:  elapsed,
		Err:       err,
	})
}
