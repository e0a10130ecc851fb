package httpx

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	domainauth "github.com/tourprism/tp-ui-api/internal/domain/auth"
	"github.com/tourprism/tp-ui-api/internal/domain/model"
	apperrors "github.com/tourprism/tp-ui-api/internal/errors"
	"github.com/tourprism/tp-ui-api/internal/ports"
	"github.com/tourprism/tp-ui-api/internal/service"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockAuthService is a test double for AuthServiceInterface.
type mockAuthService struct {
	beginFunc      func(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	completeFunc   func(ctx context.Context, input service.CompleteLoginInput) (*service.CompleteLoginResult, error)
	getSessionFunc func(ctx context.Context, sessionID string) (*domainauth.Session, error)
	logoutFunc     func(ctx context.Context, sessionID string) error
}

func (m *mockAuthService) BeginLogin(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error) {
	if m.beginFunc != nil {
		return m.beginFunc(ctx, redirectURL)
	}
	return &service.BeginLoginResult{
		AuthURL: "https://idp.example.com/authorize?state=s1",
		State:   "s1",
		Nonce:   "n1",
	}, nil
}

func (m *mockAuthService) CompleteLogin(
	ctx context.Context,
	input service.CompleteLoginInput,
) (*service.CompleteLoginResult, error) {
	if m.completeFunc != nil {
		return m.completeFunc(ctx, input)
	}
	return &service.CompleteLoginResult{Session: testSession("sess-1", domainauth.RoleUser)}, nil
}

func (m *mockAuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if m.getSessionFunc != nil {
		return m.getSessionFunc(ctx, sessionID)
	}
	sess := testSession(sessionID, domainauth.RoleUser)
	return &sess, nil
}

func (m *mockAuthService) Logout(ctx context.Context, sessionID string) error {
	if m.logoutFunc != nil {
		return m.logoutFunc(ctx, sessionID)
	}
	return nil
}

func testSession(id string, role domainauth.Role) domainauth.Session {
	return domainauth.Session{
		ID:        id,
		UserID:    "user-1",
		Name:      "Test User",
		Email:     "user@example.com",
		Role:      role,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

// stubAlertFeed is a func-field double for ports.AlertFeed.
type stubAlertFeed struct {
	listFunc  func(ctx context.Context, params model.AlertQueryParams) (model.FeedPage, error)
	getFunc   func(ctx context.Context, alertID string) (model.Alert, error)
	statsFunc func(ctx context.Context) (model.AlertStats, error)
	flagFunc  func(ctx context.Context, alertID, userID string) error
}

func (s *stubAlertFeed) List(ctx context.Context, params model.AlertQueryParams) (model.FeedPage, error) {
	if s.listFunc != nil {
		return s.listFunc(ctx, params)
	}
	return model.FeedPage{}, nil
}

func (s *stubAlertFeed) Get(ctx context.Context, alertID string) (model.Alert, error) {
	if s.getFunc != nil {
		return s.getFunc(ctx, alertID)
	}
	return model.Alert{ID: alertID}, nil
}

func (s *stubAlertFeed) Stats(ctx context.Context) (model.AlertStats, error) {
	if s.statsFunc != nil {
		return s.statsFunc(ctx)
	}
	return model.AlertStats{}, nil
}

func (s *stubAlertFeed) Flag(ctx context.Context, alertID, userID string) error {
	if s.flagFunc != nil {
		return s.flagFunc(ctx, alertID, userID)
	}
	return nil
}

// memLocationStore is an in-memory ports.LocationStore.
type memLocationStore struct {
	mu   sync.Mutex
	locs map[string]model.ResolvedLocation
}

func newMemLocationStore() *memLocationStore {
	return &memLocationStore{locs: make(map[string]model.ResolvedLocation)}
}

func (s *memLocationStore) Save(_ context.Context, key string, loc model.ResolvedLocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locs[key] = loc
	return nil
}

func (s *memLocationStore) Get(_ context.Context, key string) (model.ResolvedLocation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	loc, ok := s.locs[key]
	if !ok {
		return model.ResolvedLocation{}, apperrors.NotFound("location not found")
	}
	return loc, nil
}

func (s *memLocationStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.locs, key)
	return nil
}

// stubLocator is a func-field double for ports.Geolocator.
type stubLocator struct {
	locateFunc func(ctx context.Context, opts ports.LocateOptions) (model.GeoFix, error)
}

func (s *stubLocator) Locate(ctx context.Context, opts ports.LocateOptions) (model.GeoFix, error) {
	if s.locateFunc != nil {
		return s.locateFunc(ctx, opts)
	}
	return model.GeoFix{}, errors.New("no locator configured")
}

// stubGeocoder is a func-field double for ports.ReverseGeocoder.
type stubGeocoder struct {
	cityFunc func(ctx context.Context, lat, lon float64) (string, error)
}

func (s *stubGeocoder) CityFor(ctx context.Context, lat, lon float64) (string, error) {
	if s.cityFunc != nil {
		return s.cityFunc(ctx, lat, lon)
	}
	return "Edinburgh", nil
}

func newTestLocationService(store ports.LocationStore, locator ports.Geolocator) *service.LocationService {
	if store == nil {
		store = newMemLocationStore()
	}
	if locator == nil {
		locator = &stubLocator{}
	}
	svc, err := service.NewLocationService(service.LocationServiceOptions{
		Locator:  locator,
		Geocoder: &stubGeocoder{},
		Store:    store,
	})
	if err != nil {
		panic(err)
	}
	return svc
}

func newTestFeedService(feed ports.AlertFeed) *service.FeedService {
	if feed == nil {
		feed = &stubAlertFeed{}
	}
	svc, err := service.NewFeedService(service.FeedServiceOptions{Feed: feed})
	if err != nil {
		panic(err)
	}
	return svc
}
