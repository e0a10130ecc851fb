package httpx

import (
	"log/slog"
	"net/http"

	"github.com/tourprism/tp-ui-api/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth      AuthServiceInterface
	Feed      *service.FeedService
	Locations *service.LocationService
	ActionHub *service.ActionHubService
	Dashboard *service.DashboardService

	CookieDomain string
	Logger       *slog.Logger
}

// NewRouter creates and configures a new HTTP router.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	if services.Auth != nil {
		authHandlers := &AuthHandlers{Svc: services.Auth, CookieDomain: services.CookieDomain, Logger: logger}
		registerAuthRoutes(mux, authHandlers)
	}

	if services.Feed != nil {
		registerFeedRoutes(mux, &FeedHandlers{Feed: services.Feed, Locations: services.Locations}, services.Auth)
	}

	if services.Locations != nil {
		registerLocationRoutes(mux, &LocationHandlers{Svc: services.Locations}, services.Auth)
	}

	if services.ActionHub != nil {
		flagHandlers := &FlagHandlers{Svc: services.ActionHub}
		mux.Handle("POST /api/alerts/{id}/flag", RequireAuth(services.Auth)(http.HandlerFunc(flagHandlers.Flag)))
	}

	if services.Dashboard != nil {
		dashHandlers := &DashboardHandlers{Svc: services.Dashboard}
		adminOnly := RequireRole(services.Auth, "admin", "superadmin")
		mux.Handle("GET /api/dashboard", adminOnly(http.HandlerFunc(dashHandlers.Load)))
	}

	var handler http.Handler = mux
	handler = Recover(logger)(handler)
	handler = Logging(logger)(handler)
	return handler
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("GET /auth/login", h.Login)
	mux.HandleFunc("GET /auth/callback", h.Callback)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /api/me", h.Me)
}

// Feed routes accept anonymous callers; a session, when present, lifts the
// anonymous truncation rules.
func registerFeedRoutes(mux *http.ServeMux, h *FeedHandlers, auth AuthServiceInterface) {
	withSession := optionalSession(auth)
	mux.Handle("GET /api/feed", withSession(http.HandlerFunc(h.Fetch)))
	mux.Handle("POST /api/feed/more", withSession(http.HandlerFunc(h.LoadMore)))
}

func registerLocationRoutes(mux *http.ServeMux, h *LocationHandlers, auth AuthServiceInterface) {
	withSession := optionalSession(auth)
	mux.Handle("GET /api/location", withSession(http.HandlerFunc(h.Current)))
	mux.Handle("POST /api/location/resolve", withSession(http.HandlerFunc(h.Resolve)))
	mux.Handle("POST /api/location/manual", withSession(http.HandlerFunc(h.Manual)))
	mux.Handle("POST /api/location/reset", withSession(http.HandlerFunc(h.Reset)))
}

// optionalSession wraps OptionalAuth but tolerates a nil auth service so
// the router can run without authentication wired (tests, local dev).
func optionalSession(auth AuthServiceInterface) func(http.Handler) http.Handler {
	if auth == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return OptionalAuth(auth)
}
