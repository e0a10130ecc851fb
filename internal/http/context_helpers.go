package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/tourprism/tp-ui-api/internal/domain/auth"
)

// sessionKey is an unexported context key type for the authenticated session.
type sessionKey struct{}

// SetSessionInContext stores the session in the request context.
func SetSessionInContext(ctx context.Context, session *domainauth.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetSessionFromContext returns the session stored by the auth middleware,
// or nil when the request is anonymous.
func GetSessionFromContext(ctx context.Context) *domainauth.Session {
	if session, ok := ctx.Value(sessionKey{}).(*domainauth.Session); ok {
		return session
	}
	return nil
}

// clientIDCookieMaxAge keeps anonymous feed/location state addressable
// across visits without turning it into a long-lived identifier.
const clientIDCookieMaxAge = 30 * 24 * 60 * 60

// clientKey returns the key that feed and location state is stored under,
// plus whether the caller is anonymous. Authenticated requests use the
// session ID; anonymous requests get a client_id cookie minted on first use.
func clientKey(w http.ResponseWriter, r *http.Request) (string, bool) {
	if session := GetSessionFromContext(r.Context()); session != nil {
		return session.ID, false
	}

	if c, err := r.Cookie("client_id"); err == nil && c.Value != "" {
		return c.Value, true
	}

	id := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     "client_id",
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   clientIDCookieMaxAge,
		Expires:  time.Now().Add(clientIDCookieMaxAge * time.Second),
	})
	return id, true
}

// isSecureRequest reports whether the request arrived over TLS, directly or
// behind a terminating proxy.
func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"
}
