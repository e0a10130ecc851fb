package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/tourprism/tp-ui-api/internal/domain/auth"
	"github.com/tourprism/tp-ui-api/internal/service"
)

func cookieByName(t *testing.T, resp *http.Response, name string) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestLogin_RedirectsToProvider(t *testing.T) {
	h := &AuthHandlers{Svc: &mockAuthService{}, Logger: discardLogger()}

	req := httptest.NewRequest(http.MethodGet, "/auth/login?redirect_uri=/alerts", nil)
	w := httptest.NewRecorder()

	h.Login(w, req)
	resp := w.Result()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "https://idp.example.com/authorize?state=s1", resp.Header.Get("Location"))

	state := cookieByName(t, resp, "oauth_state")
	require.NotNil(t, state)
	assert.Equal(t, "s1", state.Value)
	assert.True(t, state.HttpOnly)

	nonce := cookieByName(t, resp, "oauth_nonce")
	require.NotNil(t, nonce)
	assert.Equal(t, "n1", nonce.Value)

	redirect := cookieByName(t, resp, "post_login_redirect")
	require.NotNil(t, redirect)
	assert.Equal(t, "/alerts", redirect.Value)
}

func TestLogin_RejectsAbsoluteRedirect(t *testing.T) {
	h := &AuthHandlers{Svc: &mockAuthService{}, Logger: discardLogger()}

	req := httptest.NewRequest(http.MethodGet, "/auth/login?redirect_uri=https://evil.example.com/phish", nil)
	w := httptest.NewRecorder()

	h.Login(w, req)
	resp := w.Result()

	redirect := cookieByName(t, resp, "post_login_redirect")
	require.NotNil(t, redirect)
	assert.Equal(t, "/", redirect.Value)
}

func TestLogin_BeginFailure(t *testing.T) {
	h := &AuthHandlers{
		Svc: &mockAuthService{
			beginFunc: func(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error) {
				return nil, errors.New("provider unreachable")
			},
		},
		Logger: discardLogger(),
	}

	req := httptest.NewRequest(http.MethodGet, "/auth/login", nil)
	w := httptest.NewRecorder()

	h.Login(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCallback_Success(t *testing.T) {
	var gotInput service.CompleteLoginInput
	h := &AuthHandlers{
		Svc: &mockAuthService{
			completeFunc: func(ctx context.Context, input service.CompleteLoginInput) (*service.CompleteLoginResult, error) {
				gotInput = input
				return &service.CompleteLoginResult{Session: testSession("new-session", domainauth.RoleUser)}, nil
			},
		},
		Logger: discardLogger(),
	}

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=c1&state=s1", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "s1"})
	req.AddCookie(&http.Cookie{Name: "oauth_nonce", Value: "n1"})
	req.AddCookie(&http.Cookie{Name: "post_login_redirect", Value: "/alerts"})
	w := httptest.NewRecorder()

	h.Callback(w, req)
	resp := w.Result()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/alerts", resp.Header.Get("Location"))
	assert.Equal(t, service.CompleteLoginInput{Code: "c1", State: "s1", Nonce: "n1"}, gotInput)

	session := cookieByName(t, resp, "session_id")
	require.NotNil(t, session)
	assert.Equal(t, "new-session", session.Value)
	assert.Positive(t, session.MaxAge)

	// Temporary OAuth cookies are cleared.
	state := cookieByName(t, resp, "oauth_state")
	require.NotNil(t, state)
	assert.Negative(t, state.MaxAge)
}

func TestCallback_StateMismatch(t *testing.T) {
	h := &AuthHandlers{Svc: &mockAuthService{}, Logger: discardLogger()}

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=c1&state=s1", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "different"})
	w := httptest.NewRecorder()

	h.Callback(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_state")
}

func TestCallback_MissingParams(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		errCode string
	}{
		{name: "missing code", target: "/auth/callback?state=s1", errCode: "missing_code"},
		{name: "missing state", target: "/auth/callback?code=c1", errCode: "missing_state"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &AuthHandlers{Svc: &mockAuthService{}, Logger: discardLogger()}
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			w := httptest.NewRecorder()

			h.Callback(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.errCode)
		})
	}
}

func TestLogout_ClearsSession(t *testing.T) {
	var loggedOut string
	h := &AuthHandlers{
		Svc: &mockAuthService{
			logoutFunc: func(ctx context.Context, sessionID string) error {
				loggedOut = sessionID
				return nil
			},
		},
		Logger: discardLogger(),
	}

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "sess-1"})
	w := httptest.NewRecorder()

	h.Logout(w, req)
	resp := w.Result()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "sess-1", loggedOut)

	cleared := cookieByName(t, resp, "session_id")
	require.NotNil(t, cleared)
	assert.Negative(t, cleared.MaxAge)
}

func TestMe_Authenticated(t *testing.T) {
	h := &AuthHandlers{Svc: &mockAuthService{
		getSessionFunc: func(ctx context.Context, sessionID string) (*domainauth.Session, error) {
			sess := testSession(sessionID, domainauth.RoleAdmin)
			return &sess, nil
		},
	}, Logger: discardLogger()}

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "sess-1"})
	w := httptest.NewRecorder()

	h.Me(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Authenticated bool `json:"authenticated"`
		User          struct {
			Role string `json:"role"`
		} `json:"user"`
		Capabilities domainauth.Capabilities `json:"capabilities"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Authenticated)
	assert.Equal(t, "admin", body.User.Role)
	assert.True(t, body.Capabilities.IsAdmin)
	assert.False(t, body.Capabilities.IsSuperAdmin)
}

func TestMe_Anonymous(t *testing.T) {
	h := &AuthHandlers{Svc: &mockAuthService{}, Logger: discardLogger()}

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	w := httptest.NewRecorder()

	h.Me(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Authenticated bool                    `json:"authenticated"`
		Capabilities  domainauth.Capabilities `json:"capabilities"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Authenticated)
	assert.False(t, body.Capabilities.IsAdmin)
}

func TestMe_ExpiredSessionClearsCookie(t *testing.T) {
	h := &AuthHandlers{Svc: &mockAuthService{
		getSessionFunc: func(ctx context.Context, sessionID string) (*domainauth.Session, error) {
			return nil, errors.New("session expired")
		},
	}, Logger: discardLogger()}

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "stale"})
	w := httptest.NewRecorder()

	h.Me(w, req)
	resp := w.Result()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	cleared := cookieByName(t, resp, "session_id")
	require.NotNil(t, cleared)
	assert.Negative(t, cleared.MaxAge)
}
