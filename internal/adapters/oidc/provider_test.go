package oidc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tourprism/tp-ui-api/internal/ports"
)

func newDiscoveryServer(t *testing.T) *httptest.Server {
	t.Helper()

	issuer := ""
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		doc := DiscoveryDocument{
			Issuer:                issuer,
			AuthorizationEndpoint: "https://example.com/auth",
			TokenEndpoint:         "https://example.com/token",
			UserinfoEndpoint:      "https://example.com/userinfo",
			JwksURI:               "https://example.com/jwks",
		}
		_ = json.NewEncoder(w).Encode(doc)
	})
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	issuer = server.URL
	return server
}

func TestNewProvider_Success(t *testing.T) {
	discoveryServer := newDiscoveryServer(t)

	provider, err := NewProvider(ProviderConfig{
		ClientID:     "tourprism",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost:8080/auth/callback",
		Scope:        "openid profile email groups",
		DiscoveryURL: discoveryServer.URL,
	})
	require.NoError(t, err)
	assert.NotNil(t, provider)
	assert.Equal(t, "https://example.com/auth", provider.config.Endpoint.AuthURL)
	assert.Equal(t, "https://example.com/token", provider.config.Endpoint.TokenURL)
}

func TestNewProvider_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		config ProviderConfig
		errMsg string
	}{
		{
			name: "missing client ID",
			config: ProviderConfig{
				ClientSecret: "secret",
				RedirectURL:  "http://localhost/callback",
				DiscoveryURL: "http://example.com",
			},
			errMsg: "client ID is required",
		},
		{
			name: "missing client secret",
			config: ProviderConfig{
				ClientID:     "client",
				RedirectURL:  "http://localhost/callback",
				DiscoveryURL: "http://example.com",
			},
			errMsg: "client secret is required",
		},
		{
			name: "missing redirect URL",
			config: ProviderConfig{
				ClientID:     "client",
				ClientSecret: "secret",
				DiscoveryURL: "http://example.com",
			},
			errMsg: "redirect URL is required",
		},
		{
			name: "missing discovery URL",
			config: ProviderConfig{
				ClientID:     "client",
				ClientSecret: "secret",
				RedirectURL:  "http://localhost/callback",
			},
			errMsg: "discovery URL is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProvider(tt.config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestBegin(t *testing.T) {
	discoveryServer := newDiscoveryServer(t)

	provider, err := NewProvider(ProviderConfig{
		ClientID:     "tourprism",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost:8080/auth/callback",
		Scope:        "openid profile email",
		DiscoveryURL: discoveryServer.URL,
	})
	require.NoError(t, err)

	authURL, state, nonce, err := provider.Begin(context.Background(), ports.BeginInput{RedirectURL: "/feed"})
	require.NoError(t, err)
	assert.Len(t, state, 32)
	assert.Len(t, nonce, 32)
	assert.Contains(t, authURL, "https://example.com/auth")
	assert.Contains(t, authURL, "state="+state)
	assert.Contains(t, authURL, "nonce="+nonce)
	assert.Contains(t, authURL, "response_type=code")

	_, _, _, err = provider.Begin(context.Background(), ports.BeginInput{})
	assert.Error(t, err, "redirect URL is required")
}

func TestMapIDTokenClaims(t *testing.T) {
	claims := idTokenClaims{
		Sub:               "u-1",
		Name:              "Ailsa Craig",
		Email:             "ailsa@example.com",
		Groups:            []string{"tourprism-users"},
		IsCollaborator:    true,
		CollaboratorRole:  "manager",
		CollaboratorEmail: "owner@example.com",
	}

	f := mapIDTokenClaims(claims)
	assert.Equal(t, "u-1", f.userID)
	assert.Equal(t, "Ailsa Craig", f.name)
	assert.Equal(t, "ailsa@example.com", f.email)
	assert.Equal(t, []string{"tourprism-users"}, f.groups)
	assert.True(t, f.isCollaborator)
	assert.Equal(t, "manager", f.collaboratorRole)
	assert.Equal(t, "owner@example.com", f.collaboratorEmail)
}

func TestFillFromUserInfoClaims(t *testing.T) {
	f := idFields{userID: "u-1"}
	fillFromUserInfoClaims(&f, UserInfo{
		Subject:          "ignored",
		Name:             "Ailsa",
		Email:            "ailsa@example.com",
		Groups:           []string{"g1"},
		IsCollaborator:   true,
		CollaboratorRole: "viewer",
	})

	assert.Equal(t, "u-1", f.userID, "existing fields are not overwritten")
	assert.Equal(t, "Ailsa", f.name)
	assert.Equal(t, "ailsa@example.com", f.email)
	assert.Equal(t, []string{"g1"}, f.groups)
	assert.True(t, f.isCollaborator)
	assert.Equal(t, "viewer", f.collaboratorRole)
}

func TestGenerateRandomString(t *testing.T) {
	a, err := generateRandomString(32)
	require.NoError(t, err)
	b, err := generateRandomString(32)
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.Len(t, b, 32)
	assert.NotEqual(t, a, b)

	empty, err := generateRandomString(0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
