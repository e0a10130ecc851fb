package bootstrap

import (
	"io"
	"log/slog"
	"testing"

	"github.com/tourprism/tp-ui-api/config"
)

func TestBuildAuthServiceReturnsNilWithoutRedis(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name string
		auth config.AuthConfig
	}{
		{
			name: "dev auth mode",
			auth: config.AuthConfig{
				Mode: config.AuthModeMock,
				RoleGroups: config.RoleGroupsConfig{
					Admin:  "tp-admins",
					Viewer: "tp-viewers",
				},
				DevAuth: config.DevAuthConfig{
					UserID: "dev",
					Email:  "dev@example.com",
					Groups: []string{"tp-admins"},
				},
			},
		},
		{
			name: "oauth mode",
			auth: config.AuthConfig{
				Mode: config.AuthModeOAuth,
				RoleGroups: config.RoleGroupsConfig{
					Admin:  "tp-admins",
					Viewer: "tp-viewers",
				},
				OAuth: config.OAuthConfig{
					ClientID:     "client-id",
					ClientSecret: "client-secret",
					DiscoveryURL: "https://issuer.example.com",
					RedirectURL:  "https://alerts.example.com/auth/callback",
					Scope:        "openid",
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := AuthConfig{
				Auth:        tt.auth,
				RedisClient: nil,
				Logger:      logger,
			}

			if svc := BuildAuthService(cfg); svc != nil {
				t.Fatalf("BuildAuthService() = %v, want nil", svc)
			}
		})
	}
}
