package config

import (
	"fmt"
	"strings"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeOAuth uses OAuth/OIDC for authentication.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "oauth", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: oauth, mock)", v)
	}
}

// OAuthConfig contains OAuth/OIDC configuration.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"tp-ui-api"`
	ClientSecret string `env:"CLIENT_SECRET" envDefault:"tp-ui-api"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email groups"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
	LogoutURL    string `env:"LOGOUT_URL"`
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	UserID string   `env:"USER_ID" envDefault:"dev-user"`
	Name   string   `env:"NAME"    envDefault:"Dev User"`
	Email  string   `env:"EMAIL"   envDefault:"dev@example.com"`
	Groups []string `env:"GROUPS"  envDefault:"tp-admins"        envSeparator:";"`
}

// RoleGroupsConfig maps IdP group names onto the application's primary roles.
// A user's first matching group wins; users with no matching group become
// plain users.
type RoleGroupsConfig struct {
	SuperAdmin string `env:"SUPERADMIN" envDefault:"tp-superadmins"`
	Admin      string `env:"ADMIN"      envDefault:"tp-admins"`
	Manager    string `env:"MANAGER"    envDefault:"tp-managers"`
	Editor     string `env:"EDITOR"     envDefault:"tp-editors"`
	Viewer     string `env:"VIEWER"     envDefault:"tp-viewers"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"oauth"`

	// OAuth configuration (used when Mode=oauth).
	OAuth OAuthConfig `envPrefix:"OAUTH_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// RoleGroups maps IdP groups to primary roles.
	RoleGroups RoleGroupsConfig `envPrefix:"ROLE_GROUP_"`
}
