package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeOAuth uses OAuth/OIDC (Google) plus local password accounts.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModePassword uses local password accounts only.
	AuthModePassword AuthMode = "password"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "oauth", "password", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: oauth, password, mock)", v)
	}
}

// OAuthConfig contains OAuth/OIDC configuration for the Google provider.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email"`
	DiscoveryURL string `env:"DISCOVERY_URL" envDefault:"https://accounts.google.com"`
}

// PasswordAuthConfig controls local email/password accounts and the signed
// password-reset token flow.
type PasswordAuthConfig struct {
	// ResetSecret signs password-reset tokens. Required outside dev mode.
	ResetSecret string `env:"RESET_SECRET"`

	// ResetTTL is the validity window of a password-reset token.
	ResetTTL time.Duration `env:"RESET_TTL" envDefault:"1h"`

	// BcryptCost is the bcrypt work factor for stored password hashes.
	// Zero uses the library default.
	BcryptCost int `env:"BCRYPT_COST" envDefault:"0"`
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	UserID string `env:"USER_ID" envDefault:"dev-user"`
	Email  string `env:"EMAIL"   envDefault:"dev@b-hotel.test"`
	Name   string `env:"NAME"    envDefault:"Dev Admin"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which identity provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"password"`

	// OAuth configuration (used when Mode=oauth).
	OAuth OAuthConfig `envPrefix:"OAUTH_"`

	// Password configuration (used when Mode=oauth or Mode=password).
	Password PasswordAuthConfig `envPrefix:"PASSWORD_AUTH_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// SessionTTL is the lifetime of server-side sessions.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.SessionTTL <= 0 {
		a.SessionTTL = 24 * time.Hour
	}
	if a.Password.ResetTTL <= 0 {
		a.Password.ResetTTL = time.Hour
	}
	if a.Password.BcryptCost < 0 {
		a.Password.BcryptCost = 0
	}
}
