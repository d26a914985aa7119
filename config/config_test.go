package config

import (
	"reflect"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestParseServices(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    map[ServiceMode]bool
		expectError bool
	}{
		{
			name:     "single service - http",
			input:    "http",
			expected: map[ServiceMode]bool{ServiceModeHTTP: true},
		},
		{
			name:     "single service - reaper",
			input:    "reaper",
			expected: map[ServiceMode]bool{ServiceModeReaper: true},
		},
		{
			name:  "multiple services",
			input: "http,reaper",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP:   true,
				ServiceModeReaper: true,
			},
		},
		{
			name:  "services with spaces",
			input: " http , reaper ",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP:   true,
				ServiceModeReaper: true,
			},
		},
		{
			name:     "duplicate services",
			input:    "http,http",
			expected: map[ServiceMode]bool{ServiceModeHTTP: true},
		},
		{
			name:        "empty string",
			input:       "",
			expectError: true,
		},
		{
			name:        "only spaces and commas",
			input:       " , , ",
			expectError: true,
		},
		{
			name:        "invalid service name",
			input:       "http,invalid-service",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseServices(tt.input)

			if tt.expectError {
				if err == nil {
					t.Errorf("expected error but got none")
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}

			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestConfig_ServiceEnabledMethods(t *testing.T) {
	cfg := AppConfig{Services: "http", Reaper: BookingReaperConfig{Enabled: true}}
	if !cfg.IsHTTPServerEnabled() {
		t.Error("expected HTTP server to be enabled")
	}
	if cfg.IsReaperEnabled() {
		t.Error("expected reaper to be disabled when not in service list")
	}

	cfg = AppConfig{Services: "http,reaper", Reaper: BookingReaperConfig{Enabled: true}}
	if !cfg.IsReaperEnabled() {
		t.Error("expected reaper to be enabled")
	}

	cfg = AppConfig{Services: "http,reaper", Reaper: BookingReaperConfig{Enabled: false}}
	if cfg.IsReaperEnabled() {
		t.Error("expected reaper to respect REAPER_ENABLED=false")
	}

	// All methods return false when configuration is invalid.
	cfg = AppConfig{Services: "invalid-service"}
	if cfg.IsHTTPServerEnabled() || cfg.IsReaperEnabled() {
		t.Error("expected all services disabled with invalid config")
	}
}

func TestAppConfig_ParseAuthEnv(t *testing.T) {
	t.Setenv("AUTH_MODE", "oauth")
	t.Setenv("OAUTH_CLIENT_ID", "app-client")
	t.Setenv("OAUTH_CLIENT_SECRET", "super-secret")
	t.Setenv("OAUTH_REDIRECT_URL", "https://b-hotel.example.com/auth/callback")
	t.Setenv("OAUTH_SCOPE", "openid profile email")
	t.Setenv("PASSWORD_AUTH_RESET_SECRET", "reset-signing-key")
	t.Setenv("PASSWORD_AUTH_RESET_TTL", "30m")
	t.Setenv("DEV_AUTH_USER_ID", "dev-user")
	t.Setenv("DEV_AUTH_EMAIL", "dev@example.com")
	t.Setenv("SESSION_TTL", "12h")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}

	expected := AuthConfig{
		Mode: AuthModeOAuth,
		OAuth: OAuthConfig{
			ClientID:     "app-client",
			ClientSecret: "super-secret",
			RedirectURL:  "https://b-hotel.example.com/auth/callback",
			Scope:        "openid profile email",
			DiscoveryURL: "https://accounts.google.com",
		},
		Password: PasswordAuthConfig{
			ResetSecret: "reset-signing-key",
			ResetTTL:    30 * time.Minute,
		},
		DevAuth: DevAuthConfig{
			UserID: "dev-user",
			Email:  "dev@example.com",
			Name:   "Dev Admin",
		},
		SessionTTL: 12 * time.Hour,
	}

	if !reflect.DeepEqual(cfg.Auth, expected) {
		t.Fatalf("unexpected auth configuration:\nexpected: %#v\ngot:      %#v", expected, cfg.Auth)
	}
}

func TestAuthModeUnmarshal(t *testing.T) {
	var mode AuthMode
	if err := mode.UnmarshalText([]byte("PASSWORD")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mode != AuthModePassword {
		t.Fatalf("expected password mode, got %q", mode)
	}

	if err := mode.UnmarshalText([]byte("saml")); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestBookingReaperConfig_Sanitize(t *testing.T) {
	cfg := BookingReaperConfig{Interval: time.Second, PendingMaxAge: time.Minute}
	cfg.Sanitize()

	if cfg.Interval < time.Minute {
		t.Errorf("expected interval clamped to a minute, got %v", cfg.Interval)
	}
	if cfg.PendingMaxAge < time.Hour {
		t.Errorf("expected pending max age clamped to an hour, got %v", cfg.PendingMaxAge)
	}
}

func TestObservabilityMetricsConfig_Sanitize(t *testing.T) {
	cfg := ObservabilityMetricsConfig{Enabled: true, StatsdAddress: " "}
	cfg.Sanitize()
	if cfg.Enabled {
		t.Fatal("expected enabled to be false when address is empty")
	}

	cfg = ObservabilityMetricsConfig{Enabled: true, StatsdAddress: " statsd:1234 "}
	cfg.Sanitize()
	if !cfg.IsEnabled() {
		t.Fatal("expected metrics to remain enabled")
	}
	if cfg.StatsdAddress != "statsd:1234" {
		t.Fatalf("expected address to be trimmed, got %q", cfg.StatsdAddress)
	}
}

func TestObservabilityNotificationsConfig_Sanitize(t *testing.T) {
	cfg := ObservabilityNotificationsConfig{
		Enabled:    true,
		Timeout:    0,
		RetryLimit: -1,
		Slack: SlackNotificationConfig{
			Enabled:    true,
			WebhookURL: " ",
		},
		Webhook: WebhookNotificationConfig{
			Enabled: true,
			URL:     " ",
		},
	}

	cfg.Sanitize()

	if cfg.Timeout <= 0 {
		t.Fatalf("expected timeout to fall back to default, got %v", cfg.Timeout)
	}
	if cfg.RetryLimit < 0 {
		t.Fatalf("expected retry limit to be clamped to >= 0, got %d", cfg.RetryLimit)
	}
	if cfg.Slack.Enabled {
		t.Fatal("expected slack to be disabled without a webhook url")
	}
	if cfg.Webhook.Enabled {
		t.Fatal("expected webhook to be disabled without a url")
	}
	if cfg.Slack.Username != "bhotel" {
		t.Fatalf("expected slack username default, got %q", cfg.Slack.Username)
	}

	// Disabled top-level should disable child sinks.
	cfg = ObservabilityNotificationsConfig{
		Enabled: false,
		Slack: SlackNotificationConfig{
			Enabled:    true,
			WebhookURL: "https://hooks.slack.com/services/test",
		},
		Webhook: WebhookNotificationConfig{
			Enabled: true,
			URL:     "https://ops.example.com/hook",
		},
	}
	cfg.Sanitize()

	if cfg.Slack.Enabled || cfg.Webhook.Enabled {
		t.Fatal("expected child sinks disabled when top-level notifications disabled")
	}
}
