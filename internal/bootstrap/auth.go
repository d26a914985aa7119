package bootstrap

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bhotel/bhotel-ui-api/config"
	"github.com/bhotel/bhotel-ui-api/internal/adapters/devauth"
	"github.com/bhotel/bhotel-ui-api/internal/adapters/oidc"
	"github.com/bhotel/bhotel-ui-api/internal/adapters/pgauth"
	redisadapter "github.com/bhotel/bhotel-ui-api/internal/adapters/redis"
	"github.com/bhotel/bhotel-ui-api/internal/data"
	"github.com/bhotel/bhotel-ui-api/internal/ports"
	"github.com/bhotel/bhotel-ui-api/internal/service"
	"github.com/redis/go-redis/v9"
)

// devResetSecret signs password-reset tokens in development mode only; a
// missing AUTH_PASSWORD_AUTH_RESET_SECRET outside dev mode disables auth.
const devResetSecret = "bhotel-dev-reset-secret"

// AuthConfig contains configuration for auth service.
type AuthConfig struct {
	Auth        config.AuthConfig
	IsDev       bool
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// BuildAuthService creates an auth service based on the configured auth mode.
// Returns nil if auth is not configured or configuration is invalid.
func BuildAuthService(cfg AuthConfig) *service.AuthService {
	if cfg.RedisClient == nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("auth service disabled: redis client not configured", "mode", cfg.Auth.Mode)
		}
		return nil
	}
	if cfg.DB == nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("auth service disabled: database not configured", "mode", cfg.Auth.Mode)
		}
		return nil
	}

	// Redis session store and Postgres role store are shared by all modes.
	sessionStore := redisadapter.NewSessionStoreWithPrefix(cfg.RedisClient, "session:")
	roleStore := data.NewUserRepo(cfg.DB)

	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		return buildDevAuthService(cfg, sessionStore, roleStore)

	case config.AuthModePassword:
		return buildPasswordAuthService(cfg, sessionStore, roleStore, nil)

	case config.AuthModeOAuth:
		federated := buildOIDCProvider(cfg)
		if federated == nil {
			return nil
		}
		return buildPasswordAuthService(cfg, sessionStore, roleStore, federated)

	default:
		return nil
	}
}

// BuildIdentityProvider constructs just the identity provider for the
// configured auth mode, without the session store. The admin CLI hosts a
// session controller directly on top of it.
//
//nolint:ireturn // callers program against the port, not a concrete provider.
func BuildIdentityProvider(cfg AuthConfig) (ports.IdentityProvider, error) {
	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		prov, err := devauth.NewProvider(devauth.Config{
			UserID: cfg.Auth.DevAuth.UserID,
			Email:  cfg.Auth.DevAuth.Email,
			Name:   cfg.Auth.DevAuth.Name,
		})
		if err != nil {
			return nil, err
		}
		return prov, nil

	case config.AuthModePassword, config.AuthModeOAuth:
		// OAuth mode still authenticates local accounts with passwords;
		// the federated flow needs a browser and is not available here.
		if cfg.DB == nil {
			return nil, errors.New("password auth requires a database connection")
		}
		secret := cfg.Auth.Password.ResetSecret
		if secret == "" {
			if !cfg.IsDev {
				return nil, errors.New("password auth requires PASSWORD_AUTH_RESET_SECRET outside dev mode")
			}
			secret = devResetSecret
		}
		prov, err := pgauth.NewProvider(pgauth.Options{
			Store:       data.NewUserRepo(cfg.DB),
			Logger:      cfg.Logger,
			ResetSecret: []byte(secret),
			ResetTTL:    cfg.Auth.Password.ResetTTL,
			BcryptCost:  cfg.Auth.Password.BcryptCost,
		})
		if err != nil {
			return nil, err
		}
		return prov, nil

	default:
		return nil, fmt.Errorf("unsupported auth mode %q", cfg.Auth.Mode)
	}
}

func buildDevAuthService(
	cfg AuthConfig,
	sessionStore *redisadapter.SessionStore,
	roleStore ports.RoleStore,
) *service.AuthService {
	// Explicitly enabled dev auth mode; build a local provider.
	prov, err := devauth.NewProvider(devauth.Config{
		UserID: cfg.Auth.DevAuth.UserID,
		Email:  cfg.Auth.DevAuth.Email,
		Name:   cfg.Auth.DevAuth.Name,
	})
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("failed to create dev auth provider, auth disabled", "error", err)
		}
		return nil
	}

	svc, err := service.NewAuthService(service.AuthServiceOptions{
		Provider:   prov,
		Federated:  prov,
		Sessions:   sessionStore,
		Roles:      roleStore,
		Logger:     cfg.Logger,
		SessionTTL: cfg.Auth.SessionTTL,
	})
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("failed to create auth service, auth disabled", "error", err)
		}
		return nil
	}
	return svc
}

func buildPasswordAuthService(
	cfg AuthConfig,
	sessionStore *redisadapter.SessionStore,
	roleStore ports.RoleStore,
	federated ports.FederatedProvider,
) *service.AuthService {
	secret := cfg.Auth.Password.ResetSecret
	if secret == "" {
		if !cfg.IsDev {
			if cfg.Logger != nil {
				cfg.Logger.Warn("password auth selected but reset secret missing; auth disabled")
			}
			return nil
		}
		secret = devResetSecret
	}

	prov, err := pgauth.NewProvider(pgauth.Options{
		Store:       data.NewUserRepo(cfg.DB),
		Logger:      cfg.Logger,
		ResetSecret: []byte(secret),
		ResetTTL:    cfg.Auth.Password.ResetTTL,
		BcryptCost:  cfg.Auth.Password.BcryptCost,
	})
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("failed to create password auth provider, auth disabled", "error", err)
		}
		return nil
	}

	svc, err := service.NewAuthService(service.AuthServiceOptions{
		Provider:   prov,
		Federated:  federated,
		Sessions:   sessionStore,
		Roles:      roleStore,
		Logger:     cfg.Logger,
		SessionTTL: cfg.Auth.SessionTTL,
	})
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("failed to create auth service, auth disabled", "error", err)
		}
		return nil
	}
	return svc
}

//nolint:ireturn // the nil return must stay comparable for the caller's disabled check.
func buildOIDCProvider(cfg AuthConfig) ports.FederatedProvider {
	// Only enable when fully configured
	oauth := cfg.Auth.OAuth
	if oauth.DiscoveryURL == "" || oauth.ClientID == "" || oauth.ClientSecret == "" {
		if cfg.Logger != nil {
			cfg.Logger.Warn("AuthModeOAuth selected but required config missing; auth disabled",
				"discovery_url_empty", oauth.DiscoveryURL == "",
				"client_id_empty", oauth.ClientID == "",
				"client_secret_empty", oauth.ClientSecret == "",
			)
		}
		return nil
	}

	prov, err := oidc.NewProvider(oidc.ProviderConfig{
		ClientID:     oauth.ClientID,
		ClientSecret: oauth.ClientSecret,
		RedirectURL:  oauth.RedirectURL,
		Scope:        oauth.Scope,
		DiscoveryURL: oauth.DiscoveryURL,
	})
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("failed to create OIDC provider, auth disabled", "error", err)
		}
		return nil
	}
	return prov
}
