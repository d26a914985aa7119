package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bhotel/bhotel-ui-api/config"
	"github.com/bhotel/bhotel-ui-api/internal/adapters/reaper"
	"github.com/bhotel/bhotel-ui-api/internal/adapters/s3store"
	"github.com/bhotel/bhotel-ui-api/internal/data"
	"github.com/bhotel/bhotel-ui-api/internal/observability/notify"
	"github.com/bhotel/bhotel-ui-api/internal/observability/notify/slack"
	"github.com/bhotel/bhotel-ui-api/internal/observability/notify/webhook"
	"github.com/bhotel/bhotel-ui-api/internal/observability/statsd"
	"github.com/bhotel/bhotel-ui-api/internal/ports"
	"github.com/bhotel/bhotel-ui-api/internal/service"
	"github.com/redis/go-redis/v9"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth          *service.AuthService
	Rooms         *service.RoomService
	Bookings      *service.BookingService
	Reviews       *service.ReviewService
	Messages      *service.MessageService
	Settings      *service.SettingsService
	Observability ObservabilityContainer
}

// ObservabilityContainer groups shared observability dependencies.
type ObservabilityContainer struct {
	MetricsSink   *statsd.Client
	MetricsConfig config.ObservabilityMetricsConfig
	Notifier      ports.Notifier
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// serviceRepositories groups data adapters backing service ports.
type serviceRepositories struct {
	DB           *sql.DB
	Redis        redis.UniversalClient
	RoomRepo     *data.RoomRepo
	BookingRepo  *data.BookingRepo
	ReviewRepo   *data.ReviewRepo
	MessageRepo  *data.MessageRepo
	SettingsRepo *data.SettingsRepo
	CacheRepo    *data.RedisCacheRepo
}

// buildObservability configures metrics and notification adapters.
func buildObservability(logger *slog.Logger, cfg config.ObservabilityConfig) ObservabilityContainer {
	obsLogger := logger
	if obsLogger == nil {
		obsLogger = slog.Default()
	}

	var metricsSink *statsd.Client
	if cfg.Metrics.IsEnabled() {
		client, err := statsd.NewClient(statsd.Config{
			Enabled: true,
			Address: cfg.Metrics.StatsdAddress,
			Prefix:  cfg.Metrics.StatsdPrefix,
			Logger:  obsLogger,
		})
		if err != nil {
			obsLogger.Error("failed to initialise statsd client", "error", err)
		} else {
			metricsSink = client
		}
	}

	return ObservabilityContainer{
		MetricsSink:   metricsSink,
		MetricsConfig: cfg.Metrics,
		Notifier:      buildNotifier(obsLogger, cfg.Notifications),
	}
}

// buildNotifier assembles the staff notification fan-out from the configured
// sinks. Disabled notifications produce a nil notifier, which services treat
// as "do not notify".
//
//nolint:ireturn // callers only see the Notifier port.
func buildNotifier(logger *slog.Logger, cfg config.ObservabilityNotificationsConfig) ports.Notifier {
	if !cfg.Enabled {
		return nil
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}
	sinks := make([]ports.Notifier, 0, 2)

	if cfg.Slack.Enabled {
		client, err := slack.NewClient(slack.Config{
			WebhookURL: cfg.Slack.WebhookURL,
			Channel:    cfg.Slack.Channel,
			Username:   cfg.Slack.Username,
			RetryLimit: cfg.RetryLimit,
			HTTPClient: httpClient,
		})
		if err != nil {
			logger.Error("failed to initialise slack notifier", "error", err)
		} else {
			sinks = append(sinks, client)
		}
	}

	if cfg.Webhook.Enabled {
		client, err := webhook.NewClient(webhook.Config{
			URL:        cfg.Webhook.URL,
			Method:     cfg.Webhook.Method,
			BodyExpr:   cfg.Webhook.BodyExpr,
			OkStatus:   cfg.Webhook.OkStatus,
			HTTPClient: httpClient,
		})
		if err != nil {
			logger.Error("failed to initialise webhook notifier", "error", err)
		} else {
			sinks = append(sinks, client)
		}
	}

	if len(sinks) == 0 {
		return nil
	}
	return notify.NewMulti(logger.With("component", "notifier"), sinks...)
}

// buildRepositories builds repositories backing service ports; no business rules here.
func buildRepositories(db *sql.DB, redisClient redis.UniversalClient) *serviceRepositories {
	repos := &serviceRepositories{DB: db, Redis: redisClient}
	if db != nil {
		repos.RoomRepo = data.NewRoomRepo(db)
		repos.BookingRepo = data.NewBookingRepo(db)
		repos.ReviewRepo = data.NewReviewRepo(db)
		repos.MessageRepo = data.NewMessageRepo(db)
		repos.SettingsRepo = data.NewSettingsRepo(db)
	}
	if redisClient != nil {
		repos.CacheRepo = data.NewRedisCacheRepo(redisClient)
	}
	return repos
}

// buildObjectStore creates the S3-backed image store when storage is enabled.
//
//nolint:ireturn // callers only see the ObjectStore port.
func buildObjectStore(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) ports.ObjectStore {
	if !cfg.Enabled {
		return nil
	}

	store, err := s3store.New(ctx, s3store.Config{
		Region:        cfg.Region,
		Bucket:        cfg.Bucket,
		Endpoint:      cfg.Endpoint,
		AccessKey:     cfg.AccessKey,
		SecretKey:     cfg.SecretKey,
		PublicBaseURL: cfg.PublicBaseURL,
	})
	if err != nil {
		if logger != nil {
			logger.Error("failed to initialise object store, image uploads disabled", "error", err)
		}
		return nil
	}
	return store
}

// NewServices wires repositories, adapters, and services together.
func NewServices(deps *ServiceDeps) ServiceContainer {
	if deps == nil {
		return ServiceContainer{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	appCfg := deps.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	observability := buildObservability(logger, appCfg.Observability)
	repos := buildRepositories(deps.DB, deps.RedisClient)

	container := ServiceContainer{Observability: observability}
	if repos.RoomRepo == nil {
		// Without a database there is nothing to serve.
		logger.Warn("database not configured; domain services disabled")
		return container
	}

	objects := buildObjectStore(context.Background(), appCfg.Storage, logger)

	container.Auth = BuildAuthService(AuthConfig{
		Auth:        appCfg.Auth,
		IsDev:       appCfg.IsDev,
		DB:          deps.DB,
		RedisClient: deps.RedisClient,
		Logger:      logger,
	})

	var err error
	container.Rooms, err = service.NewRoomService(service.RoomServiceOptions{
		Repo:    repos.RoomRepo,
		Objects: objects,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to create room service", "error", err)
	}

	container.Bookings, err = service.NewBookingService(service.BookingServiceOptions{
		Bookings: repos.BookingRepo,
		Rooms:    repos.RoomRepo,
		Notifier: observability.Notifier,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("failed to create booking service", "error", err)
	}

	container.Reviews, err = service.NewReviewService(service.ReviewServiceOptions{
		Repo:   repos.ReviewRepo,
		Logger: logger,
	})
	if err != nil {
		logger.Error("failed to create review service", "error", err)
	}

	container.Messages, err = service.NewMessageService(service.MessageServiceOptions{
		Repo:     repos.MessageRepo,
		Notifier: observability.Notifier,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("failed to create message service", "error", err)
	}

	var settingsCache service.SettingsCache
	if repos.CacheRepo != nil {
		settingsCache = repos.CacheRepo
	}
	container.Settings, err = service.NewSettingsService(service.SettingsServiceOptions{
		Repo:   repos.SettingsRepo,
		Cache:  settingsCache,
		Logger: logger,
	})
	if err != nil {
		logger.Error("failed to create settings service", "error", err)
	}

	return container
}

// ServiceOrchestrationConfig contains configuration for service orchestration.
type ServiceOrchestrationConfig struct {
	Config      *config.AppConfig
	Services    ServiceContainer
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

const (
	// shutdownWaitTimeout is the maximum time to wait for services to stop gracefully.
	shutdownWaitTimeout = 15 * time.Second
)

// serviceStartupDeps groups dependencies for service startup.
type serviceStartupDeps struct {
	ctx             context.Context
	cfg             *ServiceOrchestrationConfig
	logger          *slog.Logger
	enabledServices map[config.ServiceMode]bool
	errCh           chan error
}

// backgroundService describes a startable background component.
type backgroundService struct {
	mode  config.ServiceMode
	name  string
	start func(context.Context) error
}

// backgroundServiceHandle tracks a running background service.
type backgroundServiceHandle struct {
	mode config.ServiceMode
	name string
	done <-chan struct{}
}

// startHTTPServerIfEnabled starts the HTTP server if enabled.
func startHTTPServerIfEnabled(deps *serviceStartupDeps) *http.Server {
	if deps == nil || deps.cfg == nil || !deps.enabledServices[config.ServiceModeHTTP] {
		return nil
	}
	return StartHTTPServer(&HTTPServerConfig{
		Config:   deps.cfg.Config,
		Services: deps.cfg.Services,
		Logger:   deps.logger,
	})
}

func launchBackground(ctx context.Context, deps *serviceStartupDeps, descriptor backgroundService) <-chan struct{} {
	if deps == nil || !deps.enabledServices[descriptor.mode] {
		return nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := descriptor.start(ctx); err != nil {
			errMsg := fmt.Errorf("%s failed: %w", descriptor.name, err)
			select {
			case deps.errCh <- errMsg:
			case <-ctx.Done():
			default:
				deps.logger.WarnContext(ctx, "dropping background service error",
					"service", descriptor.name,
					"error", errMsg,
				)
			}
		}
	}()

	deps.logger.InfoContext(ctx, "background service started", "service", descriptor.name, "mode", descriptor.mode)

	return done
}

func startBackgroundServices(deps *serviceStartupDeps, services []backgroundService) []backgroundServiceHandle {
	if deps == nil {
		return nil
	}
	handles := make([]backgroundServiceHandle, 0, len(services))

	for _, svc := range services {
		done := launchBackground(deps.ctx, deps, svc)
		if done == nil {
			continue
		}

		handles = append(handles, backgroundServiceHandle{
			mode: svc.mode,
			name: svc.name,
			done: done,
		})
	}

	return handles
}

func newReaperBackgroundService(deps *serviceStartupDeps) backgroundService {
	return backgroundService{
		mode: config.ServiceModeReaper,
		name: "booking reaper",
		start: func(ctx context.Context) error {
			if deps == nil || deps.cfg == nil {
				return nil
			}
			var reaperCfg config.BookingReaperConfig
			if deps.cfg.Config != nil {
				reaperCfg = deps.cfg.Config.Reaper
			}
			if !reaperCfg.Enabled {
				deps.logger.InfoContext(ctx, "booking reaper disabled by configuration")
				return nil
			}

			runner, err := reaper.NewRunner(reaper.RunnerOptions{
				DB:      deps.cfg.DB,
				Config:  reaperCfg,
				Logger:  deps.logger,
				Metrics: deps.cfg.Services.Observability.MetricsSink,
			})
			if err != nil {
				return fmt.Errorf("create booking reaper: %w", err)
			}
			return runner.Run(ctx)
		},
	}
}

func buildBackgroundServices(deps *serviceStartupDeps) []backgroundService {
	if deps == nil {
		return nil
	}
	return []backgroundService{
		newReaperBackgroundService(deps),
	}
}

// ServiceStartupResult holds the results of starting all services.
type ServiceStartupResult struct {
	HTTPServer *http.Server
	Background []backgroundServiceHandle
}

// startServices starts all enabled services and returns their completion channels.
func startServices(deps *serviceStartupDeps) ServiceStartupResult {
	return ServiceStartupResult{
		HTTPServer: startHTTPServerIfEnabled(deps),
		Background: startBackgroundServices(deps, buildBackgroundServices(deps)),
	}
}

// RunServicesWithShutdown starts all enabled services and manages their lifecycle.
// This function blocks until a shutdown signal is received or a service fails.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil {
		return errors.New("service orchestration config is required")
	}
	ctx := context.Background()
	serviceCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}

	// Determine which services are enabled
	enabledServices, err := cfg.Config.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("determine enabled services: %w", err)
	}
	errCh := make(chan error, errorChannelBufferSize(enabledServices))

	// Start all enabled services
	result := startServices(&serviceStartupDeps{
		ctx:             serviceCtx,
		cfg:             cfg,
		logger:          logger,
		enabledServices: enabledServices,
		errCh:           errCh,
	})

	// Wait for shutdown signal or error
	return waitForShutdown(shutdownConfig{
		ctx:         serviceCtx,
		cancel:      cancel,
		errCh:       errCh,
		httpServer:  result.HTTPServer,
		logger:      logger,
		backgrounds: result.Background,
	})
}

func errorChannelCapacity(enabled map[config.ServiceMode]bool) int {
	count := 0
	for _, mode := range config.ValidServiceModes() {
		if enabled[mode] {
			count++
		}
	}
	return count
}

func errorChannelBufferSize(enabled map[config.ServiceMode]bool) int {
	size := errorChannelCapacity(enabled) + 1
	if size < 1 {
		return 1
	}
	return size
}

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	ctx         context.Context
	cancel      context.CancelFunc
	errCh       <-chan error
	httpServer  *http.Server
	logger      *slog.Logger
	backgrounds []backgroundServiceHandle
}

// waitForShutdown waits for shutdown signal or service error.
func waitForShutdown(cfg shutdownConfig) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
		cfg.logger.Info("shutting down services...")
		cfg.cancel() // Cancel service context before waiting
		return gracefulStop(cfg)
	case err := <-cfg.errCh:
		cfg.logger.Error("service error", "error", err)
		cfg.cancel() // Cancel service context before waiting
		if stopErr := gracefulStop(cfg); stopErr != nil {
			cfg.logger.Error("graceful stop failed", "error", stopErr)
		}
		return err
	}
}

// gracefulStop attempts to gracefully stop all services.
func gracefulStop(cfg shutdownConfig) error {
	// Gracefully stop HTTP server if running
	if cfg.httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(cfg.ctx, shutdownWaitTimeout)
		defer cancel()

		if err := ShutdownHTTPServer(ShutdownConfig{
			Context: shutdownCtx,
			Server:  cfg.httpServer,
			Logger:  cfg.logger,
		}); err != nil {
			return err
		}
	}

	// Wait for background services to finish
	for _, svc := range cfg.backgrounds {
		waitForService(svc.done, svc.name, cfg.logger)
	}

	return nil
}

// waitForService waits for a service to finish with timeout.
func waitForService(done <-chan struct{}, name string, logger *slog.Logger) {
	if done == nil {
		return
	}
	select {
	case <-done:
		logger.Info(name + " stopped")
	case <-time.After(shutdownWaitTimeout):
		logger.Warn("timeout waiting for " + name + " to stop")
	}
}
