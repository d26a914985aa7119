package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bhotel/bhotel-ui-api/internal/data"
	"github.com/bhotel/bhotel-ui-api/internal/domain/hotel"
	"github.com/bhotel/bhotel-ui-api/internal/ports"
)

const (
	settingsCacheKey = "bhotel:settings"
	settingsCacheTTL = 5 * time.Minute
)

// SettingsCache is the cache-aside store for rendered settings. The Redis
// cache repo satisfies it; a nil cache disables caching.
type SettingsCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) (bool, error)
}

// SettingsServiceOptions groups dependencies for SettingsService.
type SettingsServiceOptions struct {
	Repo   ports.SettingsRepository // Required: settings repository
	Cache  SettingsCache            // Optional: cache-aside layer
	Logger *slog.Logger             // Optional: structured logger
}

// SettingsService provides read and update access to the singleton site
// settings. Reads go through the cache; a fresh install serves defaults
// until the admin saves the form once.
type SettingsService struct {
	repo   ports.SettingsRepository
	cache  SettingsCache
	logger *slog.Logger
}

// NewSettingsService constructs a new SettingsService.
func NewSettingsService(opts SettingsServiceOptions) (*SettingsService, error) {
	if opts.Repo == nil {
		return nil, errors.New("SettingsRepository is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &SettingsService{
		repo:   opts.Repo,
		cache:  opts.Cache,
		logger: logger.With("component", "settings_service"),
	}, nil
}

// Get returns the current site settings. Cache misses fall through to the
// repository, and a never-written row yields the defaults.
func (s *SettingsService) Get(ctx context.Context) (hotel.SiteSettings, error) {
	if cached, ok := s.fromCache(ctx); ok {
		return cached, nil
	}

	stored, err := s.repo.Get(ctx)
	switch {
	case errors.Is(err, data.ErrSettingsNotFound):
		return hotel.DefaultSettings(), nil
	case err != nil:
		return hotel.SiteSettings{}, fmt.Errorf("get settings: %w", err)
	}

	s.toCache(ctx, *stored)
	return *stored, nil
}

// Update stores new settings and invalidates the cache.
func (s *SettingsService) Update(ctx context.Context, settings hotel.SiteSettings) (hotel.SiteSettings, error) {
	stored, err := s.repo.Upsert(ctx, settings)
	if err != nil {
		return hotel.SiteSettings{}, fmt.Errorf("update settings: %w", err)
	}

	if s.cache != nil {
		if _, delErr := s.cache.Delete(ctx, settingsCacheKey); delErr != nil {
			s.logger.WarnContext(ctx, "settings cache invalidation failed", "error", delErr)
		}
	}
	s.logger.InfoContext(ctx, "site settings updated")
	return *stored, nil
}

func (s *SettingsService) fromCache(ctx context.Context) (hotel.SiteSettings, bool) {
	if s.cache == nil {
		return hotel.SiteSettings{}, false
	}

	raw, err := s.cache.Get(ctx, settingsCacheKey)
	if err != nil {
		s.logger.WarnContext(ctx, "settings cache read failed", "error", err)
		return hotel.SiteSettings{}, false
	}
	if raw == nil {
		return hotel.SiteSettings{}, false
	}

	var settings hotel.SiteSettings
	if err := json.Unmarshal(raw, &settings); err != nil {
		s.logger.WarnContext(ctx, "settings cache entry corrupt", "error", err)
		return hotel.SiteSettings{}, false
	}
	return settings, true
}

func (s *SettingsService) toCache(ctx context.Context, settings hotel.SiteSettings) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(settings)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, settingsCacheKey, raw, settingsCacheTTL); err != nil {
		s.logger.WarnContext(ctx, "settings cache write failed", "error", err)
	}
}
