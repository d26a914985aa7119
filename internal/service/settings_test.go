package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhotel/bhotel-ui-api/internal/data"
	"github.com/bhotel/bhotel-ui-api/internal/domain/hotel"
)

type memSettingsRepo struct {
	stored *hotel.SiteSettings
	gets   int
}

func (m *memSettingsRepo) Get(context.Context) (*hotel.SiteSettings, error) {
	m.gets++
	if m.stored == nil {
		return nil, data.ErrSettingsNotFound
	}
	cp := *m.stored
	return &cp, nil
}

func (m *memSettingsRepo) Upsert(_ context.Context, s hotel.SiteSettings) (*hotel.SiteSettings, error) {
	s.UpdatedAt = time.Now()
	m.stored = &s
	cp := s
	return &cp, nil
}

func newTestSettingsCache(t *testing.T) SettingsCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return data.NewRedisCacheRepo(client)
}

func TestSettingsDefaultsBeforeFirstWrite(t *testing.T) {
	repo := &memSettingsRepo{}
	svc, err := NewSettingsService(SettingsServiceOptions{Repo: repo})
	require.NoError(t, err)

	settings, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, hotel.DefaultSettings().SiteTitle, settings.SiteTitle)
}

func TestSettingsCacheAside(t *testing.T) {
	repo := &memSettingsRepo{}
	svc, err := NewSettingsService(SettingsServiceOptions{Repo: repo, Cache: newTestSettingsCache(t)})
	require.NoError(t, err)

	saved, err := svc.Update(context.Background(), hotel.SiteSettings{SiteTitle: "B-Hotel Riviera"})
	require.NoError(t, err)
	assert.Equal(t, "B-Hotel Riviera", saved.SiteTitle)

	// First read populates the cache, second is served from it.
	first, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "B-Hotel Riviera", first.SiteTitle)
	assert.Equal(t, 1, repo.gets)

	second, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.SiteTitle, second.SiteTitle)
	assert.Equal(t, 1, repo.gets)
}

func TestSettingsUpdateInvalidatesCache(t *testing.T) {
	repo := &memSettingsRepo{}
	svc, err := NewSettingsService(SettingsServiceOptions{Repo: repo, Cache: newTestSettingsCache(t)})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), hotel.SiteSettings{SiteTitle: "First"})
	require.NoError(t, err)
	_, err = svc.Get(context.Background())
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), hotel.SiteSettings{SiteTitle: "Second"})
	require.NoError(t, err)

	settings, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Second", settings.SiteTitle)
}
