package data

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCacheRepo(t *testing.T) (*RedisCacheRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCacheRepo(client), mr
}

func TestRedisCacheRepo_SetAndGet(t *testing.T) {
	repo, _ := newCacheRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "settings", []byte(`{"site_title":"B-Hotel"}`), time.Minute))

	got, err := repo.Get(ctx, "settings")
	require.NoError(t, err)
	assert.Equal(t, `{"site_title":"B-Hotel"}`, string(got))
}

func TestRedisCacheRepo_GetMissing(t *testing.T) {
	repo, _ := newCacheRepo(t)

	got, err := repo.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisCacheRepo_TTLExpiry(t *testing.T) {
	repo, mr := newCacheRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "k", []byte("v"), time.Second))
	mr.FastForward(2 * time.Second)

	got, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisCacheRepo_Delete(t *testing.T) {
	repo, _ := newCacheRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "k", []byte("v"), 0))

	existed, err := repo.Delete(ctx, "k")
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = repo.Delete(ctx, "k")
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestRedisCacheRepo_EmptyKeyRejected(t *testing.T) {
	repo, _ := newCacheRepo(t)
	ctx := context.Background()

	assert.Error(t, repo.Set(ctx, "", nil, 0))
	_, err := repo.Get(ctx, "")
	assert.Error(t, err)
	_, err = repo.Delete(ctx, "")
	assert.Error(t, err)
}
