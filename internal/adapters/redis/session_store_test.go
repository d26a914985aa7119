package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/bhotel/bhotel-ui-api/internal/domain/auth"
)

func newTestStore(t *testing.T) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionStoreWithPrefix(client, "test:session:"), mr
}

func testSession(id string) domainauth.Session {
	return domainauth.Session{
		ID:        id,
		UserID:    "user-1",
		Name:      "Guest One",
		Email:     "guest@example.com",
		Role:      domainauth.RoleUser,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestSessionStore_SaveAndGet(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	sess := testSession("sess-1")
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, sess.UserID, got.UserID)
	assert.Equal(t, sess.Email, got.Email)
	assert.Equal(t, domainauth.RoleUser, got.Role)
}

func TestSessionStore_SaveRejectsEmptyID(t *testing.T) {
	store, _ := newTestStore(t)

	sess := testSession("")
	err := store.Save(context.Background(), sess)
	require.Error(t, err)
}

func TestSessionStore_SaveRejectsExpired(t *testing.T) {
	store, _ := newTestStore(t)

	sess := testSession("sess-expired")
	sess.ExpiresAt = time.Now().Add(-time.Minute)
	err := store.Save(context.Background(), sess)
	require.Error(t, err)
}

func TestSessionStore_GetMissing(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionStore_GetEmptyID(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Get(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionStore_TTLFollowsExpiry(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	sess := testSession("sess-ttl")
	sess.ExpiresAt = time.Now().Add(30 * time.Minute)
	require.NoError(t, store.Save(ctx, sess))

	ttl := mr.TTL("test:session:sess-ttl")
	assert.Greater(t, ttl, 29*time.Minute)
	assert.LessOrEqual(t, ttl, 30*time.Minute)
}

func TestSessionStore_ExpiredInStoreIsCleaned(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	sess := testSession("sess-stale")
	require.NoError(t, store.Save(ctx, sess))

	// Rewrite the stored value with a past expiry while the Redis TTL is
	// still alive.
	sess.ExpiresAt = time.Now().Add(-time.Minute)
	data, err := json.Marshal(sess)
	require.NoError(t, err)
	require.NoError(t, mr.Set("test:session:sess-stale", string(data)))

	_, err = store.Get(ctx, "sess-stale")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.False(t, mr.Exists("test:session:sess-stale"))
}

func TestSessionStore_Delete(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	sess := testSession("sess-del")
	require.NoError(t, store.Save(ctx, sess))
	require.NoError(t, store.Delete(ctx, "sess-del"))

	assert.False(t, mr.Exists("test:session:sess-del"))

	// Deleting a missing or empty ID is a no-op.
	require.NoError(t, store.Delete(ctx, "sess-del"))
	require.NoError(t, store.Delete(ctx, ""))
}
