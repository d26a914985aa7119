package bootstrap

import (
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/bhotel/bhotel-ui-api/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRedis(t *testing.T) redis.UniversalClient {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestBuildAuthService_MissingDependencies(t *testing.T) {
	t.Run("no redis", func(t *testing.T) {
		svc := BuildAuthService(AuthConfig{
			Auth:   config.AuthConfig{Mode: config.AuthModePassword},
			Logger: testLogger(),
		})
		assert.Nil(t, svc)
	})

	t.Run("no database", func(t *testing.T) {
		svc := BuildAuthService(AuthConfig{
			Auth:        config.AuthConfig{Mode: config.AuthModePassword},
			RedisClient: testRedis(t),
			Logger:      testLogger(),
		})
		assert.Nil(t, svc)
	})
}

func TestBuildAuthService_OAuthConfigMissing(t *testing.T) {
	db := openStubDB(t)

	svc := BuildAuthService(AuthConfig{
		Auth: config.AuthConfig{
			Mode: config.AuthModeOAuth,
			// No client ID/secret: provider construction must be skipped.
		},
		DB:          db,
		RedisClient: testRedis(t),
		Logger:      testLogger(),
	})
	assert.Nil(t, svc)
}

func TestBuildAuthService_PasswordMode(t *testing.T) {
	db := openStubDB(t)

	t.Run("reset secret required outside dev", func(t *testing.T) {
		svc := BuildAuthService(AuthConfig{
			Auth:        config.AuthConfig{Mode: config.AuthModePassword},
			DB:          db,
			RedisClient: testRedis(t),
			Logger:      testLogger(),
		})
		assert.Nil(t, svc)
	})

	t.Run("dev mode falls back to dev secret", func(t *testing.T) {
		svc := BuildAuthService(AuthConfig{
			Auth:        config.AuthConfig{Mode: config.AuthModePassword},
			IsDev:       true,
			DB:          db,
			RedisClient: testRedis(t),
			Logger:      testLogger(),
		})
		require.NotNil(t, svc)
	})
}

func TestBuildAuthService_MockMode(t *testing.T) {
	db := openStubDB(t)

	svc := BuildAuthService(AuthConfig{
		Auth: config.AuthConfig{
			Mode: config.AuthModeMock,
			DevAuth: config.DevAuthConfig{
				UserID: "dev-user",
				Email:  "dev@b-hotel.test",
				Name:   "Dev Admin",
			},
		},
		DB:          db,
		RedisClient: testRedis(t),
		Logger:      testLogger(),
	})
	require.NotNil(t, svc)
}
