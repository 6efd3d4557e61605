package session_test

import (
	"context"
	"os"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/config"
	"taskboard/internal/service"
	"taskboard/internal/session"
)

var alice = service.User{ID: "u1", Name: "Alice Example", Email: "alice@example.com"}

func newRedisStore(t *testing.T) (*session.RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := session.NewRedisStore(client, session.DefaultKeyPrefix)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func stores(t *testing.T) map[string]session.Store {
	redisStore, _ := newRedisStore(t)
	return map[string]session.Store{
		"file":  session.NewFileStore(&config.Config{Dir: t.TempDir()}),
		"redis": redisStore,
	}
}

func Test_Store_RoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Load(ctx)
			assert.ErrorIs(t, err, session.ErrNoSession)

			require.NoError(t, store.Save(ctx, session.Session{Token: "tok-1", User: alice}))

			got, err := store.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, "tok-1", got.Token)
			assert.Equal(t, alice, got.User)

			require.NoError(t, store.Clear(ctx))
			_, err = store.Load(ctx)
			assert.ErrorIs(t, err, session.ErrNoSession)

			// Clearing twice is fine.
			assert.NoError(t, store.Clear(ctx))
		})
	}
}

func Test_FileStore_MalformedUser(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir()}
	require.NoError(t, os.WriteFile(cfg.TokenPath(), []byte("tok"), 0600))
	require.NoError(t, os.WriteFile(cfg.UserPath(), []byte("{not json"), 0600))

	_, err := session.NewFileStore(cfg).Load(context.Background())
	assert.ErrorIs(t, err, session.ErrMalformed)
}

func Test_FileStore_EmptyUser(t *testing.T) {
	for _, body := range []string{"null", "{}", `{"name":"x"}`} {
		t.Run(body, func(t *testing.T) {
			cfg := &config.Config{Dir: t.TempDir()}
			require.NoError(t, os.WriteFile(cfg.TokenPath(), []byte("tok"), 0600))
			require.NoError(t, os.WriteFile(cfg.UserPath(), []byte(body), 0600))

			_, err := session.NewFileStore(cfg).Load(context.Background())
			assert.ErrorIs(t, err, session.ErrMalformed)
		})
	}
}

func Test_FileStore_TokenWithoutUser(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir()}
	require.NoError(t, os.WriteFile(cfg.TokenPath(), []byte("tok"), 0600))

	_, err := session.NewFileStore(cfg).Load(context.Background())
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func Test_FileStore_FileModes(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir() + "/nested"}
	store := session.NewFileStore(cfg)
	require.NoError(t, store.Save(context.Background(), session.Session{Token: "tok", User: alice}))

	info, err := os.Stat(cfg.TokenPath())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func Test_RedisStore_UsesFixedKeys(t *testing.T) {
	store, mr := newRedisStore(t)
	require.NoError(t, store.Save(context.Background(), session.Session{Token: "tok", User: alice}))

	token, err := mr.Get("taskboard:token")
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
	assert.True(t, mr.Exists("taskboard:user"))
}

func Test_Open(t *testing.T) {
	store, err := session.Open(&config.Config{Dir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &session.FileStore{}, store)

	_, err = session.Open(&config.Config{SessionStore: config.SessionStoreRedis})
	assert.Error(t, err)

	mr := miniredis.RunT(t)
	store, err = session.Open(&config.Config{SessionStore: config.SessionStoreRedis, RedisURL: "redis://" + mr.Addr()})
	require.NoError(t, err)
	assert.IsType(t, &session.RedisStore{}, store)
	assert.NoError(t, store.Close())
}

func Test_Expired(t *testing.T) {
	now := time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)
	sign := func(claims jwt.MapClaims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		require.NoError(t, err)
		return s
	}

	assert.True(t, session.Expired(sign(jwt.MapClaims{"exp": now.Add(-time.Hour).Unix()}), now))
	assert.False(t, session.Expired(sign(jwt.MapClaims{"exp": now.Add(time.Hour).Unix()}), now))
	assert.False(t, session.Expired(sign(jwt.MapClaims{"sub": "u1"}), now))
	assert.False(t, session.Expired("opaque-token", now))
}
