package store_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/config"
	"taskboard/internal/service"
	"taskboard/internal/session"
	"taskboard/internal/store"
)

var bob = service.User{ID: "u2", Name: "Bob", Email: "bob@example.com"}

func fileSessions(t *testing.T) (*session.FileStore, *config.Config) {
	cfg := &config.Config{Dir: t.TempDir()}
	return session.NewFileStore(cfg), cfg
}

func Test_Restore_NoPersistedData(t *testing.T) {
	sessions, _ := fileSessions(t)
	a := store.NewAuthStore(sessions)

	a.Restore(context.Background())

	st := a.State()
	assert.False(t, st.IsAuthenticated())
	assert.True(t, st.Initialized)
}

func Test_Restore_PersistedSession(t *testing.T) {
	sessions, _ := fileSessions(t)
	require.NoError(t, sessions.Save(context.Background(), session.Session{Token: "tok", User: bob}))

	a := store.NewAuthStore(sessions)
	a.Restore(context.Background())

	st := a.State()
	assert.True(t, st.IsAuthenticated())
	assert.True(t, st.Initialized)
	assert.Equal(t, bob, *st.User)
}

func Test_Restore_MalformedIsLoggedOut(t *testing.T) {
	sessions, cfg := fileSessions(t)
	require.NoError(t, os.WriteFile(cfg.TokenPath(), []byte("tok"), 0600))
	require.NoError(t, os.WriteFile(cfg.UserPath(), []byte("[broken"), 0600))

	a := store.NewAuthStore(sessions)
	a.Restore(context.Background())

	st := a.State()
	assert.False(t, st.IsAuthenticated())
	assert.True(t, st.Initialized)
}

func Test_Restore_EmptyUserIsLoggedOut(t *testing.T) {
	for _, body := range []string{"null", "{}"} {
		t.Run(body, func(t *testing.T) {
			sessions, cfg := fileSessions(t)
			require.NoError(t, os.WriteFile(cfg.TokenPath(), []byte("tok"), 0600))
			require.NoError(t, os.WriteFile(cfg.UserPath(), []byte(body), 0600))

			a := store.NewAuthStore(sessions)
			a.Restore(context.Background())

			st := a.State()
			assert.False(t, st.IsAuthenticated())
			assert.Nil(t, st.User)
			assert.True(t, st.Initialized)
		})
	}
}

func Test_Restore_ExpiredJWTIsLoggedOut(t *testing.T) {
	sessions, _ := fileSessions(t)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(-time.Hour).Unix(),
	}).SignedString([]byte("k"))
	require.NoError(t, err)
	require.NoError(t, sessions.Save(context.Background(), session.Session{Token: token, User: bob}))

	a := store.NewAuthStore(sessions)
	a.Restore(context.Background())

	assert.False(t, a.State().IsAuthenticated())
}

func Test_Restore_OnlyOnce(t *testing.T) {
	sessions, _ := fileSessions(t)
	require.NoError(t, sessions.Save(context.Background(), session.Session{Token: "tok", User: bob}))

	a := store.NewAuthStore(sessions)
	a.Restore(context.Background())

	// Persisted data vanishing must not flip an already restored session.
	require.NoError(t, sessions.Clear(context.Background()))
	a.Restore(context.Background())

	assert.True(t, a.State().IsAuthenticated())
}

func Test_SetSession_PersistsAndClearsError(t *testing.T) {
	sessions, _ := fileSessions(t)
	a := store.NewAuthStore(sessions)
	a.SetPending(true)
	a.SetFailure("Login failed")

	a.SetSession(context.Background(), bob, "tok-2")

	st := a.State()
	assert.True(t, st.IsAuthenticated())
	assert.Empty(t, st.Error)
	assert.False(t, st.Pending)

	persisted, err := sessions.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-2", persisted.Token)
}

func Test_ClearSession_RemovesPersisted(t *testing.T) {
	sessions, _ := fileSessions(t)
	a := store.NewAuthStore(sessions)
	a.SetSession(context.Background(), bob, "tok")

	a.ClearSession(context.Background())

	assert.False(t, a.State().IsAuthenticated())
	_, err := sessions.Load(context.Background())
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func Test_SetFailure_EndsPending(t *testing.T) {
	a := store.NewAuthStore(nil)
	a.SetPending(true)
	assert.True(t, a.State().Pending)

	a.SetFailure("Signup failed")
	st := a.State()
	assert.False(t, st.Pending)
	assert.Equal(t, "Signup failed", st.Error)
}

type failingSessions struct{}

func (failingSessions) Load(context.Context) (session.Session, error) {
	return session.Session{}, errors.New("disk on fire")
}
func (failingSessions) Save(context.Context, session.Session) error {
	return errors.New("disk on fire")
}
func (failingSessions) Clear(context.Context) error { return errors.New("disk on fire") }
func (failingSessions) Close() error                { return nil }

func Test_PersistenceFailuresStayInternal(t *testing.T) {
	a := store.NewAuthStore(failingSessions{})

	a.Restore(context.Background())
	assert.True(t, a.State().Initialized)
	assert.False(t, a.State().IsAuthenticated())

	a.SetSession(context.Background(), bob, "tok")
	assert.True(t, a.State().IsAuthenticated())

	a.ClearSession(context.Background())
	assert.False(t, a.State().IsAuthenticated())
}

func Test_Token(t *testing.T) {
	a := store.NewAuthStore(nil)
	_, err := a.Token()
	assert.ErrorIs(t, err, store.ErrNotAuthenticated)

	a.SetSession(context.Background(), bob, "tok")
	tok, err := a.Token()
	require.NoError(t, err)
	assert.Equal(t, "tok", tok.AccessToken)
	assert.True(t, tok.Valid())
}
