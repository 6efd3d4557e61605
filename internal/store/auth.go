package store

import (
	"context"
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"taskboard/internal/service"
	"taskboard/internal/session"
)

// ErrNotAuthenticated is returned by AuthStore.Token without a session.
var ErrNotAuthenticated = errors.New("not logged in")

// AuthState is the session identity and login progress.
type AuthState struct {
	User        *service.User
	Token       string
	Pending     bool
	Error       string
	Initialized bool
}

// IsAuthenticated is true iff both user and token are present.
func (s AuthState) IsAuthenticated() bool {
	return s.User != nil && s.Token != ""
}

// AuthAction is an intent applied to AuthState.
type AuthAction interface {
	applyTo(s *AuthState)
}

// SessionRestored finishes the startup restore. Session is nil when nothing
// usable was persisted.
type SessionRestored struct{ Session *session.Session }

// SessionSet records a successful login or signup.
type SessionSet struct {
	User  service.User
	Token string
}

// SessionCleared logs out.
type SessionCleared struct{}

// AuthPending marks a login/signup attempt in flight.
type AuthPending struct{ Pending bool }

// AuthFailed records a failed attempt and ends the pending state.
type AuthFailed struct{ Message string }

func (a SessionRestored) applyTo(s *AuthState) {
	if a.Session != nil {
		u := a.Session.User
		s.User = &u
		s.Token = a.Session.Token
	}
	s.Initialized = true
}

func (a SessionSet) applyTo(s *AuthState) {
	u := a.User
	s.User = &u
	s.Token = a.Token
	s.Error = ""
	s.Pending = false
}

func (a SessionCleared) applyTo(s *AuthState) {
	s.User = nil
	s.Token = ""
	s.Error = ""
}

func (a AuthPending) applyTo(s *AuthState) {
	s.Pending = a.Pending
}

func (a AuthFailed) applyTo(s *AuthState) {
	s.Error = a.Message
	s.Pending = false
}

func (s AuthState) clone() AuthState {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

// ReduceAuth returns the state after applying a. The input is not modified.
func ReduceAuth(s AuthState, a AuthAction) AuthState {
	next := s.clone()
	a.applyTo(&next)
	return next
}

// AuthStore holds the session and mirrors it to persistent storage.
// It implements oauth2.TokenSource for the API client.
type AuthStore struct {
	mu       sync.RWMutex
	state    AuthState
	sessions session.Store
	now      func() time.Time
}

var _ oauth2.TokenSource = (*AuthStore)(nil)

// NewAuthStore creates an AuthStore backed by sessions.
// A nil sessions store disables persistence.
func NewAuthStore(sessions session.Store) *AuthStore {
	return &AuthStore{sessions: sessions, now: time.Now}
}

func (a *AuthStore) dispatch(action AuthAction) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = ReduceAuth(a.state, action)
}

// State returns a copy of the current state.
func (a *AuthStore) State() AuthState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state.clone()
}

// Restore loads the persisted session. Only the first call has any effect.
// Missing, malformed or expired data leaves the store logged out.
func (a *AuthStore) Restore(ctx context.Context) {
	if a.State().Initialized {
		return
	}

	var restored *session.Session
	if a.sessions != nil {
		s, err := a.sessions.Load(ctx)
		switch {
		case err == nil && session.Expired(s.Token, a.now()):
			log.Debug("persisted session token expired")
		case err == nil:
			restored = &s
		case errors.Is(err, session.ErrNoSession):
		default:
			log.WithError(err).Debug("ignoring persisted session")
		}
	}

	a.dispatch(SessionRestored{Session: restored})
}

// SetSession stores credentials and persists them.
func (a *AuthStore) SetSession(ctx context.Context, user service.User, token string) {
	a.dispatch(SessionSet{User: user, Token: token})
	if a.sessions == nil {
		return
	}
	if err := a.sessions.Save(ctx, session.Session{Token: token, User: user}); err != nil {
		log.WithError(err).Warn("failed to persist session")
	}
}

// ClearSession removes in-memory and persisted credentials.
func (a *AuthStore) ClearSession(ctx context.Context) {
	a.dispatch(SessionCleared{})
	if a.sessions == nil {
		return
	}
	if err := a.sessions.Clear(ctx); err != nil {
		log.WithError(err).Warn("failed to remove persisted session")
	}
}

// SetPending marks a login/signup attempt in flight.
func (a *AuthStore) SetPending(pending bool) {
	a.dispatch(AuthPending{Pending: pending})
}

// SetFailure records a failed attempt.
func (a *AuthStore) SetFailure(msg string) {
	a.dispatch(AuthFailed{Message: msg})
}

// Token implements oauth2.TokenSource.
func (a *AuthStore) Token() (*oauth2.Token, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.state.Token == "" {
		return nil, ErrNotAuthenticated
	}
	return &oauth2.Token{AccessToken: a.state.Token, TokenType: "Bearer"}, nil
}
