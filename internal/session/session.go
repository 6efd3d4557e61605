// Package session persists the authenticated user's token and profile
// between runs.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"taskboard/internal/config"
	"taskboard/internal/service"
)

var (
	// ErrNoSession is returned by Load when nothing is persisted.
	ErrNoSession = errors.New("no session")

	// ErrMalformed is returned by Load when persisted data can't be decoded.
	ErrMalformed = errors.New("malformed session")
)

// Session is the persisted identity.
type Session struct {
	Token string
	User  service.User
}

// Store reads and writes the persisted session.
type Store interface {
	// Load returns the persisted session, ErrNoSession or ErrMalformed.
	Load(ctx context.Context) (Session, error)

	// Save persists s, replacing any previous session.
	Save(ctx context.Context, s Session) error

	// Clear removes the persisted session. Clearing nothing is not an error.
	Clear(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// Open returns the backend selected by cfg.SessionStore.
func Open(cfg *config.Config) (Store, error) {
	switch cfg.SessionStore {
	case "", config.SessionStoreFile:
		return NewFileStore(cfg), nil
	case config.SessionStoreRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("session_store is redis but redis_url is empty")
		}
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis_url: %w", err)
		}
		return NewRedisStore(redis.NewClient(opts), DefaultKeyPrefix), nil
	default:
		return nil, fmt.Errorf("unknown session store: %s", cfg.SessionStore)
	}
}
