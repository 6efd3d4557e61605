package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"taskboard/internal/config"
	"taskboard/internal/service"
)

// FileStore keeps the token and user profile as two files in the config dir.
type FileStore struct {
	cfg *config.Config
}

// NewFileStore creates a FileStore rooted at cfg.Dir.
func NewFileStore(cfg *config.Config) *FileStore {
	return &FileStore{cfg: cfg}
}

// Load implements Store.
// Both files must exist for a session to be restored.
func (f *FileStore) Load(ctx context.Context) (Session, error) {
	token, err := os.ReadFile(f.cfg.TokenPath())
	if errors.Is(err, os.ErrNotExist) {
		return Session{}, ErrNoSession
	}
	if err != nil {
		return Session{}, fmt.Errorf("failed to read token: %w", err)
	}

	userData, err := os.ReadFile(f.cfg.UserPath())
	if errors.Is(err, os.ErrNotExist) {
		return Session{}, ErrNoSession
	}
	if err != nil {
		return Session{}, fmt.Errorf("failed to read user: %w", err)
	}

	return decode(strings.TrimSpace(string(token)), userData)
}

// Save implements Store. Files are written with mode 0600.
func (f *FileStore) Save(ctx context.Context, s Session) error {
	if err := f.cfg.EnsureDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	userData, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(s.User)
	if err != nil {
		return err
	}
	if err := os.WriteFile(f.cfg.TokenPath(), []byte(s.Token), 0600); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	if err := os.WriteFile(f.cfg.UserPath(), userData, 0600); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// Clear implements Store.
func (f *FileStore) Clear(ctx context.Context) error {
	for _, path := range []string{f.cfg.TokenPath(), f.cfg.UserPath()} {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}
	return nil
}

// Close implements Store.
func (f *FileStore) Close() error { return nil }

// decode validates a persisted token and user profile.
func decode(token string, userData []byte) (Session, error) {
	if token == "" {
		return Session{}, ErrNoSession
	}
	var user service.User
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(userData, &user); err != nil {
		return Session{}, fmt.Errorf("%w: user: %v", ErrMalformed, err)
	}
	if user.ID == "" && user.Email == "" {
		return Session{}, fmt.Errorf("%w: empty user", ErrMalformed)
	}
	return Session{Token: token, User: user}, nil
}
