// Package config handles the XDG configuration directory, config file and paths.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "taskboard"

	// ConfigFile is the optional settings filename.
	ConfigFile = "config.yaml"

	// TokenFile is the persisted session token filename.
	TokenFile = "token"

	// UserFile is the persisted user profile filename.
	UserFile = "user.json"

	// DefaultAPIURL is used when neither flag, env nor file set one.
	DefaultAPIURL = "http://localhost:5000/api"

	// DefaultTimeout bounds each API request.
	DefaultTimeout = 10 * time.Second

	// EnvAPIURL overrides api_url from the config file.
	EnvAPIURL = "TASKBOARD_API_URL"
)

// Session persistence backends.
const (
	SessionStoreFile  = "file"
	SessionStoreRedis = "redis"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// APIURL is the base URL of the task API.
	APIURL string

	// Timeout bounds each API request.
	Timeout time.Duration

	// SessionStore selects where the session is persisted: "file" or "redis".
	SessionStore string

	// RedisURL is used when SessionStore is "redis".
	RedisURL string
}

// fileSettings mirrors config.yaml.
type fileSettings struct {
	APIURL       string `yaml:"api_url"`
	Timeout      string `yaml:"timeout"`
	SessionStore string `yaml:"session_store"`
	RedisURL     string `yaml:"redis_url"`
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/taskboard or $HOME/.config/taskboard.
// Settings come from config.yaml when present, then the environment.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{
		Dir:          dir,
		APIURL:       DefaultAPIURL,
		Timeout:      DefaultTimeout,
		SessionStore: SessionStoreFile,
	}
	if err := cfg.loadFile(); err != nil {
		return nil, err
	}
	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.APIURL = v
	}
	return cfg, nil
}

func (c *Config) loadFile() error {
	data, err := os.ReadFile(c.FilePath())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", ConfigFile, err)
	}

	var s fileSettings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}

	if s.APIURL != "" {
		c.APIURL = s.APIURL
	}
	if s.Timeout != "" {
		d, err := time.ParseDuration(s.Timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid %s: timeout: %q", ConfigFile, s.Timeout)
		}
		c.Timeout = d
	}
	switch s.SessionStore {
	case "":
	case SessionStoreFile, SessionStoreRedis:
		c.SessionStore = s.SessionStore
	default:
		return fmt.Errorf("invalid %s: unknown session_store: %q", ConfigFile, s.SessionStore)
	}
	c.RedisURL = s.RedisURL
	return nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// FilePath returns the path to config.yaml.
func (c *Config) FilePath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// TokenPath returns the path to the persisted session token.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// UserPath returns the path to the persisted user profile.
func (c *Config) UserPath() string {
	return filepath.Join(c.Dir, UserFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}
