// Package config loads baby-bitcoin settings from a YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rcliao/baby-bitcoin/internal/flow"
	"github.com/rcliao/baby-bitcoin/internal/store"
)

// Environment variables read by Load.
const (
	EnvDB         = "BABY_BITCOIN_DB"
	EnvConfig     = "BABY_BITCOIN_CONFIG"
	EnvBackendURL = "BABY_BITCOIN_BACKEND_URL"
	EnvBackendKey = "BABY_BITCOIN_BACKEND_KEY"
)

// Config is the resolved configuration.
type Config struct {
	DB         string  `yaml:"db"`
	SessionTTL string  `yaml:"session_ttl"`
	LogLevel   string  `yaml:"log_level"`
	Delays     Delays  `yaml:"delays"`
	Backend    Backend `yaml:"backend"`
}

// Delays overrides the flow settle pauses. Unset fields keep their defaults.
type Delays struct {
	Stage    *time.Duration `yaml:"stage"`
	Login    *time.Duration `yaml:"login"`
	Logout   *time.Duration `yaml:"logout"`
	Transfer *time.Duration `yaml:"transfer"`
}

// Backend holds the remote ledger endpoint.
type Backend struct {
	URL string `yaml:"url"`
	Key string `yaml:"key"`
}

// Dir returns the default state directory, ~/.baby-bitcoin.
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".baby-bitcoin")
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DB:         filepath.Join(Dir(), "wallet.db"),
		SessionTTL: "7d",
		LogLevel:   "info",
	}
}

// Path resolves the config file location: explicit path, then $BABY_BITCOIN_CONFIG,
// then ~/.baby-bitcoin/config.yaml.
func Path(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(EnvConfig); env != "" {
		return env
	}
	return filepath.Join(Dir(), "config.yaml")
}

// Load reads the config file at path (a missing file is fine) and applies
// environment overrides on top.
func Load(path string) (Config, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if env := os.Getenv(EnvDB); env != "" {
		cfg.DB = env
	}
	if env := os.Getenv(EnvBackendURL); env != "" {
		cfg.Backend.URL = env
	}
	if env := os.Getenv(EnvBackendKey); env != "" {
		cfg.Backend.Key = env
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if _, err := store.ParseTTL(c.SessionTTL); err != nil {
		return fmt.Errorf("session_ttl: %w", err)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	for name, d := range map[string]*time.Duration{
		"stage": c.Delays.Stage, "login": c.Delays.Login,
		"logout": c.Delays.Logout, "transfer": c.Delays.Transfer,
	} {
		if d != nil && *d < 0 {
			return fmt.Errorf("delays.%s: must not be negative", name)
		}
	}
	return nil
}

// TTL returns the parsed session lifetime.
func (c Config) TTL() time.Duration {
	d, err := store.ParseTTL(c.SessionTTL)
	if err != nil {
		return 0
	}
	return d
}

// Level returns the slog level for LogLevel.
func (c Config) Level() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("log_level: unknown level %q", c.LogLevel)
}

// FlowDelays merges configured delays over the flow defaults.
func (c Config) FlowDelays() flow.Delays {
	d := flow.DefaultDelays()
	if c.Delays.Stage != nil {
		d.Stage = *c.Delays.Stage
	}
	if c.Delays.Login != nil {
		d.Login = *c.Delays.Login
	}
	if c.Delays.Logout != nil {
		d.Logout = *c.Delays.Logout
	}
	if c.Delays.Transfer != nil {
		d.Transfer = *c.Delays.Transfer
	}
	return d
}
