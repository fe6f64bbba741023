// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept here; the session cookie goes to the OS
// keychain.
//
// Values are resolved in order: built-in defaults, config.json, then
// CARTCHECKOUT_* environment variables. Command-line flags are applied on top
// by the caller.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cartcheckout/cli/internal/xdg"

	"github.com/caarlos0/env/v11"
)

// Defaults.
const (
	DefaultServer   = "http://localhost:18080"
	DefaultTimeout  = 10 * time.Second
	DefaultLogLevel = "info"
)

// Config holds non-sensitive CLI settings.
type Config struct {
	Server         string   `json:"server" env:"SERVER"`
	Timeout        Duration `json:"timeout" env:"TIMEOUT"`
	LogLevel       string   `json:"log_level" env:"LOG_LEVEL"`
	LogFile        bool     `json:"log_file" env:"LOG_FILE"`
	PersistCookies bool     `json:"persist_cookies" env:"PERSIST_COOKIES"`
}

// Duration is a time.Duration that reads and writes as "10s" in JSON and
// environment variables.
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"10s\": %w", err)
	}
	return d.UnmarshalText([]byte(s))
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Server:         DefaultServer,
		Timeout:        Duration(DefaultTimeout),
		LogLevel:       DefaultLogLevel,
		PersistCookies: true,
	}
}

// Path returns the path to the config file.
func Path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads configuration; a missing file yields defaults. Environment
// variables override the file.
func Load() (Config, error) {
	c := Defaults()
	p, err := Path()
	if err != nil {
		return c, err
	}
	data, err := os.ReadFile(p)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return c, err
	default:
		if err := json.Unmarshal(data, &c); err != nil {
			return c, fmt.Errorf("parse %s: %w", p, err)
		}
	}

	if err := env.ParseWithOptions(&c, env.Options{Prefix: "CARTCHECKOUT_"}); err != nil {
		return c, fmt.Errorf("read environment: %w", err)
	}
	return c, c.Validate()
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := Path()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}

// Validate checks the server URL, timeout and log level.
func (c Config) Validate() error {
	u, err := url.Parse(c.Server)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid server URL %q", c.Server)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout.Std())
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// SlogLevel returns the configured log level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	l, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return l
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}
