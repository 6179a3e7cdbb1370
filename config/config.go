// Package config loads oslab settings from .env files and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvDB          = "OSLAB_DB"
	EnvPort        = "OSLAB_PORT"
	EnvLogLevel    = "OSLAB_LOG_LEVEL"
	EnvUser        = "OSLAB_USER"
	EnvOpenBrowser = "OSLAB_OPEN_BROWSER"
)

// DefaultEnvFile is read when Load is called without files, if it exists.
const DefaultEnvFile = ".env"

// ErrInvalidConfig is returned for malformed or out-of-range settings.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the runtime settings.
type Config struct {
	// DBPath is the SQLite file path without the .sqlite3 extension.
	DBPath string

	// Port is the monitor port. 0 picks a free port.
	Port int

	LogLevel string

	// UserID attributes lab work to a user for progress tracking. Empty
	// disables tracking.
	UserID string

	OpenBrowser bool
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		DBPath:   "oslab",
		LogLevel: "info",
	}
}

// Load reads the given .env files (or DefaultEnvFile when present) into the
// environment without overriding variables that are already set, then
// builds a Config on top of Defaults.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		if _, err := os.Stat(DefaultEnvFile); err == nil {
			files = []string{DefaultEnvFile}
		}
	}

	if len(files) > 0 {
		if err := godotenv.Load(files...); err != nil {
			return Config{}, fmt.Errorf("load env files: %w", err)
		}
	}

	return FromEnv()
}

// FromEnv builds a Config from the current environment.
func FromEnv() (Config, error) {
	c := Defaults()

	if v, ok := os.LookupEnv(EnvDB); ok && v != "" {
		c.DBPath = v
	}

	if v, ok := os.LookupEnv(EnvPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %s=%q", ErrInvalidConfig, EnvPort, v)
		}

		c.Port = port
	}

	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}

	c.UserID = os.Getenv(EnvUser)

	if v, ok := os.LookupEnv(EnvOpenBrowser); ok && v != "" {
		open, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %s=%q",
				ErrInvalidConfig, EnvOpenBrowser, v)
		}

		c.OpenBrowser = open
	}

	return c, c.Validate()
}

// Validate checks the settings.
func (c Config) Validate() error {
	if c.Port != 0 && (c.Port <= 1000 || c.Port > 65535) {
		return fmt.Errorf("%w: port must be 0 or in (1000, 65535], got %d",
			ErrInvalidConfig, c.Port)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.LogLevel)
	}

	return nil
}
