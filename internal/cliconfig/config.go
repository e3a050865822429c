// Package cliconfig resolves the monetized CLI configuration from defaults,
// a TOML file, MONETIZED_* environment variables and command-line flags.
package cliconfig

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/CloudNativeWorks/monetized-sdk/monetized"
)

// Config holds CLI configuration.
type Config struct {
	Endpoint   string
	LicenseKey string
	Tier       string

	Timeout   time.Duration
	UserAgent string

	PostgresDSN    string
	MongoURI       string
	MongoDatabase  string
	CredentialName string

	LogLevel string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Endpoint:      monetized.DefaultEndpoint,
		Tier:          monetized.FreeTier,
		Timeout:       10 * time.Second,
		UserAgent:     "monetized-cli",
		MongoDatabase: "monetized",
		LogLevel:      "info",
	}
}

// Validate checks the configuration for errors and normalizes values.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		c.Endpoint = monetized.DefaultEndpoint
	}
	c.Endpoint = strings.TrimRight(c.Endpoint, "/")

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.PostgresDSN != "" && c.MongoURI != "" {
		return fmt.Errorf("postgres-dsn and mongo-uri are mutually exclusive")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

// UsesStore reports whether the credential comes from a database.
func (c *Config) UsesStore() bool {
	return c.PostgresDSN != "" || c.MongoURI != ""
}

// RequireCredential checks that a store and a credential name are set, for
// commands that address a single stored credential.
func (c *Config) RequireCredential() error {
	if !c.UsesStore() {
		return fmt.Errorf("postgres-dsn or mongo-uri is required")
	}
	if c.CredentialName == "" {
		return fmt.Errorf("credential is required when using a store")
	}
	return nil
}

// ClientConfig returns the monetized.Config for the flag/env/file values.
func (c *Config) ClientConfig() monetized.Config {
	return monetized.Config{
		LicenseKey: c.LicenseKey,
		Tier:       c.Tier,
		Endpoint:   c.Endpoint,
	}
}

// Masked returns a copy safe to log.
func (c Config) Masked() Config {
	if c.LicenseKey != "" {
		c.LicenseKey = "*****"
	}
	if c.PostgresDSN != "" {
		c.PostgresDSN = "*****"
	}
	if c.MongoURI != "" {
		c.MongoURI = "*****"
	}
	return c
}

// Logger returns a console zerolog logger writing to stderr at level.
// Unknown levels fall back to info.
func Logger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(lvl).
		With().Timestamp().Logger()
}

// configSetter applies values only when the corresponding flag was not
// set explicitly.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", flag, value, err)
	}
	*dst = d
	return nil
}
