package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config with TOML-friendly string durations.
type FileConfig struct {
	Endpoint       string `toml:"endpoint"`
	LicenseKey     string `toml:"license_key"`
	Tier           string `toml:"tier"`
	Timeout        string `toml:"timeout"`
	UserAgent      string `toml:"user_agent"`
	PostgresDSN    string `toml:"postgres_dsn"`
	MongoURI       string `toml:"mongo_uri"`
	MongoDatabase  string `toml:"mongo_database"`
	CredentialName string `toml:"credential"`
	LogLevel       string `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.monetized/config.toml, or "" when the home
// directory is unknown.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".monetized", "config.toml")
	}
	return ""
}

// ApplyFileConfig copies file values into cfg, skipping flags in changed.
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("endpoint", fc.Endpoint, &cfg.Endpoint)
	s.setString("license-key", fc.LicenseKey, &cfg.LicenseKey)
	s.setString("tier", fc.Tier, &cfg.Tier)
	s.setString("user-agent", fc.UserAgent, &cfg.UserAgent)
	s.setString("postgres-dsn", fc.PostgresDSN, &cfg.PostgresDSN)
	s.setString("mongo-uri", fc.MongoURI, &cfg.MongoURI)
	s.setString("mongo-database", fc.MongoDatabase, &cfg.MongoDatabase)
	s.setString("credential", fc.CredentialName, &cfg.CredentialName)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	return s.setDuration("timeout", fc.Timeout, &cfg.Timeout)
}

// FileExists reports whether p exists.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
