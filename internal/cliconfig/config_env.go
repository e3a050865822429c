package cliconfig

import "os"

// EnvPrefix prefixes every environment variable read by ApplyEnvConfig.
const EnvPrefix = "MONETIZED_"

// envBindings maps flag names to environment variable suffixes.
var envBindings = []struct {
	flag string
	env  string
	dst  func(*Config) *string
}{
	{"endpoint", "ENDPOINT", func(c *Config) *string { return &c.Endpoint }},
	{"license-key", "LICENSE_KEY", func(c *Config) *string { return &c.LicenseKey }},
	{"tier", "TIER", func(c *Config) *string { return &c.Tier }},
	{"user-agent", "USER_AGENT", func(c *Config) *string { return &c.UserAgent }},
	{"postgres-dsn", "POSTGRES_DSN", func(c *Config) *string { return &c.PostgresDSN }},
	{"mongo-uri", "MONGO_URI", func(c *Config) *string { return &c.MongoURI }},
	{"mongo-database", "MONGO_DATABASE", func(c *Config) *string { return &c.MongoDatabase }},
	{"credential", "CREDENTIAL", func(c *Config) *string { return &c.CredentialName }},
	{"log-level", "LOG_LEVEL", func(c *Config) *string { return &c.LogLevel }},
}

// ApplyEnvConfig applies MONETIZED_* variables. They override file values
// but not flags present in changed.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)
	for _, b := range envBindings {
		s.setString(b.flag, os.Getenv(EnvPrefix+b.env), b.dst(cfg))
	}
	return s.setDuration("timeout", os.Getenv(EnvPrefix+"TIMEOUT"), &cfg.Timeout)
}
