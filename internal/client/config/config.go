package config

import "time"

// Config holds runtime settings for the account CLI.
//
// Fields:
//   - BaseURL: root URL of the account service, e.g. "http://localhost:8080".
//   - RequestTimeout: per-request HTTP timeout. There is no retry behind it.
//   - VaultPath: location of the local credential vault; the key file lives
//     next to it with a ".key" suffix.
type Config struct {
	BaseURL        string
	RequestTimeout time.Duration
	VaultPath      string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://localhost:8080"
	c.RequestTimeout = 30 * time.Second
	c.VaultPath = "vault.db"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
