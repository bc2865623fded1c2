// Package config loads runtime settings for the dirkeeper CLI from three
// layered sources: built-in defaults, an optional JSON file, and
// command-line flags. Later sources take precedence.
package config

import "time"

// Config holds runtime settings for the dirkeeper CLI.
//
// Fields:
//   - BaseURL: root of the remote directory API.
//   - RequestTimeout: per-request HTTP timeout.
//   - DatabasePath: path of the local SQLite database.
//   - PageLimit: default page size for directory listings.
//   - Debug: dump HTTP round trips at debug level.
type Config struct {
	BaseURL        string
	RequestTimeout time.Duration
	DatabasePath   string
	PageLimit      int
	Debug          bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "https://dummyjson.com"
	c.RequestTimeout = 30 * time.Second
	c.DatabasePath = "directory.db"
	c.PageLimit = 10
	c.Debug = false
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present).
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
