// Package config provides configuration loading for shikshactl.
package config

import "time"

// Config is the top-level configuration for shikshactl.
type Config struct {
	// API configures the ShikshaDesk backend connection.
	API APIConfig `yaml:"api" mapstructure:"api"`

	// SessionFile is the path of the persisted session document.
	// Defaults to ~/.shikshadesk/session.json if empty.
	SessionFile string `yaml:"session_file" mapstructure:"session_file"`

	// LogLevel sets the minimum log level.
	// Valid values: "debug", "info", "warn", "error".
	// Defaults to "info" if empty.
	LogLevel string `yaml:"log_level" mapstructure:"log_level" validate:"omitempty,oneof=debug info warn warning error"`

	// Cache configures the master-data read cache.
	Cache CacheConfig `yaml:"cache" mapstructure:"cache"`
}

// APIConfig configures the backend connection.
type APIConfig struct {
	// BaseURL is the ShikshaDesk API root (e.g. "https://api.shikshadesk.org").
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"required,url"`

	// Timeout is the per-request timeout (e.g. "30s").
	// Defaults to "30s" if empty.
	Timeout string `yaml:"timeout" mapstructure:"timeout"`
}

// CacheConfig configures the client-side read cache for master data.
type CacheConfig struct {
	// Enabled controls whether list responses for clusters, programs,
	// and dashboard figures are cached between calls in one process.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// TTL is the cache entry time-to-live (e.g. "30s").
	// Defaults to "30s" if empty.
	TTL string `yaml:"ttl" mapstructure:"ttl"`
}

// SetDefaults applies default values for optional fields.
func (c *Config) SetDefaults() {
	if c.API.Timeout == "" {
		c.API.Timeout = "30s"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Cache.TTL == "" {
		c.Cache.TTL = "30s"
	}
}

// RequestTimeout returns the parsed per-request timeout, falling back to
// 30 seconds for unparseable values.
func (c *Config) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// CacheTTL returns the parsed cache TTL, or zero when the cache is
// disabled or the value is unparseable.
func (c *Config) CacheTTL() time.Duration {
	if !c.Cache.Enabled {
		return 0
	}
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil || d <= 0 {
		return 0
	}
	return d
}
