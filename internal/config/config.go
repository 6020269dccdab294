// Package config provides configuration management for Bookshelf.
//
// Config file locations (priority order):
//  1. $BOOKSHELF_CONFIG
//  2. ./bookshelf.yaml
//  3. $XDG_CONFIG_HOME/bookshelf/config.yaml
//  4. ~/.config/bookshelf/config.yaml
//  5. /etc/bookshelf/config.yaml
//
// Values from the file are overridden by $BOOKSHELF_DATABASE_URL and
// $BOOKSHELF_ADDR, which in turn are overridden by command line flags.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"bookshelf/internal/domain"
	"bookshelf/internal/repository"
)

const (
	// EnvDatabaseURL overrides database.url
	EnvDatabaseURL = "BOOKSHELF_DATABASE_URL"
	// EnvAddr overrides server.addr
	EnvAddr = "BOOKSHELF_ADDR"
)

// Defaults
const (
	DefaultDatabaseURL     = "sqlite:///./bookshelf.db"
	DefaultAddr            = ":8000"
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 0 // SSE streams stay open
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultKeepAlive       = 30 * time.Second
	DefaultCORSMaxAge      = 10 * time.Minute
)

// Load finds and loads the config file, or returns defaults if none found.
// Environment overrides are applied in both cases.
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		cfg := DefaultConfig()
		cfg.ApplyEnv(os.Getenv)
		return cfg, "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	cfg.ApplyEnv(os.Getenv)

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Database.URL == "" {
		c.Database.URL = DefaultDatabaseURL
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = Duration(DefaultReadTimeout)
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = Duration(DefaultIdleTimeout)
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = Duration(DefaultShutdownTimeout)
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"*"}
	}
	if len(c.CORS.AllowedMethods) == 0 {
		c.CORS.AllowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	if len(c.CORS.AllowedHeaders) == 0 {
		c.CORS.AllowedHeaders = []string{"*"}
	}
	if c.CORS.MaxAge == 0 {
		c.CORS.MaxAge = Duration(DefaultCORSMaxAge)
	}
	if c.Events.KeepAlive == 0 {
		c.Events.KeepAlive = Duration(DefaultKeepAlive)
	}
}

// ApplyEnv overrides file values with environment variables read through
// getenv
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv(EnvDatabaseURL)); v != "" {
		c.Database.URL = v
	}
	if v := strings.TrimSpace(getenv(EnvAddr)); v != "" {
		c.Server.Addr = v
	}
}

// Validate checks that the config can be used to start the server
func (c *Config) Validate() error {
	if _, err := repository.ParseDSN(c.Database.URL); err != nil {
		return err
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: server.addr is required", domain.ErrConfiguration)
	}
	for name, d := range map[string]Duration{
		"server.read_timeout":     c.Server.ReadTimeout,
		"server.write_timeout":    c.Server.WriteTimeout,
		"server.idle_timeout":     c.Server.IdleTimeout,
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
		"events.keep_alive":       c.Events.KeepAlive,
		"cors.max_age":            c.CORS.MaxAge,
	} {
		if d < 0 {
			return fmt.Errorf("%w: %s must not be negative", domain.ErrConfiguration, name)
		}
	}
	if c.CORS.AllowCredentials {
		for _, o := range c.CORS.AllowedOrigins {
			if o == "*" {
				// Credentialed wildcard echoes any origin; require an explicit list
				return fmt.Errorf("%w: cors.allow_credentials requires explicit cors.allowed_origins", domain.ErrConfiguration)
			}
		}
	}
	return nil
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	database := c.Database.URL
	if dsn, err := repository.ParseDSN(database); err == nil {
		database = fmt.Sprintf("%s (%s)", dsn, dsn.Driver)
	}
	summary := fmt.Sprintf("Database: %s\n", database)
	summary += fmt.Sprintf("Listen: %s (read %s, idle %s, shutdown %s)\n",
		c.Server.Addr, c.Server.ReadTimeout.Duration(), c.Server.IdleTimeout.Duration(), c.Server.ShutdownTimeout.Duration())
	summary += fmt.Sprintf("CORS origins: %s (credentials: %t)\n",
		strings.Join(c.CORS.AllowedOrigins, ", "), c.CORS.AllowCredentials)
	if c.Events.StreamEnabled() {
		summary += fmt.Sprintf("Events: enabled (keep-alive %s)", c.Events.KeepAlive.Duration())
	} else {
		summary += "Events: disabled"
	}
	return summary
}
