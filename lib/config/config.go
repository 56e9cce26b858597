// Copyright 2026 The Harbor Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for Harbor commands.
//
// Configuration is loaded from a single YAML file specified by:
//   - HARBOR_CONFIG environment variable, or
//   - --config flag passed to the command
//
// There are no fallbacks or automatic discovery. This ensures
// deterministic, auditable configuration with no hidden overrides.
//
// The config file may contain environment-specific sections
// (development, staging, production) that override base values when
// the environment matches.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for local development machines.
	Development Environment = "development"
	// Staging is for pre-production testing.
	Staging Environment = "staging"
	// Production is for production deployments.
	Production Environment = "production"
)

// Config is the master configuration for Harbor.
type Config struct {
	// Environment identifies the deployment type.
	Environment Environment `yaml:"environment"`

	// API configures the CRM API connection.
	API APIConfig `yaml:"api"`

	// Cache configures the query cache.
	Cache CacheConfig `yaml:"cache"`

	// UI configures the terminal viewer.
	UI UIConfig `yaml:"ui"`

	// Per-environment overrides, applied after the base config loads.
	Development *ConfigOverrides `yaml:"development,omitempty"`
	Staging     *ConfigOverrides `yaml:"staging,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per
// environment.
type ConfigOverrides struct {
	API   *APIConfig   `yaml:"api,omitempty"`
	Cache *CacheConfig `yaml:"cache,omitempty"`
	UI    *UIConfig    `yaml:"ui,omitempty"`
}

// APIConfig configures the CRM API connection.
type APIConfig struct {
	// BaseURL is the CRM API base URL. HTTPS required except for
	// loopback addresses.
	BaseURL string `yaml:"base_url"`

	// Token is the bearer token. Prefer TokenFile so the token stays
	// out of the config file.
	Token string `yaml:"token,omitempty"`

	// TokenFile is a path to a file whose trimmed contents are the
	// bearer token. Used when Token is empty.
	TokenFile string `yaml:"token_file,omitempty"`

	// Timeout is the per-request HTTP timeout, e.g. "10s".
	Timeout string `yaml:"timeout"`
}

// CacheConfig configures the query cache.
type CacheConfig struct {
	// TTL is how long cached query results stay fresh, e.g. "1m".
	// Invalidations discard entries regardless of remaining TTL.
	TTL string `yaml:"ttl"`
}

// UIConfig configures the terminal viewer.
type UIConfig struct {
	// InitialTab is the tab selected when an entity opens:
	// "updates" or "files".
	InitialTab string `yaml:"initial_tab"`

	// LogFile is an optional JSONL log destination. Empty disables
	// file logging; the status bar still shows warnings either way.
	LogFile string `yaml:"log_file,omitempty"`

	// LogLevel is the minimum level routed to the status bar and the
	// log file: "debug", "info", "warn", or "error".
	LogLevel string `yaml:"log_level"`
}

// Default returns the default configuration. Defaults exist to give
// every field a sensible zero value, not as a substitute for the
// required config file.
func Default() *Config {
	return &Config{
		Environment: Development,
		API: APIConfig{
			Timeout: "10s",
		},
		Cache: CacheConfig{
			TTL: "1m",
		},
		UI: UIConfig{
			InitialTab: "updates",
			LogLevel:   "warn",
		},
	}
}

// Load loads configuration from the HARBOR_CONFIG environment
// variable. There are no fallbacks: if HARBOR_CONFIG is not set, this
// fails.
func Load() (*Config, error) {
	configPath := os.Getenv("HARBOR_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("HARBOR_CONFIG environment variable not set; " +
			"set it to the path of your harbor.yaml config file, or use --config flag")
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path. The config
// file is the single source of truth; environment variables do not
// override config values. The only expansion performed is ${HOME}
// and similar path variables for portability.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()

	return cfg, nil
}

// applyEnvironmentOverrides applies the section matching the
// configured environment.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
		// Production default: quieter status bar.
		if overrides == nil {
			overrides = &ConfigOverrides{
				UI: &UIConfig{LogLevel: "error"},
			}
		}
	}

	if overrides == nil {
		return
	}

	if overrides.API != nil {
		if overrides.API.BaseURL != "" {
			c.API.BaseURL = overrides.API.BaseURL
		}
		if overrides.API.Token != "" {
			c.API.Token = overrides.API.Token
		}
		if overrides.API.TokenFile != "" {
			c.API.TokenFile = overrides.API.TokenFile
		}
		if overrides.API.Timeout != "" {
			c.API.Timeout = overrides.API.Timeout
		}
	}

	if overrides.Cache != nil {
		if overrides.Cache.TTL != "" {
			c.Cache.TTL = overrides.Cache.TTL
		}
	}

	if overrides.UI != nil {
		if overrides.UI.InitialTab != "" {
			c.UI.InitialTab = overrides.UI.InitialTab
		}
		if overrides.UI.LogFile != "" {
			c.UI.LogFile = overrides.UI.LogFile
		}
		if overrides.UI.LogLevel != "" {
			c.UI.LogLevel = overrides.UI.LogLevel
		}
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in
// path-valued fields.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.API.TokenFile = expandVars(c.API.TokenFile, vars)
	c.UI.LogFile = expandVars(c.UI.LogFile, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Staging && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	if c.API.BaseURL == "" {
		errs = append(errs, fmt.Errorf("api.base_url is required"))
	}
	if c.API.Token == "" && c.API.TokenFile == "" {
		errs = append(errs, fmt.Errorf("one of api.token or api.token_file is required"))
	}
	if _, err := time.ParseDuration(c.API.Timeout); err != nil {
		errs = append(errs, fmt.Errorf("api.timeout: %w", err))
	}
	if _, err := time.ParseDuration(c.Cache.TTL); err != nil {
		errs = append(errs, fmt.Errorf("cache.ttl: %w", err))
	}

	if c.UI.InitialTab != "updates" && c.UI.InitialTab != "files" {
		errs = append(errs, fmt.Errorf("ui.initial_tab must be \"updates\" or \"files\""))
	}
	if _, err := parseLevel(c.UI.LogLevel); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// CacheTTL returns the parsed cache TTL. Call Validate first.
func (c *Config) CacheTTL() time.Duration {
	ttl, _ := time.ParseDuration(c.Cache.TTL)
	return ttl
}

// APITimeout returns the parsed HTTP timeout. Call Validate first.
func (c *Config) APITimeout() time.Duration {
	timeout, _ := time.ParseDuration(c.API.Timeout)
	return timeout
}

// LogLevel returns the parsed UI log level. Call Validate first.
func (c *Config) LogLevel() slog.Level {
	level, _ := parseLevel(c.UI.LogLevel)
	return level
}

// ResolveToken returns the bearer token, reading TokenFile when Token
// is not set inline.
func (c *Config) ResolveToken() (string, error) {
	if c.API.Token != "" {
		return c.API.Token, nil
	}
	if c.API.TokenFile == "" {
		return "", fmt.Errorf("no api token configured")
	}
	data, err := os.ReadFile(c.API.TokenFile)
	if err != nil {
		return "", fmt.Errorf("reading api.token_file: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("api.token_file %s is empty", c.API.TokenFile)
	}
	return token, nil
}

func parseLevel(name string) (slog.Level, error) {
	switch name {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("ui.log_level must be one of debug, info, warn, error (got %q)", name)
}
