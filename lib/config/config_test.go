// Copyright 2026 The Harbor Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "harbor.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
environment: development
api:
  base_url: https://crm.example.com/api
  token: secret-token
  timeout: 5s
cache:
  ttl: 30s
ui:
  initial_tab: files
  log_level: info
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if cfg.API.BaseURL != "https://crm.example.com/api" {
		t.Errorf("base url: got %q", cfg.API.BaseURL)
	}
	if cfg.APITimeout() != 5*time.Second {
		t.Errorf("timeout: got %v", cfg.APITimeout())
	}
	if cfg.CacheTTL() != 30*time.Second {
		t.Errorf("ttl: got %v", cfg.CacheTTL())
	}
	if cfg.UI.InitialTab != "files" {
		t.Errorf("initial tab: got %q", cfg.UI.InitialTab)
	}
	if cfg.LogLevel() != slog.LevelInfo {
		t.Errorf("log level: got %v", cfg.LogLevel())
	}
}

func TestDefaultsApplyWhenOmitted(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://crm.example.com/api
  token: secret-token
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if cfg.Environment != Development {
		t.Errorf("environment: got %q", cfg.Environment)
	}
	if cfg.Cache.TTL != "1m" {
		t.Errorf("cache ttl default: got %q", cfg.Cache.TTL)
	}
	if cfg.UI.InitialTab != "updates" {
		t.Errorf("initial tab default: got %q", cfg.UI.InitialTab)
	}
	if cfg.LogLevel() != slog.LevelWarn {
		t.Errorf("log level default: got %v", cfg.LogLevel())
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, `
environment: staging
api:
  base_url: https://crm.example.com/api
  token: secret-token
staging:
  api:
    base_url: https://staging.crm.example.com/api
  ui:
    log_level: debug
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.API.BaseURL != "https://staging.crm.example.com/api" {
		t.Errorf("staging base url not applied: %q", cfg.API.BaseURL)
	}
	if cfg.UI.LogLevel != "debug" {
		t.Errorf("staging log level not applied: %q", cfg.UI.LogLevel)
	}
	// Fields without overrides keep base values.
	if cfg.API.Token != "secret-token" {
		t.Errorf("token should survive overrides: %q", cfg.API.Token)
	}
}

func TestProductionDefaultsToQuietStatusBar(t *testing.T) {
	path := writeConfig(t, `
environment: production
api:
  base_url: https://crm.example.com/api
  token: secret-token
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.LogLevel() != slog.LevelError {
		t.Errorf("production default log level: got %v", cfg.LogLevel())
	}
}

func TestVariableExpansion(t *testing.T) {
	t.Setenv("HOME", "/home/harbor")
	path := writeConfig(t, `
api:
  base_url: https://crm.example.com/api
  token_file: ${HOME}/.config/harbor/token
ui:
  log_file: ${HARBOR_LOG_DIR:-/tmp}/harbor.jsonl
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.API.TokenFile != "/home/harbor/.config/harbor/token" {
		t.Errorf("token file expansion: got %q", cfg.API.TokenFile)
	}
	if cfg.UI.LogFile != "/tmp/harbor.jsonl" {
		t.Errorf("log file default expansion: got %q", cfg.UI.LogFile)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		wantText string
	}{
		{"missing base url", func(c *Config) { c.API.BaseURL = "" }, "base_url"},
		{"missing token", func(c *Config) { c.API.Token = "" }, "token"},
		{"bad timeout", func(c *Config) { c.API.Timeout = "soon" }, "timeout"},
		{"bad ttl", func(c *Config) { c.Cache.TTL = "forever" }, "ttl"},
		{"bad tab", func(c *Config) { c.UI.InitialTab = "pipeline" }, "initial_tab"},
		{"bad level", func(c *Config) { c.UI.LogLevel = "loud" }, "log_level"},
		{"bad environment", func(c *Config) { c.Environment = "lab" }, "environment"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := Default()
			cfg.API.BaseURL = "https://crm.example.com/api"
			cfg.API.Token = "secret-token"
			test.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), test.wantText) {
				t.Errorf("error should mention %q: %v", test.wantText, err)
			}
		})
	}
}

func TestResolveToken(t *testing.T) {
	tokenPath := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(tokenPath, []byte("file-token\n"), 0o600); err != nil {
		t.Fatalf("write token: %v", err)
	}

	cfg := Default()
	cfg.API.TokenFile = tokenPath
	token, err := cfg.ResolveToken()
	if err != nil {
		t.Fatalf("ResolveToken: %v", err)
	}
	if token != "file-token" {
		t.Errorf("token: got %q", token)
	}

	// Inline token wins.
	cfg.API.Token = "inline-token"
	token, err = cfg.ResolveToken()
	if err != nil {
		t.Fatalf("ResolveToken: %v", err)
	}
	if token != "inline-token" {
		t.Errorf("inline token: got %q", token)
	}

	// Neither configured.
	cfg = Default()
	if _, err := cfg.ResolveToken(); err == nil {
		t.Error("expected error with no token configured")
	}
}

func TestLoadRequiresEnvVar(t *testing.T) {
	t.Setenv("HARBOR_CONFIG", "")
	if _, err := Load(); err == nil {
		t.Error("expected error when HARBOR_CONFIG is unset")
	}
}
