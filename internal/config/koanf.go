// Eterstore - Multi-Tenant Storefront and Back-Office Platform
// Copyright 2026 Eterstore Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eterstore/eterstore

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/eterstore/config.yaml",
	"/etc/eterstore/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8080,
			Timeout:           30 * time.Second,
			Environment:       "development",
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Security: SecurityConfig{
			JWTSecret:              "",
			SessionTimeout:         24 * time.Hour,
			CookieName:             "eter_session",
			CookieSecure:           true,
			LoginAttemptsPerMinute: 10,
			LoginBurst:             5,
		},
		RBAC: RBACConfig{
			DefaultRole:        "user",
			CacheTTL:           60 * time.Second,
			Overrides:          map[string]string{},
			BreakerOpenTimeout: 30 * time.Second,
			ProtectedPrefixes:  []string{"/dashboard", "/academy", "/admin"},
			AuthPages:          []string{"/login", "/register"},
			LoginPath:          "/login",
			DefaultLanding:     "/dashboard",
			AuditEnabled:       true,
			AuditBufferSize:    1000,
			AuditDeniesOnly:    false,
		},
		Store: StoreConfig{
			Path:           "data/profiles",
			GCInterval:     10 * time.Minute,
			GCDiscardRatio: 0.5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice and map fields from flat string env values
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}
	if err := processOverrides(k); err != nil {
		return nil, fmt.Errorf("failed to process role overrides: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as
// comma-separated slices when they arrive as strings from env vars.
var sliceConfigPaths = []string{
	"server.cors_origins",
	"rbac.protected_prefixes",
	"rbac.auth_pages",
}

// processSliceFields converts comma-separated string values to slices
// for known slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice (from YAML file)
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// processOverrides parses RBAC_ROLE_OVERRIDES from a comma-separated
// list of id=role pairs into the overrides map.
func processOverrides(k *koanf.Koanf) error {
	val := k.Get("rbac.overrides")
	strVal, ok := val.(string)
	if !ok || strVal == "" {
		return nil
	}

	overrides := make(map[string]string)
	for _, pair := range strings.Split(strVal, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		id, role, found := strings.Cut(pair, "=")
		if !found {
			return fmt.Errorf("RBAC_ROLE_OVERRIDES entry %q is not id=role", pair)
		}
		overrides[strings.TrimSpace(id)] = strings.TrimSpace(role)
	}

	return k.Set("rbac.overrides", overrides)
}

// envTransformFunc maps environment variable names to koanf config
// paths. Unmapped variables are dropped so random environment does not
// pollute the configuration.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - JWT_SECRET -> security.jwt_secret
//   - RBAC_CACHE_TTL -> rbac.cache_ttl
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Server mappings
		"http_port":          "server.port",
		"http_host":          "server.host",
		"http_timeout":       "server.timeout",
		"environment":        "server.environment",
		"cors_origins":       "server.cors_origins",
		"rate_limit_reqs":    "server.rate_limit_reqs",
		"rate_limit_window":  "server.rate_limit_window",
		"disable_rate_limit": "server.rate_limit_disabled",

		// Security mappings
		"jwt_secret":                "security.jwt_secret",
		"session_timeout":           "security.session_timeout",
		"session_cookie_name":       "security.cookie_name",
		"cookie_secure":             "security.cookie_secure",
		"login_attempts_per_minute": "security.login_attempts_per_minute",
		"login_burst":               "security.login_burst",

		// RBAC mappings
		"rbac_default_role":         "rbac.default_role",
		"rbac_cache_ttl":            "rbac.cache_ttl",
		"rbac_role_overrides":       "rbac.overrides",
		"rbac_breaker_open_timeout": "rbac.breaker_open_timeout",
		"rbac_protected_prefixes":   "rbac.protected_prefixes",
		"rbac_auth_pages":           "rbac.auth_pages",
		"rbac_login_path":           "rbac.login_path",
		"rbac_default_landing":      "rbac.default_landing",
		"rbac_audit_enabled":        "rbac.audit_enabled",
		"rbac_audit_buffer_size":    "rbac.audit_buffer_size",
		"rbac_audit_denies_only":    "rbac.audit_denies_only",

		// Store mappings
		"store_path":             "store.path",
		"store_gc_interval":      "store.gc_interval",
		"store_gc_discard_ratio": "store.gc_discard_ratio",

		// Logging mappings
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	return ""
}
