// Eterstore - Multi-Tenant Storefront and Back-Office Platform
// Copyright 2026 Eterstore Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eterstore/eterstore

package config

import (
	"fmt"
	"strings"
	"time"
)

// Config holds all application configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any setting
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Security SecurityConfig `koanf:"security"`
	RBAC     RBACConfig     `koanf:"rbac"`
	Store    StoreConfig    `koanf:"store"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port"`
	Timeout           time.Duration `koanf:"timeout"`
	Environment       string        `koanf:"environment"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// SecurityConfig holds session and login settings.
type SecurityConfig struct {
	JWTSecret              string        `koanf:"jwt_secret"`
	SessionTimeout         time.Duration `koanf:"session_timeout"`
	CookieName             string        `koanf:"cookie_name"`
	CookieSecure           bool          `koanf:"cookie_secure"`
	LoginAttemptsPerMinute int           `koanf:"login_attempts_per_minute"`
	LoginBurst             int           `koanf:"login_burst"`
}

// RBACConfig holds authorization settings.
type RBACConfig struct {
	// DefaultRole is assigned when no role can be resolved.
	DefaultRole string `koanf:"default_role"`

	// CacheTTL bounds how long a resolved role may be served without
	// consulting the profile store.
	CacheTTL time.Duration `koanf:"cache_ttl"`

	// Overrides maps principal ids to forced roles. Loaded from
	// RBAC_ROLE_OVERRIDES as comma-separated id=role pairs. Empty by
	// default; every application is logged.
	Overrides map[string]string `koanf:"overrides"`

	// BreakerOpenTimeout is how long the profile store circuit breaker
	// stays open after tripping.
	BreakerOpenTimeout time.Duration `koanf:"breaker_open_timeout"`

	ProtectedPrefixes []string `koanf:"protected_prefixes"`
	AuthPages         []string `koanf:"auth_pages"`
	LoginPath         string   `koanf:"login_path"`
	DefaultLanding    string   `koanf:"default_landing"`

	AuditEnabled    bool `koanf:"audit_enabled"`
	AuditBufferSize int  `koanf:"audit_buffer_size"`
	AuditDeniesOnly bool `koanf:"audit_denies_only"`
}

// StoreConfig holds profile store settings.
type StoreConfig struct {
	Path           string        `koanf:"path"`
	GCInterval     time.Duration `koanf:"gc_interval"`
	GCDiscardRatio float64       `koanf:"gc_discard_ratio"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// knownRoles is the closed role set accepted in configuration.
var knownRoles = map[string]bool{
	"admin":    true,
	"support":  true,
	"reseller": true,
	"user":     true,
}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateRBAC(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	switch c.Server.Environment {
	case "development", "production", "test":
	default:
		return fmt.Errorf("ENVIRONMENT must be development, production, or test, got %q", c.Server.Environment)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.Security.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}
	if c.Server.Environment == "production" && !c.Security.CookieSecure {
		return fmt.Errorf("COOKIE_SECURE must be true in production")
	}
	if c.Security.SessionTimeout <= 0 {
		return fmt.Errorf("SESSION_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateRBAC() error {
	if !knownRoles[c.RBAC.DefaultRole] {
		return fmt.Errorf("RBAC_DEFAULT_ROLE must be one of admin, support, reseller, user, got %q", c.RBAC.DefaultRole)
	}
	if c.RBAC.CacheTTL <= 0 {
		return fmt.Errorf("RBAC_CACHE_TTL must be positive")
	}
	for id, role := range c.RBAC.Overrides {
		if id == "" {
			return fmt.Errorf("RBAC_ROLE_OVERRIDES contains an empty principal id")
		}
		if !knownRoles[role] {
			return fmt.Errorf("RBAC_ROLE_OVERRIDES maps %q to unknown role %q", id, role)
		}
	}
	for _, p := range c.RBAC.ProtectedPrefixes {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("RBAC_PROTECTED_PREFIXES entries must start with /, got %q", p)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
