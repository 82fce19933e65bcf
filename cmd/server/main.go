// Eterstore - Multi-Tenant Storefront and Back-Office Platform
// Copyright 2026 Eterstore Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eterstore/eterstore

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eterstore/eterstore/internal/api"
	"github.com/eterstore/eterstore/internal/config"
	"github.com/eterstore/eterstore/internal/identity"
	"github.com/eterstore/eterstore/internal/logging"
	"github.com/eterstore/eterstore/internal/metrics"
	"github.com/eterstore/eterstore/internal/rbac"
	"github.com/eterstore/eterstore/internal/store"
	"github.com/eterstore/eterstore/internal/supervisor"
	"github.com/eterstore/eterstore/internal/supervisor/services"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize zerolog with configuration
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", api.Version).
		Str("environment", cfg.Server.Environment).
		Msg("Starting Eterstore")

	metrics.SetAppInfo(api.Version)

	// Profile store. An empty path runs BadgerDB in memory, which only
	// makes sense for local development.
	if cfg.Store.Path == "" && cfg.Server.Environment == "production" {
		logging.Fatal().Msg("STORE_PATH is required in production")
	}
	profiles, err := store.Open(store.Config{
		Path:           cfg.Store.Path,
		GCInterval:     cfg.Store.GCInterval,
		GCDiscardRatio: cfg.Store.GCDiscardRatio,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open profile store")
	}
	defer func() {
		if err := profiles.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing profile store")
		}
	}()
	logging.Info().Str("path", cfg.Store.Path).Msg("Profile store opened")

	// Authorization policy and role resolution
	policy := rbac.MustCompile(rbac.DefaultRules())

	overrides := make(map[string]rbac.Role, len(cfg.RBAC.Overrides))
	for id, name := range cfg.RBAC.Overrides {
		role, ok := rbac.ParseRole(name)
		if !ok {
			logging.Fatal().Str("role", name).Msg("Unknown role in RBAC_ROLE_OVERRIDES")
		}
		overrides[id] = role
	}
	if len(overrides) > 0 {
		logging.Warn().Int("count", len(overrides)).Msg("Role overrides active")
	}

	defaultRole, ok := rbac.ParseRole(cfg.RBAC.DefaultRole)
	if !ok {
		logging.Fatal().Str("role", cfg.RBAC.DefaultRole).Msg("Unknown RBAC_DEFAULT_ROLE")
	}

	resolver := rbac.NewResolver(profiles, &rbac.ResolverConfig{
		DefaultRole:        defaultRole,
		CacheTTL:           cfg.RBAC.CacheTTL,
		Overrides:          overrides,
		BreakerOpenTimeout: cfg.RBAC.BreakerOpenTimeout,
	})
	defer resolver.Close()

	audit := rbac.NewAuditLogger(rbac.AuditLoggerConfig{
		Enabled:    cfg.RBAC.AuditEnabled,
		BufferSize: cfg.RBAC.AuditBufferSize,
		DeniesOnly: cfg.RBAC.AuditDeniesOnly,
	})
	defer func() {
		if err := audit.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing audit logger")
		}
	}()

	gate := rbac.NewGate(resolver, policy, rbac.GateConfig{
		ProtectedPrefixes: cfg.RBAC.ProtectedPrefixes,
		AuthPages:         cfg.RBAC.AuthPages,
		LoginPath:         cfg.RBAC.LoginPath,
		DefaultLanding:    cfg.RBAC.DefaultLanding,
	}, audit)
	guards := rbac.NewGuards(resolver, policy)
	logging.Info().
		Int("rules", len(rbac.DefaultRules())).
		Str("default_role", defaultRole.String()).
		Msg("Authorization policy compiled")

	// Sessions and login rate limiting
	sessions, err := identity.NewSessionManager(identity.SessionManagerConfig{
		Secret:       cfg.Security.JWTSecret,
		Timeout:      cfg.Security.SessionTimeout,
		CookieName:   cfg.Security.CookieName,
		CookieSecure: cfg.Security.CookieSecure,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize session manager")
	}

	limiter := identity.NewLoginLimiter(cfg.Security.LoginAttemptsPerMinute, cfg.Security.LoginBurst)
	defer limiter.Stop()

	// HTTP surface
	handler := api.NewHandler(cfg, profiles, sessions, guards, resolver, limiter)
	router := api.NewRouter(cfg, handler, sessions, gate)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// === SUPERVISOR TREE ===

	treeCfg := supervisor.DefaultTreeConfig()
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), treeCfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddStorageService(services.NewStoreGCService(profiles))
	tree.AddAPIService(services.NewHTTPServerService(server, treeCfg.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// Wait for supervisor to finish (either from signal or error)
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Wait for the error channel to close (supervisor finished)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	// Report any services that failed to stop within timeout
	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
