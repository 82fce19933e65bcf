// Eterstore - Multi-Tenant Storefront and Back-Office Platform
// Copyright 2026 Eterstore Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eterstore/eterstore

package rbac

import (
	"context"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/eterstore/eterstore/internal/identity"
	"github.com/eterstore/eterstore/internal/logging"
)

// RoleProvider is the profile-store lookup the resolver falls back to
// when session claims carry no usable role. Implemented by the badger
// profile store; abstracted so the resolver can be tested without one.
type RoleProvider interface {
	// GetRoleByID returns the stored role for a principal, or an error
	// if the principal has no profile or the store is unavailable.
	GetRoleByID(ctx context.Context, principalID string) (string, error)
}

// ResolverConfig holds configuration for the role resolver.
type ResolverConfig struct {
	// DefaultRole is returned when no source yields a valid role.
	// Must be the least-privileged role; resolution failures degrade
	// to it, never to a privileged role.
	DefaultRole Role

	// CacheTTL is how long database-resolved roles are cached.
	CacheTTL time.Duration

	// Overrides force a role for specific principal IDs. Loaded from
	// configuration at startup, applied after the normal source chain,
	// and logged on every application. Meant for emergency/bootstrap
	// admin access only; empty in normal operation.
	Overrides map[string]Role

	// BreakerOpenTimeout is how long the store circuit breaker stays
	// open after tripping before probing again.
	BreakerOpenTimeout time.Duration
}

// DefaultResolverConfig returns production defaults.
func DefaultResolverConfig() *ResolverConfig {
	return &ResolverConfig{
		DefaultRole:        RoleUser,
		CacheTTL:           defaultRoleCacheTTL,
		BreakerOpenTimeout: 30 * time.Second,
	}
}

// Resolver computes the effective role for a principal.
//
// Sources are consulted in priority order: session claims (no I/O),
// the TTL cache, then the profile store. Store lookups go through a
// circuit breaker; an open breaker or any lookup error resolves to the
// default role. A principal therefore always resolves to exactly one
// role, and failures always degrade toward least privilege.
type Resolver struct {
	store   RoleProvider
	cache   *roleCache
	config  *ResolverConfig
	breaker *gobreaker.CircuitBreaker[string]
}

// NewResolver creates a role resolver backed by the given profile store.
func NewResolver(store RoleProvider, config *ResolverConfig) *Resolver {
	if config == nil {
		config = DefaultResolverConfig()
	}
	if !config.DefaultRole.Valid() {
		config.DefaultRole = RoleUser
	}
	if config.BreakerOpenTimeout <= 0 {
		config.BreakerOpenTimeout = 30 * time.Second
	}

	for id, role := range config.Overrides {
		logging.Warn().
			Str("principal_id", id).
			Str("role", role.String()).
			Msg("Role override configured")
	}

	breaker := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:    "profile-store",
		Timeout: config.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Profile store breaker state changed")
		},
	})

	return &Resolver{
		store:   store,
		cache:   newRoleCache(config.CacheTTL),
		config:  config,
		breaker: breaker,
	}
}

// Resolve returns the effective role for a principal. It never returns
// an error: any failure along the chain resolves to the default role.
func (r *Resolver) Resolve(ctx context.Context, p *identity.Principal) Role {
	role := r.resolveChain(ctx, p)

	// Overrides win over every other source. Each application is
	// logged so forced roles stay visible in the audit trail.
	if p != nil {
		if forced, ok := r.config.Overrides[p.ID]; ok {
			logging.Warn().
				Str("principal_id", p.ID).
				Str("resolved_role", role.String()).
				Str("forced_role", forced.String()).
				Msg("Role override applied")
			RecordRoleOverride()
			return forced
		}
	}

	return role
}

// resolveChain walks the claims -> cache -> store chain.
func (r *Resolver) resolveChain(ctx context.Context, p *identity.Principal) Role {
	if p == nil {
		return r.config.DefaultRole
	}

	// Fast path: a valid role claim from the session token needs no I/O.
	// The claim may lag the database until the session refreshes; that
	// staleness window is accepted and bounded by forced refresh on
	// role changes.
	if claimed, ok := ParseRole(p.RoleClaim); ok {
		RecordRoleResolution("claims")
		return claimed
	}

	if cached, ok := r.cache.get(p.ID); ok {
		RecordRoleResolution("cache")
		return cached
	}

	stored, err := r.breaker.Execute(func() (string, error) {
		return r.store.GetRoleByID(ctx, p.ID)
	})
	if err != nil {
		// Store unavailable, breaker open, or no profile row: fail
		// toward least privilege, never toward access.
		logging.Ctx(ctx).Warn().
			Err(err).
			Str("principal_id", p.ID).
			Msg("Role lookup failed, using default role")
		RecordResolutionFailure()
		return r.config.DefaultRole
	}

	role, ok := ParseRole(stored)
	if !ok {
		logging.Ctx(ctx).Warn().
			Str("principal_id", p.ID).
			Str("stored_role", stored).
			Msg("Profile has invalid role, using default role")
		RecordResolutionFailure()
		return r.config.DefaultRole
	}

	r.cache.set(p.ID, role)
	RecordRoleResolution("store")
	return role
}

// Invalidate drops the cached role for a principal. Every operation that
// mutates a stored role must call this so the next resolution re-reads
// the store instead of serving stale privileges for up to the TTL.
func (r *Resolver) Invalidate(principalID string) {
	r.cache.invalidate(principalID)
	RecordRoleCacheInvalidation()
}

// CacheSize returns the number of cached role entries.
func (r *Resolver) CacheSize() int {
	return r.cache.size()
}

// DefaultRole returns the configured least-privilege fallback role.
func (r *Resolver) DefaultRole() Role {
	return r.config.DefaultRole
}

// Close stops the resolver's cache maintenance. Safe to call multiple times.
func (r *Resolver) Close() {
	r.cache.stop()
}
