// Eterstore - Multi-Tenant Storefront and Back-Office Platform
// Copyright 2026 Eterstore Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eterstore/eterstore

package rbac

import (
	"context"
	"errors"

	"github.com/eterstore/eterstore/internal/identity"
)

// Guard errors. Callers translate these into safe user-facing results;
// guards themselves never write HTTP responses or redirects.
var (
	// ErrUnauthenticated is returned when no principal is attached to
	// the context.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden is returned when the principal's role or permission
	// check fails.
	ErrForbidden = errors.New("forbidden")
)

// Guards are the in-process enforcement point. Every privileged server
// operation calls one of these at its top, independent of the edge
// gate, so operations stay protected even when reached by paths the
// gate does not intercept.
//
// Guards are idempotent and side-effect-free beyond the resolver's
// cache population.
type Guards struct {
	resolver *Resolver
	policy   *Policy
}

// NewGuards creates the guard set over a resolver and compiled policy.
func NewGuards(resolver *Resolver, policy *Policy) *Guards {
	return &Guards{
		resolver: resolver,
		policy:   policy,
	}
}

// RequireAuthenticated returns the request principal, or
// ErrUnauthenticated when none is attached.
func (g *Guards) RequireAuthenticated(ctx context.Context) (*identity.Principal, error) {
	p := identity.FromContext(ctx)
	if p == nil {
		return nil, ErrUnauthenticated
	}
	return p, nil
}

// RequireRole returns the principal when its resolved role is one of
// the allowed roles. Returns ErrUnauthenticated without a principal,
// ErrForbidden otherwise.
func (g *Guards) RequireRole(ctx context.Context, allowed ...Role) (*identity.Principal, error) {
	p, err := g.RequireAuthenticated(ctx)
	if err != nil {
		return nil, err
	}

	role := g.resolver.Resolve(ctx, p)
	if !roleIn(role, allowed) {
		RecordGuardDecision(false)
		return nil, ErrForbidden
	}

	RecordGuardDecision(true)
	return p, nil
}

// RequireStaff returns the principal when it resolves to a staff role
// (admin or support).
func (g *Guards) RequireStaff(ctx context.Context) (*identity.Principal, error) {
	p, err := g.RequireAuthenticated(ctx)
	if err != nil {
		return nil, err
	}

	role := g.resolver.Resolve(ctx, p)
	if !role.IsStaff() {
		RecordGuardDecision(false)
		return nil, ErrForbidden
	}

	RecordGuardDecision(true)
	return p, nil
}

// RequirePermission returns the principal when its resolved role holds
// the named capability in the policy's permission projection. Unknown
// permissions always deny.
func (g *Guards) RequirePermission(ctx context.Context, permission string) (*identity.Principal, error) {
	p, err := g.RequireAuthenticated(ctx)
	if err != nil {
		return nil, err
	}

	role := g.resolver.Resolve(ctx, p)
	if !g.policy.Allows(role, permission) {
		RecordGuardDecision(false)
		return nil, ErrForbidden
	}

	RecordGuardDecision(true)
	return p, nil
}

// Resolve exposes the guard set's role resolution for callers that need
// the effective role itself (e.g. to scope a query by reseller).
func (g *Guards) Resolve(ctx context.Context, p *identity.Principal) Role {
	return g.resolver.Resolve(ctx, p)
}
