// Eterstore - Multi-Tenant Storefront and Back-Office Platform
// Copyright 2026 Eterstore Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eterstore/eterstore

// Package identity resolves the authenticated principal for a request.
//
// The package is deliberately attach-only: its middleware puts a
// Principal into the request context when a valid session token is
// present and otherwise leaves the context bare. Enforcement (redirects,
// typed denials) is the rbac package's job, so authentication and
// authorization stay separately testable.
package identity

import (
	"context"
	"time"
)

// Principal is an authenticated caller. It is created by the session
// provider at login, normalized from token claims on every request, and
// never mutated by downstream code.
type Principal struct {
	// ID is the opaque stable identifier of the account.
	ID string `json:"id"`

	// Email is the account email address.
	Email string `json:"email"`

	// Username is the human-readable display name.
	Username string `json:"username,omitempty"`

	// RoleClaim is the role embedded in the session token at issuance.
	// It may lag the database until the session refreshes; the rbac
	// resolver validates it before trusting it.
	RoleClaim string `json:"role,omitempty"`

	// SessionID identifies the session token this principal came from.
	SessionID string `json:"session_id,omitempty"`

	// IssuedAt is when the session token was issued (unix seconds).
	IssuedAt int64 `json:"issued_at,omitempty"`

	// ExpiresAt is when the session token expires (unix seconds).
	ExpiresAt int64 `json:"expires_at,omitempty"`
}

// IsExpired reports whether the principal's session has expired.
func (p *Principal) IsExpired() bool {
	if p.ExpiresAt == 0 {
		return false
	}
	return time.Now().Unix() > p.ExpiresAt
}

type contextKey string

// principalContextKey is the context key for the request principal.
const principalContextKey contextKey = "principal"

// WithPrincipal returns a context carrying the principal.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

// FromContext returns the principal attached to the context, or nil if
// the request is unauthenticated.
func FromContext(ctx context.Context) *Principal {
	p, ok := ctx.Value(principalContextKey).(*Principal)
	if !ok {
		return nil
	}
	return p
}
