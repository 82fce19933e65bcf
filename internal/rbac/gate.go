// Eterstore - Multi-Tenant Storefront and Back-Office Platform
// Copyright 2026 Eterstore Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eterstore/eterstore

package rbac

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/eterstore/eterstore/internal/identity"
	"github.com/eterstore/eterstore/internal/logging"
)

// Decision is the outcome of gating one request. It is ephemeral:
// recomputed per request, never persisted.
type Decision struct {
	// Allowed is true when the request may proceed.
	Allowed bool

	// Redirect is the location to send the client to when not allowed,
	// or when an authenticated user hits an auth page.
	Redirect string

	// MatchedPrefix is the policy prefix the path resolved against,
	// empty when no rule matched.
	MatchedPrefix string

	// Role is the resolved effective role, empty for anonymous requests.
	Role Role
}

// GateConfig holds edge gate configuration.
type GateConfig struct {
	// ProtectedPrefixes are the areas that require an authenticated
	// principal before the fine-grained policy is even consulted.
	ProtectedPrefixes []string

	// AuthPages are the login/register paths an authenticated user is
	// bounced away from.
	AuthPages []string

	// LoginPath receives unauthenticated redirects.
	LoginPath string

	// DefaultLanding receives authenticated users denied by policy and
	// users leaving auth pages with no captured destination.
	DefaultLanding string
}

// DefaultGateConfig returns the storefront's gate configuration.
func DefaultGateConfig() GateConfig {
	return GateConfig{
		ProtectedPrefixes: []string{"/dashboard", "/academy", "/admin"},
		AuthPages:         []string{"/login", "/register"},
		LoginPath:         "/login",
		DefaultLanding:    "/dashboard",
	}
}

// redirectToParam carries the original destination through the login flow.
const redirectToParam = "redirectTo"

// Gate is the edge enforcement point. It runs on every navigable
// request before any protected rendering or data fetching, and fails
// closed: any error resolving the principal or role produces a
// redirect, never a silent allow.
//
// Denials degrade to visible, recoverable redirects rather than hard
// errors because the consumer is a navigable UI.
type Gate struct {
	resolver *Resolver
	policy   *Policy
	config   GateConfig
	audit    *AuditLogger
}

// NewGate creates an edge gate. The audit logger may be nil.
func NewGate(resolver *Resolver, policy *Policy, config GateConfig, audit *AuditLogger) *Gate {
	if config.LoginPath == "" {
		config.LoginPath = "/login"
	}
	if config.DefaultLanding == "" {
		config.DefaultLanding = "/dashboard"
	}
	return &Gate{
		resolver: resolver,
		policy:   policy,
		config:   config,
		audit:    audit,
	}
}

// Authorize computes the gate decision for a request without applying
// it. Middleware applies the decision; keeping the two apart makes the
// decision logic testable with a bare *http.Request.
func (g *Gate) Authorize(r *http.Request) Decision {
	start := time.Now()
	path := r.URL.Path
	principal := identity.FromContext(r.Context())

	// Authenticated users re-entering auth flows are bounced to their
	// captured destination, or the default landing page.
	if g.isAuthPage(path) {
		if principal != nil {
			target := sanitizeRedirect(r.URL.Query().Get(redirectToParam))
			if target == "" {
				target = g.config.DefaultLanding
			}
			return Decision{Allowed: false, Redirect: target}
		}
		return Decision{Allowed: true}
	}

	if !g.isProtected(path) {
		return Decision{Allowed: true}
	}

	if principal == nil {
		RecordGateDecision(false)
		return Decision{
			Allowed:  false,
			Redirect: g.config.LoginPath + "?" + redirectToParam + "=" + url.QueryEscape(path),
		}
	}

	role := g.resolver.Resolve(r.Context(), principal)

	roles, matchedPrefix, matched := g.policy.ResolvePath(path)
	if matched && !roleIn(role, roles) {
		RecordGateDecision(false)
		g.auditDecision(r, principal, role, matchedPrefix, false, time.Since(start))
		return Decision{
			Allowed:       false,
			Redirect:      g.config.DefaultLanding + "?unauthorized=true",
			MatchedPrefix: matchedPrefix,
			Role:          role,
		}
	}

	// No matching rule inside a protected area means no fine-grained
	// restriction was declared; authentication alone suffices.
	RecordGateDecision(true)
	g.auditDecision(r, principal, role, matchedPrefix, true, time.Since(start))
	return Decision{
		Allowed:       true,
		MatchedPrefix: matchedPrefix,
		Role:          role,
	}
}

// Middleware applies gate decisions: protected work only runs after an
// allow, and denials become redirects.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decision := g.Authorize(r)
		if !decision.Allowed {
			logging.Ctx(r.Context()).Debug().
				Str("path", r.URL.Path).
				Str("redirect", decision.Redirect).
				Str("role", decision.Role.String()).
				Msg("Gate redirect")
			http.Redirect(w, r, decision.Redirect, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// isProtected reports whether the path requires an authenticated
// principal.
func (g *Gate) isProtected(path string) bool {
	for _, prefix := range g.config.ProtectedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// isAuthPage reports whether the path is a login/register page.
func (g *Gate) isAuthPage(path string) bool {
	for _, page := range g.config.AuthPages {
		if path == page {
			return true
		}
	}
	return false
}

// auditDecision records the gate decision on the audit trail.
func (g *Gate) auditDecision(r *http.Request, p *identity.Principal, role Role, matchedPrefix string, allowed bool, duration time.Duration) {
	if g.audit == nil {
		return
	}

	reason := ""
	if !allowed {
		reason = "role not permitted for " + matchedPrefix
	}
	g.audit.LogDecision(&AuditEvent{
		RequestID:  logging.RequestIDFromContext(r.Context()),
		ActorID:    p.ID,
		ActorEmail: p.Email,
		Role:       role.String(),
		Path:       r.URL.Path,
		Decision:   allowed,
		Reason:     reason,
		Duration:   duration,
	})
}

// sanitizeRedirect accepts only local paths as post-login destinations,
// rejecting absolute URLs and scheme-relative ("//host") values that
// would open-redirect off-site.
func sanitizeRedirect(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return ""
	}
	return target
}
