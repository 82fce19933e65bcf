// Eterstore - Multi-Tenant Storefront and Back-Office Platform
// Copyright 2026 Eterstore Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eterstore/eterstore

package rbac

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/eterstore/eterstore/internal/identity"
)

func newTestGate(t *testing.T) *Gate {
	t.Helper()
	resolver := newTestResolver(t, &fakeRoleProvider{}, nil)
	return NewGate(resolver, MustCompile(DefaultRules()), DefaultGateConfig(), nil)
}

func gateRequest(path string, role Role) *http.Request {
	r := httptest.NewRequest(http.MethodGet, path, nil)
	if role != "" {
		ctx := identity.WithPrincipal(r.Context(), &identity.Principal{
			ID:        "u1",
			Email:     "u1@example.com",
			RoleClaim: role.String(),
		})
		r = r.WithContext(ctx)
	}
	return r
}

func TestGate_AnonymousRedirectedToLogin(t *testing.T) {
	g := newTestGate(t)

	d := g.Authorize(gateRequest("/dashboard/purchases", ""))
	if d.Allowed {
		t.Fatal("anonymous request to protected area allowed")
	}
	want := "/login?redirectTo=" + url.QueryEscape("/dashboard/purchases")
	if d.Redirect != want {
		t.Errorf("Redirect = %q, want %q", d.Redirect, want)
	}
}

func TestGate_PublicPathAllowed(t *testing.T) {
	g := newTestGate(t)

	for _, path := range []string{"/", "/products", "/about", "/api/v1/health"} {
		if d := g.Authorize(gateRequest(path, "")); !d.Allowed {
			t.Errorf("anonymous request to %q not allowed", path)
		}
	}
}

func TestGate_DeniedRoleRedirectedToLanding(t *testing.T) {
	g := newTestGate(t)

	d := g.Authorize(gateRequest("/dashboard/analytics", RoleUser))
	if d.Allowed {
		t.Fatal("user allowed into admin-only analytics")
	}
	if d.Redirect != "/dashboard?unauthorized=true" {
		t.Errorf("Redirect = %q, want /dashboard?unauthorized=true", d.Redirect)
	}
	if d.MatchedPrefix != "/dashboard/analytics" {
		t.Errorf("MatchedPrefix = %q, want /dashboard/analytics", d.MatchedPrefix)
	}
}

func TestGate_AllowedRolePasses(t *testing.T) {
	g := newTestGate(t)

	tests := []struct {
		path string
		role Role
	}{
		{"/dashboard", RoleUser},
		{"/dashboard/analytics", RoleAdmin},
		{"/dashboard/inventory", RoleReseller},
		{"/dashboard/purchases", RoleSupport},
		{"/academy", RoleUser},
		{"/admin", RoleSupport},
		{"/admin/users", RoleAdmin},
	}

	for _, tt := range tests {
		d := g.Authorize(gateRequest(tt.path, tt.role))
		if !d.Allowed {
			t.Errorf("Authorize(%q, %s) denied, redirect %q", tt.path, tt.role, d.Redirect)
		}
	}
}

func TestGate_DeniedPaths(t *testing.T) {
	g := newTestGate(t)

	tests := []struct {
		path string
		role Role
	}{
		{"/dashboard/analytics", RoleReseller},
		{"/dashboard/settings", RoleSupport},
		{"/dashboard/inventory", RoleUser},
		{"/admin", RoleReseller},
		{"/admin/users", RoleSupport},
		{"/academy/manage", RoleUser},
	}

	for _, tt := range tests {
		d := g.Authorize(gateRequest(tt.path, tt.role))
		if d.Allowed {
			t.Errorf("Authorize(%q, %s) allowed, want denied", tt.path, tt.role)
		}
	}
}

func TestGate_AuthenticatedBouncedFromAuthPages(t *testing.T) {
	g := newTestGate(t)

	d := g.Authorize(gateRequest("/login", RoleUser))
	if d.Allowed {
		t.Fatal("authenticated user allowed on /login")
	}
	if d.Redirect != "/dashboard" {
		t.Errorf("Redirect = %q, want /dashboard", d.Redirect)
	}

	// Captured destination survives the bounce.
	d = g.Authorize(gateRequest("/login?redirectTo=%2Facademy", RoleUser))
	if d.Redirect != "/academy" {
		t.Errorf("Redirect = %q, want /academy", d.Redirect)
	}

	// Off-site destinations are discarded.
	d = g.Authorize(gateRequest("/login?redirectTo=//evil.example", RoleUser))
	if d.Redirect != "/dashboard" {
		t.Errorf("Redirect = %q, want /dashboard for off-site target", d.Redirect)
	}
}

func TestGate_AnonymousAllowedOnAuthPages(t *testing.T) {
	g := newTestGate(t)

	for _, path := range []string{"/login", "/register"} {
		if d := g.Authorize(gateRequest(path, "")); !d.Allowed {
			t.Errorf("anonymous request to %q not allowed", path)
		}
	}
}

func TestGate_ProtectedAreaWithoutRuleNeedsOnlyAuth(t *testing.T) {
	resolver := newTestResolver(t, &fakeRoleProvider{}, nil)
	cfg := DefaultGateConfig()
	cfg.ProtectedPrefixes = append(cfg.ProtectedPrefixes, "/account")
	g := NewGate(resolver, MustCompile(DefaultRules()), cfg, nil)

	if d := g.Authorize(gateRequest("/account", "")); d.Allowed {
		t.Error("anonymous request to /account allowed")
	}
	if d := g.Authorize(gateRequest("/account", RoleUser)); !d.Allowed {
		t.Error("authenticated request to /account denied despite no rule")
	}
}

func TestGate_Middleware(t *testing.T) {
	g := newTestGate(t)
	handler := g.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// Denied request never reaches the handler.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, gateRequest("/dashboard/settings", RoleUser))
	if rec.Code != http.StatusFound {
		t.Errorf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/dashboard?unauthorized=true" {
		t.Errorf("Location = %q, want /dashboard?unauthorized=true", loc)
	}

	// Allowed request passes through.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, gateRequest("/dashboard", RoleUser))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestSanitizeRedirect(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/dashboard", "/dashboard"},
		{"/dashboard/analytics?from=1", "/dashboard/analytics?from=1"},
		{"//evil.example/phish", ""},
		{"https://evil.example", ""},
		{"dashboard", ""},
		{"javascript:alert(1)", ""},
	}

	for _, tt := range tests {
		if got := sanitizeRedirect(tt.in); got != tt.want {
			t.Errorf("sanitizeRedirect(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
