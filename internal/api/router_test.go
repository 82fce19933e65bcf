// Eterstore - Multi-Tenant Storefront and Back-Office Platform
// Copyright 2026 Eterstore Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eterstore/eterstore

package api

import (
	"net/http"
	"net/url"
	"testing"
)

func TestRouter_GateRedirectsAnonymousToLogin(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/dashboard", "/academy", "/admin"} {
		rec := ts.do(t, http.MethodGet, path, nil, nil)
		if rec.Code != http.StatusFound {
			t.Errorf("GET %s status = %d, want 302", path, rec.Code)
			continue
		}
		loc := rec.Header().Get("Location")
		if loc != "/login?redirectTo="+url.QueryEscape(path) {
			t.Errorf("GET %s Location = %q", path, loc)
		}
	}
}

func TestRouter_GateDeniesByRole(t *testing.T) {
	ts := newTestServer(t)
	_, userCookie := ts.seed(t, "user@example.com", "user")

	rec := ts.do(t, http.MethodGet, "/dashboard/analytics", nil, userCookie)
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/dashboard?unauthorized=true" {
		t.Errorf("Location = %q, want /dashboard?unauthorized=true", loc)
	}
}

func TestRouter_GateAllowsPermittedRole(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		path string
		role string
	}{
		{"/dashboard", "user"},
		{"/dashboard/analytics", "admin"},
		{"/dashboard/inventory", "reseller"},
		{"/academy", "user"},
		{"/academy/manage", "support"},
		{"/admin", "support"},
	}

	for i, tt := range tests {
		_, cookie := ts.seed(t, string(rune('a'+i))+"@example.com", tt.role)
		rec := ts.do(t, http.MethodGet, tt.path, nil, cookie)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s as %s: status = %d, want 200", tt.path, tt.role, rec.Code)
		}
	}
}

func TestRouter_AuthPageBounce(t *testing.T) {
	ts := newTestServer(t)
	_, cookie := ts.seed(t, "a@example.com", "user")

	rec := ts.do(t, http.MethodGet, "/login", nil, cookie)
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/dashboard" {
		t.Errorf("Location = %q, want /dashboard", loc)
	}

	// Anonymous users see the auth pages.
	rec = ts.do(t, http.MethodGet, "/login", nil, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("anonymous /login status = %d, want 200", rec.Code)
	}
	rec = ts.do(t, http.MethodGet, "/register", nil, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("anonymous /register status = %d, want 200", rec.Code)
	}
}

func TestRouter_AdminAPIGuardedNotGated(t *testing.T) {
	// The admin API lives under /api/v1, outside the gate's navigable
	// prefixes. It must answer with typed errors, not redirects.
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/v1/admin/users/someone", nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 (not a redirect)", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "" {
		t.Errorf("unexpected redirect to %q", loc)
	}
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/metrics", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestRouter_InvalidSessionTreatedAsAnonymous(t *testing.T) {
	ts := newTestServer(t)

	cookie := &http.Cookie{Name: "eter_session", Value: "garbage"}
	rec := ts.do(t, http.MethodGet, "/dashboard", nil, cookie)
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302 redirect to login", rec.Code)
	}
}
