// Eterstore - Multi-Tenant Storefront and Back-Office Platform
// Copyright 2026 Eterstore Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eterstore/eterstore

package rbac

import (
	"testing"
)

func TestCompile_LongestPrefixWins(t *testing.T) {
	policy, err := Compile([]Rule{
		{Permission: "dashboard.view", PathPrefix: "/dashboard", Roles: []Role{RoleAdmin, RoleUser}},
		{Permission: "analytics.view", PathPrefix: "/dashboard/analytics", Roles: []Role{RoleAdmin}},
	})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	tests := []struct {
		name       string
		path       string
		wantPrefix string
		wantMatch  bool
	}{
		{"exact specific", "/dashboard/analytics", "/dashboard/analytics", true},
		{"below specific", "/dashboard/analytics/revenue", "/dashboard/analytics", true},
		{"broad area", "/dashboard", "/dashboard", true},
		{"sibling of specific", "/dashboard/settings", "/dashboard", true},
		{"unmatched", "/academy", "", false},
		{"root", "/", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, prefix, ok := policy.ResolvePath(tt.path)
			if ok != tt.wantMatch {
				t.Errorf("ResolvePath(%q) ok = %v, want %v", tt.path, ok, tt.wantMatch)
			}
			if prefix != tt.wantPrefix {
				t.Errorf("ResolvePath(%q) prefix = %q, want %q", tt.path, prefix, tt.wantPrefix)
			}
		})
	}
}

func TestCompile_SpecificRuleShadowsBroad(t *testing.T) {
	policy := MustCompile([]Rule{
		{Permission: "dashboard.view", PathPrefix: "/dashboard", Roles: []Role{RoleAdmin, RoleSupport, RoleReseller, RoleUser}},
		{Permission: "analytics.view", PathPrefix: "/dashboard/analytics", Roles: []Role{RoleAdmin}},
	})

	roles, _, ok := policy.ResolvePath("/dashboard/analytics")
	if !ok {
		t.Fatal("ResolvePath(/dashboard/analytics) did not match")
	}
	if roleIn(RoleUser, roles) {
		t.Error("user role allowed on /dashboard/analytics, specific rule should shadow broad one")
	}
	if !roleIn(RoleAdmin, roles) {
		t.Error("admin role not allowed on /dashboard/analytics")
	}
}

func TestCompile_RejectsDuplicatePrefix(t *testing.T) {
	_, err := Compile([]Rule{
		{Permission: "a.view", PathPrefix: "/area", Roles: []Role{RoleAdmin}},
		{Permission: "b.view", PathPrefix: "/area", Roles: []Role{RoleUser}},
	})
	if err == nil {
		t.Fatal("Compile() accepted duplicate path prefix")
	}
}

func TestCompile_RejectsDuplicatePermission(t *testing.T) {
	_, err := Compile([]Rule{
		{Permission: "a.view", PathPrefix: "/a", Roles: []Role{RoleAdmin}},
		{Permission: "a.view", PathPrefix: "/b", Roles: []Role{RoleUser}},
	})
	if err == nil {
		t.Fatal("Compile() accepted duplicate permission")
	}
}

func TestCompile_RejectsInvalidRole(t *testing.T) {
	_, err := Compile([]Rule{
		{Permission: "a.view", PathPrefix: "/a", Roles: []Role{Role("superadmin")}},
	})
	if err == nil {
		t.Fatal("Compile() accepted unknown role")
	}
}

func TestCompile_RejectsEmptyRule(t *testing.T) {
	_, err := Compile([]Rule{
		{Roles: []Role{RoleAdmin}},
	})
	if err == nil {
		t.Fatal("Compile() accepted rule with neither permission nor path prefix")
	}
}

func TestCompile_RejectsRelativePrefix(t *testing.T) {
	_, err := Compile([]Rule{
		{Permission: "a.view", PathPrefix: "dashboard", Roles: []Role{RoleAdmin}},
	})
	if err == nil {
		t.Fatal("Compile() accepted path prefix without leading slash")
	}
}

func TestPolicy_Allows(t *testing.T) {
	policy := MustCompile(DefaultRules())

	tests := []struct {
		role       Role
		permission string
		want       bool
	}{
		{RoleAdmin, "users.manage", true},
		{RoleSupport, "users.manage", false},
		{RoleReseller, "inventory.manage", true},
		{RoleUser, "inventory.manage", false},
		{RoleSupport, "support.tools", true},
		{RoleReseller, "support.tools", false},
		{RoleUser, "dashboard.view", true},
		// Unknown permissions always deny, for every role.
		{RoleAdmin, "nonexistent.permission", false},
		{RoleUser, "", false},
	}

	for _, tt := range tests {
		if got := policy.Allows(tt.role, tt.permission); got != tt.want {
			t.Errorf("Allows(%s, %q) = %v, want %v", tt.role, tt.permission, got, tt.want)
		}
	}
}

func TestPolicy_RolesFor(t *testing.T) {
	policy := MustCompile(DefaultRules())

	roles, ok := policy.RolesFor("academy.manage")
	if !ok {
		t.Fatal("RolesFor(academy.manage) ok = false")
	}
	if len(roles) != 2 {
		t.Errorf("RolesFor(academy.manage) returned %d roles, want 2", len(roles))
	}

	if _, ok := policy.RolesFor("unknown"); ok {
		t.Error("RolesFor(unknown) ok = true, want false")
	}
}

func TestDefaultRules_Compile(t *testing.T) {
	policy, err := Compile(DefaultRules())
	if err != nil {
		t.Fatalf("DefaultRules() do not compile: %v", err)
	}
	if policy.PathRuleCount() != 11 {
		t.Errorf("PathRuleCount() = %d, want 11", policy.PathRuleCount())
	}
	if policy.PermissionCount() != 11 {
		t.Errorf("PermissionCount() = %d, want 11", policy.PermissionCount())
	}
}

func TestDefaultRules_AdminAreas(t *testing.T) {
	policy := MustCompile(DefaultRules())

	// /admin/users is admin-only even though the broader /admin area
	// admits support.
	roles, prefix, ok := policy.ResolvePath("/admin/users/42/role")
	if !ok {
		t.Fatal("ResolvePath(/admin/users/42/role) did not match")
	}
	if prefix != "/admin/users" {
		t.Errorf("matched prefix = %q, want /admin/users", prefix)
	}
	if roleIn(RoleSupport, roles) {
		t.Error("support allowed under /admin/users")
	}

	roles, prefix, _ = policy.ResolvePath("/admin")
	if prefix != "/admin" {
		t.Errorf("matched prefix = %q, want /admin", prefix)
	}
	if !roleIn(RoleSupport, roles) {
		t.Error("support not allowed under /admin")
	}
}

func TestParseRole(t *testing.T) {
	for _, role := range AllRoles {
		parsed, ok := ParseRole(role.String())
		if !ok || parsed != role {
			t.Errorf("ParseRole(%q) = %q, %v", role, parsed, ok)
		}
	}

	for _, bad := range []string{"", "Admin", "ADMIN", "root", "superuser", "user "} {
		if _, ok := ParseRole(bad); ok {
			t.Errorf("ParseRole(%q) ok = true, want false", bad)
		}
	}
}

func TestRole_IsStaff(t *testing.T) {
	tests := []struct {
		role Role
		want bool
	}{
		{RoleAdmin, true},
		{RoleSupport, true},
		{RoleReseller, false},
		{RoleUser, false},
	}
	for _, tt := range tests {
		if got := tt.role.IsStaff(); got != tt.want {
			t.Errorf("%s.IsStaff() = %v, want %v", tt.role, got, tt.want)
		}
	}
}

func BenchmarkPolicy_ResolvePath(b *testing.B) {
	policy := MustCompile(DefaultRules())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		policy.ResolvePath("/dashboard/analytics/revenue")
	}
}

func BenchmarkPolicy_Allows(b *testing.B) {
	policy := MustCompile(DefaultRules())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		policy.Allows(RoleReseller, "inventory.manage")
	}
}
