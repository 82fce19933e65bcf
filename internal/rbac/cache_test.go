// Eterstore - Multi-Tenant Storefront and Back-Office Platform
// Copyright 2026 Eterstore Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eterstore/eterstore

package rbac

import (
	"testing"
	"time"
)

func TestRoleCache_SetAndGet(t *testing.T) {
	cache := newRoleCache(time.Minute)
	defer cache.stop()

	cache.set("user-1", RoleReseller)

	role, ok := cache.get("user-1")
	if !ok {
		t.Fatal("expected cached entry for user-1")
	}
	if role != RoleReseller {
		t.Errorf("get() = %q, want %q", role, RoleReseller)
	}
}

func TestRoleCache_GetMissing(t *testing.T) {
	cache := newRoleCache(time.Minute)
	defer cache.stop()

	if _, ok := cache.get("nobody"); ok {
		t.Error("get() found entry for unknown principal")
	}
}

func TestRoleCache_ExpiredEntryTreatedAsAbsent(t *testing.T) {
	cache := newRoleCache(10 * time.Millisecond)
	defer cache.stop()

	cache.set("user-1", RoleAdmin)
	time.Sleep(20 * time.Millisecond)

	if _, ok := cache.get("user-1"); ok {
		t.Error("expired entry served from cache")
	}
}

func TestRoleCache_Invalidate(t *testing.T) {
	cache := newRoleCache(time.Minute)
	defer cache.stop()

	cache.set("user-1", RoleAdmin)
	cache.invalidate("user-1")

	if _, ok := cache.get("user-1"); ok {
		t.Error("invalidated entry still served")
	}
}

func TestRoleCache_SetReplacesEntry(t *testing.T) {
	cache := newRoleCache(time.Minute)
	defer cache.stop()

	cache.set("user-1", RoleUser)
	cache.set("user-1", RoleAdmin)

	role, ok := cache.get("user-1")
	if !ok || role != RoleAdmin {
		t.Errorf("get() = %q, %v, want %q, true", role, ok, RoleAdmin)
	}
	if cache.size() != 1 {
		t.Errorf("size() = %d, want 1", cache.size())
	}
}

func TestRoleCache_ZeroTTLUsesDefault(t *testing.T) {
	cache := newRoleCache(0)
	defer cache.stop()

	if cache.ttl != defaultRoleCacheTTL {
		t.Errorf("ttl = %v, want %v", cache.ttl, defaultRoleCacheTTL)
	}
}

func TestRoleCache_StopIsIdempotent(t *testing.T) {
	cache := newRoleCache(time.Minute)
	cache.stop()
	cache.stop()
}
