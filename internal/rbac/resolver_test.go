// Eterstore - Multi-Tenant Storefront and Back-Office Platform
// Copyright 2026 Eterstore Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eterstore/eterstore

package rbac

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/eterstore/eterstore/internal/identity"
)

// fakeRoleProvider is an in-memory RoleProvider that counts lookups.
type fakeRoleProvider struct {
	roles map[string]string
	err   error
	calls atomic.Int64
}

func (f *fakeRoleProvider) GetRoleByID(_ context.Context, principalID string) (string, error) {
	f.calls.Add(1)
	if f.err != nil {
		return "", f.err
	}
	role, ok := f.roles[principalID]
	if !ok {
		return "", errors.New("profile not found")
	}
	return role, nil
}

func newTestResolver(t *testing.T, store RoleProvider, cfg *ResolverConfig) *Resolver {
	t.Helper()
	if cfg == nil {
		cfg = &ResolverConfig{DefaultRole: RoleUser, CacheTTL: time.Minute}
	}
	r := NewResolver(store, cfg)
	t.Cleanup(r.Close)
	return r
}

func TestResolver_ClaimsWinWithoutStoreLookup(t *testing.T) {
	store := &fakeRoleProvider{roles: map[string]string{"u1": "user"}}
	r := newTestResolver(t, store, nil)

	role := r.Resolve(context.Background(), &identity.Principal{ID: "u1", RoleClaim: "reseller"})
	if role != RoleReseller {
		t.Errorf("Resolve() = %q, want reseller", role)
	}
	if store.calls.Load() != 0 {
		t.Errorf("store consulted %d times for a valid claim, want 0", store.calls.Load())
	}
}

func TestResolver_InvalidClaimFallsThroughToStore(t *testing.T) {
	store := &fakeRoleProvider{roles: map[string]string{"u1": "support"}}
	r := newTestResolver(t, store, nil)

	role := r.Resolve(context.Background(), &identity.Principal{ID: "u1", RoleClaim: "superadmin"})
	if role != RoleSupport {
		t.Errorf("Resolve() = %q, want support", role)
	}
	if store.calls.Load() != 1 {
		t.Errorf("store consulted %d times, want 1", store.calls.Load())
	}
}

func TestResolver_SecondResolveServedFromCache(t *testing.T) {
	store := &fakeRoleProvider{roles: map[string]string{"u1": "admin"}}
	r := newTestResolver(t, store, nil)

	p := &identity.Principal{ID: "u1"}
	ctx := context.Background()

	if role := r.Resolve(ctx, p); role != RoleAdmin {
		t.Fatalf("first Resolve() = %q, want admin", role)
	}
	if role := r.Resolve(ctx, p); role != RoleAdmin {
		t.Fatalf("second Resolve() = %q, want admin", role)
	}
	if store.calls.Load() != 1 {
		t.Errorf("store consulted %d times, want 1 (second hit from cache)", store.calls.Load())
	}
}

func TestResolver_StoreErrorFailsClosedToDefault(t *testing.T) {
	store := &fakeRoleProvider{err: errors.New("store down")}
	r := newTestResolver(t, store, nil)

	role := r.Resolve(context.Background(), &identity.Principal{ID: "u1"})
	if role != RoleUser {
		t.Errorf("Resolve() = %q, want default user on store error", role)
	}
}

func TestResolver_UnknownPrincipalResolvesToDefault(t *testing.T) {
	store := &fakeRoleProvider{roles: map[string]string{}}
	r := newTestResolver(t, store, nil)

	role := r.Resolve(context.Background(), &identity.Principal{ID: "ghost"})
	if role != RoleUser {
		t.Errorf("Resolve() = %q, want default user for missing profile", role)
	}
}

func TestResolver_InvalidStoredRoleResolvesToDefault(t *testing.T) {
	store := &fakeRoleProvider{roles: map[string]string{"u1": "owner"}}
	r := newTestResolver(t, store, nil)

	role := r.Resolve(context.Background(), &identity.Principal{ID: "u1"})
	if role != RoleUser {
		t.Errorf("Resolve() = %q, want default user for invalid stored role", role)
	}
}

func TestResolver_NilPrincipalResolvesToDefault(t *testing.T) {
	store := &fakeRoleProvider{}
	r := newTestResolver(t, store, nil)

	if role := r.Resolve(context.Background(), nil); role != RoleUser {
		t.Errorf("Resolve(nil) = %q, want default user", role)
	}
	if store.calls.Load() != 0 {
		t.Error("store consulted for nil principal")
	}
}

func TestResolver_OverrideWinsOverEverySource(t *testing.T) {
	store := &fakeRoleProvider{roles: map[string]string{"u1": "user"}}
	cfg := &ResolverConfig{
		DefaultRole: RoleUser,
		CacheTTL:    time.Minute,
		Overrides:   map[string]Role{"u1": RoleAdmin},
	}
	r := newTestResolver(t, store, cfg)

	// Override beats a valid session claim.
	role := r.Resolve(context.Background(), &identity.Principal{ID: "u1", RoleClaim: "user"})
	if role != RoleAdmin {
		t.Errorf("Resolve() = %q, want overridden admin", role)
	}

	// Other principals are unaffected.
	role = r.Resolve(context.Background(), &identity.Principal{ID: "u2", RoleClaim: "reseller"})
	if role != RoleReseller {
		t.Errorf("Resolve() = %q, want reseller", role)
	}
}

func TestResolver_InvalidateForcesStoreReRead(t *testing.T) {
	store := &fakeRoleProvider{roles: map[string]string{"u1": "user"}}
	r := newTestResolver(t, store, nil)

	p := &identity.Principal{ID: "u1"}
	ctx := context.Background()

	if role := r.Resolve(ctx, p); role != RoleUser {
		t.Fatalf("Resolve() = %q, want user", role)
	}

	// Role changes in the store; the cache would serve the stale role
	// for up to the TTL unless invalidated.
	store.roles["u1"] = "admin"
	r.Invalidate("u1")

	if role := r.Resolve(ctx, p); role != RoleAdmin {
		t.Errorf("Resolve() after Invalidate = %q, want admin", role)
	}
	if store.calls.Load() != 2 {
		t.Errorf("store consulted %d times, want 2", store.calls.Load())
	}
}

func TestResolver_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	store := &fakeRoleProvider{err: errors.New("store down")}
	r := newTestResolver(t, store, &ResolverConfig{
		DefaultRole:        RoleUser,
		CacheTTL:           time.Minute,
		BreakerOpenTimeout: time.Hour,
	})

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		if role := r.Resolve(ctx, &identity.Principal{ID: "u1"}); role != RoleUser {
			t.Fatalf("Resolve() = %q, want default user while store failing", role)
		}
	}

	// After five consecutive failures the breaker opens and stops
	// hitting the store.
	if calls := store.calls.Load(); calls != 5 {
		t.Errorf("store consulted %d times, want 5 before breaker opened", calls)
	}
}

func TestResolver_DefaultRole(t *testing.T) {
	r := newTestResolver(t, &fakeRoleProvider{}, nil)
	if r.DefaultRole() != RoleUser {
		t.Errorf("DefaultRole() = %q, want user", r.DefaultRole())
	}
}

func BenchmarkResolver_ResolveFromClaims(b *testing.B) {
	r := NewResolver(&fakeRoleProvider{}, nil)
	defer r.Close()

	ctx := context.Background()
	p := &identity.Principal{ID: "u1", RoleClaim: "reseller"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Resolve(ctx, p)
	}
}
