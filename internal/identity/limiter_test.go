// Eterstore - Multi-Tenant Storefront and Back-Office Platform
// Copyright 2026 Eterstore Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eterstore/eterstore

package identity

import (
	"testing"
)

func TestLoginLimiter_AllowsUpToBurst(t *testing.T) {
	l := NewLoginLimiter(10, 3)
	defer l.Stop()

	for i := 0; i < 3; i++ {
		if !l.Allow("a@example.com") {
			t.Fatalf("attempt %d denied within burst", i+1)
		}
	}
	if l.Allow("a@example.com") {
		t.Error("attempt beyond burst allowed")
	}
}

func TestLoginLimiter_KeysAreIndependent(t *testing.T) {
	l := NewLoginLimiter(10, 1)
	defer l.Stop()

	if !l.Allow("a@example.com") {
		t.Fatal("first attempt for a denied")
	}
	if l.Allow("a@example.com") {
		t.Error("second attempt for a allowed")
	}
	if !l.Allow("b@example.com") {
		t.Error("first attempt for b denied, keys should be independent")
	}
}

func TestLoginLimiter_Defaults(t *testing.T) {
	l := NewLoginLimiter(0, 0)
	defer l.Stop()

	// Default burst is 5.
	for i := 0; i < 5; i++ {
		if !l.Allow("x") {
			t.Fatalf("attempt %d denied within default burst", i+1)
		}
	}
	if l.Allow("x") {
		t.Error("attempt beyond default burst allowed")
	}
}

func TestLoginLimiter_StopIsIdempotent(t *testing.T) {
	l := NewLoginLimiter(10, 5)
	l.Stop()
	l.Stop()
}
