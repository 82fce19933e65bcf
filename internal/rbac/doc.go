// Eterstore - Multi-Tenant Storefront and Back-Office Platform
// Copyright 2026 Eterstore Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eterstore/eterstore

// Package rbac implements role-based request authorization for the
// storefront and back-office.
//
// A single declarative policy table (see DefaultRules) is compiled into
// two projections: a path-indexed table for the edge gate, which matches
// request paths by longest prefix, and a permission-indexed table for
// the in-process guards, which check named capabilities at the top of
// privileged operations.
//
// # Enforcement Points
//
//	Request -> identity middleware -> Gate -> Handler -> Guards -> operation
//	                |                   |                  |
//	           attach principal    path policy        permission policy
//	          (internal/identity)  (redirects)       (typed errors)
//
// The gate protects navigation and fails closed: anonymous requests are
// redirected to login with the original destination preserved, and
// authenticated requests denied by policy land on the dashboard with an
// unauthorized marker. Guards protect operations regardless of how they
// are reached and return ErrUnauthenticated or ErrForbidden for the
// caller to translate.
//
// # Role Resolution
//
// The Resolver turns a principal into an effective role through a fixed
// precedence chain: session claims, then a TTL cache, then the profile
// store behind a circuit breaker. Any failure degrades to the default
// role (least privilege), never to a broader one. Configured per-user
// overrides apply last and are logged on every application.
package rbac
