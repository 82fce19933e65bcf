// Eterstore - Multi-Tenant Storefront and Back-Office Platform
// Copyright 2026 Eterstore Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eterstore/eterstore

/*
Package middleware provides HTTP middleware components for the application.

This package implements infrastructure middleware for request ID
tracking, gzip compression, and Prometheus metrics instrumentation.
Identity attachment and authorization live in internal/identity and
internal/rbac respectively; the components here are concern-free
plumbing applied to every route.
*/
package middleware
