// Eterstore - Multi-Tenant Storefront and Back-Office Platform
// Copyright 2026 Eterstore Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eterstore/eterstore

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/eterstore/eterstore/internal/config"
	"github.com/eterstore/eterstore/internal/identity"
	"github.com/eterstore/eterstore/internal/rbac"
	"github.com/eterstore/eterstore/internal/store"
)

// Handler contains dependencies for API handlers.
//
// Handler methods are split across multiple files:
//   - handlers.go: Handler struct, constructor, shared helpers (this file)
//   - handlers_auth.go: Registration, login, session endpoints
//   - handlers_admin.go: Role management endpoints
//   - handlers_areas.go: Protected storefront/back-office areas
//   - handlers_health.go: Health and monitoring endpoints
type Handler struct {
	config    *config.Config
	profiles  *store.ProfileStore
	sessions  *identity.SessionManager
	guards    *rbac.Guards
	resolver  *rbac.Resolver
	limiter   *identity.LoginLimiter
	startTime time.Time
}

// NewHandler creates a new API handler with all required dependencies.
func NewHandler(cfg *config.Config, profiles *store.ProfileStore, sessions *identity.SessionManager, guards *rbac.Guards, resolver *rbac.Resolver, limiter *identity.LoginLimiter) *Handler {
	return &Handler{
		config:    cfg,
		profiles:  profiles,
		sessions:  sessions,
		guards:    guards,
		resolver:  resolver,
		limiter:   limiter,
		startTime: time.Now(),
	}
}

// writeGuardError translates guard errors into the API error envelope.
// Unknown errors become 500s so a broken guard never silently allows.
func writeGuardError(rw *ResponseWriter, err error) {
	switch {
	case errors.Is(err, rbac.ErrUnauthenticated):
		rw.Unauthorized("Authentication required")
	case errors.Is(err, rbac.ErrForbidden):
		rw.Forbidden("Insufficient permissions")
	default:
		rw.InternalError("Authorization check failed")
	}
}

// decodeJSON decodes a request body into dst, enforcing a size cap.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	return json.NewDecoder(r.Body).Decode(dst)
}
