// Eterstore - Multi-Tenant Storefront and Back-Office Platform
// Copyright 2026 Eterstore Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eterstore/eterstore

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eterstore/eterstore/internal/logging"
	"github.com/eterstore/eterstore/internal/rbac"
	"github.com/eterstore/eterstore/internal/store"
	"github.com/eterstore/eterstore/internal/validation"
)

// AssignRoleRequest is the role assignment payload.
type AssignRoleRequest struct {
	Role string `json:"role" validate:"required,role"`
}

// RoleChangeResponse reports a completed role mutation.
type RoleChangeResponse struct {
	UserID       string `json:"user_id"`
	PreviousRole string `json:"previous_role"`
	Role         string `json:"role"`
}

// AssignRole sets a user's role. Requires the users.manage capability.
// The resolver cache is invalidated so the change takes effect within
// one request, not one cache TTL.
func (h *Handler) AssignRole(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	actor, err := h.guards.RequirePermission(r.Context(), "users.manage")
	if err != nil {
		writeGuardError(rw, err)
		return
	}

	userID := chi.URLParam(r, "id")
	if userID == "" {
		rw.BadRequest("User ID required")
		return
	}

	var req AssignRoleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rw.BadRequest("Invalid JSON body")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	oldRole, err := h.profiles.SetRole(r.Context(), userID, req.Role)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			rw.NotFound("User not found")
			return
		}
		rw.StoreError(err)
		return
	}

	h.resolver.Invalidate(userID)
	rbac.RecordRoleAssignment(req.Role, "assign")

	logging.Ctx(r.Context()).Info().
		Str("actor_id", actor.ID).
		Str("user_id", userID).
		Str("old_role", oldRole).
		Str("new_role", req.Role).
		Msg("Role assigned")

	rw.Success(&RoleChangeResponse{
		UserID:       userID,
		PreviousRole: oldRole,
		Role:         req.Role,
	})
}

// RevokeRole resets a user's role to the default. Requires the
// users.manage capability.
func (h *Handler) RevokeRole(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	actor, err := h.guards.RequirePermission(r.Context(), "users.manage")
	if err != nil {
		writeGuardError(rw, err)
		return
	}

	userID := chi.URLParam(r, "id")
	if userID == "" {
		rw.BadRequest("User ID required")
		return
	}

	defaultRole := h.resolver.DefaultRole().String()
	oldRole, err := h.profiles.SetRole(r.Context(), userID, defaultRole)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			rw.NotFound("User not found")
			return
		}
		rw.StoreError(err)
		return
	}

	h.resolver.Invalidate(userID)
	rbac.RecordRoleAssignment(oldRole, "revoke")

	logging.Ctx(r.Context()).Info().
		Str("actor_id", actor.ID).
		Str("user_id", userID).
		Str("old_role", oldRole).
		Msg("Role revoked")

	rw.Success(&RoleChangeResponse{
		UserID:       userID,
		PreviousRole: oldRole,
		Role:         defaultRole,
	})
}

// GetUser returns a user's profile. Staff only.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if _, err := h.guards.RequireStaff(r.Context()); err != nil {
		writeGuardError(rw, err)
		return
	}

	userID := chi.URLParam(r, "id")
	if userID == "" {
		rw.BadRequest("User ID required")
		return
	}

	profile, err := h.profiles.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			rw.NotFound("User not found")
			return
		}
		rw.StoreError(err)
		return
	}

	rw.Success(profile)
}
