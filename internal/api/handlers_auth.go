// Eterstore - Multi-Tenant Storefront and Back-Office Platform
// Copyright 2026 Eterstore Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eterstore/eterstore

package api

import (
	"errors"
	"net/http"

	"github.com/eterstore/eterstore/internal/logging"
	"github.com/eterstore/eterstore/internal/metrics"
	"github.com/eterstore/eterstore/internal/store"
	"github.com/eterstore/eterstore/internal/validation"
)

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=12,max=128"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SessionResponse is returned by login, register, and refresh.
type SessionResponse struct {
	Profile *store.Profile `json:"profile"`
	Role    string         `json:"role"`
}

// Register creates a new profile. New accounts always start as the
// default role; elevation happens through the admin role endpoints.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rw.BadRequest("Invalid JSON body")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	profile, err := h.profiles.CreateProfile(r.Context(), req.Email, req.Username, req.Password, h.resolver.DefaultRole().String())
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			rw.Conflict("Email already registered")
			return
		}
		rw.StoreError(err)
		return
	}

	token, err := h.sessions.Issue(profile.ID, profile.Email, profile.Username, profile.Role)
	if err != nil {
		rw.InternalError("Failed to issue session")
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("user_id", profile.ID).
		Msg("Profile registered")

	http.SetCookie(w, h.sessions.SessionCookie(token))
	rw.Created(&SessionResponse{Profile: profile, Role: profile.Role})
}

// Login verifies credentials and issues a session. Attempts are rate
// limited per email so credential stuffing degrades to 429s.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rw.BadRequest("Invalid JSON body")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	if !h.limiter.Allow(req.Email) {
		metrics.RecordLoginAttempt("rate_limited")
		rw.TooManyRequests("Too many login attempts, try again later")
		return
	}

	profile, err := h.profiles.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, store.ErrInvalidCredentials) {
			metrics.RecordLoginAttempt("invalid_credentials")
			logging.Ctx(r.Context()).Warn().
				Str("email", req.Email).
				Msg("Login failed")
			rw.Error(http.StatusUnauthorized, ErrCodeInvalidCredentials, "Invalid email or password")
			return
		}
		rw.StoreError(err)
		return
	}

	token, err := h.sessions.Issue(profile.ID, profile.Email, profile.Username, profile.Role)
	if err != nil {
		rw.InternalError("Failed to issue session")
		return
	}

	metrics.RecordLoginAttempt("success")
	logging.Ctx(r.Context()).Info().
		Str("user_id", profile.ID).
		Str("role", profile.Role).
		Msg("Login succeeded")

	http.SetCookie(w, h.sessions.SessionCookie(token))
	rw.Success(&SessionResponse{Profile: profile, Role: profile.Role})
}

// Logout clears the session cookie. The JWT itself stays valid until
// expiry; revocation is the session timeout's job.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if p, err := h.guards.RequireAuthenticated(r.Context()); err == nil {
		logging.Ctx(r.Context()).Info().
			Str("user_id", p.ID).
			Msg("Logout")
	}

	http.SetCookie(w, h.sessions.ClearCookie())
	rw.NoContent()
}

// RefreshSession re-issues the session token with the profile's
// current stored role. After an admin changes a user's role, this is
// how the user's claims catch up without logging out.
func (h *Handler) RefreshSession(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	p, err := h.guards.RequireAuthenticated(r.Context())
	if err != nil {
		writeGuardError(rw, err)
		return
	}

	profile, err := h.profiles.GetByID(r.Context(), p.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Profile deleted since the token was issued
			http.SetCookie(w, h.sessions.ClearCookie())
			rw.Unauthorized("Profile no longer exists")
			return
		}
		rw.StoreError(err)
		return
	}

	token, err := h.sessions.Issue(profile.ID, profile.Email, profile.Username, profile.Role)
	if err != nil {
		rw.InternalError("Failed to issue session")
		return
	}

	// Stale cached resolutions must not outlive the refreshed claims
	h.resolver.Invalidate(profile.ID)

	http.SetCookie(w, h.sessions.SessionCookie(token))
	rw.Success(&SessionResponse{Profile: profile, Role: profile.Role})
}

// Me returns the authenticated principal's profile and effective role.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	p, err := h.guards.RequireAuthenticated(r.Context())
	if err != nil {
		writeGuardError(rw, err)
		return
	}

	profile, err := h.profiles.GetByID(r.Context(), p.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			rw.NotFound("Profile not found")
			return
		}
		rw.StoreError(err)
		return
	}

	role := h.guards.Resolve(r.Context(), p)
	rw.Success(&SessionResponse{Profile: profile, Role: role.String()})
}
