// Eterstore - Multi-Tenant Storefront and Back-Office Platform
// Copyright 2026 Eterstore Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eterstore/eterstore

package api

import (
	"net/http"
)

// Area handlers back the navigable storefront and back-office pages.
// The edge gate has already run by the time these execute, but each
// privileged one still opens with its own guard: the gate protects
// navigation, the guard protects the operation.

// AreaResponse is the payload for area endpoints.
type AreaResponse struct {
	Area string `json:"area"`
	Role string `json:"role"`
}

func (h *Handler) area(w http.ResponseWriter, r *http.Request, name, permission string) {
	rw := NewResponseWriter(w, r)

	p, err := h.guards.RequireAuthenticated(r.Context())
	if err != nil {
		writeGuardError(rw, err)
		return
	}
	if permission != "" {
		if _, err := h.guards.RequirePermission(r.Context(), permission); err != nil {
			writeGuardError(rw, err)
			return
		}
	}

	role := h.guards.Resolve(r.Context(), p)
	rw.Success(&AreaResponse{Area: name, Role: role.String()})
}

// Dashboard is the landing area, open to every authenticated user.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.area(w, r, "dashboard", "dashboard.view")
}

// DashboardAnalytics is the analytics area, admin only.
func (h *Handler) DashboardAnalytics(w http.ResponseWriter, r *http.Request) {
	h.area(w, r, "analytics", "analytics.view")
}

// DashboardSettings is the platform settings area, admin only.
func (h *Handler) DashboardSettings(w http.ResponseWriter, r *http.Request) {
	h.area(w, r, "settings", "settings.manage")
}

// DashboardInventory is the inventory area for admins and resellers.
func (h *Handler) DashboardInventory(w http.ResponseWriter, r *http.Request) {
	h.area(w, r, "inventory", "inventory.manage")
}

// DashboardPurchases is the order history area for staff and resellers.
func (h *Handler) DashboardPurchases(w http.ResponseWriter, r *http.Request) {
	h.area(w, r, "purchases", "purchases.view")
}

// DashboardMessages is the messaging area, open to everyone.
func (h *Handler) DashboardMessages(w http.ResponseWriter, r *http.Request) {
	h.area(w, r, "messages", "messages.view")
}

// DashboardRanking is the seller ranking area, open to everyone.
func (h *Handler) DashboardRanking(w http.ResponseWriter, r *http.Request) {
	h.area(w, r, "ranking", "ranking.view")
}

// Academy is the training content area, open to everyone.
func (h *Handler) Academy(w http.ResponseWriter, r *http.Request) {
	h.area(w, r, "academy", "academy.view")
}

// AcademyManage is the course administration area, staff only.
func (h *Handler) AcademyManage(w http.ResponseWriter, r *http.Request) {
	h.area(w, r, "academy-manage", "academy.manage")
}

// AdminHome is the support tooling area, staff only.
func (h *Handler) AdminHome(w http.ResponseWriter, r *http.Request) {
	h.area(w, r, "admin", "support.tools")
}

// LoginPage serves the login page shell. The gate has already bounced
// authenticated users away before this runs.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(&AreaResponse{Area: "login"})
}

// RegisterPage serves the registration page shell.
func (h *Handler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(&AreaResponse{Area: "register"})
}
