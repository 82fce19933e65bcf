// Eterstore - Multi-Tenant Storefront and Back-Office Platform
// Copyright 2026 Eterstore Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eterstore/eterstore

// HTTP routing using Chi.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eterstore/eterstore/internal/config"
	"github.com/eterstore/eterstore/internal/identity"
	"github.com/eterstore/eterstore/internal/middleware"
	"github.com/eterstore/eterstore/internal/rbac"
)

// Router wires handlers, middleware, and enforcement points together.
type Router struct {
	config   *config.Config
	handler  *Handler
	sessions *identity.SessionManager
	gate     *rbac.Gate
}

// NewRouter creates the application router.
func NewRouter(cfg *config.Config, handler *Handler, sessions *identity.SessionManager, gate *rbac.Gate) *Router {
	return &Router{
		config:   cfg,
		handler:  handler,
		sessions: sessions,
		gate:     gate,
	}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	// Applied to ALL routes in order
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   router.config.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.Compression)
	// Attach-only: never rejects, so public routes stay public and the
	// gate sees the principal when one exists.
	r.Use(identity.Middleware(router.sessions))

	// ========================
	// Health Endpoints
	// ========================
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	// ========================
	// Authentication Endpoints
	// ========================
	// Strict rate limiting on credential endpoints
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(middleware.PrometheusMetrics)
		if !router.config.Server.RateLimitDisabled {
			r.Use(httprate.LimitByIP(router.config.Server.RateLimitReqs, router.config.Server.RateLimitWindow))
		}

		r.Post("/register", router.handler.Register)
		r.Post("/login", router.handler.Login)
		r.Post("/logout", router.handler.Logout)
		r.Post("/refresh", router.handler.RefreshSession)
		r.Get("/me", router.handler.Me)
	})

	// ========================
	// Admin Endpoints
	// ========================
	// Guards inside the handlers enforce users.manage / staff
	r.Route("/api/v1/admin/users", func(r chi.Router) {
		r.Use(middleware.PrometheusMetrics)
		if !router.config.Server.RateLimitDisabled {
			r.Use(httprate.LimitByIP(router.config.Server.RateLimitReqs, router.config.Server.RateLimitWindow))
		}

		r.Get("/{id}", router.handler.GetUser)
		r.Put("/{id}/role", router.handler.AssignRole)
		r.Delete("/{id}/role", router.handler.RevokeRole)
	})

	// ========================
	// Navigable Areas
	// ========================
	// The gate runs on every navigable request: redirect-to-login for
	// anonymous users, redirect-away for denied roles, auth-page bounce
	// for signed-in users.
	r.Group(func(r chi.Router) {
		r.Use(middleware.PrometheusMetrics)
		r.Use(router.gate.Middleware)

		r.Get("/login", router.handler.LoginPage)
		r.Get("/register", router.handler.RegisterPage)

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/", router.handler.Dashboard)
			r.Get("/analytics", router.handler.DashboardAnalytics)
			r.Get("/settings", router.handler.DashboardSettings)
			r.Get("/inventory", router.handler.DashboardInventory)
			r.Get("/purchases", router.handler.DashboardPurchases)
			r.Get("/messages", router.handler.DashboardMessages)
			r.Get("/ranking", router.handler.DashboardRanking)
		})

		r.Route("/academy", func(r chi.Router) {
			r.Get("/", router.handler.Academy)
			r.Get("/manage", router.handler.AcademyManage)
		})

		r.Get("/admin", router.handler.AdminHome)
	})

	// ========================
	// Observability
	// ========================
	r.Handle("/metrics", promhttp.Handler())

	return r
}
