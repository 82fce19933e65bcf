// Eterstore - Multi-Tenant Storefront and Back-Office Platform
// Copyright 2026 Eterstore Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eterstore/eterstore

package api

import (
	"net/http"
	"time"

	"github.com/eterstore/eterstore/internal/metrics"
)

// HealthStatus is the health endpoint payload.
type HealthStatus struct {
	Status         string  `json:"status"`
	Version        string  `json:"version"`
	StoreConnected bool    `json:"store_connected"`
	RoleCacheSize  int     `json:"role_cache_size"`
	Uptime         float64 `json:"uptime_seconds"`
}

// Version is set at build time via -ldflags.
var Version = "dev"

// Health returns overall health: store connectivity, cache size, uptime.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	storeConnected := h.profiles != nil && h.profiles.Ping(r.Context()) == nil

	status := "healthy"
	if !storeConnected {
		status = "degraded"
	}

	metrics.UpdateUptime()

	rw.Success(&HealthStatus{
		Status:         status,
		Version:        Version,
		StoreConnected: storeConnected,
		RoleCacheSize:  h.resolver.CacheSize(),
		Uptime:         time.Since(h.startTime).Seconds(),
	})
}

// HealthLive is the liveness probe: 200 while the process runs,
// regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	rw.Success(map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady is the readiness probe: 200 only when the profile store
// is reachable, 503 otherwise.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if h.profiles == nil || h.profiles.Ping(r.Context()) != nil {
		rw.Error(http.StatusServiceUnavailable, ErrCodeInternalError, "Profile store not ready")
		return
	}

	rw.Success(map[string]interface{}{"ready": true})
}
