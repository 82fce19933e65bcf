// Eterstore - Multi-Tenant Storefront and Back-Office Platform
// Copyright 2026 Eterstore Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eterstore/eterstore

// Prometheus metrics for the authorization core: enforcement decisions,
// role resolution sources, cache behavior, and override usage.
package rbac

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthzDecisionsTotal counts enforcement decisions by point and outcome.
	AuthzDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_decisions_total",
			Help: "Total number of authorization decisions",
		},
		[]string{"enforcement", "decision"}, // enforcement: "gate", "guard"
	)

	// RoleResolutionsTotal counts role resolutions by source.
	RoleResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_role_resolutions_total",
			Help: "Total number of role resolutions by source",
		},
		[]string{"source"}, // "claims", "cache", "store"
	)

	// ResolutionFailuresTotal counts failed store lookups that degraded
	// to the default role.
	ResolutionFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "authz_resolution_failures_total",
			Help: "Total number of role resolutions that failed closed to the default role",
		},
	)

	// RoleCacheSize tracks the current number of cached role entries.
	RoleCacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "authz_role_cache_entries",
			Help: "Current number of entries in the role cache",
		},
	)

	// RoleCacheEvictionsTotal counts TTL evictions from the role cache.
	RoleCacheEvictionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "authz_role_cache_evictions_total",
			Help: "Total number of role cache evictions (TTL expiry)",
		},
	)

	// RoleCacheInvalidationsTotal counts explicit invalidations (role changes).
	RoleCacheInvalidationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "authz_role_cache_invalidations_total",
			Help: "Total number of explicit role cache invalidations",
		},
	)

	// RoleOverridesTotal counts applications of configured role overrides.
	RoleOverridesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "authz_role_overrides_total",
			Help: "Total number of configured role override applications",
		},
	)

	// RoleAssignmentsTotal counts role assignments and revocations.
	RoleAssignmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_role_assignments_total",
			Help: "Total number of role assignments",
		},
		[]string{"role", "action"}, // action: "assign", "revoke"
	)

	// AuditDroppedTotal counts audit events dropped on buffer overflow.
	AuditDroppedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "authz_audit_dropped_total",
			Help: "Total number of audit events dropped (buffer overflow)",
		},
	)
)

// RecordGateDecision records an edge gate decision.
func RecordGateDecision(allowed bool) {
	AuthzDecisionsTotal.WithLabelValues("gate", decisionLabel(allowed)).Inc()
}

// RecordGuardDecision records an in-process guard decision.
func RecordGuardDecision(allowed bool) {
	AuthzDecisionsTotal.WithLabelValues("guard", decisionLabel(allowed)).Inc()
}

// RecordRoleResolution records a role resolution by source.
func RecordRoleResolution(source string) {
	RoleResolutionsTotal.WithLabelValues(source).Inc()
}

// RecordResolutionFailure records a fail-closed resolution.
func RecordResolutionFailure() {
	ResolutionFailuresTotal.Inc()
}

// RecordRoleCacheEviction records a TTL eviction.
func RecordRoleCacheEviction() {
	RoleCacheEvictionsTotal.Inc()
}

// RecordRoleCacheInvalidation records an explicit invalidation.
func RecordRoleCacheInvalidation() {
	RoleCacheInvalidationsTotal.Inc()
}

// UpdateRoleCacheSize updates the role cache size gauge.
func UpdateRoleCacheSize(size int) {
	RoleCacheSize.Set(float64(size))
}

// RecordRoleOverride records one application of a configured override.
func RecordRoleOverride() {
	RoleOverridesTotal.Inc()
}

// RecordRoleAssignment records a role assignment event.
func RecordRoleAssignment(role, action string) {
	RoleAssignmentsTotal.WithLabelValues(role, action).Inc()
}

// RecordAuditDropped records an audit event dropped on overflow.
func RecordAuditDropped() {
	AuditDroppedTotal.Inc()
}

func decisionLabel(allowed bool) string {
	if allowed {
		return "allowed"
	}
	return "denied"
}
