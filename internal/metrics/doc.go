// Eterstore - Multi-Tenant Storefront and Back-Office Platform
// Copyright 2026 Eterstore Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eterstore/eterstore

/*
Package metrics provides Prometheus metrics collection and export.

Metrics are registered via promauto at package init and exposed on the
/metrics endpoint. The package covers HTTP request latency and
throughput, login outcomes, and application identity/uptime. The
authorization core registers its own metrics in internal/rbac.
*/
package metrics
