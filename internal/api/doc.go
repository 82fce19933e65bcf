// Eterstore - Multi-Tenant Storefront and Back-Office Platform
// Copyright 2026 Eterstore Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eterstore/eterstore

/*
Package api provides the HTTP layer for the storefront and back-office.

It serves three route families: credential and session endpoints under
/api/v1/auth, role management under /api/v1/admin, and the navigable
areas (/dashboard, /academy, /admin) behind the edge gate. Every
response uses the APIResponse envelope with a stable error code set.

Authorization is enforced twice on purpose. The gate middleware handles
navigation (redirects), while each privileged handler opens with an
in-process guard (typed errors mapped to 401/403), so operations stay
protected even when reached outside gated navigation.
*/
package api
