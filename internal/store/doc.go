// Eterstore - Multi-Tenant Storefront and Back-Office Platform
// Copyright 2026 Eterstore Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eterstore/eterstore

// Package store persists user profiles in BadgerDB.
//
// Profiles are keyed by id with a secondary email index so both login
// (by email) and role resolution (by id) are single-key lookups. Role
// mutations go through SetRole, which returns the previous role so
// callers can invalidate downstream caches.
package store
