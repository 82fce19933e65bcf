// Eterstore - Multi-Tenant Storefront and Back-Office Platform
// Copyright 2026 Eterstore Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eterstore/eterstore

/*
Package services provides suture.Service wrappers for application
components, translating their lifecycle patterns (ListenAndServe,
blocking run loops) into suture's context-aware Serve pattern.
*/
package services
