// Eterstore - Multi-Tenant Storefront and Back-Office Platform
// Copyright 2026 Eterstore Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eterstore/eterstore

/*
Package config provides centralized configuration management.

Configuration is loaded in three layers with clear precedence, highest
last: built-in defaults, an optional YAML config file, then environment
variables. Only explicitly mapped environment variables are consumed.

Role overrides deserve a note: RBAC_ROLE_OVERRIDES takes comma-separated
id=role pairs and ships empty by default. Overrides force a role for a
specific principal id and are validated against the closed role set at
load time.
*/
package config
