// Eterstore - Multi-Tenant Storefront and Back-Office Platform
// Copyright 2026 Eterstore Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eterstore/eterstore

/*
Package main is the entry point for the Eterstore server.

Eterstore is a multi-tenant storefront and back-office platform. This
binary serves the storefront navigation surface (login, dashboard,
academy, admin) and the JSON API behind it, with role-based access
control enforced at two layers: an edge gate that redirects browsers,
and in-process guards that return typed errors to API handlers.

# Application Architecture

The server runs under a Suture v4 supervision tree:

	RootSupervisor ("eterstore")
	├── StorageSupervisor ("storage-layer")
	│   └── StoreGCService (BadgerDB value log maintenance)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService (Chi router)

Component initialization order:

 1. Configuration: Koanf v2 with defaults, config.yaml, environment
 2. Logging: zerolog with JSON/console output modes
 3. Profile store: BadgerDB key-value store for accounts and roles
 4. Authorization: route-role policy table, role resolver, gate, guards
 5. Sessions: HMAC-signed JWT cookies with login rate limiting
 6. Supervisor tree and HTTP server

# Configuration

Configuration is loaded via Koanf v2 with layered sources (highest
priority wins):

	Priority: Environment variables > Config file > Defaults

Core environment variables:

	# Server
	HTTP_PORT=8080               # HTTP server port
	ENVIRONMENT=development      # development, production, test
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console

	# Sessions
	JWT_SECRET=<32+ chars>       # Required
	SESSION_TIMEOUT=24h
	COOKIE_SECURE=true           # Required in production

	# Store
	STORE_PATH=/data/eterstore   # Required in production

	# Authorization
	RBAC_DEFAULT_ROLE=user
	RBAC_CACHE_TTL=60s
	RBAC_ROLE_OVERRIDES=         # id=role,id=role (emergency use only)

# Signal Handling

The server handles graceful shutdown on SIGINT and SIGTERM:

 1. Stops accepting new HTTP connections
 2. Waits for in-flight requests (10s timeout)
 3. Drains the authorization audit buffer
 4. Closes the profile store
 5. Reports any services that failed to stop

# Usage Examples

Development:

	export JWT_SECRET=$(openssl rand -base64 32)
	go run ./cmd/server

Production:

	export ENVIRONMENT=production
	export JWT_SECRET=$(openssl rand -base64 32)
	export COOKIE_SECURE=true
	export STORE_PATH=/data/eterstore
	./eterstore

# See Also

  - internal/config: Configuration management
  - internal/rbac: Policy table, resolver, gate, and guards
  - internal/identity: Session tokens and login rate limiting
  - internal/api: HTTP handlers and routing
  - internal/supervisor: Process supervision
*/
package main
