// Eterstore - Multi-Tenant Storefront and Back-Office Platform
// Copyright 2026 Eterstore Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eterstore/eterstore

/*
Package supervisor provides process supervision using suture v4.

The tree organizes long-running services into two layers for failure
isolation:

	RootSupervisor ("eterstore")
	├── StorageSupervisor ("storage-layer")
	│   └── StoreGCService (BadgerDB value log maintenance)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services restart with exponential backoff; supervision events
are logged through sutureslog bridged onto the application's zerolog
output via internal/logging.NewSlogLogger.
*/
package supervisor
