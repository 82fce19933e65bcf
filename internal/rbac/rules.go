// Eterstore - Multi-Tenant Storefront and Back-Office Platform
// Copyright 2026 Eterstore Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eterstore/eterstore

package rbac

// DefaultRules is the storefront's access table. One declarative list
// feeds both enforcement points: the edge gate matches PathPrefix, the
// guards match Permission.
//
// Prefix matching is longest-wins, so /dashboard/analytics shadows the
// broader /dashboard rule for everything beneath it.
func DefaultRules() []Rule {
	everyone := []Role{RoleAdmin, RoleSupport, RoleReseller, RoleUser}
	staff := []Role{RoleAdmin, RoleSupport}

	return []Rule{
		{Permission: "dashboard.view", PathPrefix: "/dashboard", Roles: everyone},
		{Permission: "analytics.view", PathPrefix: "/dashboard/analytics", Roles: []Role{RoleAdmin}},
		{Permission: "settings.manage", PathPrefix: "/dashboard/settings", Roles: []Role{RoleAdmin}},
		{Permission: "inventory.manage", PathPrefix: "/dashboard/inventory", Roles: []Role{RoleAdmin, RoleReseller}},
		{Permission: "purchases.view", PathPrefix: "/dashboard/purchases", Roles: []Role{RoleAdmin, RoleSupport, RoleReseller}},
		{Permission: "messages.view", PathPrefix: "/dashboard/messages", Roles: everyone},
		{Permission: "ranking.view", PathPrefix: "/dashboard/ranking", Roles: everyone},
		{Permission: "academy.view", PathPrefix: "/academy", Roles: everyone},
		{Permission: "academy.manage", PathPrefix: "/academy/manage", Roles: staff},
		{Permission: "support.tools", PathPrefix: "/admin", Roles: staff},
		{Permission: "users.manage", PathPrefix: "/admin/users", Roles: []Role{RoleAdmin}},
	}
}
