// Eterstore - Multi-Tenant Storefront and Back-Office Platform
// Copyright 2026 Eterstore Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eterstore/eterstore

package rbac

// Role is the coarse-grained authorization level of a principal.
// The set is closed; every principal resolves to exactly one Role.
type Role string

const (
	// RoleAdmin has full access to the back-office and all reseller data.
	RoleAdmin Role = "admin"

	// RoleSupport is staff with read access to most back-office areas.
	RoleSupport Role = "support"

	// RoleReseller operates its own branded storefront and inventory.
	RoleReseller Role = "reseller"

	// RoleUser is the default, least-privileged role.
	RoleUser Role = "user"
)

// AllRoles lists every valid role.
var AllRoles = []Role{RoleAdmin, RoleSupport, RoleReseller, RoleUser}

// ParseRole converts a string to a Role.
// Unknown values are rejected; they are never coerced to a valid role.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleSupport, RoleReseller, RoleUser:
		return Role(s), true
	default:
		return "", false
	}
}

// Valid reports whether the role is one of the four known values.
func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// IsStaff reports whether the role belongs to the staff supertype
// (admin or support).
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleSupport
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// roleIn reports whether role is a member of the allowed set.
func roleIn(role Role, allowed []Role) bool {
	for _, a := range allowed {
		if a == role {
			return true
		}
	}
	return false
}
