// Eterstore - Multi-Tenant Storefront and Back-Office Platform
// Copyright 2026 Eterstore Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eterstore/eterstore

package rbac

import (
	"fmt"
	"sort"
	"strings"

	"github.com/eterstore/eterstore/internal/logging"
)

// Rule is one declarative access rule. It is the single source of truth
// for both enforcement points: the edge gate matches by PathPrefix, the
// in-process guards match by Permission. Keeping both keys on one rule
// prevents the two views from drifting apart.
type Rule struct {
	// Permission is the capability name checked by guards,
	// e.g. "analytics.view". May be empty for path-only rules.
	Permission string

	// PathPrefix is the URL path family the rule covers,
	// e.g. "/dashboard/analytics". May be empty for permission-only rules.
	PathPrefix string

	// Roles is the set of roles allowed by this rule.
	Roles []Role
}

// Policy is the compiled, immutable access table. Built once at process
// start; there is deliberately no mutation path after Compile.
type Policy struct {
	// byPrefix is ordered by descending prefix length so the most
	// specific rule is tested first.
	byPrefix []Rule

	// byPermission indexes rules by capability name.
	byPermission map[string][]Role
}

// Compile builds a Policy from declarative rules.
//
// Path rules are sorted by descending prefix length (stable sort), which
// makes lookups longest-prefix-wins: a rule for /dashboard/analytics
// shadows a broader /dashboard rule for any path beneath it. Two rules
// with an identical prefix, or two with the same permission name, are
// ambiguous and rejected.
func Compile(rules []Rule) (*Policy, error) {
	p := &Policy{
		byPermission: make(map[string][]Role),
	}

	seenPrefix := make(map[string]bool)
	for _, r := range rules {
		for _, role := range r.Roles {
			if !role.Valid() {
				return nil, fmt.Errorf("rule %q/%q: invalid role %q", r.Permission, r.PathPrefix, role)
			}
		}

		if r.PathPrefix != "" {
			if !strings.HasPrefix(r.PathPrefix, "/") {
				return nil, fmt.Errorf("rule %q: path prefix %q must start with /", r.Permission, r.PathPrefix)
			}
			if seenPrefix[r.PathPrefix] {
				return nil, fmt.Errorf("duplicate path prefix %q", r.PathPrefix)
			}
			seenPrefix[r.PathPrefix] = true
			p.byPrefix = append(p.byPrefix, r)
		}

		if r.Permission != "" {
			if _, dup := p.byPermission[r.Permission]; dup {
				return nil, fmt.Errorf("duplicate permission %q", r.Permission)
			}
			p.byPermission[r.Permission] = append([]Role(nil), r.Roles...)
		}

		if r.Permission == "" && r.PathPrefix == "" {
			return nil, fmt.Errorf("rule with neither permission nor path prefix")
		}
	}

	sort.SliceStable(p.byPrefix, func(i, j int) bool {
		return len(p.byPrefix[i].PathPrefix) > len(p.byPrefix[j].PathPrefix)
	})

	logging.Debug().
		Int("path_rules", len(p.byPrefix)).
		Int("permission_rules", len(p.byPermission)).
		Msg("Access policy compiled")

	return p, nil
}

// MustCompile is Compile that panics on error. For static rule tables
// where a bad rule is a programming error.
func MustCompile(rules []Rule) *Policy {
	p, err := Compile(rules)
	if err != nil {
		panic(err)
	}
	return p
}

// ResolvePath returns the allowed roles for the longest matching path
// prefix. ok is false when no rule matches, meaning no restriction is
// declared here; the caller decides whether that is public or subject
// to a default policy.
func (p *Policy) ResolvePath(path string) (roles []Role, matchedPrefix string, ok bool) {
	for _, r := range p.byPrefix {
		if strings.HasPrefix(path, r.PathPrefix) {
			return r.Roles, r.PathPrefix, true
		}
	}
	return nil, "", false
}

// RolesFor returns the allowed roles for a named permission.
// ok is false for unknown permissions; callers must treat unknown
// permissions as denied.
func (p *Policy) RolesFor(permission string) (roles []Role, ok bool) {
	roles, ok = p.byPermission[permission]
	return roles, ok
}

// Allows reports whether the role holds the named permission.
// Unknown permissions always deny.
func (p *Policy) Allows(role Role, permission string) bool {
	roles, ok := p.byPermission[permission]
	if !ok {
		return false
	}
	return roleIn(role, roles)
}

// PathRuleCount returns the number of compiled path rules.
func (p *Policy) PathRuleCount() int {
	return len(p.byPrefix)
}

// PermissionCount returns the number of compiled permission rules.
func (p *Policy) PermissionCount() int {
	return len(p.byPermission)
}
