// Eterstore - Multi-Tenant Storefront and Back-Office Platform
// Copyright 2026 Eterstore Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eterstore/eterstore

package rbac

import (
	"sync"
	"time"
)

// roleCache caches resolved roles by principal ID to avoid hitting the
// profile store on every request. Entries are replaced wholesale, never
// partially updated; a stale entry is treated as absent.
type roleCache struct {
	ttl      time.Duration
	mu       sync.RWMutex
	entries  map[string]roleCacheEntry
	stopChan chan struct{}
	stopOnce sync.Once
}

type roleCacheEntry struct {
	role     Role
	cachedAt time.Time
}

// defaultRoleCacheTTL bounds how long a stale database role can be served.
const defaultRoleCacheTTL = 60 * time.Second

// newRoleCache creates a cache and starts its cleanup goroutine.
func newRoleCache(ttl time.Duration) *roleCache {
	if ttl <= 0 {
		ttl = defaultRoleCacheTTL
	}
	c := &roleCache{
		ttl:      ttl,
		entries:  make(map[string]roleCacheEntry),
		stopChan: make(chan struct{}),
	}
	go c.cleanup()
	return c
}

// get returns the cached role for a principal. Expired entries are
// treated as absent, forcing a fresh store lookup.
func (c *roleCache) get(principalID string) (Role, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[principalID]
	if !ok {
		return "", false
	}
	if time.Since(entry.cachedAt) >= c.ttl {
		return "", false
	}
	return entry.role, true
}

// set stores a role for a principal, replacing any existing entry.
// Last write wins; the TTL bounds any staleness from racing writers.
func (c *roleCache) set(principalID string, role Role) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[principalID] = roleCacheEntry{
		role:     role,
		cachedAt: time.Now(),
	}
	UpdateRoleCacheSize(len(c.entries))
}

// invalidate removes the entry for a principal immediately, so the next
// resolution re-reads the store instead of serving a stale role.
func (c *roleCache) invalidate(principalID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, principalID)
	UpdateRoleCacheSize(len(c.entries))
}

// size returns the current number of entries, expired or not.
func (c *roleCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// cleanup periodically removes expired entries.
func (c *roleCache) cleanup() {
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for id, entry := range c.entries {
				if now.Sub(entry.cachedAt) >= c.ttl {
					delete(c.entries, id)
					RecordRoleCacheEviction()
				}
			}
			UpdateRoleCacheSize(len(c.entries))
			c.mu.Unlock()
		}
	}
}

// stop stops the cleanup goroutine. Safe to call multiple times.
func (c *roleCache) stop() {
	c.stopOnce.Do(func() {
		close(c.stopChan)
	})
}
