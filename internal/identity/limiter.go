// Eterstore - Multi-Tenant Storefront and Back-Office Platform
// Copyright 2026 Eterstore Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eterstore/eterstore

package identity

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LoginLimiter throttles credential attempts per identity (email) to
// slow brute-force attacks. Limiters are created lazily and pruned once
// idle longer than the prune interval.
type LoginLimiter struct {
	mu       sync.Mutex
	limiters map[string]*loginLimiterEntry
	rate     rate.Limit
	burst    int
	stopChan chan struct{}
	stopOnce sync.Once
}

type loginLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const loginLimiterPruneInterval = 10 * time.Minute

// NewLoginLimiter creates a limiter allowing attemptsPerMinute sustained
// attempts with the given burst per identity.
func NewLoginLimiter(attemptsPerMinute int, burst int) *LoginLimiter {
	if attemptsPerMinute <= 0 {
		attemptsPerMinute = 10
	}
	if burst <= 0 {
		burst = 5
	}

	l := &LoginLimiter{
		limiters: make(map[string]*loginLimiterEntry),
		rate:     rate.Limit(float64(attemptsPerMinute) / 60.0),
		burst:    burst,
		stopChan: make(chan struct{}),
	}
	go l.prune()
	return l
}

// Allow reports whether another attempt for the identity is permitted.
func (l *LoginLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.limiters[key]
	if !ok {
		entry = &loginLimiterEntry{
			limiter: rate.NewLimiter(l.rate, l.burst),
		}
		l.limiters[key] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter.Allow()
}

// prune periodically drops limiters that have been idle.
func (l *LoginLimiter) prune() {
	ticker := time.NewTicker(loginLimiterPruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopChan:
			return
		case <-ticker.C:
			l.mu.Lock()
			cutoff := time.Now().Add(-loginLimiterPruneInterval)
			for key, entry := range l.limiters {
				if entry.lastSeen.Before(cutoff) {
					delete(l.limiters, key)
				}
			}
			l.mu.Unlock()
		}
	}
}

// Stop stops the prune goroutine. Safe to call multiple times.
func (l *LoginLimiter) Stop() {
	l.stopOnce.Do(func() {
		close(l.stopChan)
	})
}
