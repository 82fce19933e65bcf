// Eterstore - Multi-Tenant Storefront and Back-Office Platform
// Copyright 2026 Eterstore Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eterstore/eterstore

package rbac

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/eterstore/eterstore/internal/logging"
)

// AuditEvent is one recorded authorization decision.
type AuditEvent struct {
	ID         string        `json:"id"`
	Timestamp  time.Time     `json:"timestamp"`
	RequestID  string        `json:"request_id,omitempty"`
	ActorID    string        `json:"actor_id"`
	ActorEmail string        `json:"actor_email,omitempty"`
	Role       string        `json:"role"`
	Path       string        `json:"path,omitempty"`
	Permission string        `json:"permission,omitempty"`
	Decision   bool          `json:"decision"`
	Reason     string        `json:"reason,omitempty"`
	Duration   time.Duration `json:"duration_ns"`
}

// AuditLoggerConfig holds configuration for the decision audit trail.
type AuditLoggerConfig struct {
	// Enabled controls whether decisions are recorded at all.
	Enabled bool

	// BufferSize is the size of the async write buffer.
	BufferSize int

	// DeniesOnly drops allow decisions, keeping only denials.
	DeniesOnly bool
}

// DefaultAuditLoggerConfig returns sensible defaults.
func DefaultAuditLoggerConfig() AuditLoggerConfig {
	return AuditLoggerConfig{
		Enabled:    true,
		BufferSize: 1000,
		DeniesOnly: false,
	}
}

// AuditLogger records authorization decisions asynchronously. Writes
// never block the request path: when the buffer is full the event is
// dropped and counted rather than stalling enforcement.
type AuditLogger struct {
	config    AuditLoggerConfig
	eventChan chan *AuditEvent
	stopChan  chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

// NewAuditLogger creates an audit logger and starts its async writer.
func NewAuditLogger(config AuditLoggerConfig) *AuditLogger {
	if config.BufferSize <= 0 {
		config.BufferSize = 1000
	}

	l := &AuditLogger{
		config:    config,
		eventChan: make(chan *AuditEvent, config.BufferSize),
		stopChan:  make(chan struct{}),
	}

	l.wg.Add(1)
	go l.asyncWriter()

	return l
}

// LogDecision records one decision. Non-blocking.
func (l *AuditLogger) LogDecision(event *AuditEvent) {
	if !l.config.Enabled {
		return
	}
	if l.config.DeniesOnly && event.Decision {
		return
	}

	if event.ID == "" {
		event.ID = generateAuditID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	select {
	case l.eventChan <- event:
	default:
		RecordAuditDropped()
		logging.Warn().Str("event_id", event.ID).Msg("Audit event buffer full, dropping event")
	}
}

// asyncWriter drains the event buffer onto the structured log.
func (l *AuditLogger) asyncWriter() {
	defer l.wg.Done()

	for {
		select {
		case <-l.stopChan:
			// Drain remaining events
			for {
				select {
				case event := <-l.eventChan:
					l.writeEvent(event)
				default:
					return
				}
			}
		case event := <-l.eventChan:
			l.writeEvent(event)
		}
	}
}

func (l *AuditLogger) writeEvent(event *AuditEvent) {
	entry := logging.Info()
	if !event.Decision {
		entry = logging.Warn()
	}
	entry.
		Str("audit_id", event.ID).
		Str("request_id", event.RequestID).
		Str("actor_id", event.ActorID).
		Str("actor_email", event.ActorEmail).
		Str("role", event.Role).
		Str("path", event.Path).
		Str("permission", event.Permission).
		Bool("allowed", event.Decision).
		Str("reason", event.Reason).
		Dur("duration", event.Duration).
		Msg("Authorization decision")
}

// Close shuts down the writer after draining buffered events. Safe to
// call multiple times.
func (l *AuditLogger) Close() error {
	l.stopOnce.Do(func() {
		close(l.stopChan)
		l.wg.Wait()
	})
	return nil
}

// generateAuditID returns a unique event ID.
func generateAuditID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return time.Now().Format("20060102150405.000000000")
	}
	return hex.EncodeToString(b)
}
