// Eterstore - Multi-Tenant Storefront and Back-Office Platform
// Copyright 2026 Eterstore Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eterstore/eterstore

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/eterstore/eterstore/internal/logging"
)

// Key prefixes for BadgerDB storage
const (
	profileKeyPrefix = "profile:"
	emailKeyPrefix   = "email:"
)

// bcryptCost trades ~250ms of hashing per login for resistance to
// offline cracking of leaked hashes.
const bcryptCost = 12

// Config holds profile store configuration.
type Config struct {
	// Path is the BadgerDB directory. Empty means in-memory, which is
	// used by tests.
	Path string

	// GCInterval is how often the value log garbage collector runs.
	GCInterval time.Duration

	// GCDiscardRatio is the rewrite threshold passed to Badger's GC.
	GCDiscardRatio float64
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Path:           "data/profiles",
		GCInterval:     10 * time.Minute,
		GCDiscardRatio: 0.5,
	}
}

// ProfileStore persists profiles in BadgerDB.
type ProfileStore struct {
	db     *badger.DB
	config Config
}

// Open opens the profile store at the configured path.
func Open(config Config) (*ProfileStore, error) {
	if config.GCInterval <= 0 {
		config.GCInterval = 10 * time.Minute
	}
	if config.GCDiscardRatio <= 0 {
		config.GCDiscardRatio = 0.5
	}

	opts := badger.DefaultOptions(config.Path).
		WithLogger(nil)
	if config.Path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open profile store: %w", err)
	}

	return &ProfileStore{db: db, config: config}, nil
}

// CreateProfile registers a new profile with a hashed password. The
// email index is written in the same transaction, so duplicate emails
// cannot race past the check.
func (s *ProfileStore) CreateProfile(ctx context.Context, email, username, password, role string) (*Profile, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	profile := &Profile{
		ID:           uuid.NewString(),
		Email:        normalizeEmail(email),
		Username:     username,
		Role:         role,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	data, err := json.Marshal(recordFromProfile(profile))
	if err != nil {
		return nil, fmt.Errorf("marshal profile: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		emailKey := []byte(emailKeyPrefix + profile.Email)
		if _, err := txn.Get(emailKey); err == nil {
			return ErrDuplicateEmail
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check email index: %w", err)
		}

		if err := txn.Set([]byte(profileKeyPrefix+profile.ID), data); err != nil {
			return fmt.Errorf("set profile: %w", err)
		}
		if err := txn.Set(emailKey, []byte(profile.ID)); err != nil {
			return fmt.Errorf("set email index: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return profile, nil
}

// GetByID retrieves a profile by id.
func (s *ProfileStore) GetByID(ctx context.Context, id string) (*Profile, error) {
	var record profileRecord

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(profileKeyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get profile: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		})
	})
	if err != nil {
		return nil, err
	}

	return record.toProfile(), nil
}

// GetByEmail retrieves a profile through the email index.
func (s *ProfileStore) GetByEmail(ctx context.Context, email string) (*Profile, error) {
	var id string

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(emailKeyPrefix + normalizeEmail(email)))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get email index: %w", err)
		}
		return item.Value(func(val []byte) error {
			id = string(val)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// Authenticate verifies the password for the email and returns the
// profile. Unknown email and wrong password both return
// ErrInvalidCredentials to avoid account enumeration.
func (s *ProfileStore) Authenticate(ctx context.Context, email, password string) (*Profile, error) {
	profile, err := s.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Burn comparable time so timing does not reveal whether
			// the email exists.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return profile, nil
}

// GetRoleByID returns the stored role for the profile id. It satisfies
// the role resolver's provider interface.
func (s *ProfileStore) GetRoleByID(ctx context.Context, id string) (string, error) {
	profile, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return profile.Role, nil
}

// SetRole updates a profile's role and returns the previous role, so
// callers can invalidate cached resolutions.
func (s *ProfileStore) SetRole(ctx context.Context, id, role string) (string, error) {
	var oldRole string

	err := s.db.Update(func(txn *badger.Txn) error {
		key := []byte(profileKeyPrefix + id)
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get profile: %w", err)
		}

		var record profileRecord
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		}); err != nil {
			return err
		}

		oldRole = record.Role
		record.Role = role
		record.UpdatedAt = time.Now().UTC()

		data, err := json.Marshal(&record)
		if err != nil {
			return fmt.Errorf("marshal profile: %w", err)
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return "", err
	}

	return oldRole, nil
}

// RunGC runs Badger's value log garbage collector until the context is
// canceled. Intended to run as a supervised service.
func (s *ProfileStore) RunGC(ctx context.Context) error {
	ticker := time.NewTicker(s.config.GCInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			// RunValueLogGC returns ErrNoRewrite when there is nothing
			// worth collecting; that is the steady state, not a failure.
			err := s.db.RunValueLogGC(s.config.GCDiscardRatio)
			if err != nil && !errors.Is(err, badger.ErrNoRewrite) {
				logging.Warn().Err(err).Msg("Profile store GC error")
			}
		}
	}
}

// Ping verifies the database is open and readable.
func (s *ProfileStore) Ping(ctx context.Context) error {
	if s.db.IsClosed() {
		return badger.ErrDBClosed
	}
	return s.db.View(func(txn *badger.Txn) error {
		return nil
	})
}

// Close closes the underlying database.
func (s *ProfileStore) Close() error {
	return s.db.Close()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// dummyHash is a bcrypt hash of a random value, used to equalize
// authentication timing for unknown emails.
var dummyHash = func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcryptCost)
	if err != nil {
		return []byte("$2a$12$C6UzMDM.H6dfI/f/IKcEeO7xNujfmTnyVtcLkbLGdVDryz1Hl4a4O")
	}
	return h
}()
