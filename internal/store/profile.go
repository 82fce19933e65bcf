// Eterstore - Multi-Tenant Storefront and Back-Office Platform
// Copyright 2026 Eterstore Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eterstore/eterstore

package store

import (
	"errors"
	"time"
)

// Store errors.
var (
	// ErrNotFound is returned when no profile matches the lookup key.
	ErrNotFound = errors.New("profile not found")

	// ErrDuplicateEmail is returned when registering an email that is
	// already taken.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInvalidCredentials is returned on authentication failure. It is
	// deliberately the same for unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Profile is a stored user account.
type Profile struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	StoreSlug    string    `json:"store_slug,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// profileRecord is the on-disk shape. The password hash is excluded
// from Profile's JSON so API responses can marshal a Profile directly,
// but it must be persisted.
type profileRecord struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"password_hash"`
	StoreSlug    string    `json:"store_slug,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (r *profileRecord) toProfile() *Profile {
	return &Profile{
		ID:           r.ID,
		Email:        r.Email,
		Username:     r.Username,
		Role:         r.Role,
		PasswordHash: r.PasswordHash,
		StoreSlug:    r.StoreSlug,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func recordFromProfile(p *Profile) *profileRecord {
	return &profileRecord{
		ID:           p.ID,
		Email:        p.Email,
		Username:     p.Username,
		Role:         p.Role,
		PasswordHash: p.PasswordHash,
		StoreSlug:    p.StoreSlug,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
