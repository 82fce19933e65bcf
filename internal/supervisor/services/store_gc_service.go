// Eterstore - Multi-Tenant Storefront and Back-Office Platform
// Copyright 2026 Eterstore Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eterstore/eterstore

package services

import (
	"context"
)

// GCRunner matches the profile store's garbage collection loop.
type GCRunner interface {
	RunGC(ctx context.Context) error
}

// StoreGCService runs BadgerDB value log garbage collection as a
// supervised service. RunGC blocks until its context is canceled, so
// suture restart semantics apply if the loop ever fails.
type StoreGCService struct {
	store GCRunner
}

// NewStoreGCService creates the store maintenance service.
func NewStoreGCService(store GCRunner) *StoreGCService {
	return &StoreGCService{store: store}
}

// Serve implements suture.Service.
func (s *StoreGCService) Serve(ctx context.Context) error {
	return s.store.RunGC(ctx)
}

// String implements fmt.Stringer; suture uses it in log messages.
func (s *StoreGCService) String() string {
	return "store-gc"
}
