// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"sync"
	"time"
)

// memoryRevocationStore is the single-process twin of
// [redisRevocationStore].
type memoryRevocationStore struct {
	mu      sync.Mutex
	now     func() time.Time
	revoked map[string]time.Time
}

// NewMemoryRevocationStore returns a [RevocationStore] held in process
// memory. now may be nil.
func NewMemoryRevocationStore(now func() time.Time) RevocationStore {
	if now == nil {
		now = time.Now
	}
	return &memoryRevocationStore{
		now:     now,
		revoked: make(map[string]time.Time),
	}
}

func (s *memoryRevocationStore) Revoke(_ context.Context, sessionID string, until time.Time) error {
	now := s.now()
	if !until.After(now) {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.gc(now)
	s.revoked[sessionID] = until
	return nil
}

func (s *memoryRevocationStore) IsRevoked(_ context.Context, sessionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	until, ok := s.revoked[sessionID]
	if !ok {
		return false, nil
	}
	if !until.After(s.now()) {
		delete(s.revoked, sessionID)
		return false, nil
	}
	return true, nil
}

func (s *memoryRevocationStore) gc(now time.Time) {
	for id, until := range s.revoked {
		if !until.After(now) {
			delete(s.revoked, id)
		}
	}
}
