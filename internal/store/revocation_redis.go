// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisRevocationStore keeps one key per revoked session, expiring together
// with the session itself.
type redisRevocationStore struct {
	client redis.Cmdable
	now    func() time.Time
}

// NewRedisRevocationStore returns a [RevocationStore] backed by client.
func NewRedisRevocationStore(client redis.Cmdable) RevocationStore {
	return &redisRevocationStore{client: client, now: time.Now}
}

func (s *redisRevocationStore) Revoke(ctx context.Context, sessionID string, until time.Time) error {
	ttl := until.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, revocationKeyPrefix+sessionID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return nil
}

func (s *redisRevocationStore) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	n, err := s.client.Exists(ctx, revocationKeyPrefix+sessionID).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return n > 0, nil
}
