// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"sync"
	"time"
)

const defaultMaxAttemptKeys = 10000

type attemptBucket struct {
	count     int
	windowEnd time.Time
}

// memoryAttemptLimiter is the single-process twin of [redisAttemptLimiter].
type memoryAttemptLimiter struct {
	mu      sync.Mutex
	now     func() time.Time
	limit   int
	window  time.Duration
	maxKeys int
	data    map[string]*attemptBucket
}

// NewMemoryAttemptLimiter returns an [AttemptLimiter] held in process
// memory. now may be nil.
func NewMemoryAttemptLimiter(limit int, window time.Duration, now func() time.Time) AttemptLimiter {
	if now == nil {
		now = time.Now
	}
	return &memoryAttemptLimiter{
		now:     now,
		limit:   limit,
		window:  window,
		maxKeys: defaultMaxAttemptKeys,
		data:    make(map[string]*attemptBucket),
	}
}

func (m *memoryAttemptLimiter) Check(_ context.Context, key string) (time.Duration, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	return m.retryAfter(m.bucket(key, now), now), nil
}

func (m *memoryAttemptLimiter) Fail(_ context.Context, key string) (time.Duration, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	bucket := m.bucket(key, now)
	if bucket == nil {
		if len(m.data) >= m.maxKeys {
			m.gc(now)
		}
		if len(m.data) >= m.maxKeys {
			return 0, ErrStorageUnavailable
		}
		bucket = &attemptBucket{windowEnd: now.Add(m.window)}
		m.data[key] = bucket
	}
	bucket.count++

	return m.retryAfter(bucket, now), nil
}

func (m *memoryAttemptLimiter) Reset(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}

// bucket returns the live bucket for key, dropping an elapsed one.
// Callers hold m.mu.
func (m *memoryAttemptLimiter) bucket(key string, now time.Time) *attemptBucket {
	bucket, ok := m.data[key]
	if !ok {
		return nil
	}
	if !now.Before(bucket.windowEnd) {
		delete(m.data, key)
		return nil
	}
	return bucket
}

func (m *memoryAttemptLimiter) retryAfter(bucket *attemptBucket, now time.Time) time.Duration {
	if bucket == nil || m.limit <= 0 || bucket.count < m.limit {
		return 0
	}
	return bucket.windowEnd.Sub(now)
}

func (m *memoryAttemptLimiter) gc(now time.Time) {
	for key, bucket := range m.data {
		if !now.Before(bucket.windowEnd) {
			delete(m.data, key)
		}
	}
}
