// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultMaxAttempts is the number of failed logins allowed per window.
	DefaultMaxAttempts = 5
	// DefaultAttemptWindow is the fixed window failed logins are counted in.
	DefaultAttemptWindow = 15 * time.Minute
)

var failAttemptScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {current, ttl}
`)

var checkAttemptScript = redis.NewScript(`
local current = tonumber(redis.call("GET", KEYS[1]) or "0")
local ttl = redis.call("PTTL", KEYS[1])
return {current, ttl}
`)

// redisAttemptLimiter counts failures with INCR on a key that expires with
// the window, so all replicas share one counter per key.
type redisAttemptLimiter struct {
	client redis.Cmdable
	limit  int
	window time.Duration
}

// NewRedisAttemptLimiter returns an [AttemptLimiter] allowing limit
// failures per window.
func NewRedisAttemptLimiter(client redis.Cmdable, limit int, window time.Duration) AttemptLimiter {
	return &redisAttemptLimiter{client: client, limit: limit, window: window}
}

func (l *redisAttemptLimiter) Check(ctx context.Context, key string) (time.Duration, error) {
	reply, err := checkAttemptScript.Run(ctx, l.client, []string{attemptKeyPrefix + key}).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return l.retryAfter(reply)
}

func (l *redisAttemptLimiter) Fail(ctx context.Context, key string) (time.Duration, error) {
	windowMillis := l.window.Milliseconds()
	if windowMillis <= 0 {
		windowMillis = 1000
	}
	reply, err := failAttemptScript.Run(ctx, l.client, []string{attemptKeyPrefix + key}, windowMillis).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return l.retryAfter(reply)
}

func (l *redisAttemptLimiter) Reset(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, attemptKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return nil
}

func (l *redisAttemptLimiter) retryAfter(reply any) (time.Duration, error) {
	count, ttl, err := parseCounterReply(reply)
	if err != nil {
		return 0, err
	}
	if l.limit <= 0 || count < int64(l.limit) {
		return 0, nil
	}
	if ttl <= 0 {
		// key without expiry; fall back to a full window
		return l.window, nil
	}
	return ttl, nil
}

// parseCounterReply decodes the {count, pttl} pair returned by the attempt
// scripts.
func parseCounterReply(reply any) (int64, time.Duration, error) {
	values, ok := reply.([]any)
	if !ok || len(values) < 2 {
		return 0, 0, fmt.Errorf("%w: %v", ErrUnexpectedRedisReply, reply)
	}
	count, ok := values[0].(int64)
	if !ok {
		return 0, 0, fmt.Errorf("%w: counter %v", ErrUnexpectedRedisReply, values[0])
	}
	ttlMillis, _ := values[1].(int64)
	return count, time.Duration(ttlMillis) * time.Millisecond, nil
}
