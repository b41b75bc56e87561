// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/MKhiriev/biodigestor-api/internal/config"
	"github.com/MKhiriev/biodigestor-api/internal/logger"
)

// Storages groups every repository and store the service layer uses.
type Storages struct {
	AccountRepository AccountRepository
	ClientRepository  ClientRepository
	RevocationStore   RevocationStore
	AttemptLimiter    AttemptLimiter

	db    *DB
	redis *redis.Client
}

// NewStorages connects to PostgreSQL, applies migrations and, when
// cfg.Redis.URL is set, connects to Redis. Without Redis the revocation
// list and login throttle live in process memory.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	db, err := NewConnectPostgres(ctx, cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	if err = db.Migrate(); err != nil {
		log.Err(err).Str("func", "NewStorages").Msg("error migrating database")
		_ = db.Close()
		return nil, fmt.Errorf("error migrating database: %w", err)
	}

	s := &Storages{
		AccountRepository: NewAccountRepository(db, log),
		ClientRepository:  NewClientRepository(db, log),
		db:                db,
	}

	if cfg.Redis.URL == "" {
		log.Warn().Str("func", "NewStorages").Msg("redis is not configured; revocations and login attempts are kept in memory")
		s.RevocationStore = NewMemoryRevocationStore(nil)
		s.AttemptLimiter = NewMemoryAttemptLimiter(DefaultMaxAttempts, DefaultAttemptWindow, nil)
		return s, nil
	}

	client, err := NewConnectRedis(ctx, cfg.Redis, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	s.redis = client
	s.RevocationStore = NewRedisRevocationStore(client)
	s.AttemptLimiter = NewRedisAttemptLimiter(client, DefaultMaxAttempts, DefaultAttemptWindow)

	return s, nil
}

// Ping checks every backend the Storages holds.
func (s *Storages) Ping(ctx context.Context) error {
	if s.db != nil {
		if err := s.db.PingContext(ctx); err != nil {
			return fmt.Errorf("%w: database: %w", ErrStorageUnavailable, err)
		}
	}
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("%w: redis: %w", ErrStorageUnavailable, err)
		}
	}
	return nil
}

// Close releases the database pool and the Redis client.
func (s *Storages) Close() error {
	var errs []error
	if s.db != nil {
		errs = append(errs, s.db.Close())
	}
	if s.redis != nil {
		errs = append(errs, s.redis.Close())
	}
	return errors.Join(errs...)
}
