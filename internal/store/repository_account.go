// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/biodigestor-api/internal/logger"
	"github.com/MKhiriev/biodigestor-api/models"
)

// accountRepository is the PostgreSQL-backed implementation of
// [AccountRepository] over the "accounts" and "account_roles" tables.
type accountRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewAccountRepository constructs an [AccountRepository] backed by db.
func NewAccountRepository(db *DB, logger *logger.Logger) AccountRepository {
	logger.Debug().Msg("creating account repository")
	return &accountRepository{
		db:     db,
		logger: logger,
	}
}

// FindAccountByUsername loads the account and its roles in one query.
//
// Error handling:
//   - no row → [ErrAccountNotFound].
//   - transient driver errors → wrapped [ErrStorageUnavailable].
//   - any other driver error → wrapped as "unexpected DB error".
func (r *accountRepository) FindAccountByUsername(ctx context.Context, username string) (models.Account, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildFindAccountByUsernameQuery(username)
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.FindAccountByUsername").Msg("failed to build query")
		return models.Account{}, err
	}

	var (
		account models.Account
		roles   string
	)
	err = r.db.QueryRowContext(ctx, query, args...).
		Scan(&account.AccountID, &account.Username, &account.DNI, &account.PasswordHash, &account.CreatedAt, &roles)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Account{}, ErrAccountNotFound
		}
		log.Err(err).Str("func", "*accountRepository.FindAccountByUsername").Msg("error finding account")
		return models.Account{}, fmt.Errorf("%w: %w", ErrScanningRow, r.db.wrapError(err))
	}

	account.Roles = splitRoles(roles)
	return account, nil
}

func splitRoles(roles string) []string {
	if roles == "" {
		return nil
	}
	return strings.Split(roles, ",")
}
