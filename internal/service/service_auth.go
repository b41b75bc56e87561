// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/MKhiriev/biodigestor-api/internal/logger"
	"github.com/MKhiriev/biodigestor-api/internal/store"
	"github.com/MKhiriev/biodigestor-api/internal/validators"
	"github.com/MKhiriev/biodigestor-api/models"
)

// dummyPassword is hashed once so that unknown usernames cost one bcrypt
// comparison, like known ones.
const dummyPassword = "biodigestor-dummy-password"

// authService checks credentials against bcrypt hashes stored in the
// account repository and throttles failed attempts per client.
type authService struct {
	accountRepository store.AccountRepository
	attemptLimiter    store.AttemptLimiter
	validator         validators.Validator

	dummyHash []byte

	logger *logger.Logger
}

// NewAuthService constructs an AuthService. attemptLimiter may be nil to
// disable throttling.
func NewAuthService(accountRepository store.AccountRepository, attemptLimiter store.AttemptLimiter, logger *logger.Logger) (AuthService, error) {
	dummyHash, err := bcrypt.GenerateFromPassword([]byte(dummyPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error preparing password hashing: %w", err)
	}

	return &authService{
		accountRepository: accountRepository,
		attemptLimiter:    attemptLimiter,
		validator:         validators.NewClientValidator(),
		dummyHash:         dummyHash,
		logger:            logger,
	}, nil
}

// Login authenticates a username/password pair.
//
// Returns the account or:
//   - ErrInvalidDataProvided if username or password is empty.
//   - *ThrottledError while clientKey is locked out.
//   - ErrInvalidCredentials for an unknown username or a wrong password.
//   - a wrapped storage error if a backend fails.
func (a *authService) Login(ctx context.Context, creds models.Credentials, clientKey string) (models.Account, error) {
	log := logger.FromContext(ctx)

	creds.Username = strings.TrimSpace(creds.Username)
	if err := a.validator.Validate(ctx, creds); err != nil {
		log.Warn().Err(err).Str("func", "*authService.Login").Msg("invalid credentials provided")
		return models.Account{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	if a.attemptLimiter != nil {
		retryAfter, err := a.attemptLimiter.Check(ctx, clientKey)
		if err != nil {
			log.Err(err).Str("func", "*authService.Login").Msg("error checking login attempts")
			return models.Account{}, fmt.Errorf("error checking login attempts: %w", err)
		}
		if retryAfter > 0 {
			log.Warn().Str("func", "*authService.Login").Str("client", clientKey).Dur("retry_after", retryAfter).Msg("login throttled")
			return models.Account{}, &ThrottledError{RetryAfter: retryAfter}
		}
	}

	account, err := a.accountRepository.FindAccountByUsername(ctx, creds.Username)
	if err != nil {
		if !errors.Is(err, store.ErrAccountNotFound) {
			log.Err(err).Str("func", "*authService.Login").Msg("account search by username failed")
			return models.Account{}, fmt.Errorf("account search by username failed: %w", err)
		}
		_ = bcrypt.CompareHashAndPassword(a.dummyHash, []byte(creds.Password))
		return models.Account{}, a.fail(ctx, clientKey)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(creds.Password)); err != nil {
		return models.Account{}, a.fail(ctx, clientKey)
	}

	if a.attemptLimiter != nil {
		if err = a.attemptLimiter.Reset(ctx, clientKey); err != nil {
			log.Err(err).Str("func", "*authService.Login").Msg("error resetting login attempts")
		}
	}

	account.PasswordHash = ""
	return account, nil
}

// fail records a failed attempt and returns ErrInvalidCredentials. A
// limiter error is logged, not returned.
func (a *authService) fail(ctx context.Context, clientKey string) error {
	log := logger.FromContext(ctx)
	log.Warn().Str("func", "*authService.Login").Str("client", clientKey).Msg("invalid credentials")

	if a.attemptLimiter == nil {
		return ErrInvalidCredentials
	}
	if _, err := a.attemptLimiter.Fail(ctx, clientKey); err != nil {
		log.Err(err).Str("func", "*authService.Login").Msg("error recording failed login attempt")
	}
	return ErrInvalidCredentials
}
