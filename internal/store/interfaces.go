// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock -copyright_file=../../hack/boilerplate.go.txt

import (
	"context"
	"time"

	"github.com/MKhiriev/biodigestor-api/models"
)

// AccountRepository looks up login accounts.
type AccountRepository interface {
	// FindAccountByUsername returns the account with the given username and
	// its roles, or [ErrAccountNotFound].
	FindAccountByUsername(ctx context.Context, username string) (models.Account, error)
}

// ClientRepository persists client records keyed by DNI.
type ClientRepository interface {
	GetClient(ctx context.Context, dni string) (models.Client, error)
	ListClients(ctx context.Context) ([]models.Client, error)
	CreateClient(ctx context.Context, client models.Client) (models.Client, error)
	UpdateClient(ctx context.Context, client models.Client) (models.Client, error)
}

// RevocationStore keeps the ids of sessions ended by logout until their
// natural expiry.
type RevocationStore interface {
	Revoke(ctx context.Context, sessionID string, until time.Time) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

// AttemptLimiter counts failed attempts per key within a fixed window.
//
// Both Check and Fail return a positive retry-after duration once the key
// has used up its attempts, and zero otherwise.
type AttemptLimiter interface {
	Check(ctx context.Context, key string) (time.Duration, error)
	Fail(ctx context.Context, key string) (time.Duration, error)
	Reset(ctx context.Context, key string) error
}

// ErrorClassificator decides whether a database error is transient.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
