// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/biodigestor-api/internal/logger"
)

func newTestDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return newDB(conn, logger.Nop()), mock
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

var accountColumns = []string{"account_id", "username", "dni", "password_hash", "created_at", "roles"}

func TestFindAccountByUsername_Success(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewAccountRepository(db, logger.Nop())

	now := time.Now()
	mock.ExpectQuery("SELECT a.account_id, .+ FROM accounts a LEFT JOIN account_roles r").
		WithArgs("ana").
		WillReturnRows(sqlmock.NewRows(accountColumns).AddRow(7, "ana", "12345678", "$2a$hash", now, "admin,user"))

	account, err := repo.FindAccountByUsername(context.Background(), "ana")
	require.NoError(t, err)
	assert.Equal(t, int64(7), account.AccountID)
	assert.Equal(t, "ana", account.Username)
	assert.Equal(t, "12345678", account.DNI)
	assert.Equal(t, "$2a$hash", account.PasswordHash)
	assert.Equal(t, []string{"admin", "user"}, account.Roles)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindAccountByUsername_NoRoles(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewAccountRepository(db, logger.Nop())

	mock.ExpectQuery("FROM accounts a").
		WithArgs("ana").
		WillReturnRows(sqlmock.NewRows(accountColumns).AddRow(7, "ana", "12345678", "hash", time.Now(), ""))

	account, err := repo.FindAccountByUsername(context.Background(), "ana")
	require.NoError(t, err)
	assert.Nil(t, account.Roles)
}

func TestFindAccountByUsername_Errors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{name: "not found", err: sql.ErrNoRows, wantErr: ErrAccountNotFound},
		{name: "connection failure", err: pgError(pgerrcode.ConnectionFailure), wantErr: ErrStorageUnavailable},
		{name: "syntax error", err: pgError(pgerrcode.SyntaxError), wantErr: ErrScanningRow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newTestDB(t)
			repo := NewAccountRepository(db, logger.Nop())

			mock.ExpectQuery("FROM accounts a").WithArgs("ana").WillReturnError(tt.err)

			_, err := repo.FindAccountByUsername(context.Background(), "ana")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
