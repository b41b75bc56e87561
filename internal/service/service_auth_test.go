// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/MKhiriev/biodigestor-api/internal/logger"
	"github.com/MKhiriev/biodigestor-api/internal/mock"
	"github.com/MKhiriev/biodigestor-api/internal/store"
	"github.com/MKhiriev/biodigestor-api/models"
)

const testClientKey = "10.0.0.1"

func newTestAuthSvc(t *testing.T, ctrl *gomock.Controller) (AuthService, *mock.MockAccountRepository, *mock.MockAttemptLimiter) {
	t.Helper()
	accounts := mock.NewMockAccountRepository(ctrl)
	limiter := mock.NewMockAttemptLimiter(ctrl)

	svc, err := NewAuthService(accounts, limiter, logger.Nop())
	require.NoError(t, err)
	return svc, accounts, limiter
}

func hashedAccount(t *testing.T, password string) models.Account {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return models.Account{
		AccountID:    7,
		Username:     "ana",
		DNI:          "12345678",
		PasswordHash: string(hash),
		Roles:        []string{"user"},
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, accounts, limiter := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	gomock.InOrder(
		limiter.EXPECT().Check(ctx, testClientKey).Return(time.Duration(0), nil),
		accounts.EXPECT().FindAccountByUsername(ctx, "ana").Return(hashedAccount(t, "s3cret"), nil),
		limiter.EXPECT().Reset(ctx, testClientKey).Return(nil),
	)

	account, err := svc.Login(ctx, models.Credentials{Username: " ana ", Password: "s3cret"}, testClientKey)
	require.NoError(t, err)
	assert.Equal(t, "12345678", account.DNI)
	assert.Empty(t, account.PasswordHash)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, accounts, limiter := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	limiter.EXPECT().Check(ctx, testClientKey).Return(time.Duration(0), nil)
	accounts.EXPECT().FindAccountByUsername(ctx, "ana").Return(hashedAccount(t, "s3cret"), nil)
	limiter.EXPECT().Fail(ctx, testClientKey).Return(time.Duration(0), nil)

	_, err := svc.Login(ctx, models.Credentials{Username: "ana", Password: "wrong"}, testClientKey)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, accounts, limiter := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	limiter.EXPECT().Check(ctx, testClientKey).Return(time.Duration(0), nil)
	accounts.EXPECT().FindAccountByUsername(ctx, "nobody").Return(models.Account{}, store.ErrAccountNotFound)
	limiter.EXPECT().Fail(ctx, testClientKey).Return(time.Minute, nil)

	_, err := svc.Login(ctx, models.Credentials{Username: "nobody", Password: "x"}, testClientKey)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.NotErrorIs(t, err, store.ErrAccountNotFound)
}

func TestAuthService_Login_Throttled(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, _, limiter := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	limiter.EXPECT().Check(ctx, testClientKey).Return(3*time.Minute, nil)

	_, err := svc.Login(ctx, models.Credentials{Username: "ana", Password: "s3cret"}, testClientKey)
	require.ErrorIs(t, err, ErrTooManyAttempts)

	var throttled *ThrottledError
	require.True(t, errors.As(err, &throttled))
	assert.Equal(t, 3*time.Minute, throttled.RetryAfter)
}

func TestAuthService_Login_InvalidInput(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, _, _ := newTestAuthSvc(t, ctrl)

	tests := []models.Credentials{
		{Username: "", Password: "x"},
		{Username: "   ", Password: "x"},
		{Username: "ana", Password: ""},
	}
	for _, creds := range tests {
		_, err := svc.Login(context.Background(), creds, testClientKey)
		assert.ErrorIs(t, err, ErrInvalidDataProvided)
	}
}

func TestAuthService_Login_BackendErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("limiter check fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc, _, limiter := newTestAuthSvc(t, ctrl)

		limiter.EXPECT().Check(ctx, testClientKey).Return(time.Duration(0), store.ErrStorageUnavailable)

		_, err := svc.Login(ctx, models.Credentials{Username: "ana", Password: "x"}, testClientKey)
		assert.ErrorIs(t, err, store.ErrStorageUnavailable)
	})

	t.Run("repository fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc, accounts, limiter := newTestAuthSvc(t, ctrl)

		limiter.EXPECT().Check(ctx, testClientKey).Return(time.Duration(0), nil)
		accounts.EXPECT().FindAccountByUsername(ctx, "ana").Return(models.Account{}, store.ErrScanningRow)

		_, err := svc.Login(ctx, models.Credentials{Username: "ana", Password: "x"}, testClientKey)
		assert.ErrorIs(t, err, store.ErrScanningRow)
	})

	t.Run("recording failure does not hide invalid credentials", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc, accounts, limiter := newTestAuthSvc(t, ctrl)

		limiter.EXPECT().Check(ctx, testClientKey).Return(time.Duration(0), nil)
		accounts.EXPECT().FindAccountByUsername(ctx, "ana").Return(hashedAccount(t, "s3cret"), nil)
		limiter.EXPECT().Fail(ctx, testClientKey).Return(time.Duration(0), errors.New("redis down"))

		_, err := svc.Login(ctx, models.Credentials{Username: "ana", Password: "bad"}, testClientKey)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthService_Login_WithoutLimiter(t *testing.T) {
	ctrl := gomock.NewController(t)
	accounts := mock.NewMockAccountRepository(ctrl)
	svc, err := NewAuthService(accounts, nil, logger.Nop())
	require.NoError(t, err)

	accounts.EXPECT().FindAccountByUsername(gomock.Any(), "ana").Return(hashedAccount(t, "s3cret"), nil).Times(2)

	_, err = svc.Login(context.Background(), models.Credentials{Username: "ana", Password: "bad"}, testClientKey)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), models.Credentials{Username: "ana", Password: "s3cret"}, testClientKey)
	assert.NoError(t, err)
}

func TestThrottledError(t *testing.T) {
	err := &ThrottledError{RetryAfter: 90 * time.Second}
	assert.Contains(t, err.Error(), "1m30s")
	assert.ErrorIs(t, err, ErrTooManyAttempts)
}
