// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock -copyright_file=../../hack/boilerplate.go.txt

import (
	"context"

	"github.com/MKhiriev/biodigestor-api/models"
)

type AuthService interface {
	// Login checks creds and returns the matching account. clientKey
	// identifies the caller for throttling, usually its IP address.
	Login(ctx context.Context, creds models.Credentials, clientKey string) (models.Account, error)
}

type ClientService interface {
	GetClient(ctx context.Context, dni string) (models.Client, error)
	ListClients(ctx context.Context) ([]models.Client, error)
	CreateClient(ctx context.Context, client models.Client) (models.Client, error)
	UpdateClient(ctx context.Context, client models.Client) (models.Client, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
	GetAppInfo(ctx context.Context) models.VersionResponse
}

type HealthService interface {
	// Check returns an error when a backend the API depends on is down.
	Check(ctx context.Context) error
}
