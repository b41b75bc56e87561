// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"fmt"

	"github.com/MKhiriev/biodigestor-api/internal/config"
	"github.com/MKhiriev/biodigestor-api/internal/logger"
	"github.com/MKhiriev/biodigestor-api/internal/store"
	"github.com/MKhiriev/biodigestor-api/models"
)

type Services struct {
	AuthService    AuthService
	ClientService  ClientService
	AppInfoService AppInfoService
	HealthService  HealthService
}

func NewServices(storages *store.Storages, cfg *config.StructuredConfig, build models.AppBuildInfo, logger *logger.Logger) (*Services, error) {
	authService, err := NewAuthService(storages.AccountRepository, storages.AttemptLimiter, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating auth service: %w", err)
	}

	appInfoService, err := NewAppInfoService(cfg.App, build, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating app info service: %w", err)
	}

	return &Services{
		AuthService:    authService,
		ClientService:  NewClientService(storages.ClientRepository, logger),
		AppInfoService: appInfoService,
		HealthService:  NewHealthService(storages),
	}, nil
}
