// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package handler

import (
	"fmt"

	"github.com/MKhiriev/biodigestor-api/internal/config"
	"github.com/MKhiriev/biodigestor-api/internal/handler/http"
	"github.com/MKhiriev/biodigestor-api/internal/logger"
	"github.com/MKhiriev/biodigestor-api/internal/metrics"
	"github.com/MKhiriev/biodigestor-api/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
}

func NewHandlers(services *service.Services, sessions http.SessionStore, cfg *config.StructuredConfig, recorder *metrics.Recorder, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	if cfg.Server.HTTPAddress == "" {
		return nil, errNoHandlersAreCreated
	}

	httpHandler, err := http.NewHandler(services, sessions, cfg, recorder, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating http handler: %w", err)
	}

	return &Handlers{HTTP: httpHandler}, nil
}
