// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/biodigestor-api/internal/config"
	"github.com/MKhiriev/biodigestor-api/internal/handler"
	"github.com/MKhiriev/biodigestor-api/internal/logger"
	"github.com/MKhiriev/biodigestor-api/internal/metrics"
	"github.com/MKhiriev/biodigestor-api/internal/server"
	"github.com/MKhiriev/biodigestor-api/internal/service"
	"github.com/MKhiriev/biodigestor-api/internal/session"
	"github.com/MKhiriev/biodigestor-api/internal/store"
	"github.com/MKhiriev/biodigestor-api/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	build := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	printBuildInfo(build)

	log := logger.NewLogger("biodigestor-api")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().
		Str("http_address", cfg.Server.HTTPAddress).
		Strs("allowed_origins", cfg.Server.AllowedOrigins).
		Str("session_codec", cfg.Session.Codec).
		Dur("session_duration", cfg.Session.Duration).
		Bool("redis", cfg.Storage.Redis.URL != "").
		Bool("metrics", cfg.Server.MetricsEnabled).
		Msg("received configs")

	storages, err := store.NewStorages(context.Background(), cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer func() {
		if err := storages.Close(); err != nil {
			log.Err(err).Msg("error closing storages")
		}
	}()

	codec, err := session.NewCodec(cfg.Session)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating session codec")
	}
	sessions := session.NewStore(cfg.Session, codec, storages.RevocationStore)

	services, err := service.NewServices(storages, cfg, build, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, sessions, cfg, metrics.NewRecorder(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	if err := srv.RunServer(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func printBuildInfo(build models.AppBuildInfo) {
	fmt.Printf("Build version: %s\n", build.BuildVersion())
	fmt.Printf("Build date: %s\n", build.BuildDate())
	fmt.Printf("Build commit: %s\n", build.BuildCommit())
}
