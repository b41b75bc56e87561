// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"fmt"
	"net/http"
	"net/netip"

	"github.com/MKhiriev/biodigestor-api/internal/auth"
	"github.com/MKhiriev/biodigestor-api/internal/config"
	"github.com/MKhiriev/biodigestor-api/internal/logger"
	"github.com/MKhiriev/biodigestor-api/internal/metrics"
	"github.com/MKhiriev/biodigestor-api/internal/service"
	"github.com/MKhiriev/biodigestor-api/models"
)

// SessionStore is the cookie session collaborator of the handler.
// *session.Store implements it.
type SessionStore interface {
	ResolveRequest(r *http.Request) (auth.Principal, error)
	Issue(w http.ResponseWriter, account models.Account) (auth.Principal, error)
	Clear(w http.ResponseWriter)
	Revoke(ctx context.Context, principal auth.Principal) error
}

type Handler struct {
	services *service.Services
	sessions SessionStore

	extractor *auth.ReferenceExtractor
	elevated  auth.RoleSet
	loginPath string

	trustedProxies []netip.Prefix

	server  config.Server
	metrics *metrics.Recorder

	logger *logger.Logger
}

// NewHandler builds the HTTP handler. The DNI source order and the elevated
// roles are read from cfg.Session once; an invalid source list is returned
// as an error. recorder may be nil.
func NewHandler(services *service.Services, sessions SessionStore, cfg *config.StructuredConfig, recorder *metrics.Recorder, logger *logger.Logger) (*Handler, error) {
	sources := auth.DefaultSources
	if len(cfg.Session.DNISources) > 0 {
		parsed, err := auth.ParseSources(cfg.Session.DNISources)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", config.ErrInvalidSessionConfigs, err)
		}
		sources = parsed
	}

	elevated := auth.NewRoleSet(cfg.Session.ElevatedRoles...)

	trustedProxies, err := cfg.Server.TrustedProxyPrefixes()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidServerConfigs, err)
	}

	logger.Info().
		Strs("dni_sources", sourceNames(sources)).
		Strs("elevated_roles", elevated.Strings()).
		Strs("trusted_proxies", cfg.Server.TrustedProxies).
		Msg("http handler created")

	return &Handler{
		services:       services,
		sessions:       sessions,
		extractor:      auth.NewReferenceExtractor(sources),
		trustedProxies: trustedProxies,
		elevated:       elevated,
		loginPath:      cfg.Session.LoginPath,
		server:         cfg.Server,
		metrics:        recorder,
		logger:         logger,
	}, nil
}

func sourceNames(sources []auth.Source) []string {
	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = string(s)
	}
	return names
}
