// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/biodigestor-api/internal/logger"
	"github.com/MKhiriev/biodigestor-api/internal/store"
	"github.com/MKhiriev/biodigestor-api/internal/validators"
	"github.com/MKhiriev/biodigestor-api/models"
)

// clientService validates client records before handing them to the
// repository. Ownership is enforced earlier, by the authorization guard.
type clientService struct {
	clientRepository store.ClientRepository
	validator        validators.Validator

	logger *logger.Logger
}

func NewClientService(clientRepository store.ClientRepository, logger *logger.Logger) ClientService {
	return &clientService{
		clientRepository: clientRepository,
		validator:        validators.NewClientValidator(),
		logger:           logger,
	}
}

func (s *clientService) GetClient(ctx context.Context, dni string) (models.Client, error) {
	if err := s.validator.Validate(ctx, models.Client{DNI: dni}, validators.FieldDNI); err != nil {
		return models.Client{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	client, err := s.clientRepository.GetClient(ctx, dni)
	if err != nil {
		return models.Client{}, fmt.Errorf("error getting client: %w", err)
	}
	return client, nil
}

func (s *clientService) ListClients(ctx context.Context) ([]models.Client, error) {
	clients, err := s.clientRepository.ListClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing clients: %w", err)
	}
	return clients, nil
}

func (s *clientService) CreateClient(ctx context.Context, client models.Client) (models.Client, error) {
	log := logger.FromContext(ctx)

	client = normalizeClient(client)
	if err := s.validator.Validate(ctx, client); err != nil {
		log.Warn().Err(err).Str("func", "*clientService.CreateClient").Msg("invalid client")
		return models.Client{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	created, err := s.clientRepository.CreateClient(ctx, client)
	if err != nil {
		return models.Client{}, fmt.Errorf("error creating client: %w", err)
	}
	return created, nil
}

func (s *clientService) UpdateClient(ctx context.Context, client models.Client) (models.Client, error) {
	log := logger.FromContext(ctx)

	client = normalizeClient(client)
	if err := s.validator.Validate(ctx, client); err != nil {
		log.Warn().Err(err).Str("func", "*clientService.UpdateClient").Msg("invalid client")
		return models.Client{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	updated, err := s.clientRepository.UpdateClient(ctx, client)
	if err != nil {
		return models.Client{}, fmt.Errorf("error updating client: %w", err)
	}
	return updated, nil
}

func normalizeClient(c models.Client) models.Client {
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.LastName = strings.TrimSpace(c.LastName)
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Address = strings.TrimSpace(c.Address)
	c.CreatedAt = nil
	c.UpdatedAt = nil
	return c
}
