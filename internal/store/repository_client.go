// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"

	"github.com/MKhiriev/biodigestor-api/internal/logger"
	"github.com/MKhiriev/biodigestor-api/models"
)

// clientRepository is the PostgreSQL-backed implementation of
// [ClientRepository] over the "clients" table.
type clientRepository struct {
	*DB
	logger *logger.Logger
}

// NewClientRepository constructs a [ClientRepository] backed by db.
func NewClientRepository(db *DB, logger *logger.Logger) ClientRepository {
	logger.Debug().Msg("creating client repository")
	return &clientRepository{
		DB:     db,
		logger: logger,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (models.Client, error) {
	var c models.Client
	err := row.Scan(&c.DNI, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Address, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// GetClient returns the client with the given DNI or [ErrClientNotFound].
func (r *clientRepository) GetClient(ctx context.Context, dni string) (models.Client, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildGetClientQuery(dni)
	if err != nil {
		log.Err(err).Str("func", "*clientRepository.GetClient").Msg("failed to build query")
		return models.Client{}, err
	}

	client, err := scanClient(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Client{}, ErrClientNotFound
		}
		log.Err(err).Str("func", "*clientRepository.GetClient").Msg("error getting client")
		return models.Client{}, fmt.Errorf("%w: %w", ErrScanningRow, r.DB.wrapError(err))
	}

	return client, nil
}

// ListClients returns every client ordered by name.
func (r *clientRepository) ListClients(ctx context.Context) ([]models.Client, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListClientsQuery()
	if err != nil {
		log.Err(err).Str("func", "*clientRepository.ListClients").Msg("failed to build query")
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*clientRepository.ListClients").Msg("failed to execute query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, r.DB.wrapError(err))
	}
	defer rows.Close()

	clients := make([]models.Client, 0)
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			log.Err(err).Str("func", "*clientRepository.ListClients").Int("row", len(clients)).Msg("failed to scan row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		clients = append(clients, client)
	}
	if err = rows.Err(); err != nil {
		log.Err(err).Str("func", "*clientRepository.ListClients").Msg("error iterating rows")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, r.DB.wrapError(err))
	}

	return clients, nil
}

// CreateClient inserts client and returns the stored row.
//
// A unique_violation on the DNI primary key → [ErrClientAlreadyExists].
func (r *clientRepository) CreateClient(ctx context.Context, client models.Client) (models.Client, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildCreateClientQuery(client)
	if err != nil {
		log.Err(err).Str("func", "*clientRepository.CreateClient").Msg("failed to build query")
		return models.Client{}, err
	}

	created, err := scanClient(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		log.Err(err).Str("func", "*clientRepository.CreateClient").Msg("error creating client")
		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return models.Client{}, ErrClientAlreadyExists
		default:
			return models.Client{}, r.DB.wrapError(err)
		}
	}

	return created, nil
}

// UpdateClient overwrites the mutable fields of the client identified by
// client.DNI and returns the stored row, or [ErrClientNotFound].
func (r *clientRepository) UpdateClient(ctx context.Context, client models.Client) (models.Client, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateClientQuery(client)
	if err != nil {
		log.Err(err).Str("func", "*clientRepository.UpdateClient").Msg("failed to build query")
		return models.Client{}, err
	}

	updated, err := scanClient(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Client{}, ErrClientNotFound
		}
		log.Err(err).Str("func", "*clientRepository.UpdateClient").Msg("error updating client")
		return models.Client{}, r.DB.wrapError(err)
	}

	return updated, nil
}
