// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/biodigestor-api/models"
)

// psql builds statements with PostgreSQL $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var clientColumns = []string{
	"dni",
	"first_name",
	"last_name",
	"email",
	"phone",
	"address",
	"created_at",
	"updated_at",
}

// buildFindAccountByUsernameQuery selects the account with its roles
// folded into one comma separated column.
func buildFindAccountByUsernameQuery(username string) (string, []any, error) {
	query, args, err := psql.
		Select(
			"a.account_id",
			"a.username",
			"a.dni",
			"a.password_hash",
			"a.created_at",
			"COALESCE(string_agg(r.role, ',' ORDER BY r.role), '') AS roles",
		).
		From("accounts a").
		LeftJoin("account_roles r ON r.account_id = a.account_id").
		Where(sq.Eq{"a.username": username}).
		GroupBy("a.account_id").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildGetClientQuery(dni string) (string, []any, error) {
	query, args, err := psql.
		Select(clientColumns...).
		From("clients").
		Where(sq.Eq{"dni": dni}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildListClientsQuery() (string, []any, error) {
	query, args, err := psql.
		Select(clientColumns...).
		From("clients").
		OrderBy("last_name", "first_name", "dni").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildCreateClientQuery(client models.Client) (string, []any, error) {
	query, args, err := psql.
		Insert("clients").
		Columns("dni", "first_name", "last_name", "email", "phone", "address").
		Values(client.DNI, client.FirstName, client.LastName, client.Email, client.Phone, client.Address).
		Suffix("RETURNING " + strings.Join(clientColumns, ", ")).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildUpdateClientQuery(client models.Client) (string, []any, error) {
	query, args, err := psql.
		Update("clients").
		Set("first_name", client.FirstName).
		Set("last_name", client.LastName).
		Set("email", client.Email).
		Set("phone", client.Phone).
		Set("address", client.Address).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"dni": client.DNI}).
		Suffix("RETURNING " + strings.Join(clientColumns, ", ")).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}
