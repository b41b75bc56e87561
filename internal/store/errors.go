// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrAccountNotFound is returned when no account has the requested
	// username.
	ErrAccountNotFound = errors.New("no account was found")

	// ErrClientNotFound is returned when no client record has the requested
	// DNI.
	ErrClientNotFound = errors.New("client was not found")

	// ErrClientAlreadyExists is returned when a client with the same DNI is
	// already stored.
	ErrClientAlreadyExists = errors.New("client already exists")

	// ErrStorageUnavailable marks a transient backend failure: a lost
	// connection, a rolled back transaction or an unreachable Redis.
	ErrStorageUnavailable = errors.New("storage is unavailable")
)

// Low-level database operation errors.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrScanningRow is returned when scanning a single result row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning during multi-row iteration
	// fails.
	ErrScanningRows = errors.New("failed to scan rows")

	// ErrUnexpectedRedisReply is returned when a Redis script replies with a
	// shape the caller does not understand.
	ErrUnexpectedRedisReply = errors.New("unexpected redis reply")
)
