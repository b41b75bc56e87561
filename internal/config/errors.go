// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "errors"

// Validation errors returned by [GetStructuredConfig] when required
// configuration groups are incomplete or invalid. Any of them stops the
// server before it starts listening.
var (
	// ErrInvalidSessionConfigs indicates invalid session settings
	// (for example, a short signing key or an unknown codec).
	ErrInvalidSessionConfigs = errors.New("invalid session configuration")
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, an empty DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidServerConfigs indicates invalid HTTP server settings.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
)
