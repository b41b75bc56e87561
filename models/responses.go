// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// ErrorResponse is the body of every JSON error response.
type ErrorResponse struct {
	// Error is a short machine-readable error code, e.g. "forbidden".
	Error string `json:"error"`

	// Reason narrows Error down when the client can act on it, e.g.
	// "mismatch" or "missing_reference" on a 403.
	Reason string `json:"reason,omitempty"`
}

// PrincipalResponse describes the authenticated caller on GET /auth/me.
type PrincipalResponse struct {
	IdentityID string    `json:"identity_id"`
	DNI        string    `json:"dni"`
	Roles      []string  `json:"roles"`
	IssuedAt   time.Time `json:"issued_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// VersionResponse is returned by GET /api/version.
type VersionResponse struct {
	Version     string `json:"version"`
	BuildDate   string `json:"build_date,omitempty"`
	BuildCommit string `json:"build_commit,omitempty"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}
