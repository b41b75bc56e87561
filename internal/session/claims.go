// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MKhiriev/biodigestor-api/internal/auth"
)

// Claims is the content of a session cookie.
//
// The registered claims carry the identity id (sub), session id (jti),
// issuer (iss), issue time (iat) and expiry (exp).
type Claims struct {
	jwt.RegisteredClaims

	DNI   string   `json:"dni"`
	Roles []string `json:"roles,omitempty"`
}

// newClaims builds the claims of a fresh session.
func newClaims(identityID, sessionID, issuer, dni string, roles []string, issuedAt time.Time, duration time.Duration) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identityID,
			ID:        sessionID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(duration)),
		},
		DNI:   dni,
		Roles: roles,
	}
}

// principal validates the claims and converts them into a principal.
func (c Claims) principal() (auth.Principal, error) {
	if c.ExpiresAt == nil || c.IssuedAt == nil {
		return auth.Principal{}, ErrMalformed
	}
	return auth.NewPrincipal(c.Subject, c.ID, c.DNI, c.Roles, c.IssuedAt.UTC(), c.ExpiresAt.UTC())
}
