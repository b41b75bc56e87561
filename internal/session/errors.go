// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package session

import "errors"

// Resolution errors. Any of the first four means "not authenticated"; the
// distinction is for logs and metrics only and is never sent to clients.
var (
	// ErrAbsent is returned when the request carries no session cookie.
	ErrAbsent = errors.New("session cookie is absent")

	// ErrMalformed is returned when the cookie fails integrity checks or
	// its claims do not form a valid principal.
	ErrMalformed = errors.New("session cookie is malformed")

	// ErrExpired is returned when the session is past its expiry.
	ErrExpired = errors.New("session has expired")

	// ErrRevoked is returned for sessions ended by logout.
	ErrRevoked = errors.New("session has been revoked")

	// ErrUnavailable is returned when the revocation list cannot be read.
	ErrUnavailable = errors.New("session store unavailable")
)

// ErrInvalidCodecConfig is returned by [NewCodec] for key material or
// codec names it cannot use.
var ErrInvalidCodecConfig = errors.New("invalid session codec configuration")
