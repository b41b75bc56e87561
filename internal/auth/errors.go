// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package auth

import "errors"

// Principal construction errors.
var (
	// ErrInvalidDNI is returned when a DNI is not exactly [DNILength] ASCII digits.
	ErrInvalidDNI = errors.New("invalid dni")

	// ErrEmptyIdentity is returned when a principal has no identity id.
	ErrEmptyIdentity = errors.New("empty identity id")

	// ErrEmptySession is returned when a principal has no session id.
	ErrEmptySession = errors.New("empty session id")
)

// Authorization errors. [Decision.Err] returns one of these for every
// denied decision so that callers can match with [errors.Is].
var (
	// ErrMismatch means the request targets a DNI that differs from the
	// principal's own DNI.
	ErrMismatch = errors.New("resource belongs to a different dni")

	// ErrMissingReference means the request does not identify whose data
	// it accesses.
	ErrMissingReference = errors.New("request has no dni reference")

	// ErrNotAuthenticated means no principal could be established.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// Extraction errors.
var (
	// ErrUnknownSource is returned by [ParseSources] for a name that is not
	// one of route, query or body.
	ErrUnknownSource = errors.New("unknown dni source")

	// ErrDuplicateSource is returned by [ParseSources] when a source is
	// listed more than once.
	ErrDuplicateSource = errors.New("duplicate dni source")

	// ErrReadingBody is returned when the request body could not be read
	// while looking for a reference.
	ErrReadingBody = errors.New("error reading request body")
)
