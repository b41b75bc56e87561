// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package session turns the session cookie into an [auth.Principal] and
// back.
//
// A [Codec] serializes [Claims] into a tamper-proof cookie value: either a
// signed HS256 JWT or an encrypted and authenticated gorilla/securecookie
// value. The [Store] owns the cookie attributes, checks expiry against its
// own clock and consults a revocation list before trusting a session.
//
// Every failure to establish a principal is one of [ErrAbsent],
// [ErrMalformed], [ErrExpired] or [ErrRevoked]. [ErrUnavailable] means the
// revocation list could not be consulted.
package session
