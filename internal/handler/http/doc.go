// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package http implements the REST transport of the API.
//
// Every request passes through a fixed middleware chain built once in
// [Handler.Init]: panic recovery, trace id, access log, security headers and
// CORS. Protected routes then run the authentication gate, which resolves
// the session cookie into an [auth.Principal], and the ownership guard,
// which compares the DNI the request targets with the principal's own.
// Neither stage lets a rejected request reach its handler.
package http
