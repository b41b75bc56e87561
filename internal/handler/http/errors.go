// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

var (
	// ErrNoPrincipal is returned when a handler behind the gate finds no
	// principal in its context, which means the route was registered
	// outside the protected group.
	ErrNoPrincipal = errors.New("no principal in request context")
)
