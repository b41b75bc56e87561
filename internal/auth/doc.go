// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package auth holds the transport-independent part of request
// authorization: the authenticated [Principal], the ownership
// [Decision] and the [ReferenceExtractor] that finds which DNI a request
// targets.
//
// Everything here is a pure function of its inputs. The HTTP middleware in
// internal/handler/http composes these pieces with the session store into
// the request pipeline.
package auth
