// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/MKhiriev/biodigestor-api/internal/auth"
	"github.com/MKhiriev/biodigestor-api/internal/service"
	"github.com/MKhiriev/biodigestor-api/internal/session"
	"github.com/MKhiriev/biodigestor-api/internal/store"
	"github.com/MKhiriev/biodigestor-api/internal/utils"
	"github.com/MKhiriev/biodigestor-api/models"
)

// errorStatuses is checked in order; the first sentinel found in the chain
// decides the status. Errors that wrap several sentinels list the more
// specific one first.
var errorStatuses = []struct {
	err    error
	status int
}{
	{service.ErrTooManyAttempts, http.StatusTooManyRequests},
	{service.ErrInvalidCredentials, http.StatusUnauthorized},
	{service.ErrInvalidDataProvided, http.StatusBadRequest},
	{utils.ErrInvalidJSON, http.StatusBadRequest},
	{auth.ErrReadingBody, http.StatusBadRequest},

	{auth.ErrNotAuthenticated, http.StatusUnauthorized},
	{auth.ErrMismatch, http.StatusForbidden},
	{auth.ErrMissingReference, http.StatusForbidden},

	{store.ErrClientNotFound, http.StatusNotFound},
	{store.ErrClientAlreadyExists, http.StatusConflict},

	{session.ErrUnavailable, http.StatusServiceUnavailable},
	{store.ErrStorageUnavailable, http.StatusServiceUnavailable},
}

func statusFromError(err error) int {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// writeError writes the JSON error body for err. Only the status code is
// derived from err; its text never reaches the client.
func writeError(w http.ResponseWriter, err error) {
	status := statusFromError(err)
	_, _ = utils.WriteJSON(w, models.ErrorResponse{Error: errorCode(status)}, status)
}

// errorCode turns a status into a snake_case code, e.g. 404 into "not_found".
func errorCode(status int) string {
	return strings.ReplaceAll(strings.ToLower(http.StatusText(status)), " ", "_")
}
