// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/biodigestor-api/internal/utils"
	"github.com/MKhiriev/biodigestor-api/models"
)

// notFound answers unknown paths. It is also registered as the
// MethodNotAllowed handler, so a wrong method on an existing route looks
// the same as a route that does not exist.
func notFound(w http.ResponseWriter, r *http.Request) {
	_, _ = utils.WriteJSON(w, models.ErrorResponse{Error: errorCode(http.StatusNotFound)}, http.StatusNotFound)
}
