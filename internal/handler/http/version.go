// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/biodigestor-api/internal/logger"
	"github.com/MKhiriev/biodigestor-api/internal/utils"
	"github.com/MKhiriev/biodigestor-api/models"
)

func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	info := h.services.AppInfoService.GetAppInfo(r.Context())
	_, _ = utils.WriteJSON(w, info, http.StatusOK)
}

// health reports 503 when a storage backend does not answer.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if err := h.services.HealthService.Check(r.Context()); err != nil {
		logger.FromRequest(r).Err(err).Msg("health check failed")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = utils.WriteJSON(w, models.HealthResponse{Status: "unavailable"}, http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	_, _ = utils.WriteJSON(w, models.HealthResponse{Status: "ok"}, http.StatusOK)
}
