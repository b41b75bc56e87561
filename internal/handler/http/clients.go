// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/biodigestor-api/internal/auth"
	"github.com/MKhiriev/biodigestor-api/internal/logger"
	"github.com/MKhiriev/biodigestor-api/internal/utils"
	"github.com/MKhiriev/biodigestor-api/models"
)

// listClients serves GET /api/clients. With ?dni it returns that client;
// without it the whole list, which only elevated principals get past the
// guard for.
func (h *Handler) listClients(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	dni := r.URL.Query().Get(auth.ReferenceField)
	if !h.confine(w, r, dni) {
		return
	}

	if dni != "" {
		client, err := h.services.ClientService.GetClient(ctx, dni)
		if err != nil {
			log.Err(err).Str("dni", dni).Msg("error getting client")
			writeError(w, err)
			return
		}
		_, _ = utils.WriteJSON(w, client, http.StatusOK)
		return
	}

	clients, err := h.services.ClientService.ListClients(ctx)
	if err != nil {
		log.Err(err).Msg("error listing clients")
		writeError(w, err)
		return
	}
	_, _ = utils.WriteJSON(w, clients, http.StatusOK)
}

func (h *Handler) getClient(w http.ResponseWriter, r *http.Request) {
	dni := chi.URLParam(r, auth.ReferenceField)
	if !h.confine(w, r, dni) {
		return
	}

	client, err := h.services.ClientService.GetClient(r.Context(), dni)
	if err != nil {
		logger.FromRequest(r).Err(err).Str("dni", dni).Msg("error getting client")
		writeError(w, err)
		return
	}
	_, _ = utils.WriteJSON(w, client, http.StatusOK)
}

func (h *Handler) createClient(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var client models.Client
	if err := utils.ReadJSON(r, &client); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		writeError(w, err)
		return
	}
	if !h.confine(w, r, client.DNI) {
		return
	}

	created, err := h.services.ClientService.CreateClient(r.Context(), client)
	if err != nil {
		log.Err(err).Str("dni", client.DNI).Msg("error creating client")
		writeError(w, err)
		return
	}

	w.Header().Set("Location", "/api/clients/"+created.DNI)
	_, _ = utils.WriteJSON(w, created, http.StatusCreated)
}

// updateClient replaces the client named by the route. The route DNI
// overrides any DNI in the body.
func (h *Handler) updateClient(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var client models.Client
	if err := utils.ReadJSON(r, &client); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		writeError(w, err)
		return
	}
	client.DNI = chi.URLParam(r, auth.ReferenceField)
	if !h.confine(w, r, client.DNI) {
		return
	}

	updated, err := h.services.ClientService.UpdateClient(r.Context(), client)
	if err != nil {
		log.Err(err).Str("dni", client.DNI).Msg("error updating client")
		writeError(w, err)
		return
	}
	_, _ = utils.WriteJSON(w, updated, http.StatusOK)
}
