// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/MKhiriev/biodigestor-api/internal/auth"
	"github.com/MKhiriev/biodigestor-api/internal/logger"
	"github.com/MKhiriev/biodigestor-api/internal/metrics"
	"github.com/MKhiriev/biodigestor-api/internal/service"
	"github.com/MKhiriev/biodigestor-api/internal/utils"
	"github.com/MKhiriev/biodigestor-api/models"
)

// login checks the credentials and sets the session cookie.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	w.Header().Set("Cache-Control", "no-store")

	var creds models.Credentials
	if err := utils.ReadJSON(r, &creds); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		writeError(w, err)
		return
	}

	account, err := h.services.AuthService.Login(ctx, creds, utils.ClientIP(r))
	if err != nil {
		var throttled *service.ThrottledError
		switch {
		case errors.As(err, &throttled):
			h.metrics.ObserveLogin(metrics.LoginThrottled)
			w.Header().Set("Retry-After", retryAfterSeconds(throttled))
		case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidDataProvided):
			h.metrics.ObserveLogin(metrics.LoginInvalid)
		default:
			log.Err(err).Msg("unexpected error occurred during login")
			h.metrics.ObserveLogin(metrics.LoginError)
		}
		writeError(w, err)
		return
	}

	principal, err := h.sessions.Issue(w, account)
	if err != nil {
		log.Err(err).Msg("issuing session failed")
		h.metrics.ObserveLogin(metrics.LoginError)
		writeError(w, err)
		return
	}

	h.metrics.ObserveLogin(metrics.LoginSuccess)
	log.Info().
		Str("identity_id", principal.IdentityID).
		Time("expires_at", principal.ExpiresAt).
		Msg("user successfully logged in")

	w.WriteHeader(http.StatusNoContent)
}

// logout revokes the current session and clears the cookie.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		log.Err(ErrNoPrincipal).Msg("logout without principal")
		writeError(w, auth.ErrNotAuthenticated)
		return
	}

	if err := h.sessions.Revoke(r.Context(), principal); err != nil {
		log.Err(err).Str("identity_id", principal.IdentityID).Msg("revoking session failed")
		writeError(w, err)
		return
	}

	h.sessions.Clear(w)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusNoContent)
}

// me returns the principal of the current session.
func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		logger.FromRequest(r).Err(ErrNoPrincipal).Msg("me without principal")
		writeError(w, auth.ErrNotAuthenticated)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	_, _ = utils.WriteJSON(w, models.PrincipalResponse{
		IdentityID: principal.IdentityID,
		DNI:        principal.DNI,
		Roles:      principal.Roles(),
		IssuedAt:   principal.IssuedAt,
		ExpiresAt:  principal.ExpiresAt,
	}, http.StatusOK)
}

// retryAfterSeconds formats the Retry-After header value, rounded up to a
// whole second.
func retryAfterSeconds(throttled *service.ThrottledError) string {
	seconds := int64(math.Ceil(throttled.RetryAfter.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	return strconv.FormatInt(seconds, 10)
}
