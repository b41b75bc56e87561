// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"mime"
	"net/http"
	"strings"

	"github.com/MKhiriev/biodigestor-api/internal/auth"
	"github.com/MKhiriev/biodigestor-api/internal/logger"
	"github.com/MKhiriev/biodigestor-api/internal/metrics"
	"github.com/MKhiriev/biodigestor-api/internal/session"
)

// authenticate resolves the session cookie into a principal and stores it
// in the request context. Requests without a usable session are rejected
// before any handler runs.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		principal, err := h.sessions.ResolveRequest(r)
		if err != nil {
			if errors.Is(err, session.ErrUnavailable) {
				log.Err(err).Str("func", "*Handler.authenticate").Msg("session store unavailable")
				h.metrics.ObserveDecision(metrics.StageAuthentication, metrics.OutcomeError, "unavailable")
				w.Header().Set("Cache-Control", "no-store")
				writeError(w, err)
				return
			}

			decision := notAuthenticated(r)
			log.Warn().
				Str("func", "*Handler.authenticate").
				Str("failure", sessionFailure(err)).
				Str("outcome", decision.Outcome.String()).
				Msg("request not authenticated")
			h.metrics.ObserveDecision(metrics.StageAuthentication, decision.Outcome.String(), sessionFailure(err))
			h.reject(w, r, decision)
			return
		}

		h.metrics.ObserveDecision(metrics.StageAuthentication, auth.OutcomeAllow.String(), "")

		ctx := auth.WithPrincipal(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionFailure returns the log and metric label of a resolution error.
func sessionFailure(err error) string {
	switch {
	case errors.Is(err, session.ErrAbsent):
		return "absent"
	case errors.Is(err, session.ErrMalformed):
		return "malformed"
	case errors.Is(err, session.ErrExpired):
		return "expired"
	case errors.Is(err, session.ErrRevoked):
		return "revoked"
	default:
		return "unknown"
	}
}

// acceptedMediaTypes returns the media types listed in the Accept header
// without their parameters.
func acceptedMediaTypes(r *http.Request) []string {
	var types []string
	for _, header := range r.Header.Values("Accept") {
		for _, part := range strings.Split(header, ",") {
			mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(part))
			if err != nil {
				continue
			}
			types = append(types, mediaType)
		}
	}
	return types
}
