// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/biodigestor-api/internal/auth"
	"github.com/MKhiriev/biodigestor-api/internal/logger"
	"github.com/MKhiriev/biodigestor-api/internal/metrics"
)

// authorize checks that the principal owns the DNI the request targets.
// It must run after authenticate and after chi has matched route
// parameters.
func (h *Handler) authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		principal, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			// Wiring error: fail closed as unauthenticated.
			log.Error().Err(ErrNoPrincipal).Str("func", "*Handler.authorize").Send()
			h.metrics.ObserveDecision(metrics.StageAuthorization, auth.OutcomeDeny.String(), string(auth.ReasonNotAuthenticated))
			h.reject(w, r, auth.Deny(auth.ReasonNotAuthenticated))
			return
		}

		reference, err := h.extractor.Extract(r)
		if err != nil {
			log.Err(err).Str("func", "*Handler.authorize").Msg("error reading ownership reference")
			h.metrics.ObserveDecision(metrics.StageAuthorization, metrics.OutcomeError, "unreadable_body")
			w.Header().Set("Cache-Control", "no-store")
			writeError(w, err)
			return
		}

		decision := auth.Decide(principal, reference, h.elevated)
		h.metrics.ObserveDecision(metrics.StageAuthorization, decision.Outcome.String(), string(decision.Reason))

		if !decision.Allowed() {
			log.Warn().
				Str("func", "*Handler.authorize").
				Str("identity_id", principal.IdentityID).
				Str("reason", string(decision.Reason)).
				Msg("ownership check denied request")
			h.reject(w, r, decision)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// confine rejects a request whose handler would act on a DNI other than the
// principal's own. The guard may have checked a reference from a different
// source than the one the handler reads, so each handler confines the DNI it
// actually uses. Elevated principals are not confined.
func (h *Handler) confine(w http.ResponseWriter, r *http.Request, dni string) bool {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		h.reject(w, r, auth.Deny(auth.ReasonNotAuthenticated))
		return false
	}

	decision := auth.Decide(principal, dni, h.elevated)
	if decision.Allowed() {
		return true
	}

	h.metrics.ObserveDecision(metrics.StageHandler, decision.Outcome.String(), string(decision.Reason))
	logger.FromRequest(r).Warn().
		Str("func", "*Handler.confine").
		Str("identity_id", principal.IdentityID).
		Str("reason", string(decision.Reason)).
		Msg("handler target differs from checked reference")
	h.reject(w, r, decision)
	return false
}
