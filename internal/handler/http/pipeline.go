// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/biodigestor-api/internal/auth"
	"github.com/MKhiriev/biodigestor-api/internal/utils"
	"github.com/MKhiriev/biodigestor-api/models"
)

// returnURLParam carries the original request URI on the login redirect.
const returnURLParam = "ReturnUrl"

// authenticated registers routes that only need a principal.
func (h *Handler) authenticated(r chi.Router, routes func(r chi.Router)) {
	r.Group(func(r chi.Router) {
		r.Use(h.authenticate)
		routes(r)
	})
}

// owned registers routes that need a principal allowed to access the DNI
// the request targets. The guard runs per route, after chi has matched the
// route parameters.
func (h *Handler) owned(r chi.Router, routes func(r chi.Router)) {
	r.Group(func(r chi.Router) {
		r.Use(h.authenticate)
		routes(r.With(h.authorize))
	})
}

// reject writes the response for a non-allow decision. Responses depend on
// the decision only, never on why a session failed to resolve.
func (h *Handler) reject(w http.ResponseWriter, r *http.Request, decision auth.Decision) {
	w.Header().Set("Cache-Control", "no-store")

	switch {
	case decision.Outcome == auth.OutcomeRedirectToLogin:
		http.Redirect(w, r, h.loginRedirectURL(r), http.StatusFound)
	case decision.Reason == auth.ReasonNotAuthenticated:
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
	default:
		_, _ = utils.WriteJSON(w, models.ErrorResponse{
			Error:  errorCode(http.StatusForbidden),
			Reason: string(decision.Reason),
		}, http.StatusForbidden)
	}
}

func (h *Handler) loginRedirectURL(r *http.Request) string {
	query := url.Values{}
	query.Set(returnURLParam, r.URL.RequestURI())
	return h.loginPath + "?" + query.Encode()
}

// notAuthenticated picks the decision for a request without a valid
// session: interactive clients are sent to the login page, everything
// else gets 401.
func notAuthenticated(r *http.Request) auth.Decision {
	if isInteractive(r) {
		return auth.RedirectToLogin()
	}
	return auth.Deny(auth.ReasonNotAuthenticated)
}

// isInteractive reports whether the client is a browser navigating to the
// URL, as opposed to a script calling the API.
func isInteractive(r *http.Request) bool {
	if r.Header.Get("X-Requested-With") == "XMLHttpRequest" {
		return false
	}
	for _, mediaType := range acceptedMediaTypes(r) {
		if mediaType == "text/html" || mediaType == "application/xhtml+xml" {
			return true
		}
	}
	return false
}
