// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Init builds the router. The middleware order is fixed here and is the
// same for every route.
func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(
		middleware.Recoverer,
		h.withRealIP,
		h.withTraceID,
		h.withLogging,
		h.withSecurityHeaders,
		h.withCORS(),
	)
	if h.server.RequestTimeout > 0 {
		router.Use(middleware.Timeout(h.server.RequestTimeout))
	}

	router.NotFound(notFound)
	router.MethodNotAllowed(notFound)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Get("/health", h.health)
		r.Get("/api/version", h.getServerVersion)
		r.Post("/auth/login", h.login)
		if h.server.MetricsEnabled {
			r.Method(http.MethodGet, "/metrics", h.metrics.Handler())
		}
	})

	h.authenticated(router, func(r chi.Router) {
		r.Post("/auth/logout", h.logout)
		r.Get("/auth/me", h.me)
	})

	h.owned(router, func(r chi.Router) {
		r.Get("/api/clients", h.listClients)
		r.Post("/api/clients", h.createClient)
		r.Get("/api/clients/{dni}", h.getClient)
		r.Put("/api/clients/{dni}", h.updateClient)
	})

	return router
}
