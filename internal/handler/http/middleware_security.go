// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/cors"
)

// withSecurityHeaders sets headers that apply to every response. HSTS is
// only sent when a max-age is configured.
func (h *Handler) withSecurityHeaders(next http.Handler) http.Handler {
	var hsts string
	if maxAge := h.server.HSTSMaxAge; maxAge > 0 {
		hsts = fmt.Sprintf("max-age=%d; includeSubDomains", int64(maxAge/time.Second))
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hsts != "" {
			w.Header().Set("Strict-Transport-Security", hsts)
		}
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

// withCORS allows the configured origins to call the API with cookies.
func (h *Handler) withCORS() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   h.server.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With", traceIDHeader},
		ExposedHeaders:   []string{traceIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
