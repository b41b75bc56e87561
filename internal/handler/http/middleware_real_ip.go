// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net"
	"net/http"
	"net/netip"
	"slices"

	"github.com/go-chi/chi/v5/middleware"
)

// withRealIP applies chi's RealIP only to requests whose peer is a trusted
// proxy. Any other peer keeps its socket address, so a client cannot pick
// its own throttling key by sending forwarding headers.
func (h *Handler) withRealIP(next http.Handler) http.Handler {
	forwarded := middleware.RealIP(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.fromTrustedProxy(r) {
			forwarded.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) fromTrustedProxy(r *http.Request) bool {
	if len(h.trustedProxies) == 0 {
		return false
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	addr = addr.Unmap()

	return slices.ContainsFunc(h.trustedProxies, func(p netip.Prefix) bool {
		return p.Contains(addr)
	})
}
