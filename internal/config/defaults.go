// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "time"

// Session codec names.
const (
	CodecJWT          = "jwt"
	CodecSecureCookie = "securecookie"
)

// SameSite policy names.
const (
	SameSiteNone   = "none"
	SameSiteLax    = "lax"
	SameSiteStrict = "strict"
)

const (
	DefaultCookieName  = "AuthCookie"
	DefaultLoginPath   = "/auth/login"
	DefaultIssuer      = "biodigestor-api"
	DefaultDuration    = 14 * 24 * time.Hour
	DefaultHTTPAddress = "localhost:8080"
	DefaultVersion     = "dev"
	DefaultElevated    = "admin"
)

// DefaultAllowedOrigins are the front-end origins allowed when none are
// configured.
var DefaultAllowedOrigins = []string{
	"http://localhost:4200",
	"https://biodigestor-app.web.app",
	"https://biodigestor-app.firebaseapp.com",
}

// applyDefaults fills every field that no source has set.
func (cfg *StructuredConfig) applyDefaults() {
	if cfg.App.Version == "" {
		cfg.App.Version = DefaultVersion
	}

	s := &cfg.Session
	if s.CookieName == "" {
		s.CookieName = DefaultCookieName
	}
	if s.Codec == "" {
		s.Codec = CodecJWT
	}
	if s.Issuer == "" {
		s.Issuer = DefaultIssuer
	}
	if s.Duration == 0 {
		s.Duration = DefaultDuration
	}
	if s.SameSite == "" {
		s.SameSite = SameSiteNone
	}
	if s.LoginPath == "" {
		s.LoginPath = DefaultLoginPath
	}
	if len(s.ElevatedRoles) == 0 {
		s.ElevatedRoles = []string{DefaultElevated}
	}

	if cfg.Server.HTTPAddress == "" {
		cfg.Server.HTTPAddress = DefaultHTTPAddress
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = append([]string(nil), DefaultAllowedOrigins...)
	}
}
