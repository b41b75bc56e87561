// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/MKhiriev/biodigestor-api/internal/auth"
)

// MinSignKeyLength is the shortest accepted session signing key, in bytes.
const MinSignKeyLength = 32

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup. Every violation is
// reported, joined into one error.
func (cfg *StructuredConfig) validate() error {
	return errors.Join(
		cfg.Session.validate(),
		cfg.Storage.validate(),
		cfg.Server.validate(),
	)
}

func (s Session) validate() error {
	var errs []error

	if s.CookieName == "" {
		errs = append(errs, errors.New("cookie name is empty"))
	}
	if len(s.SignKey) < MinSignKeyLength {
		errs = append(errs, fmt.Errorf("sign key must be at least %d bytes", MinSignKeyLength))
	}

	switch s.Codec {
	case CodecJWT:
	case CodecSecureCookie:
		switch len(s.EncryptionKey) {
		case 16, 24, 32:
		default:
			errs = append(errs, errors.New("encryption key must be 16, 24 or 32 bytes for the securecookie codec"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown codec %q", s.Codec))
	}

	if s.Duration <= 0 {
		errs = append(errs, errors.New("duration must be positive"))
	}

	switch strings.ToLower(s.SameSite) {
	case SameSiteNone, SameSiteLax, SameSiteStrict:
	default:
		errs = append(errs, fmt.Errorf("unknown same-site policy %q", s.SameSite))
	}

	if !strings.HasPrefix(s.LoginPath, "/") || strings.HasPrefix(s.LoginPath, "//") {
		errs = append(errs, fmt.Errorf("login path %q must be an absolute local path", s.LoginPath))
	}

	if _, err := auth.ParseSources(s.DNISources); err != nil {
		errs = append(errs, err)
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidSessionConfigs, errors.Join(errs...))
}

func (s Storage) validate() error {
	if s.DB.DSN == "" {
		return fmt.Errorf("%w: database dsn is empty", ErrInvalidStorageConfigs)
	}
	if s.Redis.URL != "" {
		if _, err := url.Parse(s.Redis.URL); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidStorageConfigs, err)
		}
	}
	return nil
}

func (s Server) validate() error {
	if s.HTTPAddress == "" {
		return fmt.Errorf("%w: http address is empty", ErrInvalidServerConfigs)
	}
	if s.RequestTimeout < 0 || s.HSTSMaxAge < 0 {
		return fmt.Errorf("%w: durations must not be negative", ErrInvalidServerConfigs)
	}
	for _, origin := range s.AllowedOrigins {
		if origin == "*" {
			return fmt.Errorf("%w: wildcard origin cannot be used with credentials", ErrInvalidServerConfigs)
		}
	}
	if _, err := s.TrustedProxyPrefixes(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidServerConfigs, err)
	}
	return nil
}
