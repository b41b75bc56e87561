// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/MKhiriev/biodigestor-api/internal/auth"
	"github.com/MKhiriev/biodigestor-api/internal/config"
	"github.com/MKhiriev/biodigestor-api/internal/utils"
	"github.com/MKhiriev/biodigestor-api/models"
)

// Revocations is the server-side list of sessions ended before their
// expiry.
type Revocations interface {
	// Revoke records sessionID as revoked until the given time.
	Revoke(ctx context.Context, sessionID string, until time.Time) error
	// IsRevoked reports whether sessionID has been revoked.
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

// Store reads and writes the session cookie.
//
// A Store is built once at startup and is safe for concurrent use: it holds
// no per-request state.
type Store struct {
	codec       Codec
	revocations Revocations

	cookieName string
	issuer     string
	duration   time.Duration
	sameSite   http.SameSite

	now   func() time.Time
	newID func() string
}

// Option customizes a Store.
type Option func(*Store)

// WithClock replaces the clock used for issuing and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the session id generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// NewStore returns a Store using codec for cookie values and revocations
// for logout. revocations may be nil, in which case no session is ever
// considered revoked and Revoke is a no-op.
func NewStore(cfg config.Session, codec Codec, revocations Revocations, opts ...Option) *Store {
	s := &Store{
		codec:       codec,
		revocations: revocations,
		cookieName:  cfg.CookieName,
		issuer:      cfg.Issuer,
		duration:    cfg.Duration,
		sameSite:    cfg.SameSiteMode(),
		now:         time.Now,
		newID:       utils.NewUUIDGenerator().Generate,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CookieName returns the name of the session cookie.
func (s *Store) CookieName() string {
	return s.cookieName
}

// ResolveRequest resolves the session cookie carried by r.
func (s *Store) ResolveRequest(r *http.Request) (auth.Principal, error) {
	cookie, err := r.Cookie(s.cookieName)
	if err != nil {
		return auth.Principal{}, ErrAbsent
	}
	return s.Resolve(r.Context(), cookie.Value)
}

// Resolve turns a cookie value into a principal.
//
// It returns [ErrAbsent] for an empty value, [ErrMalformed] when the value
// or its claims are invalid, [ErrExpired] past the expiry, [ErrRevoked] for
// a logged-out session and [ErrUnavailable] when the revocation list
// cannot be consulted. ctx bounds the revocation lookup.
func (s *Store) Resolve(ctx context.Context, value string) (auth.Principal, error) {
	if value == "" {
		return auth.Principal{}, ErrAbsent
	}

	claims, err := s.codec.Decode(value)
	if err != nil {
		if errors.Is(err, ErrExpired) || errors.Is(err, ErrMalformed) {
			return auth.Principal{}, err
		}
		return auth.Principal{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	if claims.ExpiresAt == nil {
		return auth.Principal{}, fmt.Errorf("%w: no expiry", ErrMalformed)
	}
	if !s.now().Before(claims.ExpiresAt.Time) {
		return auth.Principal{}, ErrExpired
	}
	if claims.Issuer != s.issuer {
		return auth.Principal{}, fmt.Errorf("%w: unexpected issuer %q", ErrMalformed, claims.Issuer)
	}

	principal, err := claims.principal()
	if err != nil {
		return auth.Principal{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	if s.revocations != nil {
		revoked, err := s.revocations.IsRevoked(ctx, principal.SessionID)
		if err != nil {
			return auth.Principal{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		if revoked {
			return auth.Principal{}, ErrRevoked
		}
	}

	return principal, nil
}

// Issue starts a new session for account and writes its cookie to w.
func (s *Store) Issue(w http.ResponseWriter, account models.Account) (auth.Principal, error) {
	claims := newClaims(account.IdentityID(), s.newID(), s.issuer, account.DNI, account.Roles, s.now(), s.duration)

	principal, err := claims.principal()
	if err != nil {
		return auth.Principal{}, fmt.Errorf("error issuing session: %w", err)
	}

	value, err := s.codec.Encode(claims)
	if err != nil {
		return auth.Principal{}, fmt.Errorf("error issuing session: %w", err)
	}

	http.SetCookie(w, s.cookie(value, claims.ExpiresAt.Time, int(s.duration.Seconds())))
	return principal, nil
}

// Clear writes an expired cookie with the same attributes as an issued one.
func (s *Store) Clear(w http.ResponseWriter) {
	http.SetCookie(w, s.cookie("", time.Unix(0, 0), -1))
}

// Revoke ends the principal's session server-side until its own expiry.
func (s *Store) Revoke(ctx context.Context, principal auth.Principal) error {
	if s.revocations == nil {
		return nil
	}
	if err := s.revocations.Revoke(ctx, principal.SessionID, principal.ExpiresAt); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}

func (s *Store) cookie(value string, expires time.Time, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     s.cookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		MaxAge:   maxAge,
		Secure:   true,
		HttpOnly: true,
		SameSite: s.sameSite,
	}
}
