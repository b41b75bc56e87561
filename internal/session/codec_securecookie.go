// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
)

// maxAgeGrace lets a value outlive its exp claim in securecookie's own
// timestamp check, so the Store reports expiry with its own clock.
const maxAgeGrace = time.Minute

// secureCookieCodec stores the session as an AES-encrypted,
// HMAC-authenticated JSON value.
type secureCookieCodec struct {
	name   string
	cookie *securecookie.SecureCookie
}

func newSecureCookieCodec(name string, hashKey, blockKey []byte, duration time.Duration) (*secureCookieCodec, error) {
	if len(hashKey) == 0 {
		return nil, fmt.Errorf("%w: empty sign key", ErrInvalidCodecConfig)
	}
	switch len(blockKey) {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: encryption key must be 16, 24 or 32 bytes", ErrInvalidCodecConfig)
	}

	cookie := securecookie.New(hashKey, blockKey).
		MaxAge(int((duration + maxAgeGrace).Seconds())).
		SetSerializer(securecookie.JSONEncoder{})

	return &secureCookieCodec{name: name, cookie: cookie}, nil
}

func (c *secureCookieCodec) Encode(claims Claims) (string, error) {
	value, err := c.cookie.Encode(c.name, claims)
	if err != nil {
		return "", fmt.Errorf("error encoding session cookie: %w", err)
	}
	return value, nil
}

func (c *secureCookieCodec) Decode(value string) (Claims, error) {
	var claims Claims
	if err := c.cookie.Decode(c.name, value, &claims); err != nil {
		if strings.Contains(err.Error(), "expired timestamp") {
			return Claims{}, fmt.Errorf("%w: %w", ErrExpired, err)
		}
		return Claims{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return claims, nil
}
