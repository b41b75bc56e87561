// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package session

import (
	"fmt"
	"time"

	"github.com/MKhiriev/biodigestor-api/internal/config"
)

// Codec converts claims to and from a cookie value.
//
// Decode returns [ErrExpired] for values the codec itself considers
// expired and [ErrMalformed] for every other rejection.
type Codec interface {
	Encode(claims Claims) (string, error)
	Decode(value string) (Claims, error)
}

// NewCodec builds the codec selected by cfg.Codec. The key material is
// exercised once with a sample value so that unusable keys stop startup
// instead of failing the first login.
func NewCodec(cfg config.Session) (Codec, error) {
	var (
		codec Codec
		err   error
	)

	switch cfg.Codec {
	case config.CodecJWT, "":
		codec, err = newJWTCodec([]byte(cfg.SignKey), cfg.Issuer, time.Now)
	case config.CodecSecureCookie:
		codec, err = newSecureCookieCodec(cfg.CookieName, []byte(cfg.SignKey), []byte(cfg.EncryptionKey), cfg.Duration)
	default:
		err = fmt.Errorf("%w: unknown codec %q", ErrInvalidCodecConfig, cfg.Codec)
	}
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sample := newClaims("sample", "sample", cfg.Issuer, "00000000", nil, now, time.Minute)
	value, err := codec.Encode(sample)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCodecConfig, err)
	}
	if _, err := codec.Decode(value); err != nil {
		return nil, fmt.Errorf("%w: sample value does not decode: %w", ErrInvalidCodecConfig, err)
	}

	return codec, nil
}
