// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// jwtCodec stores the session as an HS256-signed JWT.
type jwtCodec struct {
	signKey []byte
	issuer  string
	parser  *jwt.Parser
}

func newJWTCodec(signKey []byte, issuer string, now func() time.Time) (*jwtCodec, error) {
	if len(signKey) == 0 {
		return nil, fmt.Errorf("%w: empty sign key", ErrInvalidCodecConfig)
	}

	return &jwtCodec{
		signKey: signKey,
		issuer:  issuer,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(issuer),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
			jwt.WithTimeFunc(now),
		),
	}, nil
}

func (c *jwtCodec) Encode(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(c.signKey)
	if err != nil {
		return "", fmt.Errorf("error signing session token: %w", err)
	}
	return signed, nil
}

func (c *jwtCodec) Decode(value string) (Claims, error) {
	var claims Claims
	_, err := c.parser.ParseWithClaims(value, &claims, func(token *jwt.Token) (any, error) {
		return c.signKey, nil
	})
	switch {
	case err == nil:
		return claims, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return Claims{}, fmt.Errorf("%w: %w", ErrExpired, err)
	default:
		return Claims{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
}
