// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidDataProvided   = errors.New("invalid data provided")
	ErrInvalidCredentials    = errors.New("invalid username or password")
	ErrTooManyAttempts       = errors.New("too many failed login attempts")
	ErrVersionIsNotSpecified = errors.New("app version is not specified")
)

// ThrottledError is returned by Login while the caller is locked out.
type ThrottledError struct {
	// RetryAfter is how long until the next attempt is accepted.
	RetryAfter time.Duration
}

func (e *ThrottledError) Error() string {
	return fmt.Sprintf("%s: retry after %s", ErrTooManyAttempts, e.RetryAfter)
}

func (e *ThrottledError) Unwrap() error {
	return ErrTooManyAttempts
}
