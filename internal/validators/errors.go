// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrEmptyFirstName = errors.New("first name is required")
	ErrEmptyLastName  = errors.New("last name is required")
	ErrInvalidEmail   = errors.New("invalid email")
	ErrInvalidPhone   = errors.New("invalid phone")
	ErrFieldTooLong   = errors.New("field is too long")
	ErrEmptyUsername  = errors.New("username is required")
	ErrEmptyPassword  = errors.New("password is required")
)
