// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"fmt"
	"net/mail"
	"unicode/utf8"

	"github.com/MKhiriev/biodigestor-api/internal/auth"
	"github.com/MKhiriev/biodigestor-api/models"
)

// Field name constants used to restrict validation to a subset of fields.
const (
	FieldDNI       = "dni"
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
	FieldEmail     = "email"
	FieldPhone     = "phone"
	FieldAddress   = "address"

	FieldUsername = "username"
	FieldPassword = "password"
)

// maxFieldLength bounds free-text client fields, in runes.
const maxFieldLength = 255

// ClientValidator checks client records and login credentials.
type ClientValidator struct {
}

func NewClientValidator() Validator {
	return &ClientValidator{}
}

func (v *ClientValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Client:
		return v.validateClient(ctx, value, fields...)
	case *models.Client:
		return v.validateClient(ctx, *value, fields...)

	case models.Credentials:
		return v.validateCredentials(ctx, value, fields...)
	case *models.Credentials:
		return v.validateCredentials(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *ClientValidator) validateClient(ctx context.Context, client models.Client, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldDNI, FieldFirstName, FieldLastName, FieldEmail, FieldPhone, FieldAddress}
	}

	for _, f := range fields {
		switch f {
		case FieldDNI:
			if !auth.ValidDNI(client.DNI) {
				return auth.ErrInvalidDNI
			}
		case FieldFirstName:
			if client.FirstName == "" {
				return ErrEmptyFirstName
			}
			if utf8.RuneCountInString(client.FirstName) > maxFieldLength {
				return fmt.Errorf("%w: %s", ErrFieldTooLong, f)
			}
		case FieldLastName:
			if client.LastName == "" {
				return ErrEmptyLastName
			}
			if utf8.RuneCountInString(client.LastName) > maxFieldLength {
				return fmt.Errorf("%w: %s", ErrFieldTooLong, f)
			}
		case FieldEmail:
			if client.Email == "" {
				continue
			}
			address, err := mail.ParseAddress(client.Email)
			if err != nil || address.Address != client.Email {
				return ErrInvalidEmail
			}
		case FieldPhone:
			if !isValidPhone(client.Phone) {
				return ErrInvalidPhone
			}
		case FieldAddress:
			if utf8.RuneCountInString(client.Address) > maxFieldLength {
				return fmt.Errorf("%w: %s", ErrFieldTooLong, f)
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *ClientValidator) validateCredentials(ctx context.Context, creds models.Credentials, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUsername, FieldPassword}
	}

	for _, f := range fields {
		switch f {
		case FieldUsername:
			if creds.Username == "" {
				return ErrEmptyUsername
			}
		case FieldPassword:
			if creds.Password == "" {
				return ErrEmptyPassword
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// isValidPhone accepts an empty value or digits with an optional leading
// plus and single spaces or dashes between groups.
func isValidPhone(phone string) bool {
	if phone == "" {
		return true
	}
	if len(phone) > 32 {
		return false
	}

	digits := 0
	for i := 0; i < len(phone); i++ {
		c := phone[i]
		switch {
		case c >= '0' && c <= '9':
			digits++
		case c == '+' && i == 0:
		case (c == ' ' || c == '-') && i > 0 && phone[i-1] >= '0' && phone[i-1] <= '9':
		default:
			return false
		}
	}
	return digits >= 6
}
