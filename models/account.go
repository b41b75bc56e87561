// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"strconv"
	"time"
)

// Account is a login identity of the API. Each account is bound to exactly
// one DNI, the DNI whose client records it may access.
type Account struct {
	// AccountID is the internal unique identifier of the account.
	AccountID int64 `json:"-"`

	// Username is the unique login name.
	Username string `json:"username"`

	// DNI is the national identity number the account owns.
	DNI string `json:"dni"`

	// PasswordHash is the bcrypt hash of the password. Never serialized.
	PasswordHash string `json:"-"`

	// Roles are the role names granted to the account.
	Roles []string `json:"roles"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at"`
}

// IdentityID returns the account id in the form carried by session
// tokens.
func (a Account) IdentityID() string {
	return strconv.FormatInt(a.AccountID, 10)
}

// TableName returns the name of the database table
// associated with the Account model.
func (a Account) TableName() string {
	return "accounts"
}

// Credentials is the body of a login request.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
