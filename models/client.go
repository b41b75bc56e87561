// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Client is a biodigestor customer record, keyed by DNI.
type Client struct {
	// DNI is the national identity number; exactly 8 digits.
	DNI string `json:"dni"`

	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`

	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// TableName returns the name of the database table
// associated with the Client model.
func (c Client) TableName() string {
	return "clients"
}
