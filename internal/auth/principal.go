// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package auth

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// DNILength is the number of digits of a well-formed DNI.
const DNILength = 8

// Role is a named capability carried by a principal.
type Role string

// RoleAdmin is the default elevated role.
const RoleAdmin Role = "admin"

// RoleSet is a set of role names.
type RoleSet map[Role]struct{}

// NewRoleSet builds a set from role names. Blank names are skipped and
// names are matched exactly, without case folding.
func NewRoleSet(roles ...string) RoleSet {
	set := make(RoleSet, len(roles))
	for _, role := range roles {
		role = strings.TrimSpace(role)
		if role == "" {
			continue
		}
		set[Role(role)] = struct{}{}
	}
	return set
}

// Has reports whether role is in the set.
func (s RoleSet) Has(role Role) bool {
	_, ok := s[role]
	return ok
}

// Intersects reports whether at least one role is in both sets.
func (s RoleSet) Intersects(other RoleSet) bool {
	small, large := s, other
	if len(small) > len(large) {
		small, large = large, small
	}
	for role := range small {
		if large.Has(role) {
			return true
		}
	}
	return false
}

// Strings returns the role names sorted alphabetically.
func (s RoleSet) Strings() []string {
	names := make([]string, 0, len(s))
	for role := range s {
		names = append(names, string(role))
	}
	slices.Sort(names)
	return names
}

// Principal is the identity established from a valid session cookie.
//
// A Principal is only built by [NewPrincipal], so its DNI is always well
// formed. It is a value type: the role set is private and copied on the way
// in and out, so nothing downstream can change the claims of a request.
type Principal struct {
	IdentityID string
	SessionID  string
	DNI        string
	IssuedAt   time.Time
	ExpiresAt  time.Time

	roles RoleSet
}

// NewPrincipal validates the claims and returns a principal.
func NewPrincipal(identityID, sessionID, dni string, roles []string, issuedAt, expiresAt time.Time) (Principal, error) {
	if identityID == "" {
		return Principal{}, ErrEmptyIdentity
	}
	if sessionID == "" {
		return Principal{}, ErrEmptySession
	}
	if !ValidDNI(dni) {
		return Principal{}, fmt.Errorf("%w: %q", ErrInvalidDNI, dni)
	}

	return Principal{
		IdentityID: identityID,
		SessionID:  sessionID,
		DNI:        dni,
		IssuedAt:   issuedAt,
		ExpiresAt:  expiresAt,
		roles:      NewRoleSet(roles...),
	}, nil
}

// Roles returns the principal's role names, sorted.
func (p Principal) Roles() []string {
	return p.roles.Strings()
}

// HasRole reports whether the principal carries role.
func (p Principal) HasRole(role Role) bool {
	return p.roles.Has(role)
}

// HasAnyRole reports whether the principal carries at least one role of set.
func (p Principal) HasAnyRole(set RoleSet) bool {
	return p.roles.Intersects(set)
}

// ValidDNI reports whether dni is exactly [DNILength] ASCII digits.
func ValidDNI(dni string) bool {
	if len(dni) != DNILength {
		return false
	}
	for i := 0; i < len(dni); i++ {
		if dni[i] < '0' || dni[i] > '9' {
			return false
		}
	}
	return true
}
