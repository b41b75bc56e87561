// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package auth

// Outcome is the control-flow result of an authorization step.
type Outcome int

const (
	// OutcomeAllow lets the request reach its handler.
	OutcomeAllow Outcome = iota
	// OutcomeDeny rejects an authenticated request with 403.
	OutcomeDeny
	// OutcomeRedirectToLogin sends an unauthenticated interactive client to
	// the login page.
	OutcomeRedirectToLogin
)

// String returns the metric/log label of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeAllow:
		return "allow"
	case OutcomeDeny:
		return "deny"
	case OutcomeRedirectToLogin:
		return "redirect_to_login"
	default:
		return "unknown"
	}
}

// Reason explains a non-allow outcome. It is written to 403 bodies, so its
// values are part of the API.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonMismatch         Reason = "mismatch"
	ReasonMissingReference Reason = "missing_reference"
	ReasonNotAuthenticated Reason = "not_authenticated"
)

// Decision is produced once per request and consumed by the pipeline to
// pick between the handler and a rejection response.
type Decision struct {
	Outcome Outcome
	Reason  Reason
}

// Allow is the decision that lets a request through.
var Allow = Decision{Outcome: OutcomeAllow}

// Deny returns a deny decision with the given reason.
func Deny(reason Reason) Decision {
	return Decision{Outcome: OutcomeDeny, Reason: reason}
}

// RedirectToLogin returns the decision for an unauthenticated interactive
// client.
func RedirectToLogin() Decision {
	return Decision{Outcome: OutcomeRedirectToLogin, Reason: ReasonNotAuthenticated}
}

// Allowed reports whether the request may proceed.
func (d Decision) Allowed() bool {
	return d.Outcome == OutcomeAllow
}

// Err maps the decision to a sentinel error, nil when allowed.
func (d Decision) Err() error {
	switch {
	case d.Allowed():
		return nil
	case d.Reason == ReasonMismatch:
		return ErrMismatch
	case d.Reason == ReasonMissingReference:
		return ErrMissingReference
	default:
		return ErrNotAuthenticated
	}
}

// Decide compares the DNI a request targets with the principal's own DNI.
//
// Rules, in order:
//  1. a principal holding any role of elevated is allowed;
//  2. an empty reference is denied with [ReasonMissingReference];
//  3. a reference equal to the principal's DNI is allowed;
//  4. anything else is denied with [ReasonMismatch].
//
// Comparison is exact string equality. The function has no side effects, so
// evaluating it twice on the same input yields the same decision.
func Decide(principal Principal, reference string, elevated RoleSet) Decision {
	if principal.HasAnyRole(elevated) {
		return Allow
	}
	if reference == "" {
		return Deny(ReasonMissingReference)
	}
	if reference == principal.DNI {
		return Allow
	}
	return Deny(ReasonMismatch)
}
