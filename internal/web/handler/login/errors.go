// Package login provides HTTP handlers and helpers for user authentication.
//
// This file defines exported error values used throughout the login flow.
package login

import "errors"

var (
	// ErrInvalidFormData is returned when the submitted login form cannot be parsed
	// or fails validation.
	ErrInvalidFormData = errors.New("invalid form data")

	// ErrLocalAuthDisabled is returned when password login is switched off or
	// hidden in favour of oidc.
	ErrLocalAuthDisabled = errors.New("local authentication is disabled")

	// ErrInvalidCredentials is returned when the provided email and/or password
	// are not valid.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrOIDCFailed is shown after a failed oidc login. The cause is only logged.
	ErrOIDCFailed = errors.New("single sign-on failed, please try again or contact an administrator")

	// ErrInternalServerError is returned for unexpected failures during the login
	// process.
	ErrInternalServerError = errors.New("internal server error")
)
