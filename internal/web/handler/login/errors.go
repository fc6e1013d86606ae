// Package login provides HTTP handlers for the password sign-in form.
//
// This file defines exported error values used throughout the login flow.
package login

import "errors"

var (
	// ErrInvalidFormData is returned when the submitted login form cannot be parsed
	// or fails validation.
	ErrInvalidFormData = errors.New("invalid form data")

	// ErrNoAuthMethod is returned when neither local nor LDAP sign-in is enabled.
	ErrNoAuthMethod = errors.New("no authentication method available")

	// ErrInvalidCredentials is returned when the provided username and/or password
	// are not valid.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrAccountDisabled is shown for deactivated accounts.
	ErrAccountDisabled = errors.New("account is disabled")

	// ErrInternalServerError is returned for unexpected failures during the login
	// process.
	ErrInternalServerError = errors.New("internal server error")
)
