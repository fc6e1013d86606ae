package auth

import "errors"

var (
	// ErrNoIDToken is returned when the OAuth2 token response doesn't contain an ID token.
	ErrNoIDToken = errors.New("no id_token in token response")

	// ErrUserAccountDisabled is returned when attempting to authenticate a disabled account.
	ErrUserAccountDisabled = errors.New("user account is disabled")

	// ErrInvalidPassword is returned when the provided password is incorrect.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrUserNotFound is returned when a user cannot be found in the database or directory.
	ErrUserNotFound = errors.New("user not found")

	// ErrMultipleUsersFound is returned when a directory search matched more than one entry.
	ErrMultipleUsersFound = errors.New("multiple users found")

	// ErrOIDCDisabled is returned when OIDC is disabled via configuration.
	ErrOIDCDisabled = errors.New("oidc authentication is disabled")

	// ErrLDAPDisabled is returned when LDAP authentication is disabled via configuration.
	ErrLDAPDisabled = errors.New("ldap authentication is disabled")

	// ErrLocalDisabled is returned when local authentication is disabled via configuration.
	ErrLocalDisabled = errors.New("local authentication is disabled")

	// ErrNoProvider is returned when no identity provider is enabled.
	ErrNoProvider = errors.New("no identity provider enabled")
)
