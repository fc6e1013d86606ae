package access

import (
	"errors"

	"github.com/UnifiedPortal/UnifiedPortal/internal/db/controller/request"
)

var (
	// ErrNotSuperAdmin is returned when the actor lacks the super-admin flag.
	ErrNotSuperAdmin = errors.New("super-admin required")
	// ErrAlreadyHasRole is returned when a user asks for an app they already hold a role in.
	ErrAlreadyHasRole = errors.New("user already holds a role for this application")
	// ErrInvalidInput is returned when form input fails validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUserUnknown is returned when no signed-in user is given.
	ErrUserUnknown = errors.New("user id is empty")

	// ErrRequestAlreadyPending re-exports the store error.
	ErrRequestAlreadyPending = request.ErrRequestAlreadyPending
	// ErrRequestNotPending re-exports the store error.
	ErrRequestNotPending = request.ErrRequestNotPending
	// ErrRequestNotFound re-exports the store error.
	ErrRequestNotFound = request.ErrRequestNotFound
)
