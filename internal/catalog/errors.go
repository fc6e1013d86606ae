package catalog

import "errors"

var (
	// ErrUnknownApplication is returned for an application name outside the catalog.
	ErrUnknownApplication = errors.New("unknown application")
	// ErrUnknownRole is returned for a role the application does not define.
	ErrUnknownRole = errors.New("unknown role")
	// ErrRoleNotRequestable is returned for a role outside the approval allow-list.
	ErrRoleNotRequestable = errors.New("role can not be requested for this application")
)
