package catalog

import (
	"fmt"
	"strings"
)

// AppName is the canonical lowercase key of an application.
type AppName string

// Role is a capability label scoped to one application.
type Role string

const (
	// SCB is the student career builder.
	SCB AppName = "scb"
	// LMS is the learning management system.
	LMS AppName = "lms"
	// JR is the job recommendation application.
	JR AppName = "jr"
)

const (
	RoleStudent   Role = "student"
	RoleCounselor Role = "counselor"
	RoleTeacher   Role = "teacher"
	RoleJobSeeker Role = "job_seeker"
	RoleRecruiter Role = "recruiter"
	RoleAdmin     Role = "admin"

	// RoleSuperAdmin may preview every other menu of an application.
	// It is never requestable and only granted by an operator.
	RoleSuperAdmin Role = "superadmin"
)

// Feature is one entry of a dashboard menu.
type Feature struct {
	Title       string
	Description string
	Link        string
}

// Application describes one portal application.
type Application struct {
	Name        AppName
	Title       string
	Description string

	// Requestable is the approval allow-list in display order.
	Requestable []Role

	menus map[Role][]Feature
	// elevated builds the superadmin menu when no view-as role is selected.
	elevated func(a *Application) []Feature
}

// Applications returns the catalog in display order.
func Applications() []*Application {
	return []*Application{scb, lms, jr}
}

// Names returns the canonical application names in display order.
func Names() []AppName {
	apps := Applications()
	names := make([]AppName, 0, len(apps))

	for _, a := range apps {
		names = append(names, a.Name)
	}

	return names
}

// Lookup resolves a user supplied name. Case and surrounding space are ignored.
func Lookup(name string) (*Application, error) {
	key := AppName(strings.ToLower(strings.TrimSpace(name)))

	for _, a := range Applications() {
		if a.Name == key {
			return a, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownApplication, name)
}

// Knows reports whether role is defined for the application, superadmin included.
func (a *Application) Knows(role Role) bool {
	if role == RoleSuperAdmin {
		return true
	}

	_, ok := a.menus[role]

	return ok
}

// CanRequest reports whether role is on the approval allow-list.
func (a *Application) CanRequest(role Role) bool {
	for _, r := range a.Requestable {
		if r == role {
			return true
		}
	}

	return false
}

// ParseRequestable validates a role that a user asks for or an approver grants.
func (a *Application) ParseRequestable(role string) (Role, error) {
	r := normalizeRole(role)
	if !a.CanRequest(r) {
		return "", fmt.Errorf("%w: %s/%q", ErrRoleNotRequestable, a.Name, role)
	}

	return r, nil
}

// ParseRole validates any role of the application, superadmin included.
func (a *Application) ParseRole(role string) (Role, error) {
	r := normalizeRole(role)
	if !a.Knows(r) {
		return "", fmt.Errorf("%w: %s/%q", ErrUnknownRole, a.Name, role)
	}

	return r, nil
}

// Menu returns the features for role. Unknown roles get no features.
func (a *Application) Menu(role Role) []Feature {
	if role == RoleSuperAdmin {
		if a.elevated == nil {
			return nil
		}

		return a.elevated(a)
	}

	features := a.menus[role]
	if len(features) == 0 {
		return nil
	}

	out := make([]Feature, len(features))
	copy(out, features)

	return out
}

// EffectiveRole returns the role whose menu is rendered.
// Only superadmin may switch to another requestable role, anything else keeps actual.
// The result never feeds an authorization decision.
func (a *Application) EffectiveRole(actual Role, viewAs string) Role {
	if actual != RoleSuperAdmin || viewAs == "" {
		return actual
	}

	r := normalizeRole(viewAs)
	if !a.CanRequest(r) {
		return actual
	}

	return r
}

func normalizeRole(role string) Role {
	return Role(strings.ToLower(strings.TrimSpace(role)))
}
