// Package models contains database model definitions.
package models

// All returns every model for gorm AutoMigrate.
func All() []any {
	return []any{
		&Profile{},
		&RoleAssignment{},
		&AccessRequest{},
		&SuperAdmin{},
		&ApprovalEvent{},
	}
}
