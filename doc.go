// Package main provides the entry point of Unified Portal.
// It serves the SCB, LMS and JR dashboards and the super-admin console from one
// fiber web server, with roles and access requests persisted through gorm.
package main
