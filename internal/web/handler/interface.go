package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/UnifiedPortal/UnifiedPortal/internal/access"
	"github.com/UnifiedPortal/UnifiedPortal/internal/auth"
	"github.com/UnifiedPortal/UnifiedPortal/internal/config"
	"github.com/UnifiedPortal/UnifiedPortal/internal/web/session"
)

// ErrMissingDeps is returned by Init when a required dependency is nil.
var ErrMissingDeps = errors.New("handler dependencies missing")

// Deps are the shared services handlers are built from.
type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Sessions *session.Manager
	Access   *access.Service
	Auth     *auth.Service
}

// Validate checks that the dependencies every handler needs are set.
func (d *Deps) Validate() error {
	if d == nil || d.Config == nil || d.DB == nil || d.Sessions == nil || d.Access == nil || d.Auth == nil {
		return ErrMissingDeps
	}

	return nil
}

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, deps *Deps) error
}
