// Package portal renders the landing page listing every application.
package portal

import (
	"github.com/gofiber/fiber/v2"

	"github.com/UnifiedPortal/UnifiedPortal/internal/config"
	"github.com/UnifiedPortal/UnifiedPortal/internal/web/handler"
	authmw "github.com/UnifiedPortal/UnifiedPortal/internal/web/middleware/auth"
	"github.com/UnifiedPortal/UnifiedPortal/internal/web/navigation"
	"github.com/UnifiedPortal/UnifiedPortal/internal/web/session"
)

// Service is the landing page handler.
type Service struct {
	handler.Service
	cfg      *config.Config
	sessions *session.Manager
}

// Handler is the landing page handler.
var Handler = Service{}

// Init registers GET /.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil {
		return handler.ErrMissingDeps
	}

	if err := deps.Validate(); err != nil {
		return err
	}

	s.cfg = deps.Config
	s.sessions = deps.Sessions

	app.Get(handler.RootPath, authmw.Load(s.sessions), s.Get)

	return nil
}

// Get renders one card per application. The console card is shown to everyone; the
// console itself checks the flag.
func (s *Service) Get(c *fiber.Ctx) error {
	nav := navigation.NewContext(s.cfg.Title, navigation.SectionPortal, "").
		WithApps(s.cfg).
		AddBreadcrumb("Home", handler.RootPath, true)

	return c.Render("portal", fiber.Map{
		"Title":     s.cfg.Title,
		"Nav":       nav,
		"Apps":      nav.Apps,
		"Principal": authmw.Principal(c),
	}, handler.BaseLayout)
}
