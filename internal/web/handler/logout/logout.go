// Package logout ends the session of the signed-in principal.
package logout

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/UnifiedPortal/UnifiedPortal/internal/auth"
	"github.com/UnifiedPortal/UnifiedPortal/internal/config"
	"github.com/UnifiedPortal/UnifiedPortal/internal/db/models"
	"github.com/UnifiedPortal/UnifiedPortal/internal/web/handler"
	authmw "github.com/UnifiedPortal/UnifiedPortal/internal/web/middleware/auth"
	"github.com/UnifiedPortal/UnifiedPortal/internal/web/session"
)

// Path of the logout route.
const Path = handler.RootPath + "logout"

// Service is the logout handler service.
type Service struct {
	handler.Service
	cfg      *config.Config
	sessions *session.Manager
	auth     *auth.Service
}

// Handler is the logout handler.
var Handler = Service{}

// Init initializes the logout handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil {
		return handler.ErrMissingDeps
	}

	if err := deps.Validate(); err != nil {
		return err
	}

	s.cfg = deps.Config
	s.sessions = deps.Sessions
	s.auth = deps.Auth

	app.Get(Path, s.Logout)
	app.Post(Path, s.Logout)

	return nil
}

// Logout clears the session. OIDC principals continue to the provider's end session
// endpoint when it advertises one.
func (s *Service) Logout(c *fiber.Ctx) error {
	p, err := s.sessions.Logout(c)
	if err != nil {
		log.Error().Err(err).Msg("failed to delete session")
	}

	if p != nil && p.AuthSource == models.AuthSourceOIDC && s.auth.OIDCEnabled() {
		if u := s.auth.OIDC.LogoutURL(p.IDToken, s.cfg.Webserver.URL); u != "" {
			return c.Redirect(u)
		}
	}

	return c.Redirect(authmw.LoginPath)
}
