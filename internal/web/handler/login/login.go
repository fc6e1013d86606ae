package login

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/UnifiedPortal/UnifiedPortal/internal/auth"
	"github.com/UnifiedPortal/UnifiedPortal/internal/config"
	"github.com/UnifiedPortal/UnifiedPortal/internal/web/handler"
	authmw "github.com/UnifiedPortal/UnifiedPortal/internal/web/middleware/auth"
	"github.com/UnifiedPortal/UnifiedPortal/internal/web/session"
)

const (
	// Path is the path to the login page.
	Path = authmw.LoginPath

	template = "login"
)

// Service is the login handler service.
type Service struct {
	handler.Service
	cfg      *config.Config
	auth     *auth.Service
	sessions *session.Manager
}

// Handler is the login handler.
var Handler = Service{}

type form struct {
	Username string `form:"username"`
	Password string `form:"password"`
	Next     string `form:"next"`
}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil {
		return handler.ErrMissingDeps
	}

	if err := deps.Validate(); err != nil {
		return err
	}

	s.cfg = deps.Config
	s.auth = deps.Auth
	s.sessions = deps.Sessions

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.Get)
		router.Post(handler.RouterRootPath, s.Post)
	})

	return nil
}

// Get renders the login page. A signed-in principal is sent on to next.
func (s *Service) Get(c *fiber.Ctx) error {
	next := authmw.SafeNext(c.Query("next"), handler.RootPath)

	if _, err := s.sessions.Get(c); err == nil {
		return c.Redirect(next)
	}

	return s.render(c, fiber.StatusOK, next, nil)
}

// Post handles the login form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	f := new(form)
	if err := c.BodyParser(f); err != nil {
		return s.render(c, fiber.StatusBadRequest, handler.RootPath, ErrInvalidFormData)
	}

	next := authmw.SafeNext(f.Next, handler.RootPath)
	f.Username = strings.TrimSpace(f.Username)

	if f.Username == "" || f.Password == "" {
		return s.render(c, fiber.StatusBadRequest, next, ErrInvalidFormData)
	}

	if !s.auth.PasswordEnabled() {
		return s.render(c, fiber.StatusServiceUnavailable, next, ErrNoAuthMethod)
	}

	u, err := s.auth.Authenticate(c.UserContext(), f.Username, f.Password)

	switch {
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, auth.ErrInvalidPassword):
		log.Info().Str("username", f.Username).Msg("failed login attempt")

		return s.render(c, fiber.StatusUnauthorized, next, ErrInvalidCredentials)
	case errors.Is(err, auth.ErrUserAccountDisabled):
		return s.render(c, fiber.StatusForbidden, next, ErrAccountDisabled)
	case err != nil:
		log.Error().Err(err).Str("username", f.Username).Msg("authentication failed")

		return s.render(c, fiber.StatusInternalServerError, next, ErrInternalServerError)
	}

	if err = s.sessions.Login(c, session.PrincipalFromProfile(u)); err != nil {
		log.Error().Err(err).Msg("failed to write session")

		return s.render(c, fiber.StatusInternalServerError, next, ErrInternalServerError)
	}

	log.Info().Str("username", u.Username).Str("source", string(u.AuthSource)).Msg("user logged in")

	return c.Redirect(next)
}

func (s *Service) render(c *fiber.Ctx, status int, next string, err error) error {
	data := fiber.Map{
		"Title":           "Sign in",
		"AppTitle":        s.cfg.Title,
		"PasswordEnabled": s.auth.PasswordEnabled(),
		"OIDCEnabled":     s.auth.OIDCEnabled(),
		"Next":            next,
	}

	if err != nil {
		data["error"] = errorMessage(err)
	}

	return c.Status(status).Render(template, data, handler.BaseLayout)
}

func errorMessage(err error) string {
	msg := err.Error()

	return strings.ToUpper(msg[:1]) + msg[1:]
}
