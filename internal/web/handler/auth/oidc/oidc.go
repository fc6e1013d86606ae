package oidc

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog/log"

	"github.com/UnifiedPortal/UnifiedPortal/internal/auth"
	"github.com/UnifiedPortal/UnifiedPortal/internal/db/models"
	"github.com/UnifiedPortal/UnifiedPortal/internal/web/handler"
	authmw "github.com/UnifiedPortal/UnifiedPortal/internal/web/middleware/auth"
	"github.com/UnifiedPortal/UnifiedPortal/internal/web/session"
)

const (
	// LoginPath is the path to initiate OIDC login.
	LoginPath = handler.RootPath + "auth/oidc/login"

	// CallbackPath is the path for OIDC callback.
	CallbackPath = handler.RootPath + "auth/oidc/callback"

	// StateTTL bounds the time between login and callback.
	StateTTL = 5 * time.Minute

	stateCacheSize = 10000
)

// Provider is the part of auth.OIDCProvider the handler needs.
type Provider interface {
	AuthURL(state string) string
	HandleCallback(ctx context.Context, code string) (*models.Profile, string, error)
}

// Service is the OIDC handler service.
type Service struct {
	handler.Service
	provider Provider
	sessions *session.Manager
	// states maps a pending state token to the page to return to.
	states *expirable.LRU[string, string]
}

// Handler is the OIDC handler.
var Handler = Service{}

// Init initializes the OIDC handler. Without an OIDC provider the routes answer 503.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil {
		return handler.ErrMissingDeps
	}

	if err := deps.Validate(); err != nil {
		return err
	}

	s.sessions = deps.Sessions
	s.states = expirable.NewLRU[string, string](stateCacheSize, nil, StateTTL)

	if deps.Auth.OIDCEnabled() {
		s.provider = deps.Auth.OIDC

		log.Info().Msg("OIDC authentication provider initialized")
	}

	app.Get(LoginPath, s.Login)
	app.Get(CallbackPath, s.Callback)

	return nil
}

// Login initiates the OIDC login flow.
func (s *Service) Login(c *fiber.Ctx) error {
	if s.provider == nil {
		return c.Status(fiber.StatusServiceUnavailable).SendString("OIDC authentication is not available")
	}

	state, err := auth.GenerateStateToken()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate state token")

		return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
	}

	// the cache outlives the request buffer
	s.states.Add(state, utils.CopyString(authmw.SafeNext(c.Query("next"), handler.RootPath)))

	return c.Redirect(s.provider.AuthURL(state))
}

// Callback handles the OIDC callback.
func (s *Service) Callback(c *fiber.Ctx) error {
	if s.provider == nil {
		return c.Status(fiber.StatusServiceUnavailable).SendString("OIDC authentication is not available")
	}

	code := c.Query("code")
	state := c.Query("state")

	if code == "" || state == "" {
		log.Error().Msg("missing code or state in OIDC callback")

		return c.Status(fiber.StatusBadRequest).SendString("Invalid callback parameters")
	}

	next, ok := s.states.Get(state)
	if !ok {
		log.Error().Msg("invalid or expired state token")

		return c.Status(fiber.StatusBadRequest).SendString("Invalid state token")
	}

	// a state token is good for one callback
	s.states.Remove(state)

	u, rawIDToken, err := s.provider.HandleCallback(c.UserContext(), code)
	if err != nil {
		log.Error().Err(err).Msg("OIDC authentication failed")

		return c.Status(fiber.StatusUnauthorized).SendString("Authentication failed")
	}

	p := session.PrincipalFromProfile(u)
	p.IDToken = rawIDToken

	if err = s.sessions.Login(c, p); err != nil {
		log.Error().Err(err).Msg("failed to write session")

		return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
	}

	log.Info().Str("username", u.Username).Msg("user logged in via OIDC")

	return c.Redirect(next)
}
