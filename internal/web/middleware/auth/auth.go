package auth

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/UnifiedPortal/UnifiedPortal/internal/access"
	"github.com/UnifiedPortal/UnifiedPortal/internal/web/handler"
	"github.com/UnifiedPortal/UnifiedPortal/internal/web/session"
)

const (
	// LoginPath is where anonymous requests are sent.
	LoginPath = "/login"

	// ForbiddenTemplate is rendered for non super-admins on the console.
	ForbiddenTemplate = "forbidden"
)

// Load stores the principal of the request in locals, if any.
func Load(sessions *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		attach(c, sessions)

		return c.Next()
	}
}

// RequireSession redirects to the login page unless a principal is signed in.
func RequireSession(sessions *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if Principal(c) == nil && attach(c, sessions) == nil {
			return c.Redirect(LoginURL(c.OriginalURL()))
		}

		return c.Next()
	}
}

func attach(c *fiber.Ctx, sessions *session.Manager) *session.Principal {
	p, err := sessions.Get(c)
	if err != nil {
		if !errors.Is(err, session.ErrNoSession) {
			log.Warn().Err(err).Str("path", c.Path()).Msg("failed to read session")
		}

		return nil
	}

	c.Locals(handler.LocalPrincipal, p)
	c.Locals(handler.LocalUserID, p.ID)

	return p
}

// RequireSuperAdmin renders the 403 page unless the principal carries the super-admin flag.
// It has to run after RequireSession.
func RequireSuperAdmin(svc *access.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := Principal(c)
		if p == nil {
			return c.Redirect(LoginURL(c.OriginalURL()))
		}

		ok, err := svc.IsSuperAdmin(c.UserContext(), p.ID)
		if err != nil {
			log.Error().Err(err).Str("user", p.ID).Msg("super-admin check failed")

			return c.Status(fiber.StatusInternalServerError).Render(ForbiddenTemplate, fiber.Map{
				"Title": "Access Denied",
				"error": "Could not verify your permissions. Please try again later.",
			}, handler.BaseLayout)
		}

		if !ok {
			log.Warn().Str("user", p.ID).Str("path", c.Path()).Msg("console access denied")

			return c.Status(fiber.StatusForbidden).Render(ForbiddenTemplate, fiber.Map{
				"Title":     "Access Denied",
				"error":     "Access Denied",
				"Principal": p,
			}, handler.BaseLayout)
		}

		return c.Next()
	}
}

// Principal returns the principal stored by Load or RequireSession, nil when anonymous.
func Principal(c *fiber.Ctx) *session.Principal {
	p, _ := c.Locals(handler.LocalPrincipal).(*session.Principal)

	return p
}

// LoginURL returns the login page carrying next.
func LoginURL(next string) string {
	if next == "" || next == "/" {
		return LoginPath
	}

	return LoginPath + "?next=" + url.QueryEscape(next)
}

// SafeNext returns next when it is a local path, fallback otherwise.
func SafeNext(next, fallback string) string {
	if len(next) == 0 || next[0] != '/' || (len(next) > 1 && (next[1] == '/' || next[1] == '\\')) {
		return fallback
	}

	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}

	return next
}
