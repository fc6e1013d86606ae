// Package dashboard renders the role-gated application dashboards and accepts access requests.
package dashboard

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/UnifiedPortal/UnifiedPortal/internal/access"
	"github.com/UnifiedPortal/UnifiedPortal/internal/catalog"
	"github.com/UnifiedPortal/UnifiedPortal/internal/config"
	"github.com/UnifiedPortal/UnifiedPortal/internal/web/handler"
	authmw "github.com/UnifiedPortal/UnifiedPortal/internal/web/middleware/auth"
	"github.com/UnifiedPortal/UnifiedPortal/internal/web/navigation"
	"github.com/UnifiedPortal/UnifiedPortal/internal/web/session"
)

const (
	// Path is the dashboard route, :app is the application name.
	Path = navigation.AppsPrefix + ":app"

	// RequestPath accepts access requests for :app.
	RequestPath = Path + "/access-requests"

	template = "dashboard"
)

// User facing messages.
const (
	MsgNoFeatures     = "No features assigned to your role. Contact admin for access."
	MsgSubmitted      = "Request submitted successfully. Please wait for admin approval."
	MsgSelectViewAs   = "Select a role to preview its dashboard."
	MsgRoleLookup     = "Failed to load your role. Please try again later."
	MsgAlreadyPending = "You already have a pending request for this application."
	MsgAlreadyHasRole = "You already have access to this application."
	MsgInvalidRole    = "Please select a valid role."
	MsgSubmitFailed   = "Failed to submit request. Please try again later."
	MsgTooManyRequest = "Too many requests. Please wait a moment and try again."
)

// Service is the dashboard handler service.
type Service struct {
	handler.Service
	cfg      *config.Config
	sessions *session.Manager
	access   *access.Service
}

// Handler is the dashboard handler.
var Handler = Service{}

// Init registers the dashboard and access request routes.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil {
		return handler.ErrMissingDeps
	}

	if err := deps.Validate(); err != nil {
		return err
	}

	s.cfg = deps.Config
	s.sessions = deps.Sessions
	s.access = deps.Access

	requireSession := authmw.RequireSession(s.sessions)

	app.Get(Path, requireSession, s.Get)
	app.Post(RequestPath, requireSession, s.limiter(), s.Post)

	return nil
}

// view is the state one dashboard render is built from.
type view struct {
	app       *catalog.Application
	principal *session.Principal
	res       access.Resolution
	viewAs    string
	message   string
	err       string
}

// Get renders the dashboard of :app for the signed-in principal.
func (s *Service) Get(c *fiber.Ctx) error {
	app, err := catalog.Lookup(c.Params("app"))
	if err != nil {
		return fiber.ErrNotFound
	}

	p := authmw.Principal(c)

	v := view{
		app:       app,
		principal: p,
		res:       s.access.Resolve(c.UserContext(), p.ID, app),
		viewAs:    c.Query("view_as"),
	}

	if c.Query("requested") != "" {
		v.message = MsgSubmitted
	}

	return s.render(c, fiber.StatusOK, v)
}

// Post submits an access request for the role in the form.
func (s *Service) Post(c *fiber.Ctx) error {
	app, err := catalog.Lookup(c.Params("app"))
	if err != nil {
		return fiber.ErrNotFound
	}

	p := authmw.Principal(c)

	_, err = s.access.Submit(c.UserContext(), access.SubmitInput{
		UserID: p.ID,
		Email:  p.Email,
		App:    string(app.Name),
		Role:   c.FormValue("role"),
	})
	if err == nil {
		return c.Redirect(navigation.DashboardPath(app.Name)+"?requested=1", fiber.StatusSeeOther)
	}

	status, msg := submitError(err)

	return s.render(c, status, view{
		app:       app,
		principal: p,
		res:       s.access.Resolve(c.UserContext(), p.ID, app),
		err:       msg,
	})
}

func submitError(err error) (int, string) {
	switch {
	case errors.Is(err, access.ErrRequestAlreadyPending):
		return fiber.StatusConflict, MsgAlreadyPending
	case errors.Is(err, access.ErrAlreadyHasRole):
		return fiber.StatusConflict, MsgAlreadyHasRole
	case errors.Is(err, access.ErrInvalidInput), errors.Is(err, catalog.ErrRoleNotRequestable):
		return fiber.StatusBadRequest, MsgInvalidRole
	default:
		return fiber.StatusInternalServerError, MsgSubmitFailed
	}
}

// limiter limits access requests per principal.
func (s *Service) limiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        s.cfg.Webserver.RateLimit.Max,
		Expiration: s.cfg.Webserver.RateLimit.Expiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			if p := authmw.Principal(c); p != nil {
				return p.ID
			}

			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			app, err := catalog.Lookup(c.Params("app"))
			if err != nil {
				return fiber.ErrTooManyRequests
			}

			p := authmw.Principal(c)

			return s.render(c, fiber.StatusTooManyRequests, view{
				app:       app,
				principal: p,
				res:       s.access.Resolve(c.UserContext(), p.ID, app),
				err:       MsgTooManyRequest,
			})
		},
	})
}

func (s *Service) render(c *fiber.Ctx, status int, v view) error {
	app := v.app
	title := appTitle(s.cfg, app)
	elevated := v.res.Role == catalog.RoleSuperAdmin
	effective := app.EffectiveRole(v.res.Role, v.viewAs)
	menu := s.links(app, app.Menu(effective))

	message := v.message
	if message == "" {
		switch {
		case v.res.Err != nil:
		case elevated && len(menu) == 0:
			message = MsgSelectViewAs
		case !v.res.HasRole() && v.res.Pending != nil:
			message = "Your request for the " + catalog.RoleLabel(catalog.Role(v.res.Pending.RequestedRole)) +
				" role is pending approval."
		case len(menu) == 0:
			message = MsgNoFeatures
		}
	}

	errMsg := v.err
	if errMsg == "" && v.res.Err != nil {
		errMsg = MsgRoleLookup
	}

	nav := navigation.NewContext(title, navigation.SectionApps, string(app.Name)).
		WithApps(s.cfg).
		AddBreadcrumb("Home", handler.RootPath, false).
		AddBreadcrumb(title, navigation.DashboardPath(app.Name), true)

	return c.Status(status).Render(template, fiber.Map{
		"Title":         title,
		"Nav":           nav,
		"App":           app,
		"Principal":     v.principal,
		"Role":          v.res.Role,
		"EffectiveRole": effective,
		"RoleLabel":     roleLabel(effective),
		"Menu":          menu,
		"Elevated":      elevated,
		"ViewAsRoles":   viewAsRoles(app, elevated),
		"ViewAs":        v.viewAs,
		"NoRole":        !v.res.HasRole() && v.res.Err == nil,
		"Pending":       v.res.Pending,
		"CanRequest":    !v.res.HasRole() && v.res.Pending == nil && v.res.Err == nil,
		"Requestable":   app.Requestable,
		"RequestAction": navigation.DashboardPath(app.Name) + "/access-requests",
		"message":       message,
		"error":         errMsg,
	}, handler.BaseLayout)
}

// links resolves feature links against the configured base URL of the application.
// Without one the links stay relative.
func (s *Service) links(app *catalog.Application, features []catalog.Feature) []catalog.Feature {
	base := strings.TrimRight(s.cfg.Applications[string(app.Name)].BaseURL, "/")
	if base == "" {
		return features
	}

	for i := range features {
		features[i].Link = base + features[i].Link
	}

	return features
}

func appTitle(cfg *config.Config, app *catalog.Application) string {
	if a, ok := cfg.Applications[string(app.Name)]; ok && a.Title != "" {
		return a.Title
	}

	return app.Title
}

func roleLabel(r catalog.Role) string {
	if r == "" {
		return "none"
	}

	return catalog.RoleLabel(r)
}

func viewAsRoles(app *catalog.Application, elevated bool) []catalog.Role {
	if !elevated {
		return nil
	}

	return app.Requestable
}
