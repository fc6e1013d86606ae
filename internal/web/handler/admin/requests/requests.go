// Package requests is the super-admin console for access requests.
package requests

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/UnifiedPortal/UnifiedPortal/internal/access"
	"github.com/UnifiedPortal/UnifiedPortal/internal/catalog"
	"github.com/UnifiedPortal/UnifiedPortal/internal/config"
	"github.com/UnifiedPortal/UnifiedPortal/internal/db/models"
	"github.com/UnifiedPortal/UnifiedPortal/internal/web/handler"
	authmw "github.com/UnifiedPortal/UnifiedPortal/internal/web/middleware/auth"
	"github.com/UnifiedPortal/UnifiedPortal/internal/web/navigation"
)

const (
	// GroupPath is the console prefix.
	GroupPath = "/admin"
	// Path lists the requests.
	Path = GroupPath + "/requests"

	listTemplate   = "admin_requests"
	detailTemplate = "admin_request"
)

// Service is the console handler service.
type Service struct {
	handler.Service
	cfg    *config.Config
	access *access.Service
}

// Handler is the console handler.
var Handler = Service{}

// Row is one request in the console table.
type Row struct {
	Request  models.AccessRequest
	AppTitle string
	// Roles is the approval allow-list, the requested role first.
	Roles   []catalog.Role
	Pending bool
}

// Init registers the console routes behind session and super-admin checks.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil {
		return handler.ErrMissingDeps
	}

	if err := deps.Validate(); err != nil {
		return err
	}

	s.cfg = deps.Config
	s.access = deps.Access

	group := app.Group(GroupPath,
		authmw.RequireSession(deps.Sessions),
		authmw.RequireSuperAdmin(deps.Access),
	)

	group.Get(handler.RouterRootPath, func(c *fiber.Ctx) error {
		return c.Redirect(Path)
	})
	group.Get("/requests", s.List)
	group.Get("/requests/:id", s.Detail)
	group.Post("/requests/:id/approve", s.Approve)
	group.Post("/requests/:id/reject", s.Reject)
	group.Post("/requests/:id/delete", s.Delete)

	return nil
}

// List renders pending requests, or all with ?status=all.
func (s *Service) List(c *fiber.Ctx) error {
	msg := ""
	switch c.Query("done") {
	case string(models.ActionApprove):
		msg = "Request approved."
	case string(models.ActionReject):
		msg = "Request rejected."
	case string(models.ActionDelete):
		msg = "Request deleted."
	}

	return s.renderList(c, fiber.StatusOK, access.ParseListFilter(c.Query("status")), msg, "")
}

// Detail renders one request with its audit trail. Deleted requests keep their trail.
func (s *Service) Detail(c *fiber.Ctx) error {
	p := authmw.Principal(c)
	id := c.Params("id")

	events, err := s.access.Events(c.UserContext(), p.ID, id)
	if err != nil {
		return s.fail(c, access.ListPending, err)
	}

	nav := s.nav("Request").AddBreadcrumb("Request", Path+"/"+id, true)

	return c.Render(detailTemplate, fiber.Map{
		"Title":     "Access request",
		"Nav":       nav,
		"Principal": p,
		"RequestID": id,
		"Events":    events,
	}, handler.BaseLayout)
}

// Approve grants the role from the form, the requested one when empty.
func (s *Service) Approve(c *fiber.Ctx) error {
	_, err := s.access.Approve(c.UserContext(), s.decision(c))

	return s.done(c, models.ActionApprove, err)
}

// Reject rejects a pending request.
func (s *Service) Reject(c *fiber.Ctx) error {
	_, err := s.access.Reject(c.UserContext(), s.decision(c))

	return s.done(c, models.ActionReject, err)
}

// Delete removes a request in any state.
func (s *Service) Delete(c *fiber.Ctx) error {
	err := s.access.Delete(c.UserContext(), s.decision(c))

	return s.done(c, models.ActionDelete, err)
}

func (s *Service) decision(c *fiber.Ctx) access.DecisionInput {
	return access.DecisionInput{
		Actor:     authmw.Principal(c).ID,
		RequestID: c.Params("id"),
		Role:      c.FormValue("role"),
	}
}

func (s *Service) done(c *fiber.Ctx, action models.ApprovalAction, err error) error {
	filter := access.ParseListFilter(c.FormValue("status"))

	if err != nil {
		log.Warn().Err(err).Str("request", c.Params("id")).Str("action", string(action)).Msg("console action failed")

		return s.fail(c, filter, err)
	}

	q := url.Values{"status": {string(filter)}, "done": {string(action)}}

	return c.Redirect(Path+"?"+q.Encode(), fiber.StatusSeeOther)
}

func (s *Service) fail(c *fiber.Ctx, filter access.ListFilter, err error) error {
	status, msg := actionError(err)

	if status == fiber.StatusForbidden {
		return c.Status(status).Render(authmw.ForbiddenTemplate, fiber.Map{
			"Title": "Access Denied",
			"error": msg,
		}, handler.BaseLayout)
	}

	return s.renderList(c, status, filter, "", msg)
}

func actionError(err error) (int, string) {
	switch {
	case errors.Is(err, access.ErrNotSuperAdmin):
		return fiber.StatusForbidden, "Access Denied"
	case errors.Is(err, access.ErrRequestNotFound):
		return fiber.StatusNotFound, "Request not found."
	case errors.Is(err, access.ErrRequestNotPending):
		return fiber.StatusConflict, "Only pending requests can be approved or rejected."
	case errors.Is(err, access.ErrInvalidInput), errors.Is(err, catalog.ErrRoleNotRequestable):
		return fiber.StatusBadRequest, "Please select a valid role."
	default:
		return fiber.StatusInternalServerError, "Failed to update request. Please try again later."
	}
}

func (s *Service) renderList(c *fiber.Ctx, status int, filter access.ListFilter, msg, errMsg string) error {
	p := authmw.Principal(c)

	list, err := s.access.List(c.UserContext(), p.ID, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to list access requests")

		if errMsg == "" {
			_, errMsg = actionError(err)
		}
	}

	return c.Status(status).Render(listTemplate, fiber.Map{
		"Title":     "Access requests",
		"Nav":       s.nav(""),
		"Principal": p,
		"Rows":      rows(list),
		"Filter":    string(filter),
		"ShowAll":   filter == access.ListAll,
		"message":   msg,
		"error":     errMsg,
	}, handler.BaseLayout)
}

func (s *Service) nav(page string) *navigation.Context {
	nav := navigation.NewContext("Access requests", navigation.SectionAdmin, "requests").
		WithApps(s.cfg).
		AddBreadcrumb("Home", handler.RootPath, false).
		AddBreadcrumb("Access requests", Path, page == "")

	return nav
}

func rows(list []models.AccessRequest) []Row {
	out := make([]Row, 0, len(list))

	for _, r := range list {
		row := Row{Request: r, Pending: r.Status == models.RequestPending, AppTitle: r.App}

		if app, err := catalog.Lookup(r.App); err == nil {
			row.AppTitle = app.Title
			row.Roles = orderRoles(app.Requestable, catalog.Role(r.RequestedRole))
		}

		out = append(out, row)
	}

	return out
}

// orderRoles puts requested first so that the select defaults to it.
func orderRoles(allowed []catalog.Role, requested catalog.Role) []catalog.Role {
	out := make([]catalog.Role, 0, len(allowed))

	for _, r := range allowed {
		if r == requested {
			out = append(out, r)
		}
	}

	for _, r := range allowed {
		if r != requested {
			out = append(out, r)
		}
	}

	return out
}
