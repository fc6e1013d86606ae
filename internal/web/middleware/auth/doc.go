// Package auth provides the session and super-admin middleware of the portal.
//
// Load puts the signed-in principal into fiber.Locals when there is one.
// RequireSession additionally redirects anonymous requests to the login page,
// carrying the requested page as next parameter. RequireSuperAdmin checks the
// super-admin flag on every request and renders the 403 page otherwise.
//
// Usage:
//
//	app.Get("/apps/:app", authmw.RequireSession(sessions), dashboard.Get)
//	admin := app.Group("/admin", authmw.RequireSession(sessions), authmw.RequireSuperAdmin(svc))
package auth
