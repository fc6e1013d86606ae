// Package handlertest wires handler dependencies on top of webtest fixtures.
package handlertest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/UnifiedPortal/UnifiedPortal/internal/access"
	"github.com/UnifiedPortal/UnifiedPortal/internal/auth"
	"github.com/UnifiedPortal/UnifiedPortal/internal/db/controller/superadmin"
	"github.com/UnifiedPortal/UnifiedPortal/internal/web/handler"
	"github.com/UnifiedPortal/UnifiedPortal/internal/web/session"
	"github.com/UnifiedPortal/UnifiedPortal/internal/web/webtest"
)

// LoginPath is a test-only route that signs in the user id given as query parameter.
const LoginPath = "/_test/login"

// Env is a fiber app with all handler dependencies backed by in-memory stores.
type Env struct {
	App      *fiber.App
	Views    *webtest.Views
	Storage  *webtest.Storage
	Registry *prometheus.Registry
	Deps     *handler.Deps
}

// New creates the environment. Handlers are registered by the caller.
func New(t *testing.T) *Env {
	t.Helper()

	cfg := webtest.NewConfig()
	db := webtest.NewDB(t)
	storage := webtest.NewStorage()
	views := &webtest.Views{}
	reg := prometheus.NewRegistry()

	sessions, err := session.NewManager(storage, session.Config{
		CookieName: cfg.Webserver.Session.CookieName,
		Expiry:     cfg.Webserver.Session.ExpiryTime,
		Insecure:   true,
	})
	require.NoError(t, err)

	env := &Env{
		App:      webtest.NewApp(views),
		Views:    views,
		Storage:  storage,
		Registry: reg,
		Deps: &handler.Deps{
			Config:   cfg,
			DB:       db,
			Sessions: sessions,
			Access:   access.New(db, access.NewMetrics(reg)),
			Auth:     auth.NewService(context.Background(), &cfg.Auth, db),
		},
	}

	env.App.Get(LoginPath, func(c *fiber.Ctx) error {
		p := session.Principal{ID: c.Query("id"), Email: c.Query("email"), Username: c.Query("id")}
		if err := sessions.Login(c, p); err != nil {
			return err
		}

		return c.SendStatus(fiber.StatusNoContent)
	})

	return env
}

// SignIn creates a session for userID and returns the cookie header.
func (e *Env) SignIn(t *testing.T, userID, email string) string {
	t.Helper()

	q := url.Values{"id": {userID}, "email": {email}}
	resp, err := e.App.Test(httptest.NewRequest(http.MethodGet, LoginPath+"?"+q.Encode(), nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	cookie := webtest.Cookies(resp)
	require.NotEmpty(t, cookie)

	return cookie
}

// MakeSuperAdmin sets the super-admin flag of userID.
func (e *Env) MakeSuperAdmin(t *testing.T, userID string) {
	t.Helper()

	require.NoError(t, superadmin.Add(context.Background(), e.Deps.DB, userID, "test"))
}

// Get performs a GET with cookie.
func (e *Env) Get(t *testing.T, target, cookie string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}

	resp, err := e.App.Test(req, -1)
	require.NoError(t, err)

	return resp
}

// PostForm performs a form POST with cookie.
func (e *Env) PostForm(t *testing.T, target, cookie string, form url.Values) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", fiber.MIMEApplicationForm)

	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}

	resp, err := e.App.Test(req, -1)
	require.NoError(t, err)

	return resp
}
