package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UnifiedPortal/UnifiedPortal/internal/web/handler/dashboard"
	"github.com/UnifiedPortal/UnifiedPortal/internal/web/webtest"
)

func newService(t *testing.T) *Service {
	t.Helper()

	cfg := webtest.NewConfig()
	db := webtest.NewDB(t)

	webtest.CreateProfile(t, db, "alice", "alice@example.com", "secret")

	s, err := New(context.Background(), cfg, db, webtest.NewStorage(), prometheus.NewRegistry())
	require.NoError(t, err)

	s.fastShutDown = true

	return s
}

func do(t *testing.T, app *fiber.App, req *http.Request) *http.Response {
	t.Helper()

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	return resp
}

func TestNew_NilDependencies(t *testing.T) {
	_, err := New(context.Background(), nil, nil, nil, nil)
	require.ErrorIs(t, err, ErrNilDependency)
}

func TestCheckAlive(t *testing.T) {
	s := newService(t)

	resp := do(t, s.App, httptest.NewRequest(http.MethodGet, CheckAlivePath, nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	s.alive.Store(false)

	resp = do(t, s.App, httptest.NewRequest(http.MethodGet, CheckAlivePath, nil))
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestPagesRender(t *testing.T) {
	s := newService(t)

	resp := do(t, s.App, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := webtest.ReadBody(t, resp)
	assert.Contains(t, body, "https://jr.example.com")
	assert.Contains(t, body, "/apps/lms")

	resp = do(t, s.App, httptest.NewRequest(http.MethodGet, "/login", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, webtest.ReadBody(t, resp), `name="password"`)

	resp = do(t, s.App, httptest.NewRequest(http.MethodGet, "/static/portal.css", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSignInFlow(t *testing.T) {
	s := newService(t)

	form := url.Values{"username": {"alice"}, "password": {"secret"}, "next": {"/apps/lms"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", fiber.MIMEApplicationForm)

	resp := do(t, s.App, req)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/apps/lms", resp.Header.Get("Location"))

	cookie := webtest.Cookies(resp)
	require.NotEmpty(t, cookie)

	req = httptest.NewRequest(http.MethodGet, "/apps/lms", nil)
	req.Header.Set("Cookie", cookie)

	resp = do(t, s.App, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := webtest.ReadBody(t, resp)
	assert.Contains(t, body, "alice@example.com")
	assert.Contains(t, body, dashboard.MsgNoFeatures)
	assert.Contains(t, body, "Request access")

	req = httptest.NewRequest(http.MethodGet, "/admin/requests", nil)
	req.Header.Set("Cookie", cookie)

	resp = do(t, s.App, req)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, webtest.ReadBody(t, resp), "Access Denied")

	resp = do(t, s.App, httptest.NewRequest(http.MethodGet, MetricsPath, nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, webtest.ReadBody(t, resp), `portal_session_events_total{kind="signed_in"} 1`)
}

func TestShutdown(t *testing.T) {
	s := newService(t)

	s.Shutdown()

	assert.False(t, s.alive.Load())
}
