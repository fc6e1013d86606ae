package fiber_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UnifiedPortal/UnifiedPortal/internal/logger"
	adapter "github.com/UnifiedPortal/UnifiedPortal/internal/logger/adapter/fiber"
)

type accessLine struct {
	IP     string `json:"IP"`
	Status int    `json:"status"`
	URI    string `json:"URI"`
	Method string `json:"method"`
	Host   string `json:"host"`
	User   string `json:"user"`
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		targetPath string
		cfg        logger.Log
		wantLine   *accessLine
	}{
		{
			name:       "root",
			targetPath: "/",
			wantLine:   &accessLine{Status: fiber.StatusOK, URI: "/", Method: fiber.MethodGet, Host: "example.com"},
		},
		{
			name:       "double slash",
			targetPath: "//test",
			wantLine:   &accessLine{Status: fiber.StatusNotFound, URI: "/test", Method: fiber.MethodGet, Host: "example.com"},
		},
		{
			name:       "query string",
			targetPath: "/apps/lms?view_as=teacher",
			wantLine: &accessLine{
				Status: fiber.StatusOK, URI: "/apps/lms?view_as=teacher", Method: fiber.MethodGet,
				Host: "example.com", User: "u-1",
			},
		},
		{
			name:       "checkalive suppressed",
			targetPath: "/checkalive",
			cfg:        logger.Log{DisableCheckAlive: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			app := fiber.New()
			app.Use(func(c *fiber.Ctx) error {
				c.Locals("uid", "u-1")

				return c.Next()
			})
			app.Use(adapter.New(adapter.Config{
				Config:         tt.cfg,
				CheckAliveURI:  "/checkalive",
				PrincipalLocal: "uid",
				Output:         &out,
			}))
			app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })
			app.Get("/apps/:app", func(c *fiber.Ctx) error { return c.SendString("ok") })
			app.Get("/checkalive", func(c *fiber.Ctx) error { return c.SendString("alive") })

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, tt.targetPath, nil))
			require.NoError(t, err)
			assert.NotEmpty(t, resp.Header.Get("X-Performance"))

			if tt.wantLine == nil {
				assert.Empty(t, out.String())

				return
			}

			var got accessLine
			require.NoError(t, json.Unmarshal(out.Bytes(), &got))
			assert.Equal(t, tt.wantLine.Status, got.Status)
			assert.Equal(t, tt.wantLine.URI, got.URI)
			assert.Equal(t, tt.wantLine.Method, got.Method)
			assert.Equal(t, tt.wantLine.Host, got.Host)
			assert.Equal(t, "u-1", got.User)
		})
	}
}
