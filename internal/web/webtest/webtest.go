// Package webtest holds fixtures shared by the web handler tests.
package webtest

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/UnifiedPortal/UnifiedPortal/internal/config"
	"github.com/UnifiedPortal/UnifiedPortal/internal/db/controller/profile"
	"github.com/UnifiedPortal/UnifiedPortal/internal/db/models"
)

// Storage is an in-memory fiber.Storage.
type Storage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ fiber.Storage = (*Storage)(nil)

// NewStorage returns an empty storage.
func NewStorage() *Storage {
	return &Storage{data: make(map[string][]byte)}
}

// Get returns nil for missing keys.
func (s *Storage) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return nil, nil
	}

	out := make([]byte, len(v))
	copy(out, v)

	return out, nil
}

// Set stores a copy of val. Expiry is ignored.
func (s *Storage) Set(key string, val []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf := make([]byte, len(val))
	copy(buf, val)
	s.data[key] = buf

	return nil
}

// Delete removes key.
func (s *Storage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)

	return nil
}

// Reset drops everything.
func (s *Storage) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make(map[string][]byte)

	return nil
}

// Close is a no-op.
func (s *Storage) Close() error { return nil }

// Len returns the number of stored keys.
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.data)
}

// Views is a fiber.Views engine that records the last render.
// The body is the template name followed by the "error" and "message" values.
type Views struct {
	mu   sync.Mutex
	last Render
}

// Render captures one call of Views.Render.
type Render struct {
	Name string
	Data fiber.Map
}

// Load implements fiber.Views.
func (*Views) Load() error { return nil }

// Render implements fiber.Views.
func (v *Views) Render(w io.Writer, name string, data any, _ ...string) error {
	m, _ := data.(fiber.Map)

	v.mu.Lock()
	v.last = Render{Name: name, Data: m}
	v.mu.Unlock()

	parts := []string{name}

	for _, key := range []string{"error", "message"} {
		if s, ok := m[key].(string); ok && s != "" {
			parts = append(parts, s)
		}
	}

	_, err := io.WriteString(w, strings.Join(parts, "\n"))

	return err //nolint:wrapcheck
}

// Last returns the most recent render.
func (v *Views) Last() Render {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.last
}

// NewApp returns a fiber app rendering through views, configured like web.New.
func NewApp(views *Views) *fiber.App {
	return fiber.New(fiber.Config{
		CaseSensitive: true,
		Immutable:     true,
		Views:         views,
	})
}

// NewDB opens a migrated in-memory SQLite database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open sqlite in-memory db")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...))

	return db
}

// NewConfig returns a minimal valid configuration with local sign-in enabled.
func NewConfig() *config.Config {
	return &config.Config{
		Title: "Unified Portal",
		Webserver: config.Webserver{
			URL:       "http://localhost",
			Port:      3000,
			Session:   config.Session{ExpiryTime: time.Minute, CookieName: "session"},
			RateLimit: config.RateLimit{Max: 100, Expiration: time.Minute},
		},
		Auth: config.Auth{
			LocalDB: config.LocalDBAuth{Enabled: true},
		},
		Applications: map[string]config.Application{
			"jr": {BaseURL: "https://jr.example.com"},
		},
	}
}

// CreateProfile stores a local profile with password.
func CreateProfile(t *testing.T, db *gorm.DB, username, email, password string) *models.Profile {
	t.Helper()

	hash, err := models.HashPassword(password)
	require.NoError(t, err)

	p := &models.Profile{
		Active:     true,
		Username:   username,
		Email:      email,
		Password:   hash,
		AuthSource: models.AuthSourceLocal,
	}
	require.NoError(t, profile.Create(context.Background(), db, p))

	return p
}

// Cookies collects Set-Cookie values of resp as a Cookie request header.
func Cookies(resp *http.Response) string {
	parts := make([]string, 0, len(resp.Cookies()))

	for _, c := range resp.Cookies() {
		if c.MaxAge < 0 || c.Value == "" {
			continue
		}

		parts = append(parts, c.Name+"="+c.Value)
	}

	return strings.Join(parts, "; ")
}

// ReadBody returns the response body as string.
func ReadBody(t *testing.T, resp *http.Response) string {
	t.Helper()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return string(b)
}
