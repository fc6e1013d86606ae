// Package session keeps the signed-in principal in fiber session storage and
// broadcasts sign-in and sign-out events to subscribers.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"

	"github.com/UnifiedPortal/UnifiedPortal/internal/db/models"
)

const principalKey = "principal"

var (
	// ErrNoSession is returned when the request carries no signed-in principal.
	ErrNoSession = errors.New("no session")
	// ErrStorageNil is returned by NewManager without storage.
	ErrStorageNil = errors.New("session storage is nil")
)

// Principal is the signed-in identity kept in the session.
type Principal struct {
	ID          string
	Username    string
	Email       string
	DisplayName string
	AuthSource  models.AuthSource
	// IDToken is the raw OIDC token, kept for the logout hint.
	IDToken string `json:",omitempty"`
}

// PrincipalFromProfile copies the session relevant profile fields.
func PrincipalFromProfile(p *models.Profile) Principal {
	return Principal{
		ID:          p.ID,
		Username:    p.Username,
		Email:       p.Email,
		DisplayName: p.DisplayName(),
		AuthSource:  p.AuthSource,
	}
}

// Config of the manager.
type Config struct {
	CookieName string
	Expiry     time.Duration
	// Insecure drops the Secure cookie flag, dev mode only.
	Insecure bool
}

// Manager issues, reads and ends sessions. It is safe for concurrent use.
type Manager struct {
	store  *fibersession.Store
	broker *Broker
}

// NewManager creates a manager on top of storage.
func NewManager(storage fiber.Storage, cfg Config) (*Manager, error) {
	if storage == nil {
		return nil, ErrStorageNil
	}

	if cfg.CookieName == "" {
		cfg.CookieName = "session"
	}

	store := fibersession.New(fibersession.Config{
		Storage:        storage,
		Expiration:     cfg.Expiry,
		KeyLookup:      "cookie:" + cfg.CookieName,
		CookieSecure:   !cfg.Insecure,
		CookieHTTPOnly: true,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
	})

	return &Manager{store: store, broker: NewBroker()}, nil
}

// Login starts a new session for p. An existing session id is replaced.
func (m *Manager) Login(c *fiber.Ctx, p Principal) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	if err = sess.Regenerate(); err != nil {
		return fmt.Errorf("regenerate session: %w", err)
	}

	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}

	sess.Set(principalKey, string(raw))

	if err = sess.Save(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	m.broker.Publish(Event{Kind: SignedIn, Principal: p, At: time.Now()})

	return nil
}

// Get returns the principal of the request or ErrNoSession.
func (m *Manager) Get(c *fiber.Ctx) (*Principal, error) {
	sess, err := m.store.Get(c)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	raw, ok := sess.Get(principalKey).(string)
	if !ok || raw == "" {
		return nil, ErrNoSession
	}

	var p Principal
	if err = json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}

	if p.ID == "" {
		return nil, ErrNoSession
	}

	return &p, nil
}

// Logout destroys the session of the request. It returns the principal that was
// signed in, nil if there was none.
func (m *Manager) Logout(c *fiber.Ctx) (*Principal, error) {
	p, err := m.Get(c)
	if err != nil && !errors.Is(err, ErrNoSession) {
		return nil, err
	}

	sess, err := m.store.Get(c)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	if err = sess.Destroy(); err != nil {
		return nil, fmt.Errorf("destroy session: %w", err)
	}

	if p != nil {
		m.broker.Publish(Event{Kind: SignedOut, Principal: *p, At: time.Now()})
	}

	return p, nil
}

// Subscribe registers fn for session events. Call the returned func to stop.
func (m *Manager) Subscribe(fn func(Event)) (unsubscribe func()) {
	return m.broker.Subscribe(fn)
}
