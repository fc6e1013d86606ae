package auth

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-ldap/ldap/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/UnifiedPortal/UnifiedPortal/internal/config"
	"github.com/UnifiedPortal/UnifiedPortal/internal/db/models"
)

const (
	defaultLDAPTimeout    = 10
	defaultLDAPUserFilter = "(uid={username})"
)

// LDAPProvider handles LDAP authentication.
type LDAPProvider struct {
	config config.LDAPAuth
	db     *gorm.DB
}

// NewLDAPProvider creates a new LDAP provider. Attribute names default to the
// inetOrgPerson schema.
func NewLDAPProvider(cfg *config.LDAPAuth, db *gorm.DB) (*LDAPProvider, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, ErrLDAPDisabled
	}

	c := *cfg

	if c.UserFilter == "" {
		c.UserFilter = defaultLDAPUserFilter
	}

	if c.UsernameAttr == "" {
		c.UsernameAttr = "uid"
	}

	if c.EmailAttr == "" {
		c.EmailAttr = "mail"
	}

	if c.FirstNameAttr == "" {
		c.FirstNameAttr = "givenName"
	}

	if c.LastNameAttr == "" {
		c.LastNameAttr = "sn"
	}

	if c.Timeout == 0 {
		c.Timeout = defaultLDAPTimeout
	}

	return &LDAPProvider{config: c, db: db}, nil
}

// URL returns the ldap:// or ldaps:// URL of the configured server.
func (p *LDAPProvider) URL() string {
	hostPort := net.JoinHostPort(p.config.Host, strconv.Itoa(p.config.Port))
	if p.config.UseSSL {
		return "ldaps://" + hostPort
	}

	return "ldap://" + hostPort
}

// Connect establishes a connection to the LDAP server.
func (p *LDAPProvider) Connect() (*ldap.Conn, error) {
	var tlsConfig *tls.Config
	if p.config.UseSSL || p.config.UseTLS {
		tlsConfig = &tls.Config{
			InsecureSkipVerify: p.config.SkipVerify, //nolint:gosec // operator opt-in
			ServerName:         p.config.Host,
		}
	}

	conn, err := ldap.DialURL(p.URL(), ldap.DialWithTLSConfig(tlsConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to LDAP server: %w", err)
	}

	if !p.config.UseSSL && p.config.UseTLS {
		if errStartTLS := conn.StartTLS(tlsConfig); errStartTLS != nil {
			p.close(conn)

			return nil, fmt.Errorf("failed to start TLS: %w", errStartTLS)
		}
	}

	conn.SetTimeout(time.Duration(p.config.Timeout) * time.Second)

	return conn, nil
}

// Authenticate binds as username and mirrors the directory entry into a profile.
func (p *LDAPProvider) Authenticate(ctx context.Context, username, password string) (*models.Profile, error) {
	// an empty password would be an unauthenticated bind and succeed on most servers
	if password == "" {
		return nil, ErrInvalidPassword
	}

	conn, err := p.Connect()
	if err != nil {
		return nil, err
	}
	defer p.close(conn)

	if p.config.BindDN != "" {
		if err = conn.Bind(p.config.BindDN, p.config.BindPassword); err != nil {
			return nil, fmt.Errorf("failed to bind with service account: %w", err)
		}
	}

	entry, err := p.searchUser(conn, username)
	if err != nil {
		return nil, err
	}

	if err = conn.Bind(entry.DN, password); err != nil {
		if ldap.IsErrorWithCode(err, ldap.LDAPResultInvalidCredentials) {
			return nil, ErrInvalidPassword
		}

		return nil, fmt.Errorf("authentication failed: %w", err)
	}

	return upsertExternal(ctx, p.db, p.identity(username, entry))
}

// TestConnection connects and binds with the service account.
func (p *LDAPProvider) TestConnection() error {
	conn, err := p.Connect()
	if err != nil {
		return err
	}
	defer p.close(conn)

	if p.config.BindDN != "" {
		if err = conn.Bind(p.config.BindDN, p.config.BindPassword); err != nil {
			return fmt.Errorf("bind failed: %w", err)
		}
	}

	return nil
}

func (p *LDAPProvider) searchUser(conn *ldap.Conn, username string) (*ldap.Entry, error) {
	res, err := conn.Search(ldap.NewSearchRequest(
		p.config.BaseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		0,
		p.config.Timeout,
		false,
		p.userFilter(username),
		p.attributes(),
		nil,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to search for user: %w", err)
	}

	switch len(res.Entries) {
	case 0:
		return nil, ErrUserNotFound
	case 1:
		return res.Entries[0], nil
	default:
		return nil, ErrMultipleUsersFound
	}
}

func (p *LDAPProvider) userFilter(username string) string {
	return strings.ReplaceAll(p.config.UserFilter, "{username}", ldap.EscapeFilter(username))
}

func (p *LDAPProvider) attributes() []string {
	return []string{
		p.config.UsernameAttr,
		p.config.EmailAttr,
		p.config.FirstNameAttr,
		p.config.LastNameAttr,
	}
}

func (p *LDAPProvider) identity(username string, entry *ldap.Entry) externalIdentity {
	if v := entry.GetAttributeValue(p.config.UsernameAttr); v != "" {
		username = v
	}

	return externalIdentity{
		Source:     models.AuthSourceLDAP,
		ExternalID: entry.DN,
		Username:   username,
		Email:      entry.GetAttributeValue(p.config.EmailAttr),
		FirstName:  entry.GetAttributeValue(p.config.FirstNameAttr),
		LastName:   entry.GetAttributeValue(p.config.LastNameAttr),
	}
}

func (p *LDAPProvider) close(conn *ldap.Conn) {
	if err := conn.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close LDAP connection")
	}
}
