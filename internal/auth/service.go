package auth

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/UnifiedPortal/UnifiedPortal/internal/config"
	"github.com/UnifiedPortal/UnifiedPortal/internal/db/models"
)

// Service bundles the enabled identity providers.
type Service struct {
	Local *LocalProvider
	LDAP  *LDAPProvider
	OIDC  *OIDCProvider
}

// NewService creates the providers enabled in cfg. OIDC discovery needs the network, so a
// failing provider is logged and left disabled instead of stopping the server.
func NewService(ctx context.Context, cfg *config.Auth, db *gorm.DB) *Service {
	s := &Service{}

	if cfg.LocalDB.Enabled {
		s.Local = NewLocalProvider(db)
	}

	if cfg.LDAP.Enabled {
		p, err := NewLDAPProvider(&cfg.LDAP, db)
		if err != nil {
			log.Error().Err(err).Msg("ldap provider not available")
		} else {
			s.LDAP = p
		}
	}

	if cfg.OIDC.Enabled {
		p, err := NewOIDCProvider(ctx, &cfg.OIDC, db)
		if err != nil {
			log.Error().Err(err).Str("provider", cfg.OIDC.ProviderURL).Msg("oidc provider not available")
		} else {
			s.OIDC = p
		}
	}

	return s
}

// PasswordEnabled reports whether the login form can be used.
func (s *Service) PasswordEnabled() bool {
	return s.Local != nil || s.LDAP != nil
}

// OIDCEnabled reports whether single sign-on is available.
func (s *Service) OIDCEnabled() bool {
	return s.OIDC != nil
}

// Authenticate tries the local database first and falls back to LDAP when the user is
// not a local account.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.Profile, error) {
	if !s.PasswordEnabled() {
		return nil, ErrNoProvider
	}

	if s.Local != nil {
		u, err := s.Local.Authenticate(ctx, username, password)
		if err == nil || !errors.Is(err, ErrUserNotFound) || s.LDAP == nil {
			return u, err
		}
	}

	return s.LDAP.Authenticate(ctx, username, password)
}
