package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/url"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"github.com/UnifiedPortal/UnifiedPortal/internal/config"
	"github.com/UnifiedPortal/UnifiedPortal/internal/db/models"
)

// OIDCProvider handles OIDC authentication.
type OIDCProvider struct {
	provider *oidc.Provider
	verifier *oidc.IDTokenVerifier
	oauth2   oauth2.Config
	db       *gorm.DB
}

// oidcClaims are the ID token claims a profile is built from.
type oidcClaims struct {
	Sub               string `json:"sub"`
	Email             string `json:"email"`
	PreferredUsername string `json:"preferred_username"`
	GivenName         string `json:"given_name"`
	FamilyName        string `json:"family_name"`
}

// NewOIDCProvider discovers the provider configuration and creates a new OIDC provider.
func NewOIDCProvider(ctx context.Context, cfg *config.OIDCAuth, db *gorm.DB) (*OIDCProvider, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, ErrOIDCDisabled
	}

	provider, err := oidc.NewProvider(ctx, cfg.ProviderURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create OIDC provider: %w", err)
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{oidc.ScopeOpenID, "profile", "email"}
	}

	return &OIDCProvider{
		provider: provider,
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
		oauth2: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       scopes,
		},
		db: db,
	}, nil
}

// GenerateStateToken generates a random state token for CSRF protection.
func GenerateStateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}

// AuthURL returns the authorization URL for state.
func (p *OIDCProvider) AuthURL(state string) string {
	return p.oauth2.AuthCodeURL(state)
}

// HandleCallback exchanges code, verifies the ID token and returns the matching profile
// together with the raw ID token, which is needed for the logout hint.
func (p *OIDCProvider) HandleCallback(ctx context.Context, code string) (*models.Profile, string, error) {
	token, err := p.oauth2.Exchange(ctx, code)
	if err != nil {
		return nil, "", fmt.Errorf("failed to exchange token: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return nil, "", ErrNoIDToken
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, "", fmt.Errorf("failed to verify ID token: %w", err)
	}

	var claims oidcClaims
	if err = idToken.Claims(&claims); err != nil {
		return nil, "", fmt.Errorf("failed to parse claims: %w", err)
	}

	u, err := upsertExternal(ctx, p.db, claims.identity())
	if err != nil {
		return nil, "", err
	}

	return u, rawIDToken, nil
}

func (c oidcClaims) identity() externalIdentity {
	username := c.PreferredUsername
	if username == "" {
		username = c.Email
	}

	return externalIdentity{
		Source:     models.AuthSourceOIDC,
		ExternalID: c.Sub,
		Username:   username,
		Email:      c.Email,
		FirstName:  c.GivenName,
		LastName:   c.FamilyName,
	}
}

// LogoutURL returns the provider's end session URL, or an empty string when the
// provider does not advertise one.
func (p *OIDCProvider) LogoutURL(idToken, postLogoutRedirectURI string) string {
	var claims struct {
		EndSessionEndpoint string `json:"end_session_endpoint"`
	}

	if err := p.provider.Claims(&claims); err != nil || claims.EndSessionEndpoint == "" {
		return ""
	}

	return endSessionURL(claims.EndSessionEndpoint, idToken, postLogoutRedirectURI)
}

func endSessionURL(endpoint, idToken, postLogoutRedirectURI string) string {
	u, err := url.Parse(endpoint)
	if err != nil {
		return ""
	}

	q := u.Query()
	if idToken != "" {
		q.Set("id_token_hint", idToken)
	}

	if postLogoutRedirectURI != "" {
		q.Set("post_logout_redirect_uri", postLogoutRedirectURI)
	}

	u.RawQuery = q.Encode()

	return u.String()
}
