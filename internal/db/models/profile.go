package models

import (
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
)

// AuthSource represents how a principal signs in.
type AuthSource string

const (
	// AuthSourceLocal indicates the user authenticates with a local database password.
	AuthSourceLocal AuthSource = "local"
	// AuthSourceOIDC indicates the user authenticates via OpenID Connect (OIDC).
	AuthSourceOIDC AuthSource = "oidc"
	// AuthSourceLDAP indicates the user authenticates via LDAP or Active Directory.
	AuthSourceLDAP AuthSource = "ldap"
)

// Profile is the identity record every role assignment and access request refers to.
type Profile struct {
	// ID is a UUID issued on first sign-in.
	ID string `gorm:"primaryKey;size:36"`
	// Active profiles may sign in.
	Active bool
	// Username is unique across all auth sources.
	Username string `gorm:"uniqueIndex;size:100;not null"`
	// Email may be empty for providers that do not release it.
	Email     string `gorm:"size:255"`
	FirstName string `gorm:"size:100"`
	LastName  string `gorm:"size:100"`
	// Password is the Argon2id hash, local profiles only.
	Password   string     `gorm:"size:255"`
	AuthSource AuthSource `gorm:"type:varchar(20);not null;default:'local'"`
	// ExternalID is the OIDC subject or the LDAP DN.
	ExternalID string `gorm:"size:255;index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName overrides the gorm default.
func (Profile) TableName() string {
	return "profiles"
}

// DisplayName returns first and last name, falling back to the username.
func (p *Profile) DisplayName() string {
	switch {
	case p.FirstName != "" && p.LastName != "":
		return p.FirstName + " " + p.LastName
	case p.FirstName != "":
		return p.FirstName
	default:
		return p.Username
	}
}

// HashPassword hashes a plaintext password using the Argon2id algorithm.
func HashPassword(password string) (string, error) {
	return argon2id.CreateHash(password, argon2id.DefaultParams) //nolint:wrapcheck
}

// VerifyPassword compares password against the stored hash in constant time.
func (p *Profile) VerifyPassword(password string) bool {
	if p.Password == "" {
		return false
	}

	match, err := argon2id.ComparePasswordAndHash(password, p.Password)
	if err != nil {
		log.Error().Err(err).Str("user", p.ID).Msg("failed to verify password")

		return false
	}

	return match
}
