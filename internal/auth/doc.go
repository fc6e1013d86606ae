// Package auth verifies who a principal is.
//
// Three identity providers are supported and each of them ends in a models.Profile:
//   - LocalProvider checks a username and an Argon2id password hash in the profiles table.
//   - LDAPProvider binds against LDAP or Active Directory and mirrors the entry into a profile.
//   - OIDCProvider runs the authorization code flow against an OpenID Connect provider.
//
// Service bundles the enabled providers. What a principal may do in an application is
// decided by package access, not here.
package auth
