// Package oidc provides handlers for the OpenID Connect sign-in flow.
//
// The flow includes:
//   - Login initiation with CSRF protection via state tokens kept in an expiring LRU
//   - Authorization callback handling with ID token verification
//   - Profile creation or update from the ID token claims
//   - Session creation, the raw ID token is kept for the logout hint
//
// Routes:
//
//	GET /auth/oidc/login?next=  - Initiate the flow
//	GET /auth/oidc/callback     - Handle the provider callback
package oidc
