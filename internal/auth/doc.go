// Package auth maps identity provider claims to local accounts.
//
// An oidc login runs through the Authenticator:
//   - Linker finds the account by identity link subject, then by email, or
//     creates it together with its link.
//   - Resolver derives the Role from the configured admin and superuser
//     identifier lists, using Matches.
//   - Synchronizer applies the role to the user flags and to the membership
//     in administrative teams, on every login.
//
// Gate decides whether password forms are hidden. OIDCClient wraps go-oidc
// and oauth2 for the code flow with PKCE and nonce. LocalProvider backs the
// native password login, registration and password change.
package auth
