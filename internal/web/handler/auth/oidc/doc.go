// Package oidc serves the OpenID Connect initiate, callback and logout
// endpoints.
//
// Initiate stores state, nonce, PKCE verifier and the continue URL as a
// pending flow keyed by state and binds it to the browser with the
// oidc_state cookie. The callback accepts a state once, exchanges the code,
// authenticates the claims and starts the login session. Every failure
// redirects to the login page with oidc_error=1, details are only logged.
package oidc
