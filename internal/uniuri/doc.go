// Package uniuri generates random strings for unusable passwords and one-time
// tokens such as the oidc state and nonce.
package uniuri
