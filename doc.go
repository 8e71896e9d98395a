// Command go-oidc-bridge runs a web service that signs users in through an
// OpenID Connect provider next to the local password login. Accounts are
// linked by subject or email, and admin and superuser flags plus membership
// of the administrative team follow the configured identifier lists on every
// login.
package main
