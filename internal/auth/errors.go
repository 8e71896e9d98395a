package auth

import "errors"

var (
	// ErrAuthenticationFailed is the only error the oidc login boundary returns.
	// The cause is logged server side.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrMissingRequiredClaim is returned when the provider omitted a claim needed
	// to create an account, the email or the subject.
	ErrMissingRequiredClaim = errors.New("missing required claim")

	// ErrIdentityLinkConflict marks a lost race on the unique subject of an
	// identity link. The linker recovers from it by loading the winning link.
	ErrIdentityLinkConflict = errors.New("identity link conflict")

	// ErrDiscoveryUnavailable is returned when the provider metadata can not be
	// fetched or lacks required endpoints.
	ErrDiscoveryUnavailable = errors.New("oidc discovery unavailable")

	// ErrStoreWriteFailure wraps persistence failures while linking or
	// synchronizing a user.
	ErrStoreWriteFailure = errors.New("store write failure")

	// ErrUserDisabled is returned when the matched account is not active.
	ErrUserDisabled = errors.New("user account is disabled")

	// ErrUserCreationDisabled is returned when no account matches and
	// oidc.create_user is off.
	ErrUserCreationDisabled = errors.New("user creation is disabled")

	// ErrNoIDToken is returned when the OAuth2 token response doesn't contain an ID token.
	// This typically indicates a misconfigured OIDC provider or an incomplete authentication flow.
	ErrNoIDToken = errors.New("no id_token in token response")

	// ErrNonceMismatch is returned when the id token nonce differs from the one sent.
	ErrNonceMismatch = errors.New("id token nonce mismatch")

	// ErrInvalidOldPassword is returned when the provided old password does not match the user's current password.
	ErrInvalidOldPassword = errors.New("invalid old password")

	// ErrEmailExists is returned when registering an email that is already taken.
	ErrEmailExists = errors.New("user with this email already exists")

	// ErrInvalidCredentials is returned for an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUserNotFound is returned when a user cannot be found in the database.
	ErrUserNotFound = errors.New("user not found")
)
