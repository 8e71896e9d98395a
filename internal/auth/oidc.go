package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/config"
)

const (
	// wellKnownSuffix is appended to discovery endpoints lacking it.
	wellKnownSuffix = "/.well-known/openid-configuration"

	discoveryTimeout = 10 * time.Second
)

// Tokens are the provider tokens kept in the session when configured.
type Tokens struct {
	AccessToken string
	IDToken     string
	Expiry      time.Time
}

// FlowClient runs the authorization code flow against the identity provider.
type FlowClient interface {
	// AuthURL returns the provider URL the browser is sent to.
	AuthURL(state, nonce, verifier, redirectURL string) string
	// Exchange redeems code and returns the verified claims.
	Exchange(ctx context.Context, code, nonce, verifier, redirectURL string) (Claims, *Tokens, error)
	// LogoutURL returns the provider end session URL, empty when unsupported.
	LogoutURL(idTokenHint, postLogoutRedirect string) string
}

// OIDCClient implements FlowClient with go-oidc and oauth2.
type OIDCClient struct {
	cfg        *config.OIDC
	provider   *oidc.Provider
	verifier   *oidc.IDTokenVerifier
	oauth2     oauth2.Config
	endSession string
}

// providerMetadata are the discovery fields go-oidc doesn't expose.
type providerMetadata struct {
	AuthURL     string `json:"authorization_endpoint"`
	TokenURL    string `json:"token_endpoint"`
	UserInfoURL string `json:"userinfo_endpoint"`
	JWKSURL     string `json:"jwks_uri"`
	EndSession  string `json:"end_session_endpoint"`
}

// NormalizeDiscoveryURL appends the well-known suffix when missing.
func NormalizeDiscoveryURL(raw string) string {
	u := strings.TrimRight(strings.TrimSpace(raw), "/")
	if u == "" || strings.HasSuffix(u, wellKnownSuffix) {
		return u
	}

	return u + wellKnownSuffix
}

// IssuerFromDiscovery returns the issuer URL a discovery endpoint belongs to.
func IssuerFromDiscovery(raw string) string {
	return strings.TrimSuffix(NormalizeDiscoveryURL(raw), wellKnownSuffix)
}

// NewOIDCClient discovers the provider metadata, bounded by a 10 second
// timeout. When discovery fails or misses endpoints, the manually configured
// endpoints are used. Without either it returns ErrDiscoveryUnavailable.
func NewOIDCClient(ctx context.Context, cfg *config.OIDC) (*OIDCClient, error) {
	provider, endSession, err := discover(ctx, cfg)
	if err != nil {
		if !cfg.HasManualEndpoints() {
			return nil, err
		}

		log.Warn().Err(err).Msg("oidc discovery failed, using configured endpoints")

		provider, endSession = manualProvider(ctx, cfg), ""
	}

	verifierCfg := &oidc.Config{ClientID: cfg.ClientID}
	if cfg.SignAlgo != "" {
		verifierCfg.SupportedSigningAlgs = []string{cfg.SignAlgo}
	}

	if cfg.DiscoveryEndpoint == "" && err != nil {
		// manual endpoints without a discovery endpoint carry no issuer
		verifierCfg.SkipIssuerCheck = true
	}

	return &OIDCClient{
		cfg:      cfg,
		provider: provider,
		verifier: provider.Verifier(verifierCfg),
		oauth2: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     provider.Endpoint(),
			Scopes:       scopes(cfg.Scopes),
		},
		endSession: endSession,
	}, nil
}

func discover(ctx context.Context, cfg *config.OIDC) (*oidc.Provider, string, error) {
	if cfg.DiscoveryEndpoint == "" {
		return nil, "", fmt.Errorf("%w: no discovery endpoint configured", ErrDiscoveryUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, discoveryTimeout)
	defer cancel()

	provider, err := oidc.NewProvider(ctx, IssuerFromDiscovery(cfg.DiscoveryEndpoint))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDiscoveryUnavailable, err) //nolint:errorlint
	}

	var meta providerMetadata
	if err = provider.Claims(&meta); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDiscoveryUnavailable, err) //nolint:errorlint
	}

	if meta.AuthURL == "" || meta.TokenURL == "" || meta.UserInfoURL == "" || meta.JWKSURL == "" {
		return nil, "", fmt.Errorf("%w: metadata lacks required endpoints", ErrDiscoveryUnavailable)
	}

	return provider, meta.EndSession, nil
}

func manualProvider(ctx context.Context, cfg *config.OIDC) *oidc.Provider {
	pc := oidc.ProviderConfig{
		AuthURL:     cfg.AuthorizationEndpoint,
		TokenURL:    cfg.TokenEndpoint,
		UserInfoURL: cfg.UserEndpoint,
		JWKSURL:     cfg.JWKSEndpoint,
	}

	if cfg.DiscoveryEndpoint != "" {
		pc.IssuerURL = IssuerFromDiscovery(cfg.DiscoveryEndpoint)
	}

	if cfg.SignAlgo != "" {
		pc.Algorithms = []string{cfg.SignAlgo}
	}

	return pc.NewProvider(ctx)
}

// scopes splits the configured scope string, openid is always requested.
func scopes(raw string) []string {
	out := strings.Fields(raw)
	if !slices.Contains(out, oidc.ScopeOpenID) {
		out = append([]string{oidc.ScopeOpenID}, out...)
	}

	return out
}

// GenerateStateToken generates a random token for the state and nonce parameters.
func GenerateStateToken() (string, error) {
	b := make([]byte, 32) //nolint:mnd
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}

func (c *OIDCClient) config(redirectURL string) *oauth2.Config {
	conf := c.oauth2
	conf.RedirectURL = redirectURL

	return &conf
}

// AuthURL returns the authorization URL with state, PKCE S256 challenge and
// the nonce when not empty.
func (c *OIDCClient) AuthURL(state, nonce, verifier, redirectURL string) string {
	opts := []oauth2.AuthCodeOption{oauth2.S256ChallengeOption(verifier)}
	if nonce != "" {
		opts = append(opts, oidc.Nonce(nonce))
	}

	return c.config(redirectURL).AuthCodeURL(state, opts...)
}

// Exchange redeems code, verifies the id token and its nonce and completes
// missing email and name claims from the userinfo endpoint.
func (c *OIDCClient) Exchange(ctx context.Context, code, nonce, verifier, redirectURL string) (Claims, *Tokens, error) {
	token, err := c.config(redirectURL).Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return Claims{}, nil, fmt.Errorf("failed to exchange token: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return Claims{}, nil, ErrNoIDToken
	}

	idToken, err := c.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return Claims{}, nil, fmt.Errorf("failed to verify ID token: %w", err)
	}

	if nonce != "" && idToken.Nonce != nonce {
		return Claims{}, nil, ErrNonceMismatch
	}

	var claims Claims
	if err = idToken.Claims(&claims); err != nil {
		return Claims{}, nil, fmt.Errorf("failed to parse claims: %w", err)
	}

	claims.Subject = idToken.Subject

	if claims.Email == "" || claims.DisplayName == "" {
		claims = c.fillFromUserInfo(ctx, token, claims)
	}

	tokens := &Tokens{Expiry: token.Expiry}

	if c.cfg.StoreAccessToken {
		tokens.AccessToken = token.AccessToken
	}

	if c.cfg.StoreIDToken {
		tokens.IDToken = rawIDToken
	}

	return claims, tokens, nil
}

func (c *OIDCClient) fillFromUserInfo(ctx context.Context, token *oauth2.Token, claims Claims) Claims {
	info, err := c.provider.UserInfo(ctx, oauth2.StaticTokenSource(token))
	if err != nil {
		log.Debug().Err(err).Str("sub", claims.Subject).Msg("oidc userinfo unavailable")
		return claims
	}

	var extra Claims
	if err = info.Claims(&extra); err != nil {
		log.Debug().Err(err).Msg("failed to parse oidc userinfo claims")
		return claims
	}

	extra.Subject = info.Subject

	if extra.Subject != claims.Subject {
		log.Warn().Str("sub", claims.Subject).Msg("oidc userinfo subject differs from id token, ignored")
		return claims
	}

	return claims.fill(extra)
}

// LogoutURL returns the RP initiated logout URL of the provider.
func (c *OIDCClient) LogoutURL(idTokenHint, postLogoutRedirect string) string {
	if c.endSession == "" {
		return ""
	}

	u, err := url.Parse(c.endSession)
	if err != nil {
		return ""
	}

	q := u.Query()
	q.Set("client_id", c.cfg.ClientID)

	if idTokenHint != "" {
		q.Set("id_token_hint", idTokenHint)
	}

	if postLogoutRedirect != "" {
		q.Set("post_logout_redirect_uri", postLogoutRedirect)
	}

	u.RawQuery = q.Encode()

	return u.String()
}
