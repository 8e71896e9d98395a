package oidc

import (
	"crypto/subtle"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/auth"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/config"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/web/handler"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/web/session"
)

const (
	// LoginPath is the path to initiate OIDC login.
	LoginPath = handler.RootPath + "auth/oidc/login"

	// CallbackPath is the path for OIDC callback.
	CallbackPath = handler.RootPath + "auth/oidc/callback"

	// LogoutPath is the path for OIDC logout.
	LogoutPath = handler.RootPath + "auth/oidc/logout"

	// StateCookie binds a pending flow to the browser that started it.
	StateCookie = "oidc_state"

	// ErrorPath is where every failed login ends.
	ErrorPath = handler.LoginPath + "?oidc_error=1"
)

// ErrStateMismatch is logged when the callback state doesn't belong to the browser.
var ErrStateMismatch = errors.New("oidc state mismatch")

// Service is the OIDC handler service.
type Service struct {
	cfg           *config.Config
	clients       *auth.ClientHolder
	authenticator *auth.Authenticator
}

// Handler is the OIDC handler.
var Handler = Service{} //nolint:gochecknoglobals

// Init initializes the OIDC handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, clients *auth.ClientHolder) error {
	if app == nil || cfg == nil || db == nil || clients == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.clients = clients
	s.authenticator = auth.NewAuthenticator(db, cfg)

	app.Get(LoginPath, s.Login)
	app.Get(CallbackPath, s.Callback)
	app.Get(LogoutPath, s.Logout)

	return nil
}

// CallbackURL returns the redirect uri registered at the provider.
func CallbackURL(cfg *config.Config) string {
	raw := cfg.OIDC.RedirectURL
	if raw == "" {
		raw = strings.TrimRight(cfg.Webserver.URL, "/") + CallbackPath
	}

	if !cfg.OIDC.ForceHTTPSRedirect {
		return raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	u.Scheme = "https"

	return u.String()
}

// SessionExpiry is the lifetime of an oidc login session, bounded by
// oidc.renew_id_token_expiry_seconds.
func SessionExpiry(cfg *config.Config) time.Duration {
	exp := cfg.Webserver.Session.ExpiryTime

	if renew := time.Duration(cfg.OIDC.RenewIDTokenExpirySeconds) * time.Second; renew > 0 && (exp <= 0 || renew < exp) {
		exp = renew
	}

	return exp
}

func (s *Service) secure() bool {
	return !s.cfg.DevMode
}

// Login initiates the OIDC login flow.
func (s *Service) Login(c *fiber.Ctx) error {
	client, err := s.clients.Client(c.UserContext())
	if err != nil {
		return s.fail(c, "provider unavailable", err)
	}

	state, err := auth.GenerateStateToken()
	if err != nil {
		return s.fail(c, "state generation failed", err)
	}

	var nonce string

	if s.cfg.OIDC.UseNonce {
		if nonce, err = auth.GenerateStateToken(); err != nil {
			return s.fail(c, "nonce generation failed", err)
		}
	}

	flow := &session.Flow{
		Nonce:       nonce,
		Verifier:    oauth2.GenerateVerifier(),
		Next:        handler.SafeNext(c.Query("next"), s.cfg.OIDC.LoginRedirectURL),
		RedirectURL: CallbackURL(s.cfg),
	}

	if err = session.SaveFlow(state, flow); err != nil {
		return s.fail(c, "failed to store pending flow", err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     StateCookie,
		Value:    state,
		Path:     handler.RootPath + "auth/oidc",
		MaxAge:   int(session.FlowTTL.Seconds()),
		Secure:   s.secure(),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.Redirect(client.AuthURL(state, nonce, flow.Verifier, flow.RedirectURL), fiber.StatusFound)
}

// Callback handles the OIDC callback.
func (s *Service) Callback(c *fiber.Ctx) error {
	state := c.Query("state")
	cookieState := c.Cookies(StateCookie)

	c.Cookie(&fiber.Cookie{
		Name:     StateCookie,
		Value:    "",
		Path:     handler.RootPath + "auth/oidc",
		MaxAge:   -1,
		Secure:   s.secure(),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	if providerErr := c.Query("error"); providerErr != "" {
		// the flow stays unusable even when the provider reports an error
		_, _ = session.TakeFlow(state)

		return s.fail(c, "provider returned an error", errors.New(providerErr))
	}

	if state == "" || subtle.ConstantTimeCompare([]byte(state), []byte(cookieState)) != 1 {
		return s.fail(c, "state does not match cookie", ErrStateMismatch)
	}

	flow, err := session.TakeFlow(state)
	if err != nil {
		return s.fail(c, "no pending flow for state", err)
	}

	code := c.Query("code")
	if code == "" {
		return s.fail(c, "callback without code", ErrStateMismatch)
	}

	client, err := s.clients.Client(c.UserContext())
	if err != nil {
		return s.fail(c, "provider unavailable", err)
	}

	claims, tokens, err := client.Exchange(c.UserContext(), code, flow.Nonce, flow.Verifier, flow.RedirectURL)
	if err != nil {
		return s.fail(c, "code exchange failed", err)
	}

	user, err := s.authenticator.Authenticate(c.UserContext(), claims)
	if err != nil {
		return s.fail(c, "authentication failed", err)
	}

	data := &session.Data{UserID: user.ID, Provider: s.cfg.OIDC.ProviderName}
	if tokens != nil {
		data.IDToken = tokens.IDToken
		data.AccessToken = tokens.AccessToken
	}

	if err = session.Start(c, data, SessionExpiry(s.cfg), s.secure()); err != nil {
		return s.fail(c, "failed to write session", err)
	}

	log.Info().Uint64("user_id", user.ID).Msg("oidc login")

	return c.Redirect(handler.SafeNext(flow.Next, s.cfg.OIDC.LoginRedirectURL), fiber.StatusFound)
}

// Logout ends the session and, when the provider supports it, the provider
// session too.
func (s *Service) Logout(c *fiber.Ctx) error {
	data := session.End(c, s.secure())

	target := s.cfg.OIDC.LogoutRedirectURL
	if target == "" {
		target = handler.LoginPath
	}

	if data.Provider == "" || !s.clients.Available() {
		return c.Redirect(target)
	}

	client, err := s.clients.Client(c.UserContext())
	if err != nil {
		return c.Redirect(target)
	}

	postLogout := target
	if strings.HasPrefix(target, "/") {
		postLogout = strings.TrimRight(s.cfg.Webserver.URL, "/") + target
	}

	if endSession := client.LogoutURL(data.IDToken, postLogout); endSession != "" {
		return c.Redirect(endSession)
	}

	return c.Redirect(target)
}

func (s *Service) fail(c *fiber.Ctx, msg string, err error) error {
	log.Warn().Err(err).Str("path", c.Path()).Msg("oidc login failed: " + msg)

	return c.Redirect(ErrorPath, fiber.StatusFound)
}
