// Package logout ends local login sessions.
package logout

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/config"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/web/handler"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/web/session"
)

// Path is the local logout path.
const Path = handler.RootPath + "logout"

// Service is the logout handler service.
type Service struct {
	cfg *config.Config
}

// Handler is the logout handler.
var Handler = Service{} //nolint:gochecknoglobals

// Init initializes the logout handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config) error {
	if app == nil || cfg == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg

	// logout route (outside auth middleware protection)
	app.Get(Path, s.Logout)
	app.Post(Path, s.Logout)

	return nil
}

// Logout handles user logout by clearing the session. The provider session
// of oidc logins is ended by the oidc logout endpoint instead.
func (s *Service) Logout(c *fiber.Ctx) error {
	session.End(c, !s.cfg.DevMode)

	return c.Redirect(handler.LoginPath)
}
