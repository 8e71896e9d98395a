// Package settings serves the organiser settings page.
package settings

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/auth"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/config"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/extension"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/web/handler"
	authmw "github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/web/middleware/auth"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/web/navigation"
)

const (
	// Path is the path to the organiser settings page.
	Path = handler.RootPath + "orga/settings"

	// TemplateName is the name of the organiser settings template.
	TemplateName = "orga/settings"
)

// Service is the organiser settings handler service.
type Service struct {
	cfg  *config.Config
	view *handler.View
}

// Handler is the organiser settings handler.
var Handler = Service{} //nolint:gochecknoglobals

// Init initializes the organiser settings handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, view *handler.View) error {
	if app == nil || cfg == nil || db == nil || view == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.view = view

	app.Get(Path,
		authmw.Middleware(db),
		authmw.RequireCapability(auth.NewService(db), auth.CapChangeOrganiserSettings),
		s.Get,
	)

	return nil
}

// Get renders the read-only settings and the contributions of the
// orga.settings point.
func (s *Service) Get(c *fiber.Ctx) error {
	nav := navigation.NewContext("Organiser settings", navigation.SectionOrga, "settings").
		AddBreadcrumb("Home", handler.DashboardPath, false).
		AddBreadcrumb("Organiser settings", Path, true)

	return c.Render(TemplateName, s.view.Map(c, extension.PointOrgaSettings, "", fiber.Map{
		"Navigation":       nav,
		"Organisation":     s.cfg.Organisation,
		"AuthBackends":     s.cfg.Auth.Backends,
		"OIDCProviderName": s.cfg.OIDC.ProviderName,
		"ExtensionPoints":  s.view.Extensions.Points(),
	}), handler.BaseLayout)
}
