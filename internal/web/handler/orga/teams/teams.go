// Package teams lists the administrative teams and their members.
package teams

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/auth"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/config"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/web/handler"
	authmw "github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/web/middleware/auth"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/web/navigation"
)

const (
	// Path is the path to the teams page.
	Path = handler.RootPath + "orga/teams"

	// TemplateName is the name of the teams template.
	TemplateName = "orga/teams"
)

// Service is the teams handler service.
type Service struct {
	view *handler.View
	auth *auth.Service
}

// Handler is the teams handler.
var Handler = Service{} //nolint:gochecknoglobals

// Init initializes the teams handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, view *handler.View) error {
	if app == nil || cfg == nil || db == nil || view == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.view = view
	s.auth = auth.NewService(db)

	app.Get(Path,
		authmw.Middleware(db),
		authmw.RequireCapability(s.auth, auth.CapChangeTeams),
		s.Get,
	)

	return nil
}

// Get handles the teams page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	nav := navigation.NewContext("Teams", navigation.SectionOrga, "teams").
		AddBreadcrumb("Home", handler.DashboardPath, false).
		AddBreadcrumb("Teams", Path, true)

	teams, err := s.auth.AdministrativeTeams(c.UserContext())
	if err != nil {
		log.Error().Err(err).Msg("failed to list administrative teams")
		return fiber.ErrInternalServerError
	}

	return c.Render(TemplateName, s.view.Map(c, "", "", fiber.Map{
		"Navigation": nav,
		"Teams":      teams,
	}), handler.BaseLayout)
}
