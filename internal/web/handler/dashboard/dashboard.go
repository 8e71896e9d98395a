// Package dashboard provides the landing page after login.
package dashboard

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
	// Path is the path to the dashboard page.
	Path = handler.DashboardPath

	// TemplateName is the name of the dashboard template.
	TemplateName = "dashboard/dashboard"
)

// Service is the dashboard handler service.
type Service struct {
	view *handler.View
	auth *auth.Service
}

// Handler is the dashboard handler.
var Handler = Service{} //nolint:gochecknoglobals

// Init initializes the dashboard handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, view *handler.View) error {
	if app == nil || cfg == nil || db == nil || view == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.view = view
	s.auth = auth.NewService(db)

	app.Get(Path, authmw.Middleware(db), s.Get)

	return nil
}

// Get handles the dashboard page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	user := handler.CurrentUser(c)

	nav := navigation.NewContext("Dashboard", navigation.SectionDashboard, "dashboard").
		AddBreadcrumb("Home", Path, false).
		AddBreadcrumb("Dashboard", Path, true)

	teams, err := s.auth.GetUserTeams(c.UserContext(), user.ID)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", user.ID).Msg("failed to load teams")
		return fiber.ErrInternalServerError
	}

	log.Debug().Uint64("user_id", user.ID).Int("teams", len(teams)).Msg("dashboard rendered")

	return c.Render(TemplateName, s.view.Map(c, "", "", fiber.Map{
		"Navigation": nav,
		"Teams":      teams,
	}), handler.BaseLayout)
}
