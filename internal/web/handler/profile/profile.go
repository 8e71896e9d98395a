// Package profile serves the account page with the password change form.
package profile

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/auth"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/config"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/db/controller/audit"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/extension"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/web/handler"
	authmw "github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/web/middleware/auth"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/web/navigation"
)

const (
	// Path is the path to the profile page.
	Path = handler.RootPath + "profile"

	// TemplateName is the name of the profile template.
	TemplateName = "profile/profile"

	auditEntries = 20
)

var (
	// ErrPasswordChangeDisabled is shown when password forms are hidden or the
	// account has no password, e.g. created by an oidc login.
	ErrPasswordChangeDisabled = errors.New("password change is not available for this account")
	// ErrInvalidFormData is shown for incomplete input or a short new password.
	ErrInvalidFormData = errors.New("please provide your current password and a new password of at least 8 characters")
	// ErrPasswordMismatch is shown when both new password fields differ.
	ErrPasswordMismatch = errors.New("new passwords do not match")
)

// PasswordForm is the password change form.
type PasswordForm struct {
	Old    string `form:"old_password" validate:"required"`
	New    string `form:"new_password" validate:"required,min=8"`
	Repeat string `form:"new_password_repeat"`
}

// Service is the profile handler service.
type Service struct {
	db       *gorm.DB
	view     *handler.View
	local    *auth.LocalProvider
	auth     *auth.Service
	validate *validator.Validate
}

// Handler is the profile handler.
var Handler = Service{} //nolint:gochecknoglobals

// Init initializes the profile handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, view *handler.View) error {
	if app == nil || cfg == nil || db == nil || view == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.db = db
	s.view = view
	s.local = auth.NewLocalProvider(db)
	s.auth = auth.NewService(db)
	s.validate = validator.New()

	app.Get(Path, authmw.Middleware(db), s.Get)
	app.Post(Path, authmw.Middleware(db), s.Post)

	return nil
}

// canChangePassword is evaluated per request, the gate is never cached.
func (s *Service) canChangePassword(c *fiber.Ctx) bool {
	user := handler.CurrentUser(c)
	return user != nil && user.HasUsablePassword() && s.view.Gate.HasPasswordAuth()
}

func (s *Service) render(c *fiber.Ctx, data fiber.Map) error {
	user := handler.CurrentUser(c)

	teams, err := s.auth.GetUserTeams(c.UserContext(), user.ID)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", user.ID).Msg("failed to load teams")
	}

	entries, err := audit.ListForUser(s.db.WithContext(c.UserContext()), user.ID, auditEntries)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", user.ID).Msg("failed to load audit log")
	}

	logins, err := audit.CountAction(s.db.WithContext(c.UserContext()), user.ID, audit.ActionOIDCLogin)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", user.ID).Msg("failed to count oidc logins")
	}

	nav := navigation.NewContext("Profile", navigation.SectionAccount, "profile").
		AddBreadcrumb("Home", handler.DashboardPath, false).
		AddBreadcrumb("Profile", Path, true)

	data["Navigation"] = nav
	data["Teams"] = teams
	data["AuditLog"] = entries
	data["SSOLogins"] = logins
	data["CanChangePassword"] = s.canChangePassword(c)

	return c.Render(TemplateName, s.view.Map(c, extension.PointProfilePage, "", data), handler.BaseLayout)
}

// Get handles the profile page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	return s.render(c, fiber.Map{})
}

// Post changes the password.
func (s *Service) Post(c *fiber.Ctx) error {
	if !s.canChangePassword(c) {
		return s.render(c, fiber.Map{"error": ErrPasswordChangeDisabled.Error()})
	}

	form := new(PasswordForm)
	if err := c.BodyParser(form); err != nil {
		return s.render(c, fiber.Map{"error": ErrInvalidFormData.Error()})
	}

	if err := s.validate.Struct(form); err != nil {
		return s.render(c, fiber.Map{"error": ErrInvalidFormData.Error()})
	}

	if form.New != form.Repeat {
		return s.render(c, fiber.Map{"error": ErrPasswordMismatch.Error()})
	}

	user := handler.CurrentUser(c)

	if err := s.local.ChangePassword(c.UserContext(), user.ID, form.Old, form.New); err != nil {
		if errors.Is(err, auth.ErrInvalidOldPassword) {
			return s.render(c, fiber.Map{"error": auth.ErrInvalidOldPassword.Error()})
		}

		log.Error().Err(err).Uint64("user_id", user.ID).Msg("password change failed")

		return s.render(c, fiber.Map{"error": "internal server error"})
	}

	return s.render(c, fiber.Map{"success": "password changed"})
}
