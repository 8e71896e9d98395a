// Package register serves the native registration form.
package register

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/auth"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/config"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/extension"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/web/handler"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/web/session"
)

const (
	// Path is the path to the registration page.
	Path = handler.RootPath + "register"

	// TemplateName is the name of the registration template.
	TemplateName = "register"
)

var (
	// ErrRegistrationDisabled is shown when password forms are hidden.
	ErrRegistrationDisabled = errors.New("registration is disabled, please use single sign-on")
	// ErrInvalidFormData is shown for incomplete or invalid input.
	ErrInvalidFormData = errors.New("please provide a valid email, a name and a password of at least 8 characters")
	// ErrPasswordMismatch is shown when both password fields differ.
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// Form is the registration form.
type Form struct {
	Email    string `form:"email" validate:"required,email,max=255"`
	Name     string `form:"name" validate:"required,max=255"`
	Password string `form:"password" validate:"required,min=8"`
	Repeat   string `form:"password_repeat"`
}

// Service is the registration handler service.
type Service struct {
	cfg      *config.Config
	view     *handler.View
	local    *auth.LocalProvider
	validate *validator.Validate
}

// Handler is the registration handler.
var Handler = Service{} //nolint:gochecknoglobals

// Init initializes the registration handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, view *handler.View) error {
	if app == nil || cfg == nil || db == nil || view == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.view = view
	s.local = auth.NewLocalProvider(db)
	s.validate = validator.New()

	app.Get(Path, s.Get)
	app.Post(Path, s.Post)

	return nil
}

func (s *Service) render(c *fiber.Ctx, data fiber.Map) error {
	return c.Render(TemplateName, s.view.Map(c, extension.PointAuthPage, "", data))
}

// Get renders the registration form, or only the sign in alternatives while
// password forms are hidden.
func (s *Service) Get(c *fiber.Ctx) error {
	if !s.view.Gate.HasPasswordAuth() {
		return s.render(c, fiber.Map{"error": ErrRegistrationDisabled.Error()})
	}

	return s.render(c, fiber.Map{})
}

// Post creates the account and logs it in.
func (s *Service) Post(c *fiber.Ctx) error {
	if !s.view.Gate.HasPasswordAuth() {
		return s.render(c, fiber.Map{"error": ErrRegistrationDisabled.Error()})
	}

	form := new(Form)
	if err := c.BodyParser(form); err != nil {
		return s.render(c, fiber.Map{"error": ErrInvalidFormData.Error()})
	}

	if err := s.validate.Struct(form); err != nil {
		return s.render(c, fiber.Map{"error": ErrInvalidFormData.Error(), "Email": form.Email, "Name": form.Name})
	}

	if form.Password != form.Repeat {
		return s.render(c, fiber.Map{"error": ErrPasswordMismatch.Error(), "Email": form.Email, "Name": form.Name})
	}

	user, err := s.local.Register(c.UserContext(), form.Email, form.Name, form.Password)
	if err != nil {
		if errors.Is(err, auth.ErrEmailExists) {
			return s.render(c, fiber.Map{"error": auth.ErrEmailExists.Error(), "Name": form.Name})
		}

		log.Error().Err(err).Msg("registration failed")

		return s.render(c, fiber.Map{"error": "internal server error"})
	}

	if err = session.Start(c, &session.Data{UserID: user.ID}, s.cfg.Webserver.Session.ExpiryTime, !s.cfg.DevMode); err != nil {
		log.Error().Err(err).Msg("failed to write session")
		return c.Redirect(handler.LoginPath)
	}

	return c.Redirect(handler.DashboardPath)
}
