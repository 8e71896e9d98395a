package login

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
	authmw "github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/web/middleware/auth"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/web/session"
)

const (
	// Path is the path to the login page.
	Path = handler.LoginPath

	// TemplateName is the name of the login template.
	TemplateName = "login"
)

// Form is the password login form.
type Form struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
	Next     string `form:"next"`
}

// Service is the login handler service.
type Service struct {
	cfg      *config.Config
	db       *gorm.DB
	view     *handler.View
	local    *auth.LocalProvider
	validate *validator.Validate
}

// Handler is the login handler.
var Handler = Service{} //nolint:gochecknoglobals

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, view *handler.View) error {
	if app == nil || cfg == nil || db == nil || view == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.db = db
	s.cfg = cfg
	s.view = view
	s.local = auth.NewLocalProvider(db)
	s.validate = validator.New()

	app.Get(Path, s.Get)
	app.Post(Path, s.Post)

	return nil
}

func (s *Service) passwordAllowed() bool {
	return s.view.Gate.HasPasswordAuth()
}

func (s *Service) render(c *fiber.Ctx, next string, data fiber.Map) error {
	data["Next"] = next

	return c.Render(TemplateName, s.view.Map(c, extension.PointAuthPage, next, data))
}

// Get handles the login page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	next := handler.SafeNext(c.Query("next"), "")

	if authmw.Load(c, s.db) {
		return c.Redirect(handler.SafeNext(next, handler.DashboardPath))
	}

	data := fiber.Map{}
	if c.Query("oidc_error") != "" {
		data["error"] = ErrOIDCFailed.Error()
	}

	return s.render(c, next, data)
}

// Post handles the login form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	form := new(Form)
	if err := c.BodyParser(form); err != nil {
		return s.render(c, "", fiber.Map{"error": ErrInvalidFormData.Error()})
	}

	next := handler.SafeNext(form.Next, "")

	if !s.passwordAllowed() {
		return s.render(c, next, fiber.Map{"error": ErrLocalAuthDisabled.Error()})
	}

	if err := s.validate.Struct(form); err != nil {
		return s.render(c, next, fiber.Map{"error": ErrInvalidFormData.Error()})
	}

	user, err := s.local.Authenticate(c.UserContext(), form.Email, form.Password)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) && !errors.Is(err, auth.ErrUserDisabled) {
			log.Error().Err(err).Msg("password login failed")
		}

		return s.render(c, next, fiber.Map{"error": ErrInvalidCredentials.Error()})
	}

	if err = session.Start(c, &session.Data{UserID: user.ID}, s.cfg.Webserver.Session.ExpiryTime, !s.cfg.DevMode); err != nil {
		log.Error().Err(err).Msg("failed to write session")
		return s.render(c, next, fiber.Map{"error": ErrInternalServerError.Error()})
	}

	return c.Redirect(handler.SafeNext(next, handler.DashboardPath))
}
