package auth

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/auth"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/db/models"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/web/handler"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/web/session"
)

// Load puts the user of the session cookie into fiber.Locals. It reports
// false when there is no valid session or the user is gone or inactive.
// The user is read from the database, so privilege changes apply at once.
func Load(c *fiber.Ctx, db *gorm.DB) bool {
	if handler.CurrentUser(c) != nil {
		return true
	}

	loginCookie := c.Cookies(session.CookieName)
	if loginCookie == "" {
		return false
	}

	sessData := new(session.Data)
	if err := sessData.Read(loginCookie); err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			log.Error().Err(err).Msg("failed to read session")
		}

		return false
	}

	if sessData.UserID == 0 {
		return false
	}

	var user models.User
	if err := db.WithContext(c.UserContext()).Where("id = ?", sessData.UserID).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error().Err(err).Uint64("user_id", sessData.UserID).Msg("failed to load session user")
		}

		return false
	}

	if !user.IsActive {
		return false
	}

	c.Locals(handler.LocalsUser, &user)

	return true
}

// Middleware redirects requests without a valid session to the login page,
// carrying the requested URL as next.
func Middleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if Load(c, db) {
			return c.Next()
		}

		return c.Redirect(handler.LoginPath + "?next=" + url.QueryEscape(c.OriginalURL()))
	}
}

// RequireCapability answers 403 unless the logged in user holds capability.
// It must run after Middleware.
func RequireCapability(svc *auth.Service, capability auth.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := handler.CurrentUser(c)
		if user == nil {
			return fiber.ErrUnauthorized
		}

		ok, err := svc.HasCapability(c.UserContext(), user, capability)
		if err != nil {
			log.Error().Err(err).Uint64("user_id", user.ID).Str("capability", string(capability)).Msg("capability check failed")
			return fiber.ErrInternalServerError
		}

		if !ok {
			return fiber.ErrForbidden
		}

		return c.Next()
	}
}
