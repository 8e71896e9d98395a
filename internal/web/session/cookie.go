package session

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Start stores data under a new session id and sets the session cookie.
func Start(c *fiber.Ctx, data *Data, exp time.Duration, secure bool) error {
	sessionID, err := GenerateSessionID()
	if err != nil {
		return err
	}

	if data.CreatedAt.IsZero() {
		data.CreatedAt = time.Now()
	}

	if err = data.Write(sessionID, exp); err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(exp.Seconds()),
		Secure:   secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return nil
}

// End removes the session of the request and clears its cookie. It returns
// the removed data, empty when there was no session.
func End(c *fiber.Ctx, secure bool) Data {
	var data Data

	sessionID := c.Cookies(CookieName)
	if sessionID != "" {
		_ = data.Read(sessionID)
		_ = Delete(sessionID)
	}

	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return data
}
