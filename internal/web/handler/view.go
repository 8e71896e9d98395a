package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/auth"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/config"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/db/models"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/extension"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/web/navigation"
)

// LocalsUser is the fiber.Locals key of the logged in *models.User.
const LocalsUser = "CurrentUser"

// View collects what every page template needs.
type View struct {
	Cfg        *config.Config
	Gate       *auth.Gate
	Extensions *extension.Registry
}

// CurrentUser returns the logged in user or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(LocalsUser).(*models.User)
	return user
}

// Extension returns the extension context of the request. The gate is
// evaluated on every call.
func (v *View) Extension(c *fiber.Ctx, next string) extension.Context {
	return extension.Context{
		Path:           c.Path(),
		Next:           next,
		HidePasswordUI: v.Gate.ShouldHidePasswordUI(),
		Authenticated:  CurrentUser(c) != nil,
	}
}

// Map returns the template data of a page, point is rendered as "Extensions"
// when not empty. Values of data win.
func (v *View) Map(c *fiber.Ctx, point extension.Point, next string, data fiber.Map) fiber.Map {
	ctx := v.Extension(c, next)

	out := fiber.Map{
		"Title":       v.Cfg.Title,
		"CurrentUser": CurrentUser(c),
		"Menu":        navigation.Menu(CurrentUser(c)),
		"HTMLHead":    v.Extensions.Render(extension.PointHTMLHead, ctx),
	}

	for k, val := range v.Gate.TemplateData() {
		out[k] = val
	}

	if point != "" {
		out["Extensions"] = v.Extensions.Render(point, ctx)
	}

	for k, val := range data {
		out[k] = val
	}

	return out
}
