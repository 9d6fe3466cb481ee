package api

import "github.com/gofiber/fiber/v2"

func (handler *Handler) SetLanguage(c *fiber.Ctx) error {
	handler.rememberLanguage(c, handler.i18n.NormalizeLanguage(c.Params("lang")))
	return redirectTo(c, sanitizeRedirectPath(c.Query("next"), "/"))
}
