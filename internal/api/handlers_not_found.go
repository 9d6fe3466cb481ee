package api

import (
	"fmt"
	"html/template"

	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) NotFound(c *fiber.Ctx) error {
	if acceptsJSON(c) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}

	if isHTMX(c) {
		message := handler.i18n.Translate(currentLanguage(c), "errors.not_found_title")
		c.Status(fiber.StatusNotFound)
		return c.SendString(fmt.Sprintf("<div class=\"status-error\">%s</div>", template.HTMLEscapeString(message)))
	}

	c.Status(fiber.StatusNotFound)
	return handler.render(c, "not_found", fiber.Map{
		"Title": localizedPageTitle(currentMessages(c), "errors.not_found_title"),
	})
}
