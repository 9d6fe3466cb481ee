package api

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/terraincognita07/micronutri/internal/db"
)

const healthCheckTimeout = 2 * time.Second

func (handler *Handler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthCheckTimeout)
	defer cancel()

	if err := db.Ping(ctx, handler.db); err != nil {
		log.Printf("health check failed: %v", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// ErrorHandler renders failures as a localized page titled by status class.
// Fiber errors keep their status code; anything else is a 500.
func (handler *Handler) ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status = fiberErr.Code
	}
	if status >= fiber.StatusInternalServerError {
		log.Printf("request %s %s failed: %v", c.Method(), c.Path(), err)
	}

	if acceptsJSON(c) {
		return c.Status(status).JSON(fiber.Map{"error": strings.ToLower(utils.StatusMessage(status))})
	}
	key := errorMessageKey(status)
	c.Status(status)
	return handler.render(c, "error", fiber.Map{
		"Title":    localizedPageTitle(currentMessages(c), key),
		"ErrorKey": key,
	})
}

func errorMessageKey(status int) string {
	switch {
	case status == fiber.StatusForbidden:
		return "errors.forbidden"
	case status == fiber.StatusNotFound:
		return "errors.not_found_title"
	case status >= fiber.StatusBadRequest && status < fiber.StatusInternalServerError:
		return "errors.bad_request"
	default:
		return "errors.internal"
	}
}

func (handler *Handler) render(c *fiber.Ctx, name string, data fiber.Map) error {
	tmpl, ok := handler.templates[name]
	if !ok {
		return c.Status(fiber.StatusInternalServerError).SendString("template not found")
	}
	payload := handler.withTemplateDefaults(c, data)
	var output bytes.Buffer
	if err := tmpl.ExecuteTemplate(&output, "base", payload); err != nil {
		log.Printf("render %s: %v", name, err)
		return c.Status(fiber.StatusInternalServerError).SendString("failed to render template")
	}
	c.Type("html", "utf-8")
	return c.Send(output.Bytes())
}
