package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/micronutri/internal/services"
)

func (handler *Handler) showStage(stage services.Stage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, ok := currentWizardSession(c)
		if !ok {
			return fiber.ErrInternalServerError
		}
		return handler.renderStage(c, session, stage, stageForm{
			Values: stageFormValues(session.State, stage),
		})
	}
}
