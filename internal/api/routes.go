package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/micronutri/internal/services"
)

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/favicon.ico", sendNoContent)
	app.Get("/lang/:lang", handler.SetLanguage)

	registerWizardRoutes(app, handler)
}

// registerWizardRoutes chains session, gate and CSRF ahead of every wizard
// handler. Safe requests only issue a token; unsafe ones must echo it.
func registerWizardRoutes(app *fiber.App, handler *Handler) {
	formStages := []services.Stage{
		services.StageStep1,
		services.StageStep2,
		services.StageStep3,
		services.StageStep4,
		services.StageStep5,
	}
	for _, stage := range formStages {
		app.Get(stage.Path(), handler.SessionMiddleware, handler.StageGate(stage), handler.formCSRF, handler.showStage(stage))
		app.Post(stage.Path(), handler.SessionMiddleware, handler.StageGate(stage), handler.formCSRF, handler.submitStage(stage))
	}

	app.Get(services.StageMacros.Path(), handler.SessionMiddleware, handler.StageGate(services.StageMacros), handler.actionCSRF, handler.showStage(services.StageMacros))
	app.Post("/macros/confirm", handler.SessionMiddleware, handler.StageGate(services.StageMacros), handler.actionCSRF, handler.ConfirmMacros)
	app.Get(services.StageReview.Path(), handler.SessionMiddleware, handler.StageGate(services.StageReview), handler.actionCSRF, handler.showStage(services.StageReview))
	app.Post("/review/confirm", handler.SessionMiddleware, handler.StageGate(services.StageReview), handler.actionCSRF, handler.ConfirmReview)
	app.Post("/reset", handler.SessionMiddleware, handler.actionCSRF, handler.ResetWizard)
}

func sendNoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}
