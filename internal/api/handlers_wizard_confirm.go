package api

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/micronutri/internal/services"
)

// ConfirmMacros recomputes the split from the stored answers rather than
// trusting anything posted back by the preview page.
func (handler *Handler) ConfirmMacros(c *fiber.Ctx) error {
	session, ok := currentWizardSession(c)
	if !ok {
		return fiber.ErrInternalServerError
	}

	summary := services.ComputeMacros(services.MacroInputFromAnswers(*session.State.Step1, *session.State.Step3))
	if err := services.CompleteMacros(&session.State, summary); err != nil {
		return err
	}
	if err := handler.sessionService.Save(session); err != nil {
		return err
	}
	if err := handler.leadService.RecordProgress(session.State, services.StageMacros); err != nil {
		return err
	}
	return redirectToStage(c, services.EarliestUnmetStage(session.State))
}

// ConfirmReview stores the user document and clears the wizard in one write,
// so a failed confirm can be retried without duplicating the user.
func (handler *Handler) ConfirmReview(c *fiber.Ctx) error {
	session, ok := currentWizardSession(c)
	if !ok {
		return fiber.ErrInternalServerError
	}

	user, err := handler.submissionService.Confirm(session)
	if err != nil {
		return err
	}
	rotateCSRFToken(c)
	log.Printf("wizard: stored user %d", user.ID)

	handler.setFlashCookie(c, FlashPayload{Success: "flash.submitted"})
	return redirectToStage(c, services.StageStep1)
}

func (handler *Handler) ResetWizard(c *fiber.Ctx) error {
	session, ok := currentWizardSession(c)
	if !ok {
		return fiber.ErrInternalServerError
	}

	if err := handler.sessionService.Clear(session); err != nil {
		return err
	}
	rotateCSRFToken(c)
	handler.setFlashCookie(c, FlashPayload{Success: "flash.reset"})
	return redirectToStage(c, services.StageStep1)
}
