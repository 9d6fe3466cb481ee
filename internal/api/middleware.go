package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/micronutri/internal/models"
	"github.com/terraincognita07/micronutri/internal/services"
)

const (
	sessionCookieName  = "micronutri_session"
	languageCookieName = "micronutri_lang"
	flashCookieName    = "micronutri_flash"
	contextSessionKey  = "wizard_session"
	contextLanguageKey = "current_language"
	contextMessagesKey = "current_messages"
	contextStageKey    = "wizard_stage"
	contextCSRFKey     = "csrf"
)

func currentWizardSession(c *fiber.Ctx) (*models.WizardSession, bool) {
	session, ok := c.Locals(contextSessionKey).(*models.WizardSession)
	return session, ok && session != nil
}

func currentStage(c *fiber.Ctx) (services.Stage, bool) {
	stage, ok := c.Locals(contextStageKey).(services.Stage)
	return stage, ok
}
