package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/micronutri/internal/services"
)

// SessionMiddleware attaches the wizard session to the request, starting a
// new one when the cookie is missing, tampered with or expired.
func (handler *Handler) SessionMiddleware(c *fiber.Ctx) error {
	session, created, err := handler.sessionService.LoadOrCreate(handler.sessionIDFromCookie(c))
	if err != nil {
		return err
	}
	if created {
		if err := handler.setSessionCookie(c, &session); err != nil {
			return err
		}
	}

	c.Locals(contextSessionKey, &session)
	return c.Next()
}

// StageGate redirects to the earliest unmet stage when stage is locked.
// It runs before the CSRF check, so a locked page never reports an expired
// token.
func (handler *Handler) StageGate(stage services.Stage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, ok := currentWizardSession(c)
		if !ok {
			return fiber.ErrInternalServerError
		}
		if target, allowed := services.ResolveStage(session.State, stage); !allowed {
			return redirectToStage(c, target)
		}
		c.Locals(contextStageKey, stage)
		return c.Next()
	}
}
