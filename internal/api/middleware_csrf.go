package api

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/terraincognita07/micronutri/internal/security"
	"github.com/terraincognita07/micronutri/internal/services"
)

const (
	csrfFormField  = "csrf_token"
	csrfHeaderName = "X-CSRF-Token"
	csrfCookieName = "micronutri_csrf"
)

// csrfMiddlewareConfig keeps tokens server side in storage. The browser holds
// the token in a cookie and echoes it in the form field, or in the header for
// HTMX requests, and the middleware requires both to match a stored token.
func csrfMiddlewareConfig(storage fiber.Storage, cookieSecure bool, expiration time.Duration, onError fiber.ErrorHandler) csrf.Config {
	return csrf.Config{
		KeyLookup:      "form:" + csrfFormField,
		CookieName:     csrfCookieName,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
		CookieHTTPOnly: true,
		CookieSecure:   cookieSecure,
		Expiration:     expiration,
		ContextKey:     contextCSRFKey,
		KeyGenerator:   security.GenerateCSRFToken,
		Extractor:      csrfFromFormOrHeader,
		Storage:        storage,
		ErrorHandler:   onError,
	}
}

func csrfFromFormOrHeader(c *fiber.Ctx) (string, error) {
	if token, err := csrf.CsrfFromForm(csrfFormField)(c); err == nil {
		return token, nil
	}
	return csrf.CsrfFromHeader(csrfHeaderName)(c)
}

// rejectStageForm re-renders the stage with the submitted values and a 403.
func (handler *Handler) rejectStageForm(c *fiber.Ctx, err error) error {
	session, ok := currentWizardSession(c)
	stage, staged := currentStage(c)
	if !ok || !staged {
		return fiber.ErrForbidden
	}
	log.Printf("csrf: rejected %s %s: %v", c.Method(), c.Path(), err)

	form := stageForm{FormError: "csrf.expired"}
	if parse, found := stageParsers[stage]; found {
		if submission, parseErr := parse(c); parseErr == nil {
			form.Values = submission.values
		}
	}
	c.Status(fiber.StatusForbidden)
	return handler.renderStage(c, session, stage, form)
}

// rejectStageAction flashes the expiry message and sends the user back to the
// page the action was posted from, leaving the wizard untouched.
func (handler *Handler) rejectStageAction(c *fiber.Ctx, err error) error {
	log.Printf("csrf: rejected %s %s: %v", c.Method(), c.Path(), err)
	handler.setFlashCookie(c, FlashPayload{Error: "csrf.expired"})

	if stage, ok := currentStage(c); ok {
		return redirectToStage(c, stage)
	}
	if session, ok := currentWizardSession(c); ok {
		return redirectToStage(c, services.EarliestUnmetStage(session.State))
	}
	return redirectToStage(c, services.StageStep1)
}

// rotateCSRFToken drops the current token so the next page load issues a
// fresh one.
func rotateCSRFToken(c *fiber.Ctx) {
	csrfHandler, ok := c.Locals(csrf.ConfigDefault.HandlerContextKey).(*csrf.CSRFHandler)
	if !ok || csrfHandler == nil {
		return
	}
	if err := csrfHandler.DeleteToken(c); err != nil {
		log.Printf("csrf: rotate token: %v", err)
	}
}

// csrfTokenForPage is the token to embed in rendered forms. When the
// middleware rejected the request it never set the context value, so the
// cookie the browser sent is used instead.
func csrfTokenForPage(c *fiber.Ctx) string {
	if token, ok := c.Locals(contextCSRFKey).(string); ok && token != "" {
		return token
	}
	return c.Cookies(csrfCookieName)
}
