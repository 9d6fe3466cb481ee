package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const languageCookieMaxAge = 365 * 24 * time.Hour

// LanguageMiddleware picks the catalog for the request. Only an explicit
// choice made through SetLanguage is persisted; browser preferences are
// re-read on every request so a changed Accept-Language takes effect.
func (handler *Handler) LanguageMiddleware(c *fiber.Ctx) error {
	language := handler.i18n.Resolve(c.Cookies(languageCookieName), c.Get(fiber.HeaderAcceptLanguage))
	c.Locals(contextLanguageKey, language)
	c.Locals(contextMessagesKey, handler.i18n.Messages(language))
	return c.Next()
}

func (handler *Handler) rememberLanguage(c *fiber.Ctx, language string) {
	c.Cookie(&fiber.Cookie{
		Name:     languageCookieName,
		Value:    language,
		Path:     "/",
		Secure:   handler.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
		MaxAge:   int(languageCookieMaxAge / time.Second),
	})
}
