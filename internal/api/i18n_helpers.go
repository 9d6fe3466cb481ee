package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/micronutri/internal/i18n"
)

// choiceTranslationKey maps an enum value such as goal "lose" to "goal.lose".
func choiceTranslationKey(group string, value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return ""
	}
	return group + "." + value
}

func currentLanguage(c *fiber.Ctx) string {
	language, ok := c.Locals(contextLanguageKey).(string)
	if !ok || strings.TrimSpace(language) == "" {
		return ""
	}
	return language
}

func currentMessages(c *fiber.Ctx) map[string]string {
	messages, ok := c.Locals(contextMessagesKey).(map[string]string)
	if !ok || messages == nil {
		return map[string]string{}
	}
	return messages
}

func localizedPageTitle(messages map[string]string, key string) string {
	appTitle := i18n.Lookup(messages, "app.title")
	title := i18n.Lookup(messages, key)
	if title == key || strings.TrimSpace(title) == "" {
		return appTitle
	}
	return appTitle + " | " + title
}

func (handler *Handler) withTemplateDefaults(c *fiber.Ctx, data fiber.Map) fiber.Map {
	if data == nil {
		data = fiber.Map{}
	}

	messages := currentMessages(c)
	if len(messages) == 0 {
		messages = handler.i18n.Messages(handler.i18n.DefaultLanguage())
	}
	if _, ok := data["Messages"]; !ok {
		data["Messages"] = messages
	}

	if _, ok := data["Lang"]; !ok {
		language := currentLanguage(c)
		if language == "" {
			language = handler.i18n.DefaultLanguage()
		}
		data["Lang"] = language
	}
	if _, ok := data["Languages"]; !ok {
		data["Languages"] = handler.i18n.SupportedLanguages()
	}
	if _, ok := data["CurrentPath"]; !ok {
		data["CurrentPath"] = c.Path()
	}
	if _, ok := data["Title"]; !ok {
		data["Title"] = i18n.Lookup(messages, "app.title")
	}
	return data
}
