package api

import (
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/terraincognita07/micronutri/internal/db"
	"github.com/terraincognita07/micronutri/internal/services"
	"gorm.io/gorm"
)

func (handler *Handler) withDependencies(database *gorm.DB) *Handler {
	handler.repositories = db.NewRepositories(database)
	handler.csrfStorage = db.NewCSRFTokenStorage(database)
	handler.formCSRF = csrf.New(csrfMiddlewareConfig(handler.csrfStorage, handler.cookieSecure, handler.sessionTTL, handler.rejectStageForm))
	handler.actionCSRF = csrf.New(csrfMiddlewareConfig(handler.csrfStorage, handler.cookieSecure, handler.sessionTTL, handler.rejectStageAction))
	handler.sessionService = services.NewSessionService(handler.repositories.Sessions, handler.sessionTTL)
	handler.leadService = services.NewLeadService(handler.repositories.Leads)
	handler.submissionService = services.NewSubmissionService(handler.repositories.Users, handler.leadService)
	return handler
}
