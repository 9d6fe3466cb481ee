package api

import (
	"html/template"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/terraincognita07/micronutri/internal/db"
	"github.com/terraincognita07/micronutri/internal/i18n"
	"github.com/terraincognita07/micronutri/internal/services"
	"gorm.io/gorm"
)

type Handler struct {
	db           *gorm.DB
	secretKey    []byte
	cookieSecure bool
	sessionTTL   time.Duration
	i18n         *i18n.Manager
	templates    map[string]*template.Template
	cookieCodec  *secureCookieCodec

	repositories      *db.Repositories
	csrfStorage       *db.CSRFTokenStorage
	formCSRF          fiber.Handler
	actionCSRF        fiber.Handler
	sessionService    *services.SessionService
	leadService       *services.LeadService
	submissionService *services.SubmissionService
}

// FlashPayload carries message keys across a redirect.
type FlashPayload struct {
	Error   string `json:"error,omitempty"`
	Success string `json:"success,omitempty"`
}

type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// stageForm is what a stage page echoes back: submitted or stored values,
// per-field message keys and an optional form-level message key.
type stageForm struct {
	Values    map[string]string
	Errors    services.FieldErrors
	FormError string
}
