package api

import (
	"errors"
	"fmt"
	"html/template"
	"path/filepath"
	"time"

	"github.com/terraincognita07/micronutri/internal/i18n"
	"github.com/terraincognita07/micronutri/internal/services"
	"gorm.io/gorm"
)

var templatePages = []string{
	services.StageStep1.String(),
	services.StageStep2.String(),
	services.StageStep3.String(),
	services.StageMacros.String(),
	services.StageStep4.String(),
	services.StageStep5.String(),
	services.StageReview.String(),
	"not_found",
	"error",
}

func NewHandler(database *gorm.DB, secret string, templateDir string, i18nManager *i18n.Manager, cookieSecure bool, sessionTTL time.Duration) (*Handler, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	if i18nManager == nil {
		return nil, errors.New("i18n manager is required")
	}
	if sessionTTL <= 0 {
		sessionTTL = services.DefaultSessionTTL
	}

	codec, err := newSecureCookieCodec([]byte(secret))
	if err != nil {
		return nil, err
	}

	funcMap := newTemplateFuncMap()
	templates := make(map[string]*template.Template, len(templatePages))
	for _, page := range templatePages {
		parsed, err := template.New("base").Funcs(funcMap).ParseFiles(
			filepath.Join(templateDir, "base.html"),
			filepath.Join(templateDir, page+".html"),
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		templates[page] = parsed
	}

	handler := &Handler{
		db:           database,
		secretKey:    []byte(secret),
		cookieSecure: cookieSecure,
		sessionTTL:   sessionTTL,
		i18n:         i18nManager,
		templates:    templates,
		cookieCodec:  codec,
	}
	return handler.withDependencies(database), nil
}
