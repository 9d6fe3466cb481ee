package api

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/terraincognita07/micronutri/internal/models"
)

const sessionCookiePurpose = "session"

func (handler *Handler) setSessionCookie(c *fiber.Ctx, session *models.WizardSession) error {
	token, err := handler.buildSessionToken(session)
	if err != nil {
		return err
	}
	sealed, err := handler.cookieCodec.seal(sessionCookiePurpose, []byte(token))
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     sessionCookieName,
		Value:    sealed,
		Path:     "/",
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  session.ExpiresAt,
	})
	return nil
}

func (handler *Handler) buildSessionToken(session *models.WizardSession) (string, error) {
	claims := sessionClaims{
		SessionID: session.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(handler.secretKey)
}

// sessionIDFromCookie returns the session id carried by a valid, unexpired
// cookie and an empty string otherwise.
func (handler *Handler) sessionIDFromCookie(c *fiber.Ctx) string {
	raw := strings.TrimSpace(c.Cookies(sessionCookieName))
	if raw == "" {
		return ""
	}

	tokenValue, err := handler.cookieCodec.open(sessionCookiePurpose, raw)
	if err != nil {
		return ""
	}

	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(string(tokenValue), claims, func(token *jwt.Token) (interface{}, error) {
		return handler.secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return ""
	}
	return strings.TrimSpace(claims.SessionID)
}
