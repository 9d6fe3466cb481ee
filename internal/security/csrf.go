package security

import (
	"crypto/rand"
	"errors"
	"math/big"

	"github.com/gofiber/fiber/v2/utils"
)

const (
	CSRFTokenLength = 32
	csrfAlphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

var errInvalidTokenShape = errors.New("token length must be positive and alphabet non-empty")

// GenerateCSRFToken returns a token drawn uniformly from an alphanumeric
// alphabet. It has the shape of a csrf.Config KeyGenerator, so a failing
// entropy source falls back to a random UUID instead of an error.
func GenerateCSRFToken() string {
	token, err := randomToken(CSRFTokenLength, csrfAlphabet)
	if err != nil {
		return utils.UUIDv4()
	}
	return token
}

func randomToken(length int, alphabet string) (string, error) {
	if length <= 0 || alphabet == "" {
		return "", errInvalidTokenShape
	}

	size := big.NewInt(int64(len(alphabet)))
	token := make([]byte, length)
	for index := range token {
		position, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", err
		}
		token[index] = alphabet[position.Int64()]
	}
	return string(token), nil
}
