package token

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt"
)

// MinSecretLength is the minimum decoded HS256 key length in bytes.
const MinSecretLength = 32

// ErrWeakSecret is returned when a decoded secret is shorter than MinSecretLength.
var ErrWeakSecret = errors.New("secret key too short")

// DefaultSigningMethod is the default signing method for JWT tokens.
var DefaultSigningMethod = jwt.SigningMethodHS256

// DecodeSecret decodes a base64 encoded signing key.
func DecodeSecret(encoded string) ([]byte, error) {
	secret, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode secret: %w", err)
	}
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("%w: %d bytes, need at least %d", ErrWeakSecret, len(secret), MinSecretLength)
	}
	return secret, nil
}

// NewWithClaims creates a signed JWT token with the provided claims and secret.
func NewWithClaims(claims jwt.Claims, secret []byte) (string, error) {
	token := jwt.NewWithClaims(DefaultSigningMethod, claims)
	return token.SignedString(secret)
}

// ParseWithClaims parses a JWT token string into claims using the provided secret.
// Tokens signed with any other method are rejected.
func ParseWithClaims(tokenString string, claims jwt.Claims, secret []byte) (*jwt.Token, error) {
	return jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if token.Method != DefaultSigningMethod {
			return nil, fmt.Errorf("invalid signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
}
