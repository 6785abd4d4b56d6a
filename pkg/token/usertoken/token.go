package usertoken

import (
	"errors"
	"time"

	"github.com/MSSkowron/CareAuth/pkg/token"
	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

var (
	// ErrInvalidToken is returned when the token is malformed, wrongly signed or misses claims.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when the token is expired.
	ErrExpiredToken = errors.New("expired token")
)

// Claims are the claims carried by an access token. The subject is the user's email.
type Claims struct {
	UserID string `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	jwt.StandardClaims
}

// ExpiresAtTime returns the expiration time of the token.
func (c *Claims) ExpiresAtTime() time.Time {
	return time.Unix(c.ExpiresAt, 0)
}

// Remaining returns how long the token stays valid after now, never negative.
func (c *Claims) Remaining(now time.Time) time.Duration {
	remaining := c.ExpiresAtTime().Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Subject identifies the token owner.
type Subject struct {
	UserID string
	Email  string
	Name   string
	Role   string
}

// Generate issues a token for subject that expires after lifetime.
func Generate(subject Subject, issuedAt time.Time, lifetime time.Duration, secret []byte) (string, *Claims, error) {
	claims := &Claims{
		UserID: subject.UserID,
		Name:   subject.Name,
		Role:   subject.Role,
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.NewString(),
			Subject:   subject.Email,
			IssuedAt:  issuedAt.Unix(),
			ExpiresAt: issuedAt.Add(lifetime).Unix(),
		},
	}

	signed, err := token.NewWithClaims(claims, secret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// Parse validates tokenString and returns its claims.
func Parse(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	t, err := token.ParseWithClaims(tokenString, claims, secret)
	if err != nil {
		var vErr *jwt.ValidationError
		if errors.As(err, &vErr) && vErr.Errors == jwt.ValidationErrorExpired {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !t.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Subject == "" || claims.Id == "" || claims.UserID == "" || claims.Role == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
