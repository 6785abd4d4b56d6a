package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/MSSkowron/CareAuth/internal/model"
	"github.com/MSSkowron/CareAuth/pkg/token/usertoken"
)

// TokenService is an interface that defines the methods required for access token management.
type TokenService interface {
	// GenerateToken issues an access token for user.
	GenerateToken(user *model.User) (string, *usertoken.Claims, error)
	// ParseToken validates a token and returns its claims, or ErrInvalidToken / ErrExpiredToken.
	ParseToken(token string) (*usertoken.Claims, error)
	// ExpirationTime returns the lifetime of issued tokens.
	ExpirationTime() time.Duration
	// RemainingTime returns how long the token stays valid.
	RemainingTime(claims *usertoken.Claims) time.Duration
}

// TokenServiceImpl implements the TokenService interface.
type TokenServiceImpl struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

// NewTokenService creates a new TokenServiceImpl instance with the provided secret and token lifetime.
func NewTokenService(secret []byte, lifetime time.Duration) *TokenServiceImpl {
	return &TokenServiceImpl{
		secret:   secret,
		lifetime: lifetime,
		now:      time.Now,
	}
}

func (s *TokenServiceImpl) GenerateToken(user *model.User) (string, *usertoken.Claims, error) {
	token, claims, err := usertoken.Generate(usertoken.Subject{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role.Value(),
	}, s.now(), s.lifetime, s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return token, claims, nil
}

func (s *TokenServiceImpl) ParseToken(token string) (*usertoken.Claims, error) {
	claims, err := usertoken.Parse(token, s.secret)
	if err != nil {
		if errors.Is(err, usertoken.ErrExpiredToken) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if _, err := model.ParseRole(claims.Role); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *TokenServiceImpl) ExpirationTime() time.Duration {
	return s.lifetime
}

func (s *TokenServiceImpl) RemainingTime(claims *usertoken.Claims) time.Duration {
	return claims.Remaining(s.now())
}
