package usertoken

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/require"
)

var (
	testSecret  = []byte(strings.Repeat("s", 32))
	testSubject = Subject{
		UserID: "3f1c2a8e-6a1b-4c9f-9a57-2d3f4b5c6d7e",
		Email:  "pacilian@example.com",
		Name:   "Budi",
		Role:   "PACILIAN",
	}
)

func TestGenerate(t *testing.T) {
	issuedAt := time.Now()
	tokenString, claims, err := Generate(testSubject, issuedAt, time.Hour, testSecret)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	require.Equal(t, testSubject.Email, claims.Subject)
	require.Equal(t, testSubject.UserID, claims.UserID)
	require.NotEmpty(t, claims.Id)
	require.Equal(t, issuedAt.Add(time.Hour).Unix(), claims.ExpiresAt)
}

func TestGenerateUniqueIDs(t *testing.T) {
	_, first, err := Generate(testSubject, time.Now(), time.Hour, testSecret)
	require.NoError(t, err)
	_, second, err := Generate(testSubject, time.Now(), time.Hour, testSecret)
	require.NoError(t, err)

	require.NotEqual(t, first.Id, second.Id)
}

func TestParse(t *testing.T) {
	// Valid token
	tokenString, _, err := Generate(testSubject, time.Now(), time.Hour, testSecret)
	require.NoError(t, err)

	claims, err := Parse(tokenString, testSecret)
	require.NoError(t, err)
	require.Equal(t, testSubject.Email, claims.Subject)
	require.Equal(t, testSubject.Name, claims.Name)
	require.Equal(t, testSubject.Role, claims.Role)

	// Invalid token
	_, err = Parse("invalidtoken", testSecret)
	require.ErrorIs(t, err, ErrInvalidToken)

	// Token with incorrect secret
	_, err = Parse(tokenString, []byte(strings.Repeat("x", 32)))
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseExpired(t *testing.T) {
	tokenString, _, err := Generate(testSubject, time.Now().Add(-2*time.Hour), time.Hour, testSecret)
	require.NoError(t, err)

	_, err = Parse(tokenString, testSecret)
	require.ErrorIs(t, err, ErrExpiredToken)
}

func TestParseMissingClaims(t *testing.T) {
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &jwt.StandardClaims{
		Subject:   "someone@example.com",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	}).SignedString(testSecret)
	require.NoError(t, err)

	_, err = Parse(tokenString, testSecret)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestClaimsRemaining(t *testing.T) {
	now := time.Now()
	claims := &Claims{StandardClaims: jwt.StandardClaims{ExpiresAt: now.Add(90 * time.Second).Unix()}}

	require.InDelta(t, float64(90*time.Second), float64(claims.Remaining(now)), float64(time.Second))
	require.Zero(t, claims.Remaining(now.Add(time.Hour)))
}
