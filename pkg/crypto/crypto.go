package crypto

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned when a password does not match its hash.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidCost is returned when the bcrypt cost is out of range.
	ErrInvalidCost = errors.New("invalid bcrypt cost")
	// ErrPasswordTooLong is returned when a password exceeds MaxPasswordLength bytes.
	ErrPasswordTooLong = errors.New("password too long")
)

// MaxPasswordLength is the longest password bcrypt accepts, in bytes.
const MaxPasswordLength = 72

// DefaultCost is used when a Hasher is built with a zero cost.
const DefaultCost = 10

// Hasher hashes and verifies passwords with bcrypt at a fixed cost.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher using cost, or DefaultCost when cost is 0.
func NewHasher(cost int) (*Hasher, error) {
	if cost == 0 {
		cost = DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCost, cost)
	}
	return &Hasher{cost: cost}, nil
}

// Hash returns the bcrypt hash of password.
func (h *Hasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// Check returns ErrInvalidCredentials when password does not match hash.
func (h *Hasher) Check(password, hash string) error {
	return CheckPassword(password, hash)
}

// CheckPassword checks if a password matches a bcrypt hash.
// Passwords over MaxPasswordLength bytes never match.
func CheckPassword(password, hash string) error {
	if len(password) > MaxPasswordLength {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidCredentials
		}

		return err
	}

	return nil
}
