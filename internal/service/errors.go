package service

import (
	"errors"
	"fmt"

	"github.com/MSSkowron/CareAuth/pkg/crypto"
)

var (
	// ErrInvalidCredentials is returned when the email is unknown or the password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken is returned for malformed, wrongly signed, revoked or orphaned tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned for tokens past their expiration time.
	ErrExpiredToken = errors.New("expired token")
	// ErrForbidden is returned when the user's role may not perform the operation.
	ErrForbidden = errors.New("access denied")
	// ErrNotFound is matched by every *NotFoundError.
	ErrNotFound = errors.New("not found")
)

// RequestError is a client mistake whose message is safe to return as is.
type RequestError struct {
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

// NewRequestError formats a RequestError.
func NewRequestError(format string, args ...any) *RequestError {
	return &RequestError{Message: fmt.Sprintf(format, args...)}
}

var (
	// ErrEmailAlreadyExists is returned when registering with a taken email.
	ErrEmailAlreadyExists = &RequestError{Message: "Email already exists"}
	// ErrNIKAlreadyExists is returned when registering with a taken NIK.
	ErrNIKAlreadyExists = &RequestError{Message: "NIK already exists"}
	// ErrIncorrectPassword is returned when the current password does not match.
	ErrIncorrectPassword = &RequestError{Message: "Current password is incorrect"}
	// ErrPasswordMismatch is returned when the new and confirmation passwords differ.
	ErrPasswordMismatch = &RequestError{Message: "New password and confirm password do not match"}
	// ErrPasswordTooLong is returned when a new password is longer than bcrypt accepts.
	ErrPasswordTooLong = NewRequestError("Password must not exceed %d bytes", crypto.MaxPasswordLength)
)

// NotFoundError reports a missing entity.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ErrCaregiverNotFound builds the error for an unknown caregiver ID.
func ErrCaregiverNotFound(id string) error {
	return &NotFoundError{Message: "Caregiver not found with id: " + id}
}

// ErrPacilianNotFound builds the error for an unknown pacilian ID.
func ErrPacilianNotFound(id string) error {
	return &NotFoundError{Message: "Pacilian not found with id: " + id}
}
