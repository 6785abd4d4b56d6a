package service

import (
	"errors"

	"github.com/MSSkowron/CareAuth/internal/database"
	"github.com/MSSkowron/CareAuth/internal/repository"
	"github.com/MSSkowron/CareAuth/pkg/crypto"
)

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Check returns crypto.ErrInvalidCredentials on mismatch.
	Check(password, hash string) error
}

func hashPassword(hasher PasswordHasher, password string) (string, error) {
	hashed, err := hasher.Hash(password)
	if errors.Is(err, crypto.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong
	}
	return hashed, err
}

// Repositories bundles the storage dependencies shared by the services.
type Repositories struct {
	Users                 repository.UserRepository
	Pacilians             repository.PacilianRepository
	Caregivers            repository.CaregiverRepository
	Schedules             repository.ScheduleRepository
	ConsultationHistories repository.ConsultationHistoryRepository
	Tx                    database.TxManager
}
