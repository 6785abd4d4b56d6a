package repository

import (
	"context"
	"errors"

	"github.com/MSSkowron/CareAuth/internal/model"
	"github.com/samber/mo"
)

var (
	// ErrDuplicate is returned when a unique column such as email or NIK already holds the value.
	ErrDuplicate = errors.New("duplicate value")
	// ErrNotFound is returned by updates and deletes of a missing row.
	ErrNotFound = errors.New("record not found")
)

// UserRepository is an interface that defines the methods required for account data management.
type UserRepository interface {
	// FindByID retrieves a user by their ID.
	FindByID(ctx context.Context, id string) (mo.Option[*model.User], error)
	// FindByEmail retrieves a user by their email.
	FindByEmail(ctx context.Context, email string) (mo.Option[*model.User], error)
	// ExistsByEmail reports whether the email is taken.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// ExistsByNIK reports whether the NIK is taken.
	ExistsByNIK(ctx context.Context, nik string) (bool, error)
	// Update stores the mutable columns of user, including the password hash.
	Update(ctx context.Context, user *model.User) error
	// Delete deletes a user by their ID.
	Delete(ctx context.Context, id string) error
}

// PacilianRepository manages pacilians. Create and Update write the account row as well.
type PacilianRepository interface {
	Create(ctx context.Context, pacilian *model.Pacilian) error
	Update(ctx context.Context, pacilian *model.Pacilian) error
	FindByID(ctx context.Context, id string) (mo.Option[*model.Pacilian], error)
	// Delete deletes only the pacilian row.
	Delete(ctx context.Context, id string) error
}

// CaregiverRepository manages caregivers. Create and Update write the account row as well.
type CaregiverRepository interface {
	Create(ctx context.Context, caregiver *model.Caregiver) error
	Update(ctx context.Context, caregiver *model.Caregiver) error
	FindByID(ctx context.Context, id string) (mo.Option[*model.Caregiver], error)
	// FindAll returns every caregiver ordered by name.
	FindAll(ctx context.Context) ([]*model.Caregiver, error)
	// Search matches name as a case-insensitive substring (empty matches all) and speciality exactly when present.
	Search(ctx context.Context, name string, speciality mo.Option[model.Speciality]) ([]*model.Caregiver, error)
	// Delete deletes only the caregiver row.
	Delete(ctx context.Context, id string) error
}

// ScheduleRepository manages caregivers' working schedules.
type ScheduleRepository interface {
	// FindByCaregiverID returns the schedules of a caregiver ordered Monday first, with their time choices.
	FindByCaregiverID(ctx context.Context, caregiverID string) ([]*model.WorkingSchedule, error)
	// ReplaceForCaregiver deletes the caregiver's schedules and stores the given ones.
	ReplaceForCaregiver(ctx context.Context, caregiverID string, schedules []*model.WorkingSchedule) error
}

// ConsultationHistoryRepository reads and records past consultations.
type ConsultationHistoryRepository interface {
	Create(ctx context.Context, history *model.ConsultationHistory) error
	// FindByPacilianID returns the pacilian's consultations, newest first.
	FindByPacilianID(ctx context.Context, pacilianID string) ([]*model.ConsultationHistory, error)
	// FindByCaregiverID returns the caregiver's consultations, newest first.
	FindByCaregiverID(ctx context.Context, caregiverID string) ([]*model.ConsultationHistory, error)
}
