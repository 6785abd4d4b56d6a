package model

import (
	"time"

	"github.com/google/uuid"
)

// User represents a model for an account shared by every role.
type User struct {
	ID          string    `db:"id" json:"id"`
	Email       string    `db:"email" json:"email"`
	Password    string    `db:"password" json:"-"`
	Name        string    `db:"name" json:"name"`
	NIK         string    `db:"nik" json:"nik"`
	Address     string    `db:"address" json:"address"`
	PhoneNumber string    `db:"phone_number" json:"phoneNumber"`
	Role        Role      `db:"role" json:"role"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// EnsureID assigns a fresh UUID when the user has none yet. An existing ID is kept.
func (u *User) EnsureID() {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
}

// Pacilian is a patient: a user with a medical history.
type Pacilian struct {
	User
	MedicalHistory string `db:"medical_history" json:"medicalHistory"`
}

// NewPacilian builds a pacilian with the role fixed to RolePacilian.
func NewPacilian(user User, medicalHistory string) *Pacilian {
	user.Role = RolePacilian
	return &Pacilian{User: user, MedicalHistory: medicalHistory}
}

// Caregiver is a doctor: a user with a speciality and a work address.
type Caregiver struct {
	User
	Speciality  Speciality `db:"speciality" json:"speciality"`
	WorkAddress string     `db:"work_address" json:"workAddress"`
}

// NewCaregiver builds a caregiver with the role fixed to RoleCaregiver.
func NewCaregiver(user User, speciality Speciality, workAddress string) *Caregiver {
	user.Role = RoleCaregiver
	return &Caregiver{User: user, Speciality: speciality, WorkAddress: workAddress}
}
