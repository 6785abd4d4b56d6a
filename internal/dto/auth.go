package dto

import "github.com/MSSkowron/CareAuth/internal/model"

// RegisterPacilianDTO represents a request to create a pacilian account.
type RegisterPacilianDTO struct {
	Email          string `json:"email" validate:"required,email" messages:"required:Email is required|email:Invalid email format"`
	Password       string `json:"password" validate:"required" messages:"required:Password is required"`
	Name           string `json:"name" validate:"required" messages:"required:Name is required"`
	NIK            string `json:"nik" validate:"required,nik" messages:"required:NIK is required|nik:NIK must be 16 digits"`
	Address        string `json:"address" validate:"required" messages:"required:Address is required"`
	PhoneNumber    string `json:"phoneNumber" validate:"required,phone" messages:"required:Phone number is required|phone:Phone number must be 10-13 digits"`
	MedicalHistory string `json:"medicalHistory"`
}

// RegisterCaregiverDTO represents a request to create a caregiver account.
type RegisterCaregiverDTO struct {
	Email       string           `json:"email" validate:"required,email" messages:"required:Email is required|email:Invalid email format"`
	Password    string           `json:"password" validate:"required" messages:"required:Password is required"`
	Name        string           `json:"name" validate:"required" messages:"required:Name is required"`
	NIK         string           `json:"nik" validate:"required,nik" messages:"required:NIK is required|nik:NIK must be 16 digits"`
	Address     string           `json:"address" validate:"required" messages:"required:Address is required"`
	PhoneNumber string           `json:"phoneNumber" validate:"required,phone" messages:"required:Phone number is required|phone:Phone number must be 10-13 digits"`
	Speciality  model.Speciality `json:"speciality" validate:"required,valid" messages:"required:Specialization is required|valid:Invalid speciality"`
	WorkAddress string           `json:"workAddress" validate:"required" messages:"required:Work address is required"`
}

// RegisterResponseDTO is returned after a successful registration.
type RegisterResponseDTO struct {
	ID      string     `json:"id"`
	Role    model.Role `json:"role"`
	Message string     `json:"message"`
}

// LoginDTO represents a login request.
type LoginDTO struct {
	Email    string `json:"email" validate:"required,email" messages:"required:Email is required|email:Invalid email format"`
	Password string `json:"password" validate:"required" messages:"required:Password is required"`
}

// LoginResponseDTO carries the issued access token. ExpiresIn is the token lifetime in milliseconds.
type LoginResponseDTO struct {
	AccessToken string     `json:"accessToken"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        model.Role `json:"role"`
	ExpiresIn   int64      `json:"expiresIn"`
}

// TokenVerificationDTO describes a verified token. ExpiresIn is the remaining lifetime in milliseconds.
type TokenVerificationDTO struct {
	Valid     bool       `json:"valid"`
	UserID    string     `json:"userId,omitempty"`
	Email     string     `json:"email,omitempty"`
	Role      model.Role `json:"role,omitempty"`
	ExpiresIn int64      `json:"expiresIn,omitempty"`
}
