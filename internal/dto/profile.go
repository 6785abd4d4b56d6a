package dto

import (
	"time"

	"github.com/MSSkowron/CareAuth/internal/model"
)

// UserProfileDTO is the full profile of the authenticated user.
type UserProfileDTO struct {
	ID             string           `json:"id"`
	Email          string           `json:"email"`
	Name           string           `json:"name"`
	NIK            string           `json:"nik"`
	Address        string           `json:"address"`
	PhoneNumber    string           `json:"phoneNumber"`
	Role           model.Role       `json:"role"`
	MedicalHistory *string          `json:"medicalHistory,omitempty"`
	Speciality     model.Speciality `json:"speciality,omitempty"`
	WorkAddress    string           `json:"workAddress,omitempty"`
}

// UpdateProfileDTO carries optional profile changes. Empty strings leave a field untouched.
type UpdateProfileDTO struct {
	Name           string            `json:"name"`
	Address        string            `json:"address"`
	PhoneNumber    string            `json:"phoneNumber" validate:"omitempty,phone" messages:"phone:Phone number must be 10-13 digits"`
	MedicalHistory *string           `json:"medicalHistory"`
	Speciality     *model.Speciality `json:"speciality" validate:"omitempty,valid" messages:"valid:Invalid speciality"`
	WorkAddress    string            `json:"workAddress"`
}

// PasswordChangeDTO represents a password change request.
type PasswordChangeDTO struct {
	CurrentPassword string `json:"currentPassword" validate:"required" messages:"required:Current password is required"`
	NewPassword     string `json:"newPassword" validate:"required" messages:"required:New password is required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required" messages:"required:Confirm password is required"`
}

// TimeChoiceDTO is a single consultation slot.
type TimeChoiceDTO struct {
	ID        string `json:"id,omitempty"`
	StartTime string `json:"startTime" validate:"required,clock" messages:"required:Start time is required|clock:Start time must use HH:mm"`
	EndTime   string `json:"endTime" validate:"required,clock" messages:"required:End time is required|clock:End time must use HH:mm"`
}

// WorkingScheduleDTO is a caregiver's availability on one weekday.
type WorkingScheduleDTO struct {
	ID          string          `json:"id,omitempty"`
	DayOfWeek   model.DayOfWeek `json:"dayOfWeek" validate:"required,valid" messages:"required:Day of week is required|valid:Invalid day of week"`
	TimeChoices []TimeChoiceDTO `json:"timeChoices" validate:"required,min=1,dive" messages:"required:Time choices are required|min:Time choices are required"`
}

// UpdateSchedulesDTO replaces all working schedules of a caregiver.
type UpdateSchedulesDTO struct {
	Schedules []WorkingScheduleDTO `json:"schedules" validate:"dive"`
}

// ConsultationHistoryDTO is a past consultation seen from the requesting user's side.
type ConsultationHistoryDTO struct {
	ConsultationTime time.Time  `json:"consultationTime"`
	PartnerName      string     `json:"partnerName"`
	PartnerRole      model.Role `json:"partnerRole"`
	Note             string     `json:"note"`
}
