package dto

import "github.com/MSSkowron/CareAuth/internal/model"

// CaregiverPublicDTO is the publicly visible part of a caregiver.
type CaregiverPublicDTO struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Email       string           `json:"email"`
	Speciality  model.Speciality `json:"speciality"`
	WorkAddress string           `json:"workAddress"`
	PhoneNumber string           `json:"phoneNumber"`
}

// NewCaregiverPublicDTO maps a caregiver to its public view.
func NewCaregiverPublicDTO(c *model.Caregiver) CaregiverPublicDTO {
	return CaregiverPublicDTO{
		ID:          c.ID,
		Name:        c.Name,
		Email:       c.Email,
		Speciality:  c.Speciality,
		WorkAddress: c.WorkAddress,
		PhoneNumber: c.PhoneNumber,
	}
}

// PacilianPublicDTO is the publicly visible part of a pacilian. Address and medical history are never filled in.
type PacilianPublicDTO struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Address        string `json:"address,omitempty"`
	PhoneNumber    string `json:"phoneNumber"`
	MedicalHistory string `json:"medicalHistory,omitempty"`
}

// NewPacilianPublicDTO maps a pacilian to its public view.
func NewPacilianPublicDTO(p *model.Pacilian) PacilianPublicDTO {
	return PacilianPublicDTO{
		ID:          p.ID,
		Name:        p.Name,
		Email:       p.Email,
		PhoneNumber: p.PhoneNumber,
	}
}
