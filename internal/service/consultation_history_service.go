package service

import (
	"context"

	"github.com/MSSkowron/CareAuth/internal/dto"
	"github.com/MSSkowron/CareAuth/internal/model"
)

// ConsultationHistoryService defines the interface for reading past consultations.
type ConsultationHistoryService interface {
	// GetConsultationHistory returns the user's consultations, newest first, each naming the other party.
	GetConsultationHistory(ctx context.Context, user *model.User) ([]dto.ConsultationHistoryDTO, error)
}

// ConsultationHistoryServiceImpl implements the ConsultationHistoryService interface.
type ConsultationHistoryServiceImpl struct {
	repos Repositories
}

// NewConsultationHistoryService creates a new ConsultationHistoryServiceImpl instance.
func NewConsultationHistoryService(repos Repositories) *ConsultationHistoryServiceImpl {
	return &ConsultationHistoryServiceImpl{repos: repos}
}

func (s *ConsultationHistoryServiceImpl) GetConsultationHistory(ctx context.Context, user *model.User) ([]dto.ConsultationHistoryDTO, error) {
	var (
		histories   []*model.ConsultationHistory
		partnerRole model.Role
		err         error
	)
	switch user.Role {
	case model.RolePacilian:
		histories, err = s.repos.ConsultationHistories.FindByPacilianID(ctx, user.ID)
		partnerRole = model.RoleCaregiver
	case model.RoleCaregiver:
		histories, err = s.repos.ConsultationHistories.FindByCaregiverID(ctx, user.ID)
		partnerRole = model.RolePacilian
	default:
		return nil, ErrForbidden
	}
	if err != nil {
		return nil, err
	}

	names := make(map[string]string)
	result := make([]dto.ConsultationHistoryDTO, 0, len(histories))
	for _, h := range histories {
		partnerID := h.CaregiverID
		if partnerRole == model.RolePacilian {
			partnerID = h.PacilianID
		}

		name, ok := names[partnerID]
		if !ok {
			found, err := s.repos.Users.FindByID(ctx, partnerID)
			if err != nil {
				return nil, err
			}
			if partner, exists := found.Get(); exists {
				name = partner.Name
			}
			names[partnerID] = name
		}

		result = append(result, dto.ConsultationHistoryDTO{
			ConsultationTime: h.ConsultationTime,
			PartnerName:      name,
			PartnerRole:      partnerRole,
			Note:             h.Note,
		})
	}
	return result, nil
}
