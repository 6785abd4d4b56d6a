package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MSSkowron/CareAuth/internal/dto"
	"github.com/MSSkowron/CareAuth/internal/events"
	"github.com/MSSkowron/CareAuth/internal/metrics"
	"github.com/MSSkowron/CareAuth/internal/model"
	"github.com/MSSkowron/CareAuth/internal/revocation"
	"github.com/MSSkowron/CareAuth/pkg/crypto"
	"github.com/MSSkowron/CareAuth/pkg/logger"
	"github.com/MSSkowron/CareAuth/pkg/validation"
)

// ProfileService defines the interface for operations on the authenticated user's own account.
type ProfileService interface {
	// GetProfile returns the full profile including role specific fields.
	GetProfile(ctx context.Context, user *model.User) (*dto.UserProfileDTO, error)

	// UpdateProfile applies the non-empty fields of the request.
	UpdateProfile(ctx context.Context, user *model.User, req *dto.UpdateProfileDTO) (*dto.UserProfileDTO, error)

	// ChangePassword replaces the password after checking the current one.
	ChangePassword(ctx context.Context, user *model.User, req *dto.PasswordChangeDTO) error

	// DeleteAccount removes the account and revokes the token used for the request.
	DeleteAccount(ctx context.Context, user *model.User, token string) error

	// GetSchedules returns the caregiver's working schedules.
	GetSchedules(ctx context.Context, user *model.User) ([]dto.WorkingScheduleDTO, error)

	// UpdateSchedules replaces all working schedules of the caregiver.
	UpdateSchedules(ctx context.Context, user *model.User, req *dto.UpdateSchedulesDTO) ([]dto.WorkingScheduleDTO, error)
}

// ProfileServiceImpl implements the ProfileService interface.
type ProfileServiceImpl struct {
	repos        Repositories
	hasher       PasswordHasher
	tokenService TokenService
	revoked      revocation.Store
	publisher    events.Publisher
	metrics      *metrics.Metrics
}

// NewProfileService creates a new ProfileServiceImpl instance.
func NewProfileService(repos Repositories, hasher PasswordHasher, tokenService TokenService, revoked revocation.Store, publisher events.Publisher, m *metrics.Metrics) *ProfileServiceImpl {
	return &ProfileServiceImpl{
		repos:        repos,
		hasher:       hasher,
		tokenService: tokenService,
		revoked:      revoked,
		publisher:    publisher,
		metrics:      m,
	}
}

func (s *ProfileServiceImpl) GetProfile(ctx context.Context, user *model.User) (*dto.UserProfileDTO, error) {
	s.metrics.ProfileView.Inc()

	profile := newProfileDTO(user)
	switch user.Role {
	case model.RolePacilian:
		found, err := s.repos.Pacilians.FindByID(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		if p, ok := found.Get(); ok {
			history := p.MedicalHistory
			profile.MedicalHistory = &history
		}
	case model.RoleCaregiver:
		found, err := s.repos.Caregivers.FindByID(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		if c, ok := found.Get(); ok {
			profile.Speciality = c.Speciality
			profile.WorkAddress = c.WorkAddress
		}
	}
	return profile, nil
}

func newProfileDTO(user *model.User) *dto.UserProfileDTO {
	return &dto.UserProfileDTO{
		ID:          user.ID,
		Email:       user.Email,
		Name:        user.Name,
		NIK:         user.NIK,
		Address:     user.Address,
		PhoneNumber: user.PhoneNumber,
		Role:        user.Role,
	}
}

func (s *ProfileServiceImpl) UpdateProfile(ctx context.Context, user *model.User, req *dto.UpdateProfileDTO) (*dto.UserProfileDTO, error) {
	defer metrics.Since(s.metrics.ProfileUpdateDuration, time.Now())

	if err := s.updateProfile(ctx, user, req); err != nil {
		s.metrics.ProfileUpdateFailure.Inc()
		return nil, err
	}
	s.metrics.ProfileUpdateSuccess.Inc()
	logger.Info(fmt.Sprintf("Updated profile [ID: %s]", user.ID))

	return s.GetProfile(ctx, user)
}

func (s *ProfileServiceImpl) updateProfile(ctx context.Context, user *model.User, req *dto.UpdateProfileDTO) error {
	if err := validation.Struct(req); err != nil {
		return err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Address != "" {
		user.Address = req.Address
	}
	if req.PhoneNumber != "" {
		user.PhoneNumber = req.PhoneNumber
	}
	user.UpdatedAt = time.Now().UTC()

	return s.repos.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		switch user.Role {
		case model.RolePacilian:
			found, err := s.repos.Pacilians.FindByID(ctx, user.ID)
			if err != nil {
				return err
			}
			p, ok := found.Get()
			if !ok {
				return ErrPacilianNotFound(user.ID)
			}
			p.User = *user
			if req.MedicalHistory != nil {
				p.MedicalHistory = *req.MedicalHistory
			}
			return s.repos.Pacilians.Update(ctx, p)
		case model.RoleCaregiver:
			found, err := s.repos.Caregivers.FindByID(ctx, user.ID)
			if err != nil {
				return err
			}
			c, ok := found.Get()
			if !ok {
				return ErrCaregiverNotFound(user.ID)
			}
			c.User = *user
			if req.Speciality != nil && *req.Speciality != "" {
				if !req.Speciality.Valid() {
					return invalidSpeciality(string(*req.Speciality))
				}
				c.Speciality = *req.Speciality
			}
			if req.WorkAddress != "" {
				c.WorkAddress = req.WorkAddress
			}
			return s.repos.Caregivers.Update(ctx, c)
		default:
			return s.repos.Users.Update(ctx, user)
		}
	})
}

func (s *ProfileServiceImpl) ChangePassword(ctx context.Context, user *model.User, req *dto.PasswordChangeDTO) error {
	if err := s.changePassword(ctx, user, req); err != nil {
		s.metrics.PasswordChangeFailure.Inc()
		return err
	}
	s.metrics.PasswordChangeSuccess.Inc()
	logger.Info(fmt.Sprintf("Changed password [ID: %s]", user.ID))
	return nil
}

func (s *ProfileServiceImpl) changePassword(ctx context.Context, user *model.User, req *dto.PasswordChangeDTO) error {
	if err := validation.Struct(req); err != nil {
		return err
	}

	if err := s.hasher.Check(req.CurrentPassword, user.Password); err != nil {
		if errors.Is(err, crypto.ErrInvalidCredentials) {
			return ErrIncorrectPassword
		}
		return err
	}
	if req.NewPassword != req.ConfirmPassword {
		return ErrPasswordMismatch
	}

	hashed, err := hashPassword(s.hasher, req.NewPassword)
	if err != nil {
		return err
	}
	user.Password = hashed
	user.UpdatedAt = time.Now().UTC()

	return s.repos.Users.Update(ctx, user)
}

func (s *ProfileServiceImpl) DeleteAccount(ctx context.Context, user *model.User, token string) error {
	if err := s.repos.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		switch user.Role {
		case model.RolePacilian:
			err = s.repos.Pacilians.Delete(ctx, user.ID)
		case model.RoleCaregiver:
			err = s.repos.Caregivers.Delete(ctx, user.ID)
		}
		if err != nil {
			return err
		}
		return s.repos.Users.Delete(ctx, user.ID)
	}); err != nil {
		return err
	}

	if claims, err := s.tokenService.ParseToken(token); err == nil {
		if err := s.revoked.Revoke(ctx, claims.Id, s.tokenService.RemainingTime(claims)); err != nil {
			logger.Warn(fmt.Sprintf("Failed to revoke token of deleted account [ID: %s]: %v", user.ID, err))
		}
	}

	if err := s.publisher.Publish(ctx, events.SubjectUserDeleted, events.NewUserEvent(user)); err != nil {
		logger.Warn(fmt.Sprintf("Failed to publish %s event [user ID: %s]: %v", events.SubjectUserDeleted, user.ID, err))
	}
	logger.Info(fmt.Sprintf("Deleted account [ID: %s]", user.ID))
	return nil
}

func (s *ProfileServiceImpl) GetSchedules(ctx context.Context, user *model.User) ([]dto.WorkingScheduleDTO, error) {
	if user.Role != model.RoleCaregiver {
		return nil, ErrForbidden
	}
	schedules, err := s.repos.Schedules.FindByCaregiverID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return scheduleDTOs(schedules), nil
}

func (s *ProfileServiceImpl) UpdateSchedules(ctx context.Context, user *model.User, req *dto.UpdateSchedulesDTO) ([]dto.WorkingScheduleDTO, error) {
	if user.Role != model.RoleCaregiver {
		return nil, ErrForbidden
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	schedules, err := scheduleModels(req.Schedules)
	if err != nil {
		return nil, err
	}

	var stored []*model.WorkingSchedule
	if err := s.repos.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.repos.Schedules.ReplaceForCaregiver(ctx, user.ID, schedules); err != nil {
			return err
		}
		stored, err = s.repos.Schedules.FindByCaregiverID(ctx, user.ID)
		return err
	}); err != nil {
		return nil, err
	}

	logger.Info(fmt.Sprintf("Updated working schedules [caregiver ID: %s, days: %d]", user.ID, len(stored)))
	return scheduleDTOs(stored), nil
}
