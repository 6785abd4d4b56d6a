package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/MSSkowron/CareAuth/internal/dto"
	"github.com/MSSkowron/CareAuth/internal/model"
	"github.com/MSSkowron/CareAuth/pkg/token/usertoken"
)

// MockAuthService is a mock implementation of AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) RegisterPacilian(ctx context.Context, req *dto.RegisterPacilianDTO) (*dto.RegisterResponseDTO, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RegisterResponseDTO), args.Error(1)
}

func (m *MockAuthService) RegisterCaregiver(ctx context.Context, req *dto.RegisterCaregiverDTO) (*dto.RegisterResponseDTO, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RegisterResponseDTO), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req *dto.LoginDTO) (*dto.LoginResponseDTO, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LoginResponseDTO), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockAuthService) VerifyToken(ctx context.Context, token string) *dto.TokenVerificationDTO {
	args := m.Called(ctx, token)
	return args.Get(0).(*dto.TokenVerificationDTO)
}

func (m *MockAuthService) Authenticate(ctx context.Context, token string) (*model.User, *usertoken.Claims, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*model.User), args.Get(1).(*usertoken.Claims), args.Error(2)
}

// MockProfileService is a mock implementation of ProfileService
type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) GetProfile(ctx context.Context, user *model.User) (*dto.UserProfileDTO, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserProfileDTO), args.Error(1)
}

func (m *MockProfileService) UpdateProfile(ctx context.Context, user *model.User, req *dto.UpdateProfileDTO) (*dto.UserProfileDTO, error) {
	args := m.Called(ctx, user, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserProfileDTO), args.Error(1)
}

func (m *MockProfileService) ChangePassword(ctx context.Context, user *model.User, req *dto.PasswordChangeDTO) error {
	args := m.Called(ctx, user, req)
	return args.Error(0)
}

func (m *MockProfileService) DeleteAccount(ctx context.Context, user *model.User, token string) error {
	args := m.Called(ctx, user, token)
	return args.Error(0)
}

func (m *MockProfileService) GetSchedules(ctx context.Context, user *model.User) ([]dto.WorkingScheduleDTO, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.WorkingScheduleDTO), args.Error(1)
}

func (m *MockProfileService) UpdateSchedules(ctx context.Context, user *model.User, req *dto.UpdateSchedulesDTO) ([]dto.WorkingScheduleDTO, error) {
	args := m.Called(ctx, user, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.WorkingScheduleDTO), args.Error(1)
}

// MockDataService is a mock implementation of DataService
type MockDataService struct {
	mock.Mock
}

func (m *MockDataService) GetAllCaregivers(ctx context.Context) ([]dto.CaregiverPublicDTO, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.CaregiverPublicDTO), args.Error(1)
}

func (m *MockDataService) SearchCaregivers(ctx context.Context, name, speciality string) ([]dto.CaregiverPublicDTO, error) {
	args := m.Called(ctx, name, speciality)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.CaregiverPublicDTO), args.Error(1)
}

func (m *MockDataService) GetCaregiverByID(ctx context.Context, id string) (*dto.CaregiverPublicDTO, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CaregiverPublicDTO), args.Error(1)
}

func (m *MockDataService) GetPacilianByID(ctx context.Context, id string) (*dto.PacilianPublicDTO, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PacilianPublicDTO), args.Error(1)
}

func (m *MockDataService) GetCaregiverSchedules(ctx context.Context, id string) ([]dto.WorkingScheduleDTO, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.WorkingScheduleDTO), args.Error(1)
}

// MockConsultationHistoryService is a mock implementation of ConsultationHistoryService
type MockConsultationHistoryService struct {
	mock.Mock
}

func (m *MockConsultationHistoryService) GetConsultationHistory(ctx context.Context, user *model.User) ([]dto.ConsultationHistoryDTO, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.ConsultationHistoryDTO), args.Error(1)
}
