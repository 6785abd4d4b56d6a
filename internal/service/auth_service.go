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
	"github.com/MSSkowron/CareAuth/internal/repository"
	"github.com/MSSkowron/CareAuth/internal/revocation"
	"github.com/MSSkowron/CareAuth/pkg/crypto"
	"github.com/MSSkowron/CareAuth/pkg/logger"
	"github.com/MSSkowron/CareAuth/pkg/token/usertoken"
	"github.com/MSSkowron/CareAuth/pkg/validation"
)

// RegistrationMessage is returned to a freshly registered user.
const RegistrationMessage = "Registration successful. Please login."

// AuthService defines the interface for registration, login and token checks.
type AuthService interface {
	// RegisterPacilian creates a pacilian account.
	RegisterPacilian(context.Context, *dto.RegisterPacilianDTO) (*dto.RegisterResponseDTO, error)

	// RegisterCaregiver creates a caregiver account.
	RegisterCaregiver(context.Context, *dto.RegisterCaregiverDTO) (*dto.RegisterResponseDTO, error)

	// Login checks the credentials and issues an access token.
	Login(context.Context, *dto.LoginDTO) (*dto.LoginResponseDTO, error)

	// Logout revokes the token for the rest of its lifetime. Invalid tokens are ignored.
	Logout(ctx context.Context, token string) error

	// VerifyToken reports whether the token is usable. It never fails.
	VerifyToken(ctx context.Context, token string) *dto.TokenVerificationDTO

	// Authenticate resolves the token owner.
	Authenticate(ctx context.Context, token string) (*model.User, *usertoken.Claims, error)
}

// AuthServiceImpl implements the AuthService interface.
type AuthServiceImpl struct {
	repos        Repositories
	hasher       PasswordHasher
	tokenService TokenService
	revoked      revocation.Store
	publisher    events.Publisher
	metrics      *metrics.Metrics
}

// NewAuthService creates a new AuthServiceImpl instance.
func NewAuthService(repos Repositories, hasher PasswordHasher, tokenService TokenService, revoked revocation.Store, publisher events.Publisher, m *metrics.Metrics) *AuthServiceImpl {
	return &AuthServiceImpl{
		repos:        repos,
		hasher:       hasher,
		tokenService: tokenService,
		revoked:      revoked,
		publisher:    publisher,
		metrics:      m,
	}
}

func (s *AuthServiceImpl) RegisterPacilian(ctx context.Context, req *dto.RegisterPacilianDTO) (*dto.RegisterResponseDTO, error) {
	res, err := s.registerPacilian(ctx, req)
	if err != nil {
		s.metrics.RegisterPacilianFailure.Inc()
		return nil, err
	}
	s.metrics.RegisterPacilian.Inc()
	return res, nil
}

func (s *AuthServiceImpl) registerPacilian(ctx context.Context, req *dto.RegisterPacilianDTO) (*dto.RegisterResponseDTO, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.newUser(ctx, req.Email, req.Password, req.Name, req.NIK, req.Address, req.PhoneNumber)
	if err != nil {
		return nil, err
	}
	pacilian := model.NewPacilian(*user, req.MedicalHistory)

	if err := s.repos.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		return s.repos.Pacilians.Create(ctx, pacilian)
	}); err != nil {
		return nil, mapDuplicate(err)
	}

	s.publish(ctx, events.SubjectUserRegistered, &pacilian.User)
	logger.Info(fmt.Sprintf("Registered pacilian [ID: %s]", pacilian.ID))

	return &dto.RegisterResponseDTO{ID: pacilian.ID, Role: pacilian.Role, Message: RegistrationMessage}, nil
}

func (s *AuthServiceImpl) RegisterCaregiver(ctx context.Context, req *dto.RegisterCaregiverDTO) (*dto.RegisterResponseDTO, error) {
	res, err := s.registerCaregiver(ctx, req)
	if err != nil {
		s.metrics.RegisterCaregiverFailure.Inc()
		return nil, err
	}
	s.metrics.RegisterCaregiver.Inc()
	return res, nil
}

func (s *AuthServiceImpl) registerCaregiver(ctx context.Context, req *dto.RegisterCaregiverDTO) (*dto.RegisterResponseDTO, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.newUser(ctx, req.Email, req.Password, req.Name, req.NIK, req.Address, req.PhoneNumber)
	if err != nil {
		return nil, err
	}
	caregiver := model.NewCaregiver(*user, req.Speciality, req.WorkAddress)

	if err := s.repos.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		return s.repos.Caregivers.Create(ctx, caregiver)
	}); err != nil {
		return nil, mapDuplicate(err)
	}

	s.publish(ctx, events.SubjectUserRegistered, &caregiver.User)
	logger.Info(fmt.Sprintf("Registered caregiver [ID: %s]", caregiver.ID))

	return &dto.RegisterResponseDTO{ID: caregiver.ID, Role: caregiver.Role, Message: RegistrationMessage}, nil
}

// newUser checks uniqueness and hashes the password.
func (s *AuthServiceImpl) newUser(ctx context.Context, email, password, name, nik, address, phone string) (*model.User, error) {
	exists, err := s.repos.Users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	exists, err = s.repos.Users.ExistsByNIK(ctx, nik)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrNIKAlreadyExists
	}

	hashed, err := hashPassword(s.hasher, password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &model.User{
		Email:       email,
		Password:    hashed,
		Name:        name,
		NIK:         nik,
		Address:     address,
		PhoneNumber: phone,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	user.EnsureID()
	return user, nil
}

// mapDuplicate turns a unique violation lost to a concurrent registration into a client error.
func mapDuplicate(err error) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return ErrEmailAlreadyExists
	}
	return err
}

func (s *AuthServiceImpl) Login(ctx context.Context, req *dto.LoginDTO) (*dto.LoginResponseDTO, error) {
	res, err := s.login(ctx, req)
	if err != nil {
		s.metrics.LoginFailure.Inc()
		return nil, err
	}
	s.metrics.LoginSuccess.Inc()
	return res, nil
}

func (s *AuthServiceImpl) login(ctx context.Context, req *dto.LoginDTO) (*dto.LoginResponseDTO, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	found, err := s.repos.Users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	user, ok := found.Get()
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if err := s.hasher.Check(req.Password, user.Password); err != nil {
		if errors.Is(err, crypto.ErrInvalidCredentials) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	token, _, err := s.tokenService.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponseDTO{
		AccessToken: token,
		Email:       user.Email,
		Name:        user.Name,
		Role:        user.Role,
		ExpiresIn:   s.tokenService.ExpirationTime().Milliseconds(),
	}, nil
}

func (s *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := s.tokenService.ParseToken(token)
	if err != nil {
		return nil
	}
	return s.revoked.Revoke(ctx, claims.Id, s.tokenService.RemainingTime(claims))
}

func (s *AuthServiceImpl) VerifyToken(ctx context.Context, token string) *dto.TokenVerificationDTO {
	defer metrics.Since(s.metrics.TokenVerification, time.Now())

	user, claims, err := s.Authenticate(ctx, token)
	if err != nil {
		logger.Debug(fmt.Sprintf("Token verification failed: %v", err))
		return &dto.TokenVerificationDTO{Valid: false}
	}

	return &dto.TokenVerificationDTO{
		Valid:     true,
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		ExpiresIn: s.tokenService.RemainingTime(claims).Milliseconds(),
	}
}

func (s *AuthServiceImpl) Authenticate(ctx context.Context, token string) (*model.User, *usertoken.Claims, error) {
	if token == "" {
		return nil, nil, ErrInvalidToken
	}

	claims, err := s.tokenService.ParseToken(token)
	if err != nil {
		return nil, nil, err
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.Id)
	if err != nil {
		return nil, nil, err
	}
	if revoked {
		return nil, nil, ErrInvalidToken
	}

	found, err := s.repos.Users.FindByEmail(ctx, claims.Subject)
	if err != nil {
		return nil, nil, err
	}
	user, ok := found.Get()
	if !ok || user.ID != claims.UserID {
		return nil, nil, ErrInvalidToken
	}

	return user, claims, nil
}

func (s *AuthServiceImpl) publish(ctx context.Context, subject string, user *model.User) {
	if err := s.publisher.Publish(ctx, subject, events.NewUserEvent(user)); err != nil {
		logger.Warn(fmt.Sprintf("Failed to publish %s event [user ID: %s]: %v", subject, user.ID, err))
	}
}
