package service

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/MSSkowron/CareAuth/internal/dto"
	"github.com/MSSkowron/CareAuth/internal/metrics"
	"github.com/MSSkowron/CareAuth/internal/model"
	"github.com/samber/mo"
)

// DataService defines the interface for public lookups of caregivers and pacilians.
type DataService interface {
	// GetAllCaregivers returns every caregiver ordered by name.
	GetAllCaregivers(ctx context.Context) ([]dto.CaregiverPublicDTO, error)

	// SearchCaregivers filters caregivers by a name substring and a raw, possibly URL encoded, speciality.
	SearchCaregivers(ctx context.Context, name, speciality string) ([]dto.CaregiverPublicDTO, error)

	// GetCaregiverByID returns a caregiver or a *NotFoundError.
	GetCaregiverByID(ctx context.Context, id string) (*dto.CaregiverPublicDTO, error)

	// GetPacilianByID returns a pacilian or a *NotFoundError.
	GetPacilianByID(ctx context.Context, id string) (*dto.PacilianPublicDTO, error)

	// GetCaregiverSchedules returns the working schedules of a caregiver.
	GetCaregiverSchedules(ctx context.Context, id string) ([]dto.WorkingScheduleDTO, error)
}

// DataServiceImpl implements the DataService interface.
type DataServiceImpl struct {
	repos   Repositories
	metrics *metrics.Metrics
}

// NewDataService creates a new DataServiceImpl instance.
func NewDataService(repos Repositories, m *metrics.Metrics) *DataServiceImpl {
	return &DataServiceImpl{repos: repos, metrics: m}
}

func (s *DataServiceImpl) GetAllCaregivers(ctx context.Context) ([]dto.CaregiverPublicDTO, error) {
	s.metrics.DataRequest.Inc()
	defer metrics.Since(s.metrics.DataQueryDuration, time.Now())

	caregivers, err := s.repos.Caregivers.FindAll(ctx)
	if err != nil {
		s.metrics.DataRequestFailure.Inc()
		return nil, err
	}
	return caregiverDTOs(caregivers), nil
}

func (s *DataServiceImpl) SearchCaregivers(ctx context.Context, name, speciality string) ([]dto.CaregiverPublicDTO, error) {
	s.metrics.DataCaregiverSearch.Inc()
	defer metrics.Since(s.metrics.DataQueryDuration, time.Now())

	filter := mo.None[model.Speciality]()
	if decoded := decodeParam(speciality); strings.TrimSpace(decoded) != "" {
		parsed, err := model.ParseSpeciality(decoded)
		if err != nil {
			s.metrics.DataRequestFailure.Inc()
			return nil, invalidSpeciality(decoded)
		}
		filter = mo.Some(parsed)
	}

	caregivers, err := s.repos.Caregivers.Search(ctx, strings.TrimSpace(name), filter)
	if err != nil {
		s.metrics.DataRequestFailure.Inc()
		return nil, err
	}
	return caregiverDTOs(caregivers), nil
}

func (s *DataServiceImpl) GetCaregiverByID(ctx context.Context, id string) (*dto.CaregiverPublicDTO, error) {
	s.metrics.DataCaregiverView.Inc()
	defer metrics.Since(s.metrics.DataQueryDuration, time.Now())

	caregiver, err := s.findCaregiver(ctx, id)
	if err != nil {
		return nil, err
	}
	res := dto.NewCaregiverPublicDTO(caregiver)
	return &res, nil
}

func (s *DataServiceImpl) GetPacilianByID(ctx context.Context, id string) (*dto.PacilianPublicDTO, error) {
	s.metrics.DataPacilianView.Inc()
	defer metrics.Since(s.metrics.DataQueryDuration, time.Now())

	found, err := s.repos.Pacilians.FindByID(ctx, id)
	if err != nil {
		s.metrics.DataRequestFailure.Inc()
		return nil, err
	}
	pacilian, ok := found.Get()
	if !ok {
		s.metrics.DataPacilianNotFound.Inc()
		return nil, ErrPacilianNotFound(id)
	}
	res := dto.NewPacilianPublicDTO(pacilian)
	return &res, nil
}

func (s *DataServiceImpl) GetCaregiverSchedules(ctx context.Context, id string) ([]dto.WorkingScheduleDTO, error) {
	s.metrics.DataRequest.Inc()
	defer metrics.Since(s.metrics.DataQueryDuration, time.Now())

	if _, err := s.findCaregiver(ctx, id); err != nil {
		return nil, err
	}
	schedules, err := s.repos.Schedules.FindByCaregiverID(ctx, id)
	if err != nil {
		s.metrics.DataRequestFailure.Inc()
		return nil, err
	}
	return scheduleDTOs(schedules), nil
}

func (s *DataServiceImpl) findCaregiver(ctx context.Context, id string) (*model.Caregiver, error) {
	found, err := s.repos.Caregivers.FindByID(ctx, id)
	if err != nil {
		s.metrics.DataRequestFailure.Inc()
		return nil, err
	}
	caregiver, ok := found.Get()
	if !ok {
		s.metrics.DataCaregiverNotFound.Inc()
		return nil, ErrCaregiverNotFound(id)
	}
	return caregiver, nil
}

func caregiverDTOs(caregivers []*model.Caregiver) []dto.CaregiverPublicDTO {
	result := make([]dto.CaregiverPublicDTO, 0, len(caregivers))
	for _, c := range caregivers {
		result = append(result, dto.NewCaregiverPublicDTO(c))
	}
	return result
}

// decodeParam URL-decodes value once more, and a second time if it still holds an escape.
// Undecodable input is returned as is.
func decodeParam(value string) string {
	if strings.TrimSpace(value) == "" {
		return value
	}
	decoded, err := url.QueryUnescape(value)
	if err != nil {
		return value
	}
	if strings.Contains(decoded, "%") {
		again, err := url.QueryUnescape(decoded)
		if err != nil {
			return value
		}
		decoded = again
	}
	return decoded
}

func invalidSpeciality(value string) error {
	return NewRequestError("Invalid speciality: %s. Valid specialities are: %s", value, model.SpecialityNames())
}
