// Package memory keeps every repository in process memory. It backs the memory
// storage driver and the functional tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/MSSkowron/CareAuth/internal/model"
	"github.com/MSSkowron/CareAuth/internal/repository"
	"github.com/google/uuid"
	"github.com/samber/mo"
)

type pacilianRow struct {
	medicalHistory string
}

type caregiverRow struct {
	speciality  model.Speciality
	workAddress string
}

// Store holds the tables shared by the repositories it hands out.
type Store struct {
	mu         sync.RWMutex
	users      map[string]model.User
	pacilians  map[string]pacilianRow
	caregivers map[string]caregiverRow
	schedules  map[string][]model.WorkingSchedule
	histories  []model.ConsultationHistory
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		users:      make(map[string]model.User),
		pacilians:  make(map[string]pacilianRow),
		caregivers: make(map[string]caregiverRow),
		schedules:  make(map[string][]model.WorkingSchedule),
	}
}

// Users returns the account repository.
func (s *Store) Users() repository.UserRepository { return &userRepository{s} }

// Pacilians returns the pacilian repository.
func (s *Store) Pacilians() repository.PacilianRepository { return &pacilianRepository{s} }

// Caregivers returns the caregiver repository.
func (s *Store) Caregivers() repository.CaregiverRepository { return &caregiverRepository{s} }

// Schedules returns the working schedule repository.
func (s *Store) Schedules() repository.ScheduleRepository { return &scheduleRepository{s} }

// ConsultationHistories returns the consultation history repository.
func (s *Store) ConsultationHistories() repository.ConsultationHistoryRepository {
	return &historyRepository{s}
}

// insertUser must be called with mu held.
func (s *Store) insertUser(user *model.User) error {
	for _, u := range s.users {
		if u.Email == user.Email {
			return fmt.Errorf("failed to add user: %w: users_email_key", repository.ErrDuplicate)
		}
		if u.NIK == user.NIK {
			return fmt.Errorf("failed to add user: %w: users_nik_key", repository.ErrDuplicate)
		}
	}

	user.EnsureID()
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	s.users[user.ID] = *user
	return nil
}

// updateUser must be called with mu held.
func (s *Store) updateUser(user *model.User) error {
	existing, ok := s.users[user.ID]
	if !ok {
		return fmt.Errorf("failed to update user: %w", repository.ErrNotFound)
	}

	existing.Password = user.Password
	existing.Name = user.Name
	existing.Address = user.Address
	existing.PhoneNumber = user.PhoneNumber
	existing.UpdatedAt = time.Now().UTC()
	s.users[user.ID] = existing

	user.UpdatedAt = existing.UpdatedAt
	return nil
}

// deleteUser mirrors the ON DELETE CASCADE of the relational schema. mu must be held.
func (s *Store) deleteUser(id string) {
	delete(s.users, id)
	delete(s.pacilians, id)
	delete(s.caregivers, id)
	delete(s.schedules, id)

	kept := s.histories[:0]
	for _, h := range s.histories {
		if h.PacilianID != id && h.CaregiverID != id {
			kept = append(kept, h)
		}
	}
	s.histories = kept
}

type userRepository struct{ s *Store }

func (r *userRepository) FindByID(_ context.Context, id string) (mo.Option[*model.User], error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return mo.None[*model.User](), nil
	}
	return mo.Some(&u), nil
}

func (r *userRepository) FindByEmail(_ context.Context, email string) (mo.Option[*model.User], error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return mo.Some(&u), nil
		}
	}
	return mo.None[*model.User](), nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	u, err := r.FindByEmail(ctx, email)
	return u.IsPresent(), err
}

func (r *userRepository) ExistsByNIK(_ context.Context, nik string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.NIK == nik {
			return true, nil
		}
	}
	return false, nil
}

func (r *userRepository) Update(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.s.updateUser(user)
}

func (r *userRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return fmt.Errorf("failed to delete from users: %w", repository.ErrNotFound)
	}
	r.s.deleteUser(id)
	return nil
}

type pacilianRepository struct{ s *Store }

func (r *pacilianRepository) Create(_ context.Context, pacilian *model.Pacilian) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	pacilian.Role = model.RolePacilian
	if err := r.s.insertUser(&pacilian.User); err != nil {
		return err
	}
	r.s.pacilians[pacilian.ID] = pacilianRow{medicalHistory: pacilian.MedicalHistory}
	return nil
}

func (r *pacilianRepository) Update(_ context.Context, pacilian *model.Pacilian) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.pacilians[pacilian.ID]; !ok {
		return fmt.Errorf("failed to update pacilian: %w", repository.ErrNotFound)
	}
	if err := r.s.updateUser(&pacilian.User); err != nil {
		return err
	}
	r.s.pacilians[pacilian.ID] = pacilianRow{medicalHistory: pacilian.MedicalHistory}
	return nil
}

func (r *pacilianRepository) FindByID(_ context.Context, id string) (mo.Option[*model.Pacilian], error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	row, ok := r.s.pacilians[id]
	if !ok {
		return mo.None[*model.Pacilian](), nil
	}
	return mo.Some(&model.Pacilian{User: r.s.users[id], MedicalHistory: row.medicalHistory}), nil
}

func (r *pacilianRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.pacilians[id]; !ok {
		return fmt.Errorf("failed to delete from pacilians: %w", repository.ErrNotFound)
	}
	delete(r.s.pacilians, id)
	return nil
}

type caregiverRepository struct{ s *Store }

func (r *caregiverRepository) Create(_ context.Context, caregiver *model.Caregiver) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	caregiver.Role = model.RoleCaregiver
	if err := r.s.insertUser(&caregiver.User); err != nil {
		return err
	}
	r.s.caregivers[caregiver.ID] = caregiverRow{speciality: caregiver.Speciality, workAddress: caregiver.WorkAddress}
	return nil
}

func (r *caregiverRepository) Update(_ context.Context, caregiver *model.Caregiver) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.caregivers[caregiver.ID]; !ok {
		return fmt.Errorf("failed to update caregiver: %w", repository.ErrNotFound)
	}
	if err := r.s.updateUser(&caregiver.User); err != nil {
		return err
	}
	r.s.caregivers[caregiver.ID] = caregiverRow{speciality: caregiver.Speciality, workAddress: caregiver.WorkAddress}
	return nil
}

func (r *caregiverRepository) FindByID(_ context.Context, id string) (mo.Option[*model.Caregiver], error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	row, ok := r.s.caregivers[id]
	if !ok {
		return mo.None[*model.Caregiver](), nil
	}
	return mo.Some(r.s.caregiver(id, row)), nil
}

func (r *caregiverRepository) FindAll(ctx context.Context) ([]*model.Caregiver, error) {
	return r.Search(ctx, "", mo.None[model.Speciality]())
}

func (r *caregiverRepository) Search(_ context.Context, name string, speciality mo.Option[model.Speciality]) ([]*model.Caregiver, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	needle := strings.ToLower(name)
	result := make([]*model.Caregiver, 0)
	for id, row := range r.s.caregivers {
		c := r.s.caregiver(id, row)
		if needle != "" && !strings.Contains(strings.ToLower(c.Name), needle) {
			continue
		}
		if s, ok := speciality.Get(); ok && c.Speciality != s {
			continue
		}
		result = append(result, c)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *caregiverRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.caregivers[id]; !ok {
		return fmt.Errorf("failed to delete from caregivers: %w", repository.ErrNotFound)
	}
	delete(r.s.caregivers, id)
	delete(r.s.schedules, id)
	return nil
}

// caregiver must be called with mu held.
func (s *Store) caregiver(id string, row caregiverRow) *model.Caregiver {
	return &model.Caregiver{User: s.users[id], Speciality: row.speciality, WorkAddress: row.workAddress}
}

type scheduleRepository struct{ s *Store }

func (r *scheduleRepository) FindByCaregiverID(_ context.Context, caregiverID string) ([]*model.WorkingSchedule, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	stored := r.s.schedules[caregiverID]
	result := make([]*model.WorkingSchedule, 0, len(stored))
	for _, ws := range stored {
		copied := &model.WorkingSchedule{ID: ws.ID, CaregiverID: ws.CaregiverID, DayOfWeek: ws.DayOfWeek, TimeChoices: make([]*model.TimeChoice, 0, len(ws.TimeChoices))}
		for _, tc := range ws.TimeChoices {
			c := *tc
			copied.AddTimeChoice(&c)
		}
		sort.SliceStable(copied.TimeChoices, func(i, j int) bool {
			return copied.TimeChoices[i].StartTime < copied.TimeChoices[j].StartTime
		})
		result = append(result, copied)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return weekdayIndex(result[i].DayOfWeek) < weekdayIndex(result[j].DayOfWeek)
	})
	return result, nil
}

func (r *scheduleRepository) ReplaceForCaregiver(_ context.Context, caregiverID string, schedules []*model.WorkingSchedule) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.caregivers[caregiverID]; !ok {
		return fmt.Errorf("failed to add working schedule: %w", repository.ErrNotFound)
	}

	seen := make(map[model.DayOfWeek]struct{}, len(schedules))
	stored := make([]model.WorkingSchedule, 0, len(schedules))
	for _, ws := range schedules {
		if _, dup := seen[ws.DayOfWeek]; dup {
			return fmt.Errorf("failed to add working schedule: %w: %s", repository.ErrDuplicate, ws.DayOfWeek)
		}
		seen[ws.DayOfWeek] = struct{}{}

		if ws.ID == "" {
			ws.ID = uuid.NewString()
		}
		ws.CaregiverID = caregiverID

		copied := model.WorkingSchedule{ID: ws.ID, CaregiverID: caregiverID, DayOfWeek: ws.DayOfWeek}
		for _, tc := range ws.TimeChoices {
			if tc.ID == "" {
				tc.ID = uuid.NewString()
			}
			tc.WorkingScheduleID = ws.ID
			c := *tc
			copied.TimeChoices = append(copied.TimeChoices, &c)
		}
		stored = append(stored, copied)
	}

	r.s.schedules[caregiverID] = stored
	return nil
}

func weekdayIndex(d model.DayOfWeek) int {
	for i, day := range model.DaysOfWeek {
		if day == d {
			return i
		}
	}
	return len(model.DaysOfWeek)
}

type historyRepository struct{ s *Store }

func (r *historyRepository) Create(_ context.Context, history *model.ConsultationHistory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.pacilians[history.PacilianID]; !ok {
		return fmt.Errorf("failed to add consultation history: unknown pacilian: %w", repository.ErrNotFound)
	}
	if _, ok := r.s.caregivers[history.CaregiverID]; !ok {
		return fmt.Errorf("failed to add consultation history: unknown caregiver: %w", repository.ErrNotFound)
	}

	if history.ID == "" {
		history.ID = uuid.NewString()
	}
	r.s.histories = append(r.s.histories, *history)
	return nil
}

func (r *historyRepository) FindByPacilianID(_ context.Context, pacilianID string) ([]*model.ConsultationHistory, error) {
	return r.find(func(h model.ConsultationHistory) bool { return h.PacilianID == pacilianID }), nil
}

func (r *historyRepository) FindByCaregiverID(_ context.Context, caregiverID string) ([]*model.ConsultationHistory, error) {
	return r.find(func(h model.ConsultationHistory) bool { return h.CaregiverID == caregiverID }), nil
}

func (r *historyRepository) find(match func(model.ConsultationHistory) bool) []*model.ConsultationHistory {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]*model.ConsultationHistory, 0)
	for _, h := range r.s.histories {
		if match(h) {
			result = append(result, &h)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].ConsultationTime.Equal(result[j].ConsultationTime) {
			return result[i].ConsultationTime.After(result[j].ConsultationTime)
		}
		return result[i].ID < result[j].ID
	})
	return result
}
