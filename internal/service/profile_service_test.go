package service

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MSSkowron/CareAuth/internal/dto"
	"github.com/MSSkowron/CareAuth/internal/events"
	"github.com/MSSkowron/CareAuth/internal/model"
	"github.com/MSSkowron/CareAuth/pkg/validation"
)

func registerPacilian(t *testing.T, env *testEnv) (*model.User, string) {
	t.Helper()
	_, err := env.auth.RegisterPacilian(context.Background(), pacilianRequest("budi@example.com", "3171234567890001"))
	require.NoError(t, err)
	return env.login(t, "budi@example.com")
}

func registerCaregiver(t *testing.T, env *testEnv) (*model.User, string) {
	t.Helper()
	_, err := env.auth.RegisterCaregiver(context.Background(), caregiverRequest("dr.sari@example.com", "3171234567890003", "Sari", model.SpecialityDokterUmum))
	require.NoError(t, err)
	return env.login(t, "dr.sari@example.com")
}

func TestGetProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	pacilian, _ := registerPacilian(t, env)
	profile, err := env.profile.GetProfile(ctx, pacilian)
	require.NoError(t, err)
	assert.Equal(t, "3171234567890001", profile.NIK)
	require.NotNil(t, profile.MedicalHistory)
	assert.Equal(t, "asthma", *profile.MedicalHistory)
	assert.Empty(t, profile.Speciality)

	caregiver, _ := registerCaregiver(t, env)
	profile, err = env.profile.GetProfile(ctx, caregiver)
	require.NoError(t, err)
	assert.Nil(t, profile.MedicalHistory)
	assert.Equal(t, model.SpecialityDokterUmum, profile.Speciality)
	assert.Equal(t, "RS Cipto", profile.WorkAddress)

	assert.Equal(t, 2.0, testutil.ToFloat64(env.metrics.ProfileView))
}

func TestUpdateProfilePacilian(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, _ := registerPacilian(t, env)
	history := "none"
	profile, err := env.profile.UpdateProfile(ctx, user, &dto.UpdateProfileDTO{
		Name:           "Budi S.",
		MedicalHistory: &history,
	})
	require.NoError(t, err)
	assert.Equal(t, "Budi S.", profile.Name)
	assert.Equal(t, "Jl. Margonda 1", profile.Address)
	assert.Equal(t, "none", *profile.MedicalHistory)

	stored, err := env.repos.Pacilians.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Budi S.", stored.MustGet().Name)
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.ProfileUpdateSuccess))
}

func TestUpdateProfileCaregiver(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, _ := registerCaregiver(t, env)
	speciality := model.SpecialitySpesialisKulit
	profile, err := env.profile.UpdateProfile(ctx, user, &dto.UpdateProfileDTO{
		Speciality:  &speciality,
		WorkAddress: "Klinik Depok",
	})
	require.NoError(t, err)
	assert.Equal(t, model.SpecialitySpesialisKulit, profile.Speciality)
	assert.Equal(t, "Klinik Depok", profile.WorkAddress)
	assert.Equal(t, "Sari", profile.Name)
}

func TestUpdateProfileRejectsInvalidPhone(t *testing.T) {
	env := newTestEnv(t)

	user, _ := registerPacilian(t, env)
	_, err := env.profile.UpdateProfile(context.Background(), user, &dto.UpdateProfileDTO{PhoneNumber: "12"})
	assert.ErrorIs(t, err, validation.ErrValidation)
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.ProfileUpdateFailure))
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, _ := registerPacilian(t, env)

	tests := []struct {
		name    string
		req     *dto.PasswordChangeDTO
		wantErr error
	}{
		{
			name:    "wrong current password",
			req:     &dto.PasswordChangeDTO{CurrentPassword: "nope", NewPassword: "n3w", ConfirmPassword: "n3w"},
			wantErr: ErrIncorrectPassword,
		},
		{
			name:    "confirmation mismatch",
			req:     &dto.PasswordChangeDTO{CurrentPassword: "password123", NewPassword: "n3w", ConfirmPassword: "n4w"},
			wantErr: ErrPasswordMismatch,
		},
		{
			name:    "missing fields",
			req:     &dto.PasswordChangeDTO{},
			wantErr: validation.ErrValidation,
		},
		{
			name: "new password too long",
			req: &dto.PasswordChangeDTO{
				CurrentPassword: "password123",
				NewPassword:     strings.Repeat("x", 80),
				ConfirmPassword: strings.Repeat("x", 80),
			},
			wantErr: ErrPasswordTooLong,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := env.profile.ChangePassword(ctx, user, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	require.NoError(t, env.profile.ChangePassword(ctx, user, &dto.PasswordChangeDTO{
		CurrentPassword: "password123", NewPassword: "n3w-secret", ConfirmPassword: "n3w-secret",
	}))

	_, err := env.auth.Login(ctx, &dto.LoginDTO{Email: "budi@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = env.auth.Login(ctx, &dto.LoginDTO{Email: "budi@example.com", Password: "n3w-secret"})
	assert.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.PasswordChangeSuccess))
	assert.Equal(t, 4.0, testutil.ToFloat64(env.metrics.PasswordChangeFailure))
}

func TestDeleteAccount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, token := registerCaregiver(t, env)
	require.NoError(t, env.profile.DeleteAccount(ctx, user, token))

	found, err := env.repos.Users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, found.IsAbsent())

	revoked, err := env.revoked.IsRevoked(ctx, mustClaimsID(t, env, token))
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.False(t, env.auth.VerifyToken(ctx, token).Valid)

	assert.Equal(t, []string{events.SubjectUserRegistered, events.SubjectUserDeleted}, env.publisher.subjects())
}

func mustClaimsID(t *testing.T, env *testEnv, token string) string {
	t.Helper()
	claims, err := env.tokens.ParseToken(token)
	require.NoError(t, err)
	return claims.Id
}

func TestSchedulesForbiddenForPacilian(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, _ := registerPacilian(t, env)

	_, err := env.profile.GetSchedules(ctx, user)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = env.profile.UpdateSchedules(ctx, user, &dto.UpdateSchedulesDTO{})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateSchedules(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, _ := registerCaregiver(t, env)
	schedules, err := env.profile.UpdateSchedules(ctx, user, &dto.UpdateSchedulesDTO{Schedules: []dto.WorkingScheduleDTO{
		{DayOfWeek: model.Wednesday, TimeChoices: []dto.TimeChoiceDTO{{StartTime: "13:00", EndTime: "14:00"}}},
		{DayOfWeek: model.Monday, TimeChoices: []dto.TimeChoiceDTO{
			{StartTime: "10:00", EndTime: "11:00"},
			{StartTime: "08:00", EndTime: "09:00"},
		}},
	}})
	require.NoError(t, err)
	require.Len(t, schedules, 2)
	assert.Equal(t, model.Monday, schedules[0].DayOfWeek)
	assert.Equal(t, "08:00", schedules[0].TimeChoices[0].StartTime)
	assert.NotEmpty(t, schedules[0].ID)
	assert.Equal(t, model.Wednesday, schedules[1].DayOfWeek)

	replaced, err := env.profile.UpdateSchedules(ctx, user, &dto.UpdateSchedulesDTO{Schedules: []dto.WorkingScheduleDTO{
		{DayOfWeek: model.Friday, TimeChoices: []dto.TimeChoiceDTO{{StartTime: "09:00", EndTime: "12:00"}}},
	}})
	require.NoError(t, err)
	require.Len(t, replaced, 1)

	got, err := env.profile.GetSchedules(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, replaced, got)
}

func TestUpdateSchedulesRejectsBadInput(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, _ := registerCaregiver(t, env)

	tests := []struct {
		name      string
		schedules []dto.WorkingScheduleDTO
		wantErr   string
	}{
		{
			name: "start after end",
			schedules: []dto.WorkingScheduleDTO{
				{DayOfWeek: model.Monday, TimeChoices: []dto.TimeChoiceDTO{{StartTime: "11:00", EndTime: "10:00"}}},
			},
			wantErr: "Start time 11:00 must be before end time 10:00 on MONDAY",
		},
		{
			name: "duplicate day",
			schedules: []dto.WorkingScheduleDTO{
				{DayOfWeek: model.Monday, TimeChoices: []dto.TimeChoiceDTO{{StartTime: "08:00", EndTime: "09:00"}}},
				{DayOfWeek: model.Monday, TimeChoices: []dto.TimeChoiceDTO{{StartTime: "10:00", EndTime: "11:00"}}},
			},
			wantErr: "Duplicate working schedule for MONDAY",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.profile.UpdateSchedules(ctx, user, &dto.UpdateSchedulesDTO{Schedules: tt.schedules})
			var reqErr *RequestError
			require.ErrorAs(t, err, &reqErr)
			assert.Equal(t, tt.wantErr, reqErr.Message)
		})
	}

	_, err := env.profile.UpdateSchedules(ctx, user, &dto.UpdateSchedulesDTO{Schedules: []dto.WorkingScheduleDTO{
		{DayOfWeek: model.Monday},
	}})
	assert.ErrorIs(t, err, validation.ErrValidation)
}
