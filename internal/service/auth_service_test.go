package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MSSkowron/CareAuth/internal/dto"
	"github.com/MSSkowron/CareAuth/internal/events"
	"github.com/MSSkowron/CareAuth/internal/model"
	"github.com/MSSkowron/CareAuth/pkg/validation"
)

func TestRegisterPacilian(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res, err := env.auth.RegisterPacilian(ctx, pacilianRequest("budi@example.com", "3171234567890001"))
	require.NoError(t, err)
	assert.NotEmpty(t, res.ID)
	assert.Equal(t, model.RolePacilian, res.Role)
	assert.Equal(t, RegistrationMessage, res.Message)

	found, err := env.repos.Pacilians.FindByID(ctx, res.ID)
	require.NoError(t, err)
	pacilian := found.MustGet()
	assert.Equal(t, "asthma", pacilian.MedicalHistory)
	assert.NotEqual(t, "password123", pacilian.Password)

	assert.Equal(t, []string{events.SubjectUserRegistered}, env.publisher.subjects())
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.RegisterPacilian))
}

func TestRegisterPacilianDuplicates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.RegisterPacilian(ctx, pacilianRequest("budi@example.com", "3171234567890001"))
	require.NoError(t, err)

	_, err = env.auth.RegisterPacilian(ctx, pacilianRequest("budi@example.com", "3171234567890002"))
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	assert.Equal(t, "Email already exists", err.Error())

	_, err = env.auth.RegisterPacilian(ctx, pacilianRequest("other@example.com", "3171234567890001"))
	assert.ErrorIs(t, err, ErrNIKAlreadyExists)

	assert.Equal(t, 2.0, testutil.ToFloat64(env.metrics.RegisterPacilianFailure))
}

func TestRegisterPacilianPasswordTooLong(t *testing.T) {
	env := newTestEnv(t)

	req := pacilianRequest("budi@example.com", "3171234567890001")
	req.Password = strings.Repeat("p", 80)
	_, err := env.auth.RegisterPacilian(context.Background(), req)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "Password must not exceed 72 bytes", reqErr.Message)

	exists, err := env.repos.Users.ExistsByEmail(context.Background(), "budi@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRegisterPacilianValidation(t *testing.T) {
	env := newTestEnv(t)

	req := pacilianRequest("not-an-email", "123")
	req.Name = ""
	_, err := env.auth.RegisterPacilian(context.Background(), req)

	var vErr *validation.Error
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Invalid email format", vErr.Fields["email"])
	assert.Equal(t, "Name is required", vErr.Fields["name"])
	assert.Contains(t, vErr.Fields, "nik")
}

func TestRegisterCaregiver(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res, err := env.auth.RegisterCaregiver(ctx, caregiverRequest("dr.sari@example.com", "3171234567890003", "Sari", model.SpecialitySpesialisAnak))
	require.NoError(t, err)
	assert.Equal(t, model.RoleCaregiver, res.Role)

	found, err := env.repos.Caregivers.FindByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SpecialitySpesialisAnak, found.MustGet().Speciality)
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.RegisterCaregiver))
}

func TestRegisterCaregiverRequiresSpeciality(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.RegisterCaregiver(context.Background(), caregiverRequest("dr.sari@example.com", "3171234567890003", "Sari", ""))

	var vErr *validation.Error
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Specialization is required", vErr.Fields["speciality"])
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.RegisterCaregiverFailure))
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.RegisterPacilian(ctx, pacilianRequest("budi@example.com", "3171234567890001"))
	require.NoError(t, err)

	res, err := env.auth.Login(ctx, &dto.LoginDTO{Email: "budi@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, "budi@example.com", res.Email)
	assert.Equal(t, "Budi Santoso", res.Name)
	assert.Equal(t, model.RolePacilian, res.Role)
	assert.Equal(t, time.Hour.Milliseconds(), res.ExpiresIn)

	claims, err := env.tokens.ParseToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "budi@example.com", claims.Subject)
	assert.Equal(t, string(model.RolePacilian), claims.Role)
}

func TestLoginInvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.RegisterPacilian(ctx, pacilianRequest("budi@example.com", "3171234567890001"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		email string
		pass  string
	}{
		{name: "unknown email", email: "nobody@example.com", pass: "password123"},
		{name: "wrong password", email: "budi@example.com", pass: "wrong"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.auth.Login(ctx, &dto.LoginDTO{Email: tt.email, Password: tt.pass})
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
	assert.Equal(t, 2.0, testutil.ToFloat64(env.metrics.LoginFailure))
}

func TestVerifyToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	reg, err := env.auth.RegisterPacilian(ctx, pacilianRequest("budi@example.com", "3171234567890001"))
	require.NoError(t, err)
	_, token := env.login(t, "budi@example.com")

	res := env.auth.VerifyToken(ctx, token)
	assert.True(t, res.Valid)
	assert.Equal(t, reg.ID, res.UserID)
	assert.Equal(t, "budi@example.com", res.Email)
	assert.Equal(t, model.RolePacilian, res.Role)
	assert.Positive(t, res.ExpiresIn)
	assert.LessOrEqual(t, res.ExpiresIn, time.Hour.Milliseconds())

	assert.False(t, env.auth.VerifyToken(ctx, "").Valid)
	assert.False(t, env.auth.VerifyToken(ctx, "garbage").Valid)
}

func TestVerifyTokenExpired(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.RegisterPacilian(ctx, pacilianRequest("budi@example.com", "3171234567890001"))
	require.NoError(t, err)
	user, _ := env.login(t, "budi@example.com")

	env.tokens.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	stale, _, err := env.tokens.GenerateToken(user)
	require.NoError(t, err)
	env.tokens.now = time.Now

	_, _, err = env.auth.Authenticate(ctx, stale)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.False(t, env.auth.VerifyToken(ctx, stale).Valid)
}

func TestVerifyTokenUserGone(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	reg, err := env.auth.RegisterPacilian(ctx, pacilianRequest("budi@example.com", "3171234567890001"))
	require.NoError(t, err)
	_, token := env.login(t, "budi@example.com")

	require.NoError(t, env.repos.Users.Delete(ctx, reg.ID))

	_, _, err = env.auth.Authenticate(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogoutRevokesToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.RegisterPacilian(ctx, pacilianRequest("budi@example.com", "3171234567890001"))
	require.NoError(t, err)
	_, token := env.login(t, "budi@example.com")
	_, other := env.login(t, "budi@example.com")

	require.NoError(t, env.auth.Logout(ctx, token))

	assert.False(t, env.auth.VerifyToken(ctx, token).Valid)
	assert.True(t, env.auth.VerifyToken(ctx, other).Valid)
}

func TestLogoutIgnoresMissingOrInvalidToken(t *testing.T) {
	env := newTestEnv(t)

	assert.NoError(t, env.auth.Logout(context.Background(), ""))
	assert.NoError(t, env.auth.Logout(context.Background(), "not.a.token"))
}
