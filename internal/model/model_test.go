package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainsRole(t *testing.T) {
	data := []struct {
		value string
		valid bool
	}{
		{"PACILIAN", true},
		{"CAREGIVER", true},
		{"", false},
		{"ADMIN", false},
		{"pacilian", false},
	}

	for _, d := range data {
		t.Run(d.value, func(t *testing.T) {
			assert.Equal(t, d.valid, ContainsRole(d.value))

			role, err := ParseRole(d.value)
			if d.valid {
				require.NoError(t, err)
				assert.Equal(t, d.value, role.Value())
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestRoleAuthority(t *testing.T) {
	assert.Equal(t, "ROLE_PACILIAN", RolePacilian.Authority())
	assert.Equal(t, "ROLE_CAREGIVER", RoleCaregiver.Authority())
	assert.Equal(t, "CAREGIVER", RoleCaregiver.Value())
}

func TestParseSpeciality(t *testing.T) {
	data := []struct {
		name     string
		input    string
		expected Speciality
		wantErr  bool
	}{
		{"display name", "Dokter Umum", SpecialityDokterUmum, false},
		{"display name lower case", "spesialis anak", SpecialitySpesialisAnak, false},
		{"constant name", "SPESIALIS_KULIT", SpecialitySpesialisKulit, false},
		{"padded", "  Spesialis Penyakit Dalam ", SpecialitySpesialisPenyakitDalam, false},
		{"unknown", "Dukun", "", true},
		{"empty", "", "", true},
	}

	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			s, err := ParseSpeciality(d.input)
			if d.wantErr {
				require.ErrorIs(t, err, ErrInvalidSpeciality)
				return
			}
			require.NoError(t, err)
			require.Equal(t, d.expected, s)
		})
	}
}

func TestSpecialityJSON(t *testing.T) {
	var payload struct {
		Speciality Speciality `json:"speciality"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"speciality":"Spesialis Anak"}`), &payload))
	require.Equal(t, SpecialitySpesialisAnak, payload.Speciality)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	require.JSONEq(t, `{"speciality":"SPESIALIS_ANAK"}`, string(out))

	require.Error(t, json.Unmarshal([]byte(`{"speciality":"Astrologer"}`), &payload))
}

func TestSpecialityNames(t *testing.T) {
	assert.Equal(t, "[DOKTER_UMUM, SPESIALIS_ANAK, SPESIALIS_KULIT, SPESIALIS_PENYAKIT_DALAM]", SpecialityNames())
}

func TestUserEnsureID(t *testing.T) {
	u := &User{}
	u.EnsureID()
	require.Len(t, u.ID, 36)

	id := u.ID
	u.EnsureID()
	require.Equal(t, id, u.ID)
}

func TestUserPasswordNotSerialised(t *testing.T) {
	out, err := json.Marshal(User{Email: "a@b.c", Password: "hash"})
	require.NoError(t, err)
	require.NotContains(t, string(out), "hash")
}

func TestNewPacilianAndCaregiverFixRole(t *testing.T) {
	p := NewPacilian(User{Role: RoleCaregiver}, "asthma")
	require.Equal(t, RolePacilian, p.Role)
	require.Equal(t, "asthma", p.MedicalHistory)

	c := NewCaregiver(User{}, SpecialityDokterUmum, "Depok")
	require.Equal(t, RoleCaregiver, c.Role)
	require.Equal(t, SpecialityDokterUmum, c.Speciality)
}

func TestWorkingScheduleTimeChoices(t *testing.T) {
	ws := &WorkingSchedule{ID: "ws-1", DayOfWeek: Monday}
	tc := &TimeChoice{ID: "tc-1", StartTime: "09:00", EndTime: "10:00"}

	ws.AddTimeChoice(nil)
	require.Empty(t, ws.TimeChoices)

	ws.AddTimeChoice(tc)
	require.Len(t, ws.TimeChoices, 1)
	require.Equal(t, "ws-1", tc.WorkingScheduleID)

	ws.RemoveTimeChoice(&TimeChoice{ID: "other"})
	require.Len(t, ws.TimeChoices, 1)

	ws.RemoveTimeChoice(nil)
	ws.RemoveTimeChoice(tc)
	require.Empty(t, ws.TimeChoices)
	require.Empty(t, tc.WorkingScheduleID)
}

func TestTimeChoiceBounds(t *testing.T) {
	start, end, err := (&TimeChoice{StartTime: "08:30", EndTime: "12:00"}).Bounds()
	require.NoError(t, err)
	require.True(t, start.Before(end))

	_, _, err = (&TimeChoice{StartTime: "8am", EndTime: "12:00"}).Bounds()
	require.Error(t, err)

	_, _, err = (&TimeChoice{StartTime: "9:00", EndTime: "10:00"}).Bounds()
	require.Error(t, err)
}

func TestParseClock(t *testing.T) {
	for _, valid := range []string{"00:00", "09:05", "23:59"} {
		_, err := ParseClock(valid)
		assert.NoError(t, err, valid)
	}
	for _, invalid := range []string{"9:00", "09:5", "24:00", "0900", " 09:00", ""} {
		_, err := ParseClock(invalid)
		assert.Error(t, err, invalid)
	}
}

func TestParseDayOfWeek(t *testing.T) {
	d, err := ParseDayOfWeek("friday")
	require.NoError(t, err)
	require.Equal(t, Friday, d)

	_, err = ParseDayOfWeek("FUNDAY")
	require.Error(t, err)
}
