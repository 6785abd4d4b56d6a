package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type level string

func (l level) Valid() bool {
	return l == "low" || l == "high"
}

type slot struct {
	Start string `json:"startTime" validate:"required,clock" messages:"required:Start time is required"`
}

type sample struct {
	Email string  `json:"email" validate:"required,email" messages:"required:Email is required|email:Invalid email format"`
	NIK   string  `json:"nik" validate:"required,nik" messages:"required:NIK is required|nik:NIK must be 16 digits"`
	Phone string  `json:"phoneNumber" validate:"omitempty,phone" messages:"phone:Phone number must be 10-13 digits"`
	Level level   `json:"level" validate:"omitempty,valid"`
	Slots []*slot `json:"slots" validate:"dive"`
}

func TestStruct(t *testing.T) {
	data := []struct {
		name     string
		input    *sample
		expected map[string]string
	}{
		{
			name:  "valid",
			input: &sample{Email: "a@b.co", NIK: "1234567890123456", Phone: "081234567890", Level: "low"},
		},
		{
			name:  "missing required fields",
			input: &sample{},
			expected: map[string]string{
				"email": "Email is required",
				"nik":   "NIK is required",
			},
		},
		{
			name:  "bad formats",
			input: &sample{Email: "not-an-email", NIK: "123", Phone: "12ab"},
			expected: map[string]string{
				"email":       "Invalid email format",
				"nik":         "NIK must be 16 digits",
				"phoneNumber": "Phone number must be 10-13 digits",
			},
		},
		{
			name:  "invalid enum falls back to default message",
			input: &sample{Email: "a@b.co", NIK: "1234567890123456", Level: "medium"},
			expected: map[string]string{
				"level": "level is invalid",
			},
		},
		{
			name:  "nested slice",
			input: &sample{Email: "a@b.co", NIK: "1234567890123456", Slots: []*slot{{Start: "09:00"}, {}}},
			expected: map[string]string{
				"slots[1].startTime": "Start time is required",
			},
		},
		{
			name:  "clock must be zero padded",
			input: &sample{Email: "a@b.co", NIK: "1234567890123456", Slots: []*slot{{Start: "9:00"}, {Start: "24:00"}, {Start: "23:59"}}},
			expected: map[string]string{
				"slots[0].startTime": "startTime is invalid",
				"slots[1].startTime": "startTime is invalid",
			},
		},
	}

	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			err := Struct(d.input)
			if d.expected == nil {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, ErrValidation)

			var vErr *Error
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, d.expected, vErr.Fields)
		})
	}
}

func TestErrorMessageIsSorted(t *testing.T) {
	err := &Error{Fields: map[string]string{"b": "second", "a": "first"}}
	assert.Equal(t, "validation failed: a: first; b: second", err.Error())
}
