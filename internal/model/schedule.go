package model

import (
	"fmt"
	"strings"
	"time"
)

// ClockLayout is the format of TimeChoice start and end times.
const ClockLayout = "15:04"

// DayOfWeek is an upper-case English weekday name.
type DayOfWeek string

const (
	Monday    DayOfWeek = "MONDAY"
	Tuesday   DayOfWeek = "TUESDAY"
	Wednesday DayOfWeek = "WEDNESDAY"
	Thursday  DayOfWeek = "THURSDAY"
	Friday    DayOfWeek = "FRIDAY"
	Saturday  DayOfWeek = "SATURDAY"
	Sunday    DayOfWeek = "SUNDAY"
)

// DaysOfWeek lists the weekdays starting on Monday.
var DaysOfWeek = []DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Valid reports whether d is one of DaysOfWeek.
func (d DayOfWeek) Valid() bool {
	for _, day := range DaysOfWeek {
		if d == day {
			return true
		}
	}
	return false
}

// ParseDayOfWeek converts value into a DayOfWeek, ignoring case.
func ParseDayOfWeek(value string) (DayOfWeek, error) {
	v := strings.ToUpper(strings.TrimSpace(value))
	for _, d := range DaysOfWeek {
		if string(d) == v {
			return d, nil
		}
	}
	return "", fmt.Errorf("invalid day of week: %q", value)
}

// WorkingSchedule is the set of consultation slots a caregiver offers on one weekday.
type WorkingSchedule struct {
	ID          string        `db:"id" json:"id"`
	CaregiverID string        `db:"caregiver_id" json:"caregiverId"`
	DayOfWeek   DayOfWeek     `db:"day_of_week" json:"dayOfWeek"`
	TimeChoices []*TimeChoice `db:"-" json:"timeChoices"`
}

// AddTimeChoice appends choice and links it back to the schedule. Nil is ignored.
func (ws *WorkingSchedule) AddTimeChoice(choice *TimeChoice) {
	if choice == nil {
		return
	}
	choice.WorkingScheduleID = ws.ID
	ws.TimeChoices = append(ws.TimeChoices, choice)
}

// RemoveTimeChoice removes choice from the schedule. Nil or an unknown choice is a no-op.
func (ws *WorkingSchedule) RemoveTimeChoice(choice *TimeChoice) {
	if choice == nil {
		return
	}
	for i, c := range ws.TimeChoices {
		if c == choice || (c.ID != "" && c.ID == choice.ID) {
			ws.TimeChoices = append(ws.TimeChoices[:i], ws.TimeChoices[i+1:]...)
			choice.WorkingScheduleID = ""
			return
		}
	}
}

// TimeChoice is a single bookable slot within a working schedule.
type TimeChoice struct {
	ID                string `db:"id" json:"id"`
	WorkingScheduleID string `db:"working_schedule_id" json:"-"`
	StartTime         string `db:"start_time" json:"startTime"`
	EndTime           string `db:"end_time" json:"endTime"`
}

// ParseClock parses a zero-padded "HH:mm" time. Stored times sort lexically, so "9:00" is rejected.
func ParseClock(value string) (time.Time, error) {
	t, err := time.Parse(ClockLayout, value)
	if err != nil {
		return time.Time{}, err
	}
	if t.Format(ClockLayout) != value {
		return time.Time{}, fmt.Errorf("clock %q is not in HH:mm form", value)
	}
	return t, nil
}

// Bounds parses the start and end clock times.
func (tc *TimeChoice) Bounds() (time.Time, time.Time, error) {
	start, err := ParseClock(tc.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start time %q: %w", tc.StartTime, err)
	}
	end, err := ParseClock(tc.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end time %q: %w", tc.EndTime, err)
	}
	return start, end, nil
}

// ConsultationHistory records a past consultation between a pacilian and a caregiver.
type ConsultationHistory struct {
	ID               string    `db:"id" json:"id"`
	PacilianID       string    `db:"pacilian_id" json:"pacilianId"`
	CaregiverID      string    `db:"caregiver_id" json:"caregiverId"`
	ConsultationTime time.Time `db:"consultation_time" json:"consultationTime"`
	Note             string    `db:"note" json:"note"`
}
