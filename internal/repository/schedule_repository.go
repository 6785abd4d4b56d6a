package repository

import (
	"context"
	"fmt"

	"github.com/MSSkowron/CareAuth/internal/database"
	"github.com/MSSkowron/CareAuth/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const weekdayOrder = "array_position(ARRAY['MONDAY','TUESDAY','WEDNESDAY','THURSDAY','FRIDAY','SATURDAY','SUNDAY']::varchar[], ws.day_of_week)"

// ScheduleRepositoryImpl implements the ScheduleRepository interface.
type ScheduleRepositoryImpl struct {
	db database.Database
}

// NewScheduleRepository creates a new ScheduleRepositoryImpl instance with the provided database.
func NewScheduleRepository(db database.Database) *ScheduleRepositoryImpl {
	return &ScheduleRepositoryImpl{db: db}
}

func (sr *ScheduleRepositoryImpl) FindByCaregiverID(ctx context.Context, caregiverID string) ([]*model.WorkingSchedule, error) {
	q := database.GetQueryable(ctx, sr.db)

	schedules := make([]*model.WorkingSchedule, 0)
	query := "SELECT ws.id, ws.caregiver_id, ws.day_of_week FROM working_schedules ws WHERE ws.caregiver_id = $1 ORDER BY " + weekdayOrder
	if err := q.SelectContext(ctx, &schedules, query, caregiverID); err != nil {
		return nil, fmt.Errorf("failed to get working schedules: %w", err)
	}
	if len(schedules) == 0 {
		return schedules, nil
	}

	ids := make([]string, 0, len(schedules))
	byID := make(map[string]*model.WorkingSchedule, len(schedules))
	for _, ws := range schedules {
		ws.TimeChoices = make([]*model.TimeChoice, 0)
		ids = append(ids, ws.ID)
		byID[ws.ID] = ws
	}

	choicesQuery, args, err := sqlx.In("SELECT id, working_schedule_id, start_time, end_time FROM time_choices WHERE working_schedule_id IN (?) ORDER BY start_time, id", ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build time choices query: %w", err)
	}

	choices := make([]*model.TimeChoice, 0)
	if err := q.SelectContext(ctx, &choices, sqlx.Rebind(sqlx.DOLLAR, choicesQuery), args...); err != nil {
		return nil, fmt.Errorf("failed to get time choices: %w", err)
	}
	for _, tc := range choices {
		if ws, ok := byID[tc.WorkingScheduleID]; ok {
			ws.AddTimeChoice(tc)
		}
	}

	return schedules, nil
}

// ReplaceForCaregiver must run inside a transaction for the replacement to be atomic.
func (sr *ScheduleRepositoryImpl) ReplaceForCaregiver(ctx context.Context, caregiverID string, schedules []*model.WorkingSchedule) error {
	q := database.GetQueryable(ctx, sr.db)

	if _, err := q.ExecContext(ctx, "DELETE FROM working_schedules WHERE caregiver_id = $1", caregiverID); err != nil {
		return fmt.Errorf("failed to delete working schedules: %w", err)
	}

	for _, ws := range schedules {
		if ws.ID == "" {
			ws.ID = uuid.NewString()
		}
		ws.CaregiverID = caregiverID

		if _, err := q.ExecContext(ctx, "INSERT INTO working_schedules (id, caregiver_id, day_of_week) VALUES ($1, $2, $3)",
			ws.ID, ws.CaregiverID, ws.DayOfWeek); err != nil {
			return fmt.Errorf("failed to add working schedule: %w", mapError(err))
		}

		for _, tc := range ws.TimeChoices {
			if tc.ID == "" {
				tc.ID = uuid.NewString()
			}
			tc.WorkingScheduleID = ws.ID

			if _, err := q.ExecContext(ctx, "INSERT INTO time_choices (id, working_schedule_id, start_time, end_time) VALUES ($1, $2, $3, $4)",
				tc.ID, tc.WorkingScheduleID, tc.StartTime, tc.EndTime); err != nil {
				return fmt.Errorf("failed to add time choice: %w", err)
			}
		}
	}

	return nil
}
