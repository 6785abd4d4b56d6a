package service

import (
	"github.com/MSSkowron/CareAuth/internal/dto"
	"github.com/MSSkowron/CareAuth/internal/model"
)

func scheduleDTOs(schedules []*model.WorkingSchedule) []dto.WorkingScheduleDTO {
	result := make([]dto.WorkingScheduleDTO, 0, len(schedules))
	for _, ws := range schedules {
		choices := make([]dto.TimeChoiceDTO, 0, len(ws.TimeChoices))
		for _, tc := range ws.TimeChoices {
			choices = append(choices, dto.TimeChoiceDTO{ID: tc.ID, StartTime: tc.StartTime, EndTime: tc.EndTime})
		}
		result = append(result, dto.WorkingScheduleDTO{ID: ws.ID, DayOfWeek: ws.DayOfWeek, TimeChoices: choices})
	}
	return result
}

// scheduleModels checks that every slot ends after it starts and that no day repeats.
func scheduleModels(schedules []dto.WorkingScheduleDTO) ([]*model.WorkingSchedule, error) {
	seen := make(map[model.DayOfWeek]struct{}, len(schedules))
	result := make([]*model.WorkingSchedule, 0, len(schedules))
	for _, s := range schedules {
		if _, dup := seen[s.DayOfWeek]; dup {
			return nil, NewRequestError("Duplicate working schedule for %s", s.DayOfWeek)
		}
		seen[s.DayOfWeek] = struct{}{}

		if len(s.TimeChoices) == 0 {
			return nil, NewRequestError("Working schedule for %s needs at least one time choice", s.DayOfWeek)
		}

		ws := &model.WorkingSchedule{DayOfWeek: s.DayOfWeek}
		for _, c := range s.TimeChoices {
			tc := &model.TimeChoice{StartTime: c.StartTime, EndTime: c.EndTime}
			start, end, err := tc.Bounds()
			if err != nil {
				return nil, NewRequestError("Invalid time choice on %s: times must use HH:mm", s.DayOfWeek)
			}
			if !start.Before(end) {
				return nil, NewRequestError("Start time %s must be before end time %s on %s", c.StartTime, c.EndTime, s.DayOfWeek)
			}
			ws.AddTimeChoice(tc)
		}
		result = append(result, ws)
	}
	return result, nil
}
