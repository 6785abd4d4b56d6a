package repository

import (
	"context"
	"fmt"

	"github.com/MSSkowron/CareAuth/internal/database"
	"github.com/MSSkowron/CareAuth/internal/model"
	"github.com/google/uuid"
)

// ConsultationHistoryRepositoryImpl implements the ConsultationHistoryRepository interface.
type ConsultationHistoryRepositoryImpl struct {
	db database.Database
}

// NewConsultationHistoryRepository creates a new ConsultationHistoryRepositoryImpl instance with the provided database.
func NewConsultationHistoryRepository(db database.Database) *ConsultationHistoryRepositoryImpl {
	return &ConsultationHistoryRepositoryImpl{db: db}
}

func (hr *ConsultationHistoryRepositoryImpl) Create(ctx context.Context, history *model.ConsultationHistory) error {
	if history.ID == "" {
		history.ID = uuid.NewString()
	}

	query := `
		INSERT INTO consultation_histories (id, pacilian_id, caregiver_id, consultation_time, note)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := database.GetQueryable(ctx, hr.db).ExecContext(ctx, query,
		history.ID, history.PacilianID, history.CaregiverID, history.ConsultationTime, history.Note); err != nil {
		return fmt.Errorf("failed to add consultation history: %w", err)
	}
	return nil
}

func (hr *ConsultationHistoryRepositoryImpl) FindByPacilianID(ctx context.Context, pacilianID string) ([]*model.ConsultationHistory, error) {
	return hr.find(ctx, "pacilian_id", pacilianID)
}

func (hr *ConsultationHistoryRepositoryImpl) FindByCaregiverID(ctx context.Context, caregiverID string) ([]*model.ConsultationHistory, error) {
	return hr.find(ctx, "caregiver_id", caregiverID)
}

func (hr *ConsultationHistoryRepositoryImpl) find(ctx context.Context, column, id string) ([]*model.ConsultationHistory, error) {
	query := fmt.Sprintf(`
		SELECT id, pacilian_id, caregiver_id, consultation_time, note
		FROM consultation_histories
		WHERE %s = $1
		ORDER BY consultation_time DESC, id
	`, column)

	histories := make([]*model.ConsultationHistory, 0)
	if err := database.GetQueryable(ctx, hr.db).SelectContext(ctx, &histories, query, id); err != nil {
		return nil, fmt.Errorf("failed to get consultation histories: %w", err)
	}
	return histories, nil
}
