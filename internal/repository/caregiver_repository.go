package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MSSkowron/CareAuth/internal/database"
	"github.com/MSSkowron/CareAuth/internal/model"
	"github.com/samber/mo"
)

const caregiverSelect = "SELECT " + userColumns + ", c.speciality, c.work_address FROM users u JOIN caregivers c ON c.id = u.id"

// CaregiverRepositoryImpl implements the CaregiverRepository interface.
type CaregiverRepositoryImpl struct {
	db database.Database
}

// NewCaregiverRepository creates a new CaregiverRepositoryImpl instance with the provided database.
func NewCaregiverRepository(db database.Database) *CaregiverRepositoryImpl {
	return &CaregiverRepositoryImpl{db: db}
}

func (cr *CaregiverRepositoryImpl) Create(ctx context.Context, caregiver *model.Caregiver) error {
	q := database.GetQueryable(ctx, cr.db)
	caregiver.Role = model.RoleCaregiver

	if err := insertUser(ctx, q, &caregiver.User); err != nil {
		return err
	}

	if _, err := q.ExecContext(ctx, "INSERT INTO caregivers (id, speciality, work_address) VALUES ($1, $2, $3)",
		caregiver.ID, caregiver.Speciality, caregiver.WorkAddress); err != nil {
		return fmt.Errorf("failed to add caregiver: %w", mapError(err))
	}
	return nil
}

func (cr *CaregiverRepositoryImpl) Update(ctx context.Context, caregiver *model.Caregiver) error {
	q := database.GetQueryable(ctx, cr.db)

	if err := updateUser(ctx, q, &caregiver.User); err != nil {
		return err
	}

	res, err := q.ExecContext(ctx, "UPDATE caregivers SET speciality = $2, work_address = $3 WHERE id = $1",
		caregiver.ID, caregiver.Speciality, caregiver.WorkAddress)
	if err != nil {
		return fmt.Errorf("failed to update caregiver: %w", err)
	}
	return expectRow(res, "failed to update caregiver")
}

func (cr *CaregiverRepositoryImpl) FindByID(ctx context.Context, id string) (mo.Option[*model.Caregiver], error) {
	caregiver := &model.Caregiver{}
	if err := database.GetQueryable(ctx, cr.db).GetContext(ctx, caregiver, caregiverSelect+" WHERE u.id = $1", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mo.None[*model.Caregiver](), nil
		}
		return mo.None[*model.Caregiver](), fmt.Errorf("failed to get caregiver by ID: %w", err)
	}
	return mo.Some(caregiver), nil
}

func (cr *CaregiverRepositoryImpl) FindAll(ctx context.Context) ([]*model.Caregiver, error) {
	caregivers := make([]*model.Caregiver, 0)
	if err := database.GetQueryable(ctx, cr.db).SelectContext(ctx, &caregivers, caregiverSelect+" ORDER BY u.name, u.id"); err != nil {
		return nil, fmt.Errorf("failed to get all caregivers: %w", err)
	}
	return caregivers, nil
}

func (cr *CaregiverRepositoryImpl) Search(ctx context.Context, name string, speciality mo.Option[model.Speciality]) ([]*model.Caregiver, error) {
	query := caregiverSelect + `
		WHERE ($1 = '' OR POSITION(LOWER($1) IN LOWER(u.name)) > 0)
		AND ($2 = '' OR c.speciality = $2)
		ORDER BY u.name, u.id
	`

	caregivers := make([]*model.Caregiver, 0)
	if err := database.GetQueryable(ctx, cr.db).SelectContext(ctx, &caregivers, query, name, string(speciality.OrEmpty())); err != nil {
		return nil, fmt.Errorf("failed to search caregivers: %w", err)
	}
	return caregivers, nil
}

func (cr *CaregiverRepositoryImpl) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, database.GetQueryable(ctx, cr.db), "caregivers", id)
}
