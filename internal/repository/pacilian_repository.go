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

// PacilianRepositoryImpl implements the PacilianRepository interface.
type PacilianRepositoryImpl struct {
	db database.Database
}

// NewPacilianRepository creates a new PacilianRepositoryImpl instance with the provided database.
func NewPacilianRepository(db database.Database) *PacilianRepositoryImpl {
	return &PacilianRepositoryImpl{db: db}
}

func (pr *PacilianRepositoryImpl) Create(ctx context.Context, pacilian *model.Pacilian) error {
	q := database.GetQueryable(ctx, pr.db)
	pacilian.Role = model.RolePacilian

	if err := insertUser(ctx, q, &pacilian.User); err != nil {
		return err
	}

	if _, err := q.ExecContext(ctx, "INSERT INTO pacilians (id, medical_history) VALUES ($1, $2)",
		pacilian.ID, pacilian.MedicalHistory); err != nil {
		return fmt.Errorf("failed to add pacilian: %w", mapError(err))
	}
	return nil
}

func (pr *PacilianRepositoryImpl) Update(ctx context.Context, pacilian *model.Pacilian) error {
	q := database.GetQueryable(ctx, pr.db)

	if err := updateUser(ctx, q, &pacilian.User); err != nil {
		return err
	}

	res, err := q.ExecContext(ctx, "UPDATE pacilians SET medical_history = $2 WHERE id = $1", pacilian.ID, pacilian.MedicalHistory)
	if err != nil {
		return fmt.Errorf("failed to update pacilian: %w", err)
	}
	return expectRow(res, "failed to update pacilian")
}

func (pr *PacilianRepositoryImpl) FindByID(ctx context.Context, id string) (mo.Option[*model.Pacilian], error) {
	query := "SELECT " + userColumns + ", p.medical_history FROM users u JOIN pacilians p ON p.id = u.id WHERE u.id = $1"

	pacilian := &model.Pacilian{}
	if err := database.GetQueryable(ctx, pr.db).GetContext(ctx, pacilian, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mo.None[*model.Pacilian](), nil
		}
		return mo.None[*model.Pacilian](), fmt.Errorf("failed to get pacilian by ID: %w", err)
	}
	return mo.Some(pacilian), nil
}

func (pr *PacilianRepositoryImpl) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, database.GetQueryable(ctx, pr.db), "pacilians", id)
}
