package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MSSkowron/CareAuth/internal/database"
	"github.com/MSSkowron/CareAuth/internal/model"
	"github.com/lib/pq"
	"github.com/samber/mo"
)

const (
	userColumns = "u.id, u.email, u.password, u.name, u.nik, u.address, u.phone_number, u.role, u.created_at, u.updated_at"

	pqUniqueViolation = "23505"
)

// UserRepositoryImpl implements the UserRepository interface.
type UserRepositoryImpl struct {
	db database.Database
}

// NewUserRepository creates a new UserRepositoryImpl instance with the provided database.
func NewUserRepository(db database.Database) *UserRepositoryImpl {
	return &UserRepositoryImpl{
		db: db,
	}
}

func (ur *UserRepositoryImpl) FindByID(ctx context.Context, id string) (mo.Option[*model.User], error) {
	query := "SELECT " + userColumns + " FROM users u WHERE u.id = $1"
	return ur.findOne(ctx, "failed to get user by ID", query, id)
}

func (ur *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (mo.Option[*model.User], error) {
	query := "SELECT " + userColumns + " FROM users u WHERE u.email = $1"
	return ur.findOne(ctx, "failed to get user by email", query, email)
}

func (ur *UserRepositoryImpl) findOne(ctx context.Context, errMsg, query string, args ...any) (mo.Option[*model.User], error) {
	user := &model.User{}
	if err := database.GetQueryable(ctx, ur.db).GetContext(ctx, user, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mo.None[*model.User](), nil
		}
		return mo.None[*model.User](), fmt.Errorf("%s: %w", errMsg, err)
	}
	return mo.Some(user), nil
}

func (ur *UserRepositoryImpl) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return ur.exists(ctx, "SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)", email)
}

func (ur *UserRepositoryImpl) ExistsByNIK(ctx context.Context, nik string) (bool, error) {
	return ur.exists(ctx, "SELECT EXISTS (SELECT 1 FROM users WHERE nik = $1)", nik)
}

func (ur *UserRepositoryImpl) exists(ctx context.Context, query string, arg any) (bool, error) {
	var exists bool
	if err := database.GetQueryable(ctx, ur.db).GetContext(ctx, &exists, query, arg); err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return exists, nil
}

func (ur *UserRepositoryImpl) Update(ctx context.Context, user *model.User) error {
	return updateUser(ctx, database.GetQueryable(ctx, ur.db), user)
}

func (ur *UserRepositoryImpl) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, database.GetQueryable(ctx, ur.db), "users", id)
}

func insertUser(ctx context.Context, q database.Queryable, user *model.User) error {
	user.EnsureID()
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now

	query := `
		INSERT INTO users (id, email, password, name, nik, address, phone_number, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	if _, err := q.ExecContext(ctx, query, user.ID, user.Email, user.Password, user.Name, user.NIK,
		user.Address, user.PhoneNumber, user.Role, user.CreatedAt, user.UpdatedAt); err != nil {
		return fmt.Errorf("failed to add user: %w", mapError(err))
	}
	return nil
}

func updateUser(ctx context.Context, q database.Queryable, user *model.User) error {
	user.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE users
		SET password = $2, name = $3, address = $4, phone_number = $5, updated_at = $6
		WHERE id = $1
	`
	res, err := q.ExecContext(ctx, query, user.ID, user.Password, user.Name, user.Address, user.PhoneNumber, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", mapError(err))
	}
	return expectRow(res, "failed to update user")
}

func deleteByID(ctx context.Context, q database.Queryable, table, id string) error {
	res, err := q.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	return expectRow(res, "failed to delete from "+table)
}

func expectRow(res sql.Result, errMsg string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", errMsg, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", errMsg, ErrNotFound)
	}
	return nil
}

// mapError turns unique violations into ErrDuplicate.
func mapError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		return fmt.Errorf("%w: %s", ErrDuplicate, pqErr.Constraint)
	}
	return err
}
