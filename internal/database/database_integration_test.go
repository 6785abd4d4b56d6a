//go:build integration

package database

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestDatabase(t *testing.T) *PostgresDatabase {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := NewPostgresDatabase(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func TestSQLMigratorUpIsIdempotent(t *testing.T) {
	db := openTestDatabase(t)
	ctx := context.Background()

	migrator := NewSQLMigrator(db, MigrationsFS(), MigrationsDir)
	require.NoError(t, migrator.Up(ctx))
	require.NoError(t, migrator.Up(ctx))

	var count int
	require.NoError(t, db.GetContext(ctx, &count, "SELECT COUNT(*) FROM schema_migrations"))
	require.GreaterOrEqual(t, count, 3)
}

func TestTransactionManagerRollback(t *testing.T) {
	db := openTestDatabase(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS tx_check (id INT PRIMARY KEY)")
	require.NoError(t, err)
	t.Cleanup(func() { _, _ = db.ExecContext(ctx, "DROP TABLE tx_check") })

	errBoom := errors.New("boom")
	tm := NewTransactionManager(db)
	err = tm.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := GetQueryable(ctx, db).ExecContext(ctx, "INSERT INTO tx_check (id) VALUES (1)"); err != nil {
			return err
		}
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	var count int
	require.NoError(t, db.GetContext(ctx, &count, "SELECT COUNT(*) FROM tx_check"))
	require.Zero(t, count)

	require.NoError(t, tm.WithTransaction(ctx, func(ctx context.Context) error {
		_, err := GetQueryable(ctx, db).ExecContext(ctx, "INSERT INTO tx_check (id) VALUES (2)")
		return err
	}))
	require.NoError(t, db.GetContext(ctx, &count, "SELECT COUNT(*) FROM tx_check"))
	require.Equal(t, 1, count)
}
