package database

import (
	"context"
	"errors"
	"io/fs"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func TestSplitStatements(t *testing.T) {
	script := `
-- leading comment
CREATE TABLE a (id INT);

CREATE TABLE b (id INT);
;
`
	require.Equal(t, []string{"CREATE TABLE a (id INT)", "CREATE TABLE b (id INT)"}, SplitStatements(script))
	require.Empty(t, SplitStatements("-- only a comment\n"))
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(MigrationsFS(), MigrationsDir)
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	require.Equal(t, []string{
		"0001_users.up.sql",
		"0002_schedules.up.sql",
		"0003_consultation_histories.up.sql",
	}, names)

	for _, name := range names {
		contents, err := fs.ReadFile(MigrationsFS(), MigrationsDir+"/"+name)
		require.NoError(t, err)
		require.NotEmpty(t, SplitStatements(string(contents)), name)
	}
}

func TestTxFromContext(t *testing.T) {
	_, ok := TxFromContext(context.Background())
	require.False(t, ok)

	tx := &sqlx.Tx{}
	got, ok := TxFromContext(WithTx(context.Background(), tx))
	require.True(t, ok)
	require.Same(t, tx, got)

	_, ok = TxFromContext(WithTx(context.Background(), nil))
	require.False(t, ok)
}

func TestWithTransactionJoinsOpenTransaction(t *testing.T) {
	// A nil database would panic if a new transaction were started.
	tm := NewTransactionManager(nil)
	ctx := WithTx(context.Background(), &sqlx.Tx{})

	called := false
	err := tm.WithTransaction(ctx, func(inner context.Context) error {
		called = true
		_, ok := TxFromContext(inner)
		require.True(t, ok)
		return nil
	})
	require.NoError(t, err)
	require.True(t, called)
}

func TestNoopTxManager(t *testing.T) {
	errBoom := errors.New("boom")

	err := NoopTxManager{}.WithTransaction(context.Background(), func(context.Context) error {
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)
}

func TestSQLMigratorRequiresDependencies(t *testing.T) {
	require.Error(t, NewSQLMigrator(nil, MigrationsFS(), MigrationsDir).Up(context.Background()))
}
