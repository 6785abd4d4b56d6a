package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/MSSkowron/CareAuth/pkg/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MigrationsDir is the directory of the embedded migrations.
const MigrationsDir = "migrations"

// MigrationsFS returns the embedded migration files.
func MigrationsFS() fs.FS {
	return migrationsFS
}

// Migrator applies schema migrations.
type Migrator interface {
	Up(ctx context.Context) error
}

// SQLMigrator executes *.up.sql files in lexical order, each at most once.
// Applied files are recorded in the schema_migrations table.
type SQLMigrator struct {
	db  Database
	fs  fs.FS
	dir string
}

// NewSQLMigrator builds a migrator that runs SQL statements from dir in f.
func NewSQLMigrator(db Database, f fs.FS, dir string) *SQLMigrator {
	return &SQLMigrator{db: db, fs: f, dir: dir}
}

// Up applies every pending migration, each inside its own transaction.
func (m *SQLMigrator) Up(ctx context.Context) error {
	if m.db == nil || m.fs == nil || m.dir == "" {
		return errors.New("sql migrator requires a database, a filesystem and a path")
	}

	if _, err := m.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		name VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`); err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	entries, err := fs.ReadDir(m.fs, m.dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations dir: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	tm := NewTransactionManager(m.db)
	applied := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".up.sql") {
			continue
		}

		var count int
		if err := m.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM schema_migrations WHERE name = $1", name); err != nil {
			return fmt.Errorf("failed to check migration %s: %w", name, err)
		}
		if count > 0 {
			continue
		}

		contents, err := fs.ReadFile(m.fs, path.Join(m.dir, name))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}

		err = tm.WithTransaction(ctx, func(ctx context.Context) error {
			q := GetQueryable(ctx, m.db)
			for i, stmt := range SplitStatements(string(contents)) {
				if _, err := q.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("exec %s [%d]: %w", name, i+1, err)
				}
			}
			_, err := q.ExecContext(ctx, "INSERT INTO schema_migrations (name) VALUES ($1)", name)
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", name, err)
		}

		applied++
		logger.Info(fmt.Sprintf("Migration applied [%s]", name))
	}

	if applied == 0 {
		logger.Info("No migrations to run")
	}
	return nil
}

// SplitStatements splits a SQL script on semicolons, dropping empty statements and comment lines.
func SplitStatements(script string) []string {
	var b strings.Builder
	for _, line := range strings.Split(script, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	raw := strings.Split(b.String(), ";")
	out := make([]string, 0, len(raw))
	for _, stmt := range raw {
		if trimmed := strings.TrimSpace(stmt); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
