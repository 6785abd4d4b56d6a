package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	// postgres driver
	_ "github.com/lib/pq"
)

// Queryable is implemented by both *sqlx.DB and *sqlx.Tx.
type Queryable interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	QueryRowxContext(ctx context.Context, query string, args ...any) *sqlx.Row
}

// Database is a pooled SQL connection able to start transactions.
type Database interface {
	Queryable
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
	PingContext(ctx context.Context) error
	Close() error
}

// PostgresDatabase implements the Database interface for PostgreSQL.
type PostgresDatabase struct {
	*sqlx.DB
}

// NewPostgresDatabase creates a new PostgresDatabase instance with the connection string and context.
// It establishes a connection to the PostgreSQL database and verifies its availability.
func NewPostgresDatabase(ctx context.Context, connectionString string) (*PostgresDatabase, error) {
	db, err := sqlx.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to check database connection: %w", err)
	}

	return &PostgresDatabase{
		DB: db,
	}, nil
}

// Close closes the database connection.
func (pdb *PostgresDatabase) Close() error {
	if err := pdb.DB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	return nil
}
