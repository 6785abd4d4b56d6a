package database

import (
	"context"
	"fmt"

	"github.com/MSSkowron/CareAuth/pkg/logger"
	"github.com/jmoiron/sqlx"
)

type contextKey string

const contextKeyTx = contextKey("tx")

// WithTx stores tx in the context.
func WithTx(ctx context.Context, tx *sqlx.Tx) context.Context {
	return context.WithValue(ctx, contextKeyTx, tx)
}

// TxFromContext returns the transaction stored in ctx, if any.
func TxFromContext(ctx context.Context) (*sqlx.Tx, bool) {
	tx, ok := ctx.Value(contextKeyTx).(*sqlx.Tx)
	return tx, ok && tx != nil
}

// GetQueryable returns the transaction carried by ctx, falling back to db.
// Repositories call it for every statement so they join an open transaction.
func GetQueryable(ctx context.Context, db Database) Queryable {
	if tx, ok := TxFromContext(ctx); ok {
		return tx
	}
	return db
}

// TxManager runs a function inside a transaction.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// TransactionManager implements TxManager on top of a Database.
type TransactionManager struct {
	db Database
}

// NewTransactionManager creates a new TransactionManager.
func NewTransactionManager(db Database) *TransactionManager {
	return &TransactionManager{db: db}
}

// WithTransaction runs fn in a transaction which is committed when fn returns nil and rolled back otherwise.
// A call made while a transaction is already open joins it.
func (tm *TransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := TxFromContext(ctx); ok {
		return fn(ctx)
	}

	tx, err := tm.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				logger.Error(fmt.Sprintf("Failed to rollback transaction after panic: %s", rollbackErr))
			}
			panic(r)
		}
	}()

	if err := fn(WithTx(ctx, tx)); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("transaction failed: %w, rollback failed: %v", err, rollbackErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// NoopTxManager runs fn directly. It backs stores without transactions, such as the in-memory store.
type NoopTxManager struct{}

// WithTransaction calls fn with ctx unchanged.
func (NoopTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
