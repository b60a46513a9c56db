package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"

	"github.com/alexanderramin/worklog/internal/db"
)

// FailOnNthExecUoW stands in for the exit transaction and fails its Nth
// write (counting from 1) with Err. The open-session lookup is a read and
// passes through, so FailOn 1 hits the finish/hours update.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int32
	Err    error
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning exit transaction: %w: %w", db.ErrPersistence, err)
	}

	wrapped := &failOnNthExec{DBTX: tx, failOn: u.FailOn, err: u.Err}
	if fnErr := fn(ctx, wrapped); fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing exit transaction: %w: %w", db.ErrPersistence, err)
	}
	return nil
}

// failOnNthExec counts writes across the whole transaction.
type failOnNthExec struct {
	db.DBTX
	count  atomic.Int32
	failOn int32
	err    error
}

func (f *failOnNthExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.count.Add(1) == f.failOn {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
