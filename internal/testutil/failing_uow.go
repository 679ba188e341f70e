package testutil

import (
	"context"
	"database/sql"
	"sync/atomic"

	"github.com/alexanderramin/studyplan/internal/db"
)

// FailingBatchUoW runs each batch in a real transaction and fails the
// FailOn-th statement written inside it, counting from 1. Reads pass
// through uncounted. The failed batch is rolled back as a whole.
type FailingBatchUoW struct {
	DB     *sql.DB
	FailOn int
	Err    error

	writes atomic.Int32
}

// Writes reports how many statements reached the transaction, the failing
// one included.
func (u *FailingBatchUoW) Writes() int { return int(u.writes.Load()) }

func (u *FailingBatchUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return db.NewSQLiteUnitOfWork(u.DB).WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &countingTx{DBTX: tx, batch: u})
	})
}

type countingTx struct {
	db.DBTX
	batch *FailingBatchUoW
}

func (c *countingTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if int(c.batch.writes.Add(1)) == c.batch.FailOn {
		return nil, c.batch.Err
	}
	return c.DBTX.ExecContext(ctx, query, args...)
}
