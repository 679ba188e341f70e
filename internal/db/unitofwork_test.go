package db_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/alexanderramin/studyplan/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ts = "2026-01-05T00:00:00Z"

func openBatchDB(t *testing.T) (*sql.DB, *db.SQLiteUnitOfWork) {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	_, err = database.Exec(`INSERT INTO studies (id, name, created_at, updated_at) VALUES ('s1', 'Study', ?, ?)`, ts, ts)
	require.NoError(t, err)
	for _, id := range []string{"i1", "i2"} {
		_, err = database.Exec(`INSERT INTO budget_line_items (id, study_id, created_at, updated_at) VALUES (?, 's1', ?, ?)`, id, ts, ts)
		require.NoError(t, err)
	}
	return database, db.NewSQLiteUnitOfWork(database)
}

func recruited(t *testing.T, database *sql.DB, id string) sql.NullInt64 {
	t.Helper()
	var n sql.NullInt64
	require.NoError(t, database.QueryRow(`SELECT students_recruited FROM budget_line_items WHERE id = ?`, id).Scan(&n))
	return n
}

func setRecruited(ctx context.Context, tx db.DBTX, id string, n int) error {
	_, err := tx.ExecContext(ctx, `UPDATE budget_line_items SET students_recruited = ? WHERE id = ?`, n, id)
	return err
}

func TestWithinTx_CommitsWholeBatch(t *testing.T) {
	database, uow := openBatchDB(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := setRecruited(ctx, tx, "i1", 2); err != nil {
			return err
		}
		return setRecruited(ctx, tx, "i2", 3)
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2), recruited(t, database, "i1").Int64)
	assert.Equal(t, int64(3), recruited(t, database, "i2").Int64)
}

func TestWithinTx_RollsBackWholeBatchOnError(t *testing.T) {
	database, uow := openBatchDB(t)
	boom := errors.New("second write failed")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := setRecruited(ctx, tx, "i1", 2); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	assert.False(t, recruited(t, database, "i1").Valid, "first write should be rolled back")
}

func TestWithinTx_RollsBackOnPanic(t *testing.T) {
	database, uow := openBatchDB(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = setRecruited(ctx, tx, "i1", 5)
			panic("boom")
		})
	})

	assert.False(t, recruited(t, database, "i1").Valid)
}
